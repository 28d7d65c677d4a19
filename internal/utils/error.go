package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

func ConvertPanicValueToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("%#v", v)
}

// CombineErrors combines errors into a single error with a multiline message, nil errors are ignored.
func CombineErrors(errs ...error) error {
	finalErrBuff := bytes.NewBuffer(nil)

	for _, err := range errs {
		if err != nil {
			finalErrBuff.WriteString(err.Error())
			finalErrBuff.WriteRune('\n')
		}
	}

	if finalErrBuff.Len() == 0 {
		return nil
	}
	return errors.New(strings.TrimRight(finalErrBuff.String(), "\n"))
}

func Must[T any](obj T, err error) T {
	if err != nil {
		panic(err)
	}
	return obj
}
