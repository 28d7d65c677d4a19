package core

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/sparvlang/sparv/internal/parse"
)

// callNativeFunction calls a native function with evaluated arguments, the number of arguments has been
// checked by the parser.
func callNativeFunction(fn *parse.NativeFunction, args []Value, state *TreeWalkState) (Value, error) {
	switch fn.Id {
	case parse.PrintFn:
		_, err := fmt.Fprintln(state.out, Stringify(args[0]))
		if err != nil {
			return nil, errorf(ErrNativeFunctionIO, "print(): %s", err)
		}
		return args[0], nil
	case parse.LenFn:
		switch v := args[0].(type) {
		case *List:
			return Number(v.Len()), nil
		case String:
			return Number(v.RuneCount()), nil
		case *Object:
			return Number(v.Len()), nil
		}
		return nil, errorf(ErrTypeError, "len(): a %s has no length, only lists, strings and objects have one", args[0].TypeName())
	case parse.TypeofFn:
		return String(args[0].TypeName()), nil
	case parse.ParseFn:
		s, ok := args[0].(String)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "string", args[0]))
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, errorf(ErrInvalidArgument, "parse(): '%s' is not a number", s)
		}
		return Number(f), nil
	case parse.SplitFn:
		sep, ok := args[1].(String)
		if !ok {
			return nil, errorf(ErrTypeError, "split(): the separator should be a string but is a %s", args[1].TypeName())
		}
		return split(Stringify(args[0]), string(sep)), nil
	case parse.LinesFn:
		s, ok := args[0].(String)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "string", args[0]))
		}
		var lines []string
		for _, line := range strings.Split(string(s), "\n") {
			line = strings.TrimSuffix(line, "\r")
			if line != "" {
				lines = append(lines, line)
			}
		}
		return NewWrappedStringList(lines...), nil
	case parse.ReadFileFn:
		path, ok := args[0].(String)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "string", args[0]))
		}
		if state.filesystem == nil {
			return nil, errorf(ErrNoFilesystem, "read_file(): no filesystem available")
		}
		content, err := util.ReadFile(state.filesystem, string(path))
		if err != nil {
			return nil, errorf(ErrNativeFunctionIO, "read_file(): %s", err)
		}
		state.logger.Debug().Str("path", string(path)).Int("size", len(content)).Msg("file read")
		return String(content), nil
	case parse.ReadInputFn:
		line, err := state.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if line == "" {
					return Nil, nil
				}
			} else {
				return nil, errorf(ErrNativeFunctionIO, "read_input(): %s", err)
			}
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		return String(line), nil
	case parse.AbsFn:
		num, ok := args[0].(Number)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "number", args[0]))
		}
		return Number(math.Abs(float64(num))), nil
	case parse.TimeFn:
		return Number(float64(time.Since(state.startTime)) / float64(time.Millisecond)), nil
	case parse.XorFn:
		a, ok := args[0].(Number)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "number", args[0]))
		}
		b, ok := args[1].(Number)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "number", args[1]))
		}
		return Number(uint64(int64(a)) ^ uint64(int64(b))), nil
	case parse.SortFn:
		list, ok := args[0].(*List)
		if !ok {
			return nil, errorf(ErrTypeError, "%s", fmtArgumentShouldBe(fn.Name, "list", args[0]))
		}
		if err := sortList(list); err != nil {
			return nil, err
		}
		return Nil, nil
	}

	return nil, fmt.Errorf("%w: unknown native function %s", ErrUnreachable, fn.Name)
}

// split splits s around each occurrence of sep, the escape sequences \n and \r in the separator are replaced
// by the corresponding characters. Empty parts are removed.
func split(s string, sep string) *List {
	sep = strings.ReplaceAll(sep, `\n`, "\n")
	sep = strings.ReplaceAll(sep, `\r`, "\r")

	if sep == "" {
		return NewWrappedStringList(s)
	}

	var parts []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return NewWrappedStringList(parts...)
}
