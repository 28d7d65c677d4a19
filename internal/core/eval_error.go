package core

import (
	"errors"
	"fmt"

	"github.com/sparvlang/sparv/internal/parse"
	"github.com/sparvlang/sparv/internal/sourcecode"
)

const (
	MAX_CALL_DEPTH   = 5_000
	MAX_RANGE_LENGTH = 10_000_000
	MAX_LOOP_COUNT   = 1 << 53
)

var (
	ErrTypeError              = errors.New("type error")
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrNonIntegerIndex        = errors.New("index should be an integer")
	ErrUndeclaredVariable     = errors.New("undeclared variable")
	ErrNotCallable            = errors.New("value is not callable")
	ErrWrongArgumentCount     = errors.New("wrong number of arguments")
	ErrStackOverflow          = errors.New("stack overflow")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrNoFilesystem           = errors.New("no filesystem available")
	ErrNativeFunctionIO       = errors.New("I/O error")
	ErrUnreachable            = errors.New("unreachable")
	ErrInvalidRepetitionCount = errors.New("invalid repetition count")
	ErrInvalidLoopCount       = errors.New("invalid loop count")
	ErrInvalidRange           = errors.New("invalid range")
)

// EvalError is returned by the interpreter, it carries a diagnostic locating the node whose evaluation
// failed.
type EvalError struct {
	err        error
	Diagnostic *sourcecode.Diagnostic
}

func NewEvalError(node parse.Node, err error) *EvalError {
	span := node.Base().Span
	return &EvalError{
		err:        err,
		Diagnostic: sourcecode.NewDiagnostic(err.Error(), span.Line, span.Start, span.End),
	}
}

func (e *EvalError) Error() string {
	return e.Diagnostic.Message
}

func (e *EvalError) Unwrap() error {
	return e.err
}

// detailedError has a custom message and wraps a sentinel error.
type detailedError struct {
	sentinel error
	msg      string
}

func (e *detailedError) Error() string {
	return e.msg
}

func (e *detailedError) Unwrap() error {
	return e.sentinel
}

func errorf(sentinel error, format string, args ...any) error {
	return &detailedError{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

func fmtVariableNotDeclared(name string) string {
	return fmt.Sprintf("variable '%s' is not declared", name)
}

func fmtOperandShouldBeNumber(side string, operator string, v Value) string {
	return fmt.Sprintf("%s operand of '%s' should be a number but is a %s", side, operator, v.TypeName())
}

func fmtNotCallable(v Value) string {
	return fmt.Sprintf("a %s is not callable", v.TypeName())
}

func fmtWrongArgumentCount(expected, actual int) string {
	return fmt.Sprintf("wrong number of arguments: expected %d, got %d", expected, actual)
}

func fmtIndexOutOfRange(index int, length int) string {
	return fmt.Sprintf("index out of range: %d (length %d)", index, length)
}

func fmtCannotIndex(v Value) string {
	return fmt.Sprintf("a %s cannot be indexed, only lists and strings can", v.TypeName())
}

func fmtCannotIterate(v Value) string {
	return fmt.Sprintf("a %s cannot be iterated, only lists and strings can", v.TypeName())
}

func fmtNotAnObject(v Value) string {
	return fmt.Sprintf("trying to access a field of a %s, only objects have fields", v.TypeName())
}

func fmtArgumentShouldBe(fn string, expected string, v Value) string {
	return fmt.Sprintf("%s(): argument should be a %s but is a %s", fn, expected, v.TypeName())
}
