package core

import (
	"unicode/utf8"
)

const (
	NUMBER_TYPENAME   = "<number>"
	STRING_TYPENAME   = "<string>"
	BOOL_TYPENAME     = "<bool>"
	NIL_TYPENAME      = "<nil>"
	LIST_TYPENAME     = "<list>"
	OBJECT_TYPENAME   = "<object>"
	FUNCTION_TYPENAME = "<function>"
)

// A Value is a runtime value: Number, String, Bool, *NilT, *List, *Object or *Function. Lists and objects
// are mutable and shared between all the places that reference them.
type Value interface {
	// TypeName returns the tag returned by typeof(), e.g. <number>.
	TypeName() string
}

var Nil = &NilT{}

type NilT struct{}

func (*NilT) TypeName() string {
	return NIL_TYPENAME
}

type String string

func (String) TypeName() string {
	return STRING_TYPENAME
}

// RuneCount returns the number of characters of the string.
func (s String) RuneCount() int {
	return utf8.RuneCountInString(string(s))
}

// IsTruthy returns false for nil and false, true for all other values.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case *NilT, nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}
