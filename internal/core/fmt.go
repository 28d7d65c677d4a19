package core

import (
	"strings"
)

const (
	CYCLE_PLACEHOLDER = "..."
)

// Stringify returns the human readable representation of a value, it is used by print() and by string
// concatenation. Strings are not quoted, nil is rendered as nil, lists as [1, 2, a] and objects as
// { a: 1, b: x }.
func Stringify(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}

	var b strings.Builder
	writeValue(&b, v, nil)
	return b.String()
}

// writeValue writes the representation of v, containers already being written are rendered as '...'.
func writeValue(b *strings.Builder, v Value, parents []Value) {
	switch val := v.(type) {
	case nil, *NilT:
		b.WriteString("nil")
	case Bool:
		if val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		b.WriteString(val.String())
	case String:
		b.WriteString(string(val))
	case *Function:
		b.WriteString(FUNCTION_TYPENAME)
	case *List:
		if isParent(val, parents) {
			b.WriteString(CYCLE_PLACEHOLDER)
			return
		}
		parents = append(parents, val)

		b.WriteByte('[')
		for i, elem := range val.elements {
			if i != 0 {
				b.WriteString(", ")
			}
			writeValue(b, elem, parents)
		}
		b.WriteByte(']')
	case *Object:
		if isParent(val, parents) {
			b.WriteString(CYCLE_PLACEHOLDER)
			return
		}
		parents = append(parents, val)

		if len(val.keys) == 0 {
			b.WriteString("{}")
			return
		}

		b.WriteString("{ ")
		for i, key := range val.keys {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(key)
			b.WriteString(": ")
			writeValue(b, val.values[key], parents)
		}
		b.WriteString(" }")
	default:
		b.WriteString(v.TypeName())
	}
}

func isParent(v Value, parents []Value) bool {
	for _, p := range parents {
		if p == v {
			return true
		}
	}
	return false
}
