package core

// Equal compares two values structurally: numbers, strings and bools by value, lists element by element,
// objects key by key and functions by identity. Values of different types are never equal, nil is only equal
// to nil.
func Equal(a, b Value) bool {
	return equal(a, b, 0)
}

const MAX_COMPARISON_DEPTH = 200

func equal(a, b Value, depth int) bool {
	if depth > MAX_COMPARISON_DEPTH {
		return false
	}

	switch left := a.(type) {
	case nil, *NilT:
		switch b.(type) {
		case nil, *NilT:
			return true
		}
		return false
	case Number:
		right, ok := b.(Number)
		return ok && left == right
	case String:
		right, ok := b.(String)
		return ok && left == right
	case Bool:
		right, ok := b.(Bool)
		return ok && left == right
	case *Function:
		right, ok := b.(*Function)
		return ok && left == right
	case *List:
		right, ok := b.(*List)
		if !ok {
			return false
		}
		if left == right {
			return true
		}
		if len(left.elements) != len(right.elements) {
			return false
		}
		for i, elem := range left.elements {
			if !equal(elem, right.elements[i], depth+1) {
				return false
			}
		}
		return true
	case *Object:
		right, ok := b.(*Object)
		if !ok {
			return false
		}
		if left == right {
			return true
		}
		if len(left.keys) != len(right.keys) {
			return false
		}
		for _, key := range left.keys {
			otherValue, ok := right.values[key]
			if !ok || !equal(left.values[key], otherValue, depth+1) {
				return false
			}
		}
		return true
	}
	return false
}
