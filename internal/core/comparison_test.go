package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	list := NewList(Number(1), String("a"))

	obj := NewObject()
	obj.Set("a", Number(1))

	testCases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same numbers", Number(1), Number(1), true},
		{"different numbers", Number(1), Number(2), false},
		{"number and string", Number(1), String("1"), false},
		{"nil and nil", Nil, Nil, true},
		{"nil and false", Nil, False, false},
		{"same list", list, list, true},
		{"structurally equal lists", list, NewList(Number(1), String("a")), true},
		{"lists of different lengths", list, NewList(Number(1)), false},
		{"structurally equal objects", obj, NewObjectFromMap([]string{"a"}, map[string]Value{"a": Number(1)}), true},
		{"objects with different keys", obj, NewObjectFromMap([]string{"b"}, map[string]Value{"b": Number(1)}), false},
		{"empty list and empty object", NewList(), NewObject(), false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.equal, Equal(testCase.a, testCase.b))
			assert.Equal(t, testCase.equal, Equal(testCase.b, testCase.a))
		})
	}

	t.Run("cyclic lists", func(t *testing.T) {
		a := NewList()
		a.Append(a)
		b := NewList()
		b.Append(b)

		assert.False(t, Equal(a, b))
	})
}

func TestStringify(t *testing.T) {
	obj := NewObject()
	obj.Set("b", String("x"))
	obj.Set("a", NewList(Number(1), Nil))

	testCases := []struct {
		value    Value
		expected string
	}{
		{Number(3), "3"},
		{Number(3.5), "3.5"},
		{Number(-0.25), "-0.25"},
		{Number(1e21), "1000000000000000000000"},
		{String("a b"), "a b"},
		{True, "true"},
		{Nil, "nil"},
		{NewList(), "[]"},
		{NewList(Number(1), String("a")), "[1, a]"},
		{NewObject(), "{}"},
		{obj, "{ b: x, a: [1, nil] }"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.expected, func(t *testing.T) {
			assert.Equal(t, testCase.expected, Stringify(testCase.value))
		})
	}
}
