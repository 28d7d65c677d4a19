package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindClosestString(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		input      string
		candidates []string
		closest    string
		distance   int
		found      bool
	}{
		{"chek", []string{"run", "check", "fmt"}, "check", 1, true},
		{"lenght", []string{"length", "len"}, "length", 2, true},
		{"abc", []string{"xyz"}, "", 0, false},
		{"run", []string{"run"}, "", 0, false},
		{"a", nil, "", 0, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			closest, distance, found := FindClosestString(ctx, testCase.candidates, testCase.input, 2)
			assert.Equal(t, testCase.found, found)
			assert.Equal(t, testCase.closest, closest)
			assert.Equal(t, testCase.distance, distance)
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, found := FindClosestString(ctx, []string{"check"}, "chek", 2)
		assert.False(t, found)
	})
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, CombineErrors())
	assert.NoError(t, CombineErrors(nil, nil))

	err := CombineErrors(errors.New("a"), nil, errors.New("b"))
	assert.EqualError(t, err, "a\nb")
}

func TestStripANSISequences(t *testing.T) {
	assert.Equal(t, "var a", StripANSISequences("\x1b[38;5;12mvar\x1b[0m a"))
}
