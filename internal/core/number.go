package core

import (
	"math"
	"strconv"
)

// Number is the only numeric type, it is a 64-bit float.
type Number float64

func (Number) TypeName() string {
	return NUMBER_TYPENAME
}

func (n Number) IsInteger() bool {
	f := float64(n)
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// String returns the shortest decimal representation of the number (3, 3.5, -0.25).
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
