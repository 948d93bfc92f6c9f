package tiling

import (
	"math"

	"golang.org/x/exp/constraints"
)

// MapInterval maps x from [a,b] to the integer range [0,c).
// The result is floor((x-a)*c/(b-a)) and is not clamped: x == b yields c.
// Callers clamp with ClampIndex. a must differ from b.
// NaN maps to 0; values beyond the int32 range saturate.
func MapInterval[T constraints.Float](x, a, b T, c int) int {
	v := math.Floor(float64((x - a) * T(c) / (b - a)))
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

// Normalize maps x from [a,b] to [0,1] as a real number.
// A degenerate interval (a == b) normalizes every value to 1, so a point set
// with no spread along an axis covers that axis entirely.
func Normalize[T constraints.Float](x, a, b T) T {
	if b == a {
		return 1
	}
	return (x - a) / (b - a)
}

// ClampIndex clamps i to [0, hi].
func ClampIndex(i, hi int) int {
	if i > hi {
		return hi
	}
	if i < 0 {
		return 0
	}
	return i
}
