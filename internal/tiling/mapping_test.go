package tiling_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"honeycomb/internal/tiling"
)

func TestMapInterval(t *testing.T) {
	cases := []struct {
		name    string
		x, a, b float64
		c       int
		want    int
	}{
		{"Min", 0, 0, 10, 2, 0},
		{"Interior", 9, 0, 10, 2, 1},
		{"Midpoint", 5, 0, 10, 2, 1},
		{"MaxIsUnclamped", 10, 0, 10, 2, 2},
		{"BelowMinIsNegative", -1, 0, 10, 2, -1},
		{"OffsetRange", 2.5, 2, 4, 4, 1},
		{"NaN", math.NaN(), 0, 10, 2, 0},
		{"Saturates", 1e300, 0, 1, 10, math.MaxInt32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tiling.MapInterval(tc.x, tc.a, tc.b, tc.c))
		})
	}
}

func TestMapInterval_Float32(t *testing.T) {
	assert.Equal(t, 3, tiling.MapInterval(float32(0.75), 0, 1, 4))
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 0.25, tiling.Normalize(3.0, 2.0, 6.0), 1e-12)
	assert.InDelta(t, 0.0, tiling.Normalize(2.0, 2.0, 6.0), 1e-12)
	assert.InDelta(t, 1.0, tiling.Normalize(6.0, 2.0, 6.0), 1e-12)
	// degenerate interval covers the whole axis
	assert.Equal(t, 1.0, tiling.Normalize(4.0, 4.0, 4.0))
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, tiling.ClampIndex(-3, 5))
	assert.Equal(t, 5, tiling.ClampIndex(9, 5))
	assert.Equal(t, 2, tiling.ClampIndex(2, 5))
}
