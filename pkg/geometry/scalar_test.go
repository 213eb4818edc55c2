package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckScalar(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		allowZero bool
		want      error
	}{
		{"positive", 1.5, false, nil},
		{"tiny positive", math.SmallestNonzeroFloat64, false, nil},
		{"max float", math.MaxFloat64, false, nil},
		{"zero rejected", 0, false, ErrZero},
		{"zero allowed", 0, true, nil},
		{"negative zero allowed", math.Copysign(0, -1), true, nil},
		{"negative", -1, false, ErrNegative},
		{"negative with allowZero", -1, true, ErrNegative},
		{"NaN", math.NaN(), true, ErrNaN},
		{"+Inf", math.Inf(1), true, ErrInfinite},
		{"-Inf", math.Inf(-1), false, ErrInfinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckScalar(tt.value, tt.allowZero)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrScalar)
		})
	}
}

func TestCheckFinite(t *testing.T) {
	assert.NoError(t, CheckFinite(-12.5))
	assert.NoError(t, CheckFinite(0))
	assert.ErrorIs(t, CheckFinite(math.NaN()), ErrNaN)
	assert.ErrorIs(t, CheckFinite(math.Inf(-1)), ErrInfinite)
}

func TestNextValueToward(t *testing.T) {
	x := 3.0
	up := NextValueToward(x, Up)
	down := NextValueToward(x, Down)

	assert.Greater(t, up, x)
	assert.Less(t, down, x)
	assert.Equal(t, x, NextValueToward(up, Down))
	assert.Equal(t, math.Nextafter(x, 4), up)
}

func TestBoundComparisons(t *testing.T) {
	bound := 0.1 + 0.2

	assert.True(t, AtMost(bound, bound, ExactBound))
	assert.False(t, AtMost(NextValueToward(bound, Up), bound, ExactBound))
	assert.True(t, AtMost(bound+CoarseEpsilon/2, bound, EpsilonBound))
	assert.False(t, AtMost(bound+2*CoarseEpsilon, bound, EpsilonBound))

	assert.False(t, LessThan(bound, bound, ExactBound))
	assert.True(t, LessThan(NextValueToward(bound, Down), bound, ExactBound))
	assert.False(t, LessThan(bound-CoarseEpsilon/2, bound, EpsilonBound))

	assert.False(t, AtMost(math.NaN(), bound, ExactBound))
	assert.True(t, AlmostEqual(1, 1+CoarseEpsilon/4))
	assert.False(t, AlmostEqual(1, 1.001))
}

func TestToleranceString(t *testing.T) {
	assert.Equal(t, "exact", ExactBound.String())
	assert.Equal(t, "epsilon", EpsilonBound.String())
	assert.Equal(t, "unknown", Tolerance(9).String())
	assert.False(t, errors.Is(ErrZero, ErrNaN))
}
