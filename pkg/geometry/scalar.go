package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Scalar guard failures. All of them wrap ErrScalar so callers can tell a
// single bad value apart from a violated cross-parameter constraint.
var (
	ErrScalar   = errors.New("invalid scalar")
	ErrNaN      = fmt.Errorf("%w: value is NaN", ErrScalar)
	ErrInfinite = fmt.Errorf("%w: value is infinite", ErrScalar)
	ErrNegative = fmt.Errorf("%w: negative value not allowed", ErrScalar)
	ErrZero     = fmt.Errorf("%w: zero value not allowed", ErrScalar)
)

// CoarseEpsilon is the fixed margin used by constraints tagged EpsilonBound.
const CoarseEpsilon = 1e-10

// Tolerance selects how a bound is compared.
type Tolerance int

const (
	// ExactBound compares against the computed bound with no margin.
	ExactBound Tolerance = iota
	// EpsilonBound widens or narrows the bound by CoarseEpsilon.
	EpsilonBound
)

// String returns the tolerance tag.
func (t Tolerance) String() string {
	switch t {
	case ExactBound:
		return "exact"
	case EpsilonBound:
		return "epsilon"
	default:
		return "unknown"
	}
}

// Direction is the direction argument of NextValueToward.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// CheckScalar validates a length or an angle in radians. NaN and infinities
// are always rejected, negative values are always rejected, and an exact
// zero is rejected unless allowZero is set.
func CheckScalar(value float64, allowZero bool) error {
	switch {
	case math.IsNaN(value):
		return ErrNaN
	case math.IsInf(value, 0):
		return ErrInfinite
	case value < 0:
		return ErrNegative
	case value == 0 && !allowZero:
		return ErrZero
	}
	return nil
}

// CheckFinite validates a signed value such as an offset or a rotation.
func CheckFinite(value float64) error {
	switch {
	case math.IsNaN(value):
		return ErrNaN
	case math.IsInf(value, 0):
		return ErrInfinite
	}
	return nil
}

// NextValueToward returns the next representable float64 after x in the
// given direction.
func NextValueToward(x float64, dir Direction) float64 {
	if dir == Down {
		return math.Nextafter(x, math.Inf(-1))
	}
	return math.Nextafter(x, math.Inf(1))
}

// AtMost reports whether value <= bound under the given tolerance.
// Comparisons involving NaN are false.
func AtMost(value, bound float64, tol Tolerance) bool {
	if tol == EpsilonBound {
		return value <= bound+CoarseEpsilon
	}
	return value <= bound
}

// LessThan reports whether value < bound under the given tolerance. The
// epsilon variant requires value to stay clear of the bound by the margin.
func LessThan(value, bound float64, tol Tolerance) bool {
	if tol == EpsilonBound {
		return value < bound-CoarseEpsilon
	}
	return value < bound
}

// AlmostEqual reports whether a and b differ by no more than CoarseEpsilon.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) <= CoarseEpsilon
}
