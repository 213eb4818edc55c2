package profiles

import (
	"errors"
	"fmt"
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// ErrBoundExceeded is wrapped by every failing cross-parameter constraint.
var ErrBoundExceeded = errors.New("bound exceeded")

// Constraint is one row of a family's constraint table.
type Constraint struct {
	// Name identifies the row, e.g. "flangeThickness < depth/2".
	Name string

	// Field is the parameter the row is reported against.
	Field string

	// Reason is the human readable statement of the rule.
	Reason string

	// Tolerance tags how the row compares against its bound.
	Tolerance geometry.Tolerance

	// Check returns nil when the row holds.
	Check func() error
}

// Positive guards a principal dimension: finite and strictly positive.
func Positive(field string, value float64) Constraint {
	return Constraint{
		Name:   field,
		Field:  field,
		Reason: fmt.Sprintf("%s must be a finite positive value", field),
		Check:  func() error { return geometry.CheckScalar(value, false) },
	}
}

// NonNegative guards an optional dimension such as a fillet radius: finite
// and zero or positive.
func NonNegative(field string, value float64) Constraint {
	return Constraint{
		Name:   field,
		Field:  field,
		Reason: fmt.Sprintf("%s must be a finite value of zero or more", field),
		Check:  func() error { return geometry.CheckScalar(value, true) },
	}
}

// Finite guards a signed value such as an offset.
func Finite(field string, value float64) Constraint {
	return Constraint{
		Name:   field,
		Field:  field,
		Reason: fmt.Sprintf("%s must be finite", field),
		Check:  func() error { return geometry.CheckFinite(value) },
	}
}

// SlopeAngle guards a slope: finite, non-negative and strictly below π/2.
func SlopeAngle(field string, angle float64) Constraint {
	return Constraint{
		Name:   field + " in [0, pi/2)",
		Field:  field,
		Reason: fmt.Sprintf("%s must be at least 0 and less than pi/2", field),
		Check: func() error {
			if err := geometry.CheckScalar(angle, true); err != nil {
				return err
			}
			if !geometry.IsSlopeAngle(angle) {
				return fmt.Errorf("%w: %g is not less than pi/2", ErrBoundExceeded, angle)
			}
			return nil
		},
	}
}

// AngleBetween guards an angle in the open interval (low, high).
func AngleBetween(field string, angle, low, high float64, lowExpr, highExpr string) Constraint {
	return Constraint{
		Name:   fmt.Sprintf("%s in (%s, %s)", field, lowExpr, highExpr),
		Field:  field,
		Reason: fmt.Sprintf("%s must be greater than %s and less than %s", field, lowExpr, highExpr),
		Check: func() error {
			if err := geometry.CheckFinite(angle); err != nil {
				return err
			}
			if !(angle > low && angle < high) {
				return fmt.Errorf("%w: %g is outside (%g, %g)", ErrBoundExceeded, angle, low, high)
			}
			return nil
		},
	}
}

// IntBetween guards an integer in the closed interval [low, high].
func IntBetween(field string, value, low, high int) Constraint {
	return Constraint{
		Name:   fmt.Sprintf("%s in [%d, %d]", field, low, high),
		Field:  field,
		Reason: fmt.Sprintf("%s must be between %d and %d", field, low, high),
		Check: func() error {
			if value < low || value > high {
				return fmt.Errorf("%w: %d is outside [%d, %d]", ErrBoundExceeded, value, low, high)
			}
			return nil
		},
	}
}

// LessThan requires value < bound, where expr describes the bound.
func LessThan(field string, value float64, expr string, bound float64) Constraint {
	return Constraint{
		Name:      fmt.Sprintf("%s < %s", field, expr),
		Field:     field,
		Reason:    fmt.Sprintf("%s must be less than %s", field, expr),
		Tolerance: geometry.ExactBound,
		Check: func() error {
			if !geometry.LessThan(value, bound, geometry.ExactBound) {
				return fmt.Errorf("%w: %g is not less than %g", ErrBoundExceeded, value, bound)
			}
			return nil
		},
	}
}

// AtMost requires value <= bound exactly: the bound passes and the next
// representable value above it fails.
func AtMost(field string, value float64, expr string, bound float64) Constraint {
	return Constraint{
		Name:      fmt.Sprintf("%s <= %s", field, expr),
		Field:     field,
		Reason:    fmt.Sprintf("%s must be at most %s", field, expr),
		Tolerance: geometry.ExactBound,
		Check: func() error {
			if !geometry.AtMost(value, bound, geometry.ExactBound) {
				return fmt.Errorf("%w: %g exceeds %g", ErrBoundExceeded, value, bound)
			}
			return nil
		},
	}
}

// Between requires low < value < high. Both bounds are typically derived
// from other parameters that may not have been validated yet.
func Between(field string, value float64, lowExpr string, low float64, highExpr string, high float64) Constraint {
	return Constraint{
		Name:   fmt.Sprintf("%s < %s < %s", lowExpr, field, highExpr),
		Field:  field,
		Reason: fmt.Sprintf("%s must be greater than %s and less than %s", field, lowExpr, highExpr),
		Check: func() error {
			if !(value > low && value < high) {
				return fmt.Errorf("%w: %g is outside (%g, %g)", ErrBoundExceeded, value, low, high)
			}
			return nil
		},
	}
}

// ZeroOr wraps c so that an exact zero value passes without consulting c.
// It is used for optional dimensions whose coupling bounds only apply once
// the feature is present.
func ZeroOr(value float64, c Constraint) Constraint {
	check := c.Check
	c.Name = c.Name + " (when non-zero)"
	c.Check = func() error {
		if value == 0 {
			return nil
		}
		return check()
	}
	return c
}

// Distinct requires a and b to differ by more than CoarseEpsilon.
func Distinct(field string, a float64, otherExpr string, b float64) Constraint {
	return Constraint{
		Name:      fmt.Sprintf("%s != %s", field, otherExpr),
		Field:     field,
		Reason:    fmt.Sprintf("%s must differ from %s", field, otherExpr),
		Tolerance: geometry.EpsilonBound,
		Check: func() error {
			if geometry.AlmostEqual(a, b) || math.IsNaN(a-b) {
				return fmt.Errorf("%w: %g equals %g", ErrBoundExceeded, a, b)
			}
			return nil
		},
	}
}

// OneOf requires a string parameter to take one of the allowed values.
func OneOf(field, value string, allowed ...string) Constraint {
	return Constraint{
		Name:   fmt.Sprintf("%s in %v", field, allowed),
		Field:  field,
		Reason: fmt.Sprintf("%s must be one of %v", field, allowed),
		Check: func() error {
			for _, a := range allowed {
				if value == a {
					return nil
				}
			}
			return fmt.Errorf("%w: %q is not an allowed value", ErrBoundExceeded, value)
		},
	}
}

// AtLeastCount requires a collection to hold at least min entries.
func AtLeastCount(field string, n, min int) Constraint {
	return Constraint{
		Name:   fmt.Sprintf("%s >= %d", field, min),
		Field:  field,
		Reason: fmt.Sprintf("%s must hold at least %d entries", field, min),
		Check: func() error {
			if n < min {
				return fmt.Errorf("%w: %d entries, need %d", ErrBoundExceeded, n, min)
			}
			return nil
		},
	}
}
