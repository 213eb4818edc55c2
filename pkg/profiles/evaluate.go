package profiles

import (
	"errors"
	"fmt"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// ViolationClass separates single-scalar failures from cross-parameter
// ones.
type ViolationClass string

const (
	ClassParameterInvalid   ViolationClass = "parameter_invalid"
	ClassConstraintViolated ViolationClass = "constraint_violated"
)

// Violation reports the failing row of a constraint table.
type Violation struct {
	Family     FamilyName
	Constraint string
	Field      string
	Class      ViolationClass
	Reason     string
	Err        error
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s: %s (%v)", v.Family, v.Class, v.Reason, v.Err)
}

// Unwrap returns the guard or bound error behind the violation.
func (v *Violation) Unwrap() error {
	return v.Err
}

func newViolation(f FamilyName, c Constraint, err error) *Violation {
	class := ClassConstraintViolated
	if errors.Is(err, geometry.ErrScalar) {
		class = ClassParameterInvalid
	}
	return &Violation{
		Family:     f,
		Constraint: c.Name,
		Field:      c.Field,
		Class:      class,
		Reason:     c.Reason,
		Err:        err,
	}
}

// Evaluate walks the family's constraint table in order and returns the
// first violation, or nil.
func Evaluate(f Family) error {
	for _, c := range f.Constraints() {
		if err := c.Check(); err != nil {
			return newViolation(f.Family(), c, err)
		}
	}
	return nil
}

// EvaluateAll evaluates every row and returns all violations in table
// order. Rows after a failing guard may fail as a consequence of it.
func EvaluateAll(f Family) []*Violation {
	var out []*Violation
	for _, c := range f.Constraints() {
		if err := c.Check(); err != nil {
			out = append(out, newViolation(f.Family(), c, err))
		}
	}
	return out
}

// Validate answers whether f's own geometry is realizable: the constraint
// table first, then, for arbitrary families, the curve topology. It
// returns a *Violation or a *topology.TopologyError. References are not
// resolved here.
func Validate(f Family) error {
	if err := Evaluate(f); err != nil {
		return err
	}
	if c, ok := f.(CurveBased); ok {
		if _, err := c.ValidateCurves(); err != nil {
			return err
		}
	}
	return nil
}
