package topology

import (
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// Path is a validated center line.
type Path struct {
	Closed     bool
	Length     float64
	Primitives []Primitive
	Range      geometry.Range
}

// ValidateCenterLine checks that n is one planar, connected, non-branching
// chain of positive length. Unlike Validate, an open chain is accepted.
func ValidateCenterLine(n CurveNetwork) (*Path, error) {
	return NewValidator(Tolerance).ValidateCenterLine(n)
}

// ValidateCenterLine is the method form of the package function.
func (v *Validator) ValidateCenterLine(n CurveNetwork) (*Path, error) {
	if n.IsEmpty() {
		return nil, newError(ReasonEmpty, -1, "network has no curves")
	}
	curves := n.all()
	for _, p := range curves {
		if err := p.check(); err != nil {
			return nil, newError(ReasonMalformed, -1, "%v", err)
		}
	}
	tol := v.scaledTolerance(n)

	groups := groupCurves(curves, tol)
	if len(groups) != 1 {
		return nil, newError(ReasonBranching, -1, "center line has %d disconnected pieces", len(groups))
	}
	ordered, ok := chain(groups[0], tol)
	if !ok {
		return nil, newError(ReasonBranching, 0, "center line branches")
	}
	if err := checkPlanar(ordered, v.tolerance); err != nil {
		err.Loop = 0
		return nil, err
	}

	path := &Path{Primitives: ordered, Range: geometry.EmptyRange()}
	for _, p := range ordered {
		path.Length += p.length()
		for _, f := range p.Flatten() {
			path.Range = path.Range.Extend(f)
		}
	}
	if path.Length <= tol {
		return nil, newError(ReasonNoArea, 0, "center line length %g is degenerate", path.Length)
	}
	path.Closed, _ = isClosedChain(ordered, tol)
	if path.Closed && math.Abs(loopArea(ordered)) <= tol*tol {
		return nil, newError(ReasonNoArea, 0, "closed center line encloses no area")
	}
	return path, nil
}

func loopArea(prims []Primitive) float64 {
	var a float64
	for _, p := range prims {
		a += p.signedArea()
	}
	return a
}
