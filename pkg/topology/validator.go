package topology

import (
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// Tolerance is the planarity tolerance, and the coincidence tolerance of
// networks whose coordinates stay within unit magnitude. Coincidence in
// larger networks scales with their largest coordinate; planarity does not.
const Tolerance = 1e-6

// RegionKind classifies a valid network.
type RegionKind string

const (
	RegionSingle RegionKind = "single"
	RegionParity RegionKind = "parity"
)

// LoopInfo describes one validated loop.
type LoopInfo struct {
	Boundary Boundary
	// Points is the chained vertex list; the closing vertex repeats the
	// first one.
	Points []geometry.Point
	// Area is the signed enclosed area; positive is counter-clockwise.
	Area  float64
	Range geometry.Range

	flat []geometry.Point
}

// PointCount returns the number of chained vertices of the loop.
func (l LoopInfo) PointCount() int {
	return len(l.Points)
}

// Region is the result of a successful validation.
type Region struct {
	Kind  RegionKind
	Outer LoopInfo
	Inner *LoopInfo
}

// LoopCount returns 1 for a simple region and 2 for a parity region.
func (r *Region) LoopCount() int {
	if r.Inner != nil {
		return 2
	}
	return 1
}

// Range returns the bounding range of the region.
func (r *Region) Range() geometry.Range {
	return r.Outer.Range
}

// Area returns the unsigned net area of the region.
func (r *Region) Area() float64 {
	a := math.Abs(r.Outer.Area)
	if r.Inner != nil {
		a -= math.Abs(r.Inner.Area)
	}
	return a
}

// Validator validates curve networks with a fixed tolerance.
type Validator struct {
	tolerance float64
}

// NewValidator creates a validator. A non-positive tolerance selects the
// package default.
func NewValidator(tolerance float64) *Validator {
	if tolerance <= 0 {
		tolerance = Tolerance
	}
	return &Validator{tolerance: tolerance}
}

// Validate runs the validator with the default tolerance.
func Validate(n CurveNetwork) (*Region, error) {
	return NewValidator(Tolerance).Validate(n)
}

// scaledTolerance is the coincidence tolerance for n.
func (v *Validator) scaledTolerance(n CurveNetwork) float64 {
	return v.tolerance * math.Max(1, n.extent())
}

// Validate classifies n as a single or parity region, or returns a
// *TopologyError naming the first failed stage.
func (v *Validator) Validate(n CurveNetwork) (*Region, error) {
	if n.IsEmpty() {
		return nil, newError(ReasonEmpty, -1, "network has no curves")
	}
	for _, p := range n.all() {
		if err := p.check(); err != nil {
			return nil, newError(ReasonMalformed, -1, "%v", err)
		}
	}
	tol := v.scaledTolerance(n)

	loops, err := collectLoops(n, tol)
	if err != nil {
		return nil, err
	}

	for i, l := range loops {
		if err := checkPlanar(l.primitives, v.tolerance); err != nil {
			err.Loop = i
			return nil, err
		}
	}

	infos := make([]LoopInfo, len(loops))
	minArea := tol * tol
	for i, l := range loops {
		info := describe(l)
		if math.Abs(info.Area) <= minArea {
			return nil, newError(ReasonNoArea, i, "enclosed area %g does not exceed %g", math.Abs(info.Area), minArea)
		}
		infos[i] = info
	}

	if err := checkSimple(infos, tol); err != nil {
		return nil, err
	}
	return classify(infos)
}

func checkPlanar(prims []Primitive, tol float64) *TopologyError {
	for _, p := range prims {
		for _, pt := range p.Vertices() {
			if math.Abs(pt.Z) > tol {
				return newError(ReasonNotPlanar, -1, "vertex (%g, %g, %g) is off the z=0 plane", pt.X, pt.Y, pt.Z)
			}
		}
	}
	return nil
}

func describe(l collected) LoopInfo {
	info := LoopInfo{Boundary: l.boundary, Range: geometry.EmptyRange()}
	for i, p := range l.primitives {
		info.Area += p.signedArea()

		pts := p.Points
		if p.Kind == KindArc {
			pts = []geometry.Point{p.Start(), p.End()}
		}
		if i > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		info.Points = append(info.Points, pts...)
		flat := p.Flatten()
		if i > 0 && len(flat) > 0 {
			flat = flat[1:]
		}
		for _, f := range flat {
			info.Range = info.Range.Extend(f)
		}
		info.flat = append(info.flat, flat...)
	}
	return info
}

// classify performs stage 4. Untagged loops nested inside another loop are
// inner, all others outer.
func classify(loops []LoopInfo) (*Region, error) {
	for i := range loops {
		if loops[i].Boundary != BoundaryNone {
			continue
		}
		loops[i].Boundary = BoundaryOuter
		for j := range loops {
			if i != j && nestedIn(loops[i], loops[j]) {
				loops[i].Boundary = BoundaryInner
				break
			}
		}
	}

	var outers, inners []int
	for i, l := range loops {
		if l.Boundary == BoundaryInner {
			inners = append(inners, i)
		} else {
			outers = append(outers, i)
		}
	}

	switch {
	case len(outers) == 1 && len(inners) == 0:
		return &Region{Kind: RegionSingle, Outer: loops[outers[0]]}, nil
	case len(outers) == 1 && len(inners) == 1:
		outer, inner := loops[outers[0]], loops[inners[0]]
		if !nestedIn(inner, outer) {
			return nil, newError(ReasonMultipleRegions, inners[0], "inner loop is not inside the outer loop")
		}
		return &Region{Kind: RegionParity, Outer: outer, Inner: &inner}, nil
	case len(outers) > 1:
		return nil, newError(ReasonMultipleRegions, outers[1], "%d outer loops", len(outers))
	case len(outers) == 0:
		return nil, newError(ReasonMultipleRegions, inners[0], "inner loop without an outer loop")
	default:
		return nil, newError(ReasonMultipleRegions, inners[1], "%d inner loops", len(inners))
	}
}

// nestedIn reports whether loop a lies inside loop b: a is smaller and its
// vertices and bounding range fall within b.
func nestedIn(a, b LoopInfo) bool {
	if math.Abs(a.Area) >= math.Abs(b.Area) {
		return false
	}
	if a.Range.Low.X < b.Range.Low.X || a.Range.Low.Y < b.Range.Low.Y ||
		a.Range.High.X > b.Range.High.X || a.Range.High.Y > b.Range.High.Y {
		return false
	}
	for _, p := range a.flat {
		if !pointInPolygon(p, b.flat) {
			return false
		}
	}
	return true
}

// pointInPolygon is the even-odd ray casting test.
func pointInPolygon(p geometry.Point, poly []geometry.Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
