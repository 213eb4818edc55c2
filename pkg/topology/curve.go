package topology

import (
	"fmt"
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// Kind identifies the variant held by a Primitive.
type Kind string

const (
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
	KindArc      Kind = "arc"
)

// Boundary is the boundary-type tag of a loop.
type Boundary string

const (
	// BoundaryNone marks a loop whose role is inferred from nesting.
	BoundaryNone  Boundary = ""
	BoundaryOuter Boundary = "outer"
	BoundaryInner Boundary = "inner"
)

// Primitive is a single curve: a line segment, a polyline or a circular arc
// in a plane parallel to xy.
type Primitive struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Points holds the two line endpoints or the polyline vertices.
	Points []geometry.Point `json:"points,omitempty" yaml:"points,omitempty"`

	Center     geometry.Point `json:"center,omitempty" yaml:"center,omitempty"`
	Radius     float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	StartAngle float64        `json:"start_angle,omitempty" yaml:"start_angle,omitempty"`
	// Sweep is signed; positive is counter-clockwise.
	Sweep float64 `json:"sweep,omitempty" yaml:"sweep,omitempty"`
}

// Line returns a line segment from a to b.
func Line(a, b geometry.Point) Primitive {
	return Primitive{Kind: KindLine, Points: []geometry.Point{a, b}}
}

// Polyline returns a polyline through pts.
func Polyline(pts ...geometry.Point) Primitive {
	return Primitive{Kind: KindPolyline, Points: pts}
}

// Arc returns a circular arc.
func Arc(center geometry.Point, radius, startAngle, sweep float64) Primitive {
	return Primitive{Kind: KindArc, Center: center, Radius: radius, StartAngle: startAngle, Sweep: sweep}
}

// Circle returns a full counter-clockwise circle starting at angle zero.
func Circle(center geometry.Point, radius float64) Primitive {
	return Arc(center, radius, 0, 2*math.Pi)
}

// Rectangle returns a closed five point polyline through the corners
// (x0,y0), (x0,y1), (x1,y1), (x1,y0).
func Rectangle(x0, y0, x1, y1 float64) Primitive {
	return Polyline(
		geometry.Pt(x0, y0),
		geometry.Pt(x0, y1),
		geometry.Pt(x1, y1),
		geometry.Pt(x1, y0),
		geometry.Pt(x0, y0),
	)
}

func (p Primitive) arcPoint(angle float64) geometry.Point {
	sin, cos := math.Sincos(angle)
	return geometry.Point{
		X: p.Center.X + p.Radius*cos,
		Y: p.Center.Y + p.Radius*sin,
		Z: p.Center.Z,
	}
}

// Start returns the first point of the primitive.
func (p Primitive) Start() geometry.Point {
	if p.Kind == KindArc {
		return p.arcPoint(p.StartAngle)
	}
	if len(p.Points) == 0 {
		return geometry.Point{}
	}
	return p.Points[0]
}

// End returns the last point of the primitive.
func (p Primitive) End() geometry.Point {
	if p.Kind == KindArc {
		return p.arcPoint(p.StartAngle + p.Sweep)
	}
	if len(p.Points) == 0 {
		return geometry.Point{}
	}
	return p.Points[len(p.Points)-1]
}

// Reversed returns the same curve traversed the other way.
func (p Primitive) Reversed() Primitive {
	if p.Kind == KindArc {
		p.StartAngle += p.Sweep
		p.Sweep = -p.Sweep
		return p
	}
	pts := make([]geometry.Point, len(p.Points))
	for i, pt := range p.Points {
		pts[len(pts)-1-i] = pt
	}
	p.Points = pts
	return p
}

// Vertices returns the defining points of the primitive. Arcs report their
// endpoints and their center, which carries the arc's plane.
func (p Primitive) Vertices() []geometry.Point {
	if p.Kind == KindArc {
		return []geometry.Point{p.Start(), p.End(), p.Center}
	}
	return p.Points
}

// Flatten approximates the primitive by points from start to end. Straight
// primitives return their own points.
func (p Primitive) Flatten() []geometry.Point {
	if p.Kind != KindArc {
		return p.Points
	}
	n := int(math.Ceil(math.Abs(p.Sweep) / (math.Pi / 32)))
	if n < 2 {
		n = 2
	}
	pts := make([]geometry.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, p.arcPoint(p.StartAngle+p.Sweep*float64(i)/float64(n)))
	}
	return pts
}

// signedArea returns the primitive's contribution to the enclosed signed
// area of a loop: the shoelace term of its chords, plus the circular segment
// between chord and arc.
func (p Primitive) signedArea() float64 {
	if p.Kind == KindArc {
		s, e := p.Start(), p.End()
		chord := (s.X*e.Y - e.X*s.Y) / 2
		segment := p.Radius * p.Radius / 2 * (p.Sweep - math.Sin(p.Sweep))
		return chord + segment
	}
	var sum float64
	for i := 0; i+1 < len(p.Points); i++ {
		a, b := p.Points[i], p.Points[i+1]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// length returns the curve length of the primitive.
func (p Primitive) length() float64 {
	if p.Kind == KindArc {
		return math.Abs(p.Radius * p.Sweep)
	}
	var sum float64
	for i := 0; i+1 < len(p.Points); i++ {
		sum += p.Points[i].Distance(p.Points[i+1])
	}
	return sum
}

// check reports malformed primitives: wrong point counts or non-finite
// values.
func (p Primitive) check() error {
	switch p.Kind {
	case KindLine:
		if len(p.Points) != 2 {
			return fmt.Errorf("line needs 2 points, got %d", len(p.Points))
		}
	case KindPolyline:
		if len(p.Points) < 2 {
			return fmt.Errorf("polyline needs at least 2 points, got %d", len(p.Points))
		}
	case KindArc:
		for _, v := range []float64{p.Radius, p.StartAngle, p.Sweep} {
			if err := geometry.CheckFinite(v); err != nil {
				return fmt.Errorf("arc: %w", err)
			}
		}
		if p.Radius < 0 {
			return fmt.Errorf("arc radius %g is negative", p.Radius)
		}
	default:
		return fmt.Errorf("unknown primitive kind %q", p.Kind)
	}
	for _, v := range p.Vertices() {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if err := geometry.CheckFinite(c); err != nil {
				return fmt.Errorf("%s vertex: %w", p.Kind, err)
			}
		}
	}
	return nil
}

// Loop is an ordered chain of primitives with an optional boundary tag.
type Loop struct {
	Boundary   Boundary    `json:"boundary,omitempty" yaml:"boundary,omitempty"`
	Primitives []Primitive `json:"primitives" yaml:"primitives"`
}

// CurveNetwork is the input of the validator: explicitly tagged loops plus
// loose curves whose grouping into loops is inferred.
type CurveNetwork struct {
	Loops  []Loop      `json:"loops,omitempty" yaml:"loops,omitempty"`
	Curves []Primitive `json:"curves,omitempty" yaml:"curves,omitempty"`
}

// Network builds a network from loose curves.
func Network(curves ...Primitive) CurveNetwork {
	return CurveNetwork{Curves: curves}
}

// OuterLoop returns a loop tagged outer.
func OuterLoop(prims ...Primitive) Loop {
	return Loop{Boundary: BoundaryOuter, Primitives: prims}
}

// InnerLoop returns a loop tagged inner.
func InnerLoop(prims ...Primitive) Loop {
	return Loop{Boundary: BoundaryInner, Primitives: prims}
}

// IsEmpty reports whether the network holds no curve at all.
func (n CurveNetwork) IsEmpty() bool {
	for _, l := range n.Loops {
		if len(l.Primitives) > 0 {
			return false
		}
	}
	return len(n.Curves) == 0
}

// all returns every primitive of the network.
func (n CurveNetwork) all() []Primitive {
	var out []Primitive
	for _, l := range n.Loops {
		out = append(out, l.Primitives...)
	}
	return append(out, n.Curves...)
}

// Range returns the xy bounding range of the network.
func (n CurveNetwork) Range() geometry.Range {
	r := geometry.EmptyRange()
	for _, p := range n.all() {
		for _, pt := range p.Flatten() {
			r = r.Extend(pt)
		}
	}
	return r
}

// extent returns the largest absolute coordinate in the network, used to
// scale tolerances.
func (n CurveNetwork) extent() float64 {
	var m float64
	for _, p := range n.all() {
		for _, v := range p.Vertices() {
			m = math.Max(m, math.Max(math.Abs(v.X), math.Abs(v.Y)))
		}
		if p.Kind == KindArc {
			m = math.Max(m, math.Abs(p.Center.X)+p.Radius)
			m = math.Max(m, math.Abs(p.Center.Y)+p.Radius)
		}
	}
	return m
}
