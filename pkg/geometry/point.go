package geometry

import "math"

// Point is a location in the profile's local coordinate system. Profiles
// live in the z=0 plane; Z is carried so that planarity can be checked.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// Pt returns a point in the z=0 plane.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	d := p.Sub(q)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Coincident reports whether p and q are within tol of each other.
func (p Point) Coincident(q Point, tol float64) bool {
	return p.Distance(q) <= tol
}

// Range is an axis-aligned bounding box in the xy plane.
type Range struct {
	Low  Point `json:"low"`
	High Point `json:"high"`
}

// EmptyRange returns a range that contains nothing; extending it with a
// point yields that point.
func EmptyRange() Range {
	inf := math.Inf(1)
	return Range{Low: Point{X: inf, Y: inf}, High: Point{X: -inf, Y: -inf}}
}

// CenteredRange returns the range of a width × depth box centered on the
// origin.
func CenteredRange(width, depth float64) Range {
	return Range{
		Low:  Point{X: -width / 2, Y: -depth / 2},
		High: Point{X: width / 2, Y: depth / 2},
	}
}

// IsEmpty reports whether the range contains no point.
func (r Range) IsEmpty() bool {
	return r.Low.X > r.High.X || r.Low.Y > r.High.Y
}

// Width returns the x extent of the range.
func (r Range) Width() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.High.X - r.Low.X
}

// Depth returns the y extent of the range.
func (r Range) Depth() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.High.Y - r.Low.Y
}

// Extend returns the range grown to include p.
func (r Range) Extend(p Point) Range {
	r.Low.X = math.Min(r.Low.X, p.X)
	r.Low.Y = math.Min(r.Low.Y, p.Y)
	r.High.X = math.Max(r.High.X, p.X)
	r.High.Y = math.Max(r.High.Y, p.Y)
	return r
}

// Union returns the smallest range containing r and o.
func (r Range) Union(o Range) Range {
	if o.IsEmpty() {
		return r
	}
	return r.Extend(o.Low).Extend(o.High)
}

// Grow returns the range padded by d on every side.
func (r Range) Grow(d float64) Range {
	if r.IsEmpty() {
		return r
	}
	r.Low.X, r.Low.Y = r.Low.X-d, r.Low.Y-d
	r.High.X, r.High.Y = r.High.X+d, r.High.Y+d
	return r
}

// Corners returns the four xy corners of the range.
func (r Range) Corners() [4]Point {
	return [4]Point{
		{X: r.Low.X, Y: r.Low.Y},
		{X: r.High.X, Y: r.Low.Y},
		{X: r.High.X, Y: r.High.Y},
		{X: r.Low.X, Y: r.High.Y},
	}
}

// Transform2D is a planar placement: scale, then optional mirror about the
// y axis, then rotation about the origin, then translation.
type Transform2D struct {
	Offset   Point
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Mirror   bool
}

// Identity returns the identity placement.
func Identity() Transform2D {
	return Transform2D{ScaleX: 1, ScaleY: 1}
}

// Apply maps p through the placement.
func (t Transform2D) Apply(p Point) Point {
	x, y := p.X*t.ScaleX, p.Y*t.ScaleY
	if t.Mirror {
		x = -x
	}
	sin, cos := math.Sincos(t.Rotation)
	return Point{
		X: x*cos - y*sin + t.Offset.X,
		Y: x*sin + y*cos + t.Offset.Y,
	}
}

// ApplyRange returns the bounding range of r's corners after placement.
func (t Transform2D) ApplyRange(r Range) Range {
	if r.IsEmpty() {
		return r
	}
	out := EmptyRange()
	for _, c := range r.Corners() {
		out = out.Extend(t.Apply(c))
	}
	return out
}
