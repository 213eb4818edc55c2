package profiles

import (
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// Rectangle is a solid rectangular section.
type Rectangle struct {
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
}

func (p *Rectangle) Family() FamilyName { return FamilyRectangle }

func (p *Rectangle) Constraints() []Constraint {
	return []Constraint{
		Positive("width", p.Width),
		Positive("depth", p.Depth),
	}
}

func (p *Rectangle) Derive() Metrics {
	return Metrics{"area": p.Width * p.Depth}
}

func (p *Rectangle) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.Width, p.Depth))
}

// RoundedRectangle is a rectangle with all four corners rounded.
type RoundedRectangle struct {
	Width          float64 `json:"width" yaml:"width"`
	Depth          float64 `json:"depth" yaml:"depth"`
	RoundingRadius float64 `json:"rounding_radius" yaml:"rounding_radius"`
}

func (p *RoundedRectangle) Family() FamilyName { return FamilyRoundedRectangle }

func (p *RoundedRectangle) Constraints() []Constraint {
	return []Constraint{
		Positive("width", p.Width),
		Positive("depth", p.Depth),
		NonNegative("roundingRadius", p.RoundingRadius),
		AtMost("roundingRadius", p.RoundingRadius, "width/2", p.Width/2),
		AtMost("roundingRadius", p.RoundingRadius, "depth/2", p.Depth/2),
	}
}

func (p *RoundedRectangle) Derive() Metrics {
	r := p.RoundingRadius
	return Metrics{"area": p.Width*p.Depth - (4-math.Pi)*r*r}
}

func (p *RoundedRectangle) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.Width, p.Depth))
}

// Circle is a solid round section.
type Circle struct {
	Radius float64 `json:"radius" yaml:"radius"`
}

func (p *Circle) Family() FamilyName { return FamilyCircle }

func (p *Circle) Constraints() []Constraint {
	return []Constraint{Positive("radius", p.Radius)}
}

func (p *Circle) Derive() Metrics {
	return Metrics{"area": math.Pi * p.Radius * p.Radius}
}

func (p *Circle) Outline() Outline {
	return solidOutline(geometry.CenteredRange(2*p.Radius, 2*p.Radius))
}

// HollowCircle is a round tube.
type HollowCircle struct {
	Radius        float64 `json:"radius" yaml:"radius"`
	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
}

func (p *HollowCircle) Family() FamilyName { return FamilyHollowCircle }

func (p *HollowCircle) Constraints() []Constraint {
	return []Constraint{
		Positive("radius", p.Radius),
		Positive("wallThickness", p.WallThickness),
		LessThan("wallThickness", p.WallThickness, "radius", p.Radius),
	}
}

func (p *HollowCircle) Derive() Metrics {
	inner := geometry.FaceLength(p.Radius, p.WallThickness, 1)
	return Metrics{
		"innerRadius": inner,
		"area":        math.Pi * (p.Radius*p.Radius - inner*inner),
	}
}

func (p *HollowCircle) Outline() Outline {
	return hollowOutline(geometry.CenteredRange(2*p.Radius, 2*p.Radius))
}

// Ellipse is a solid elliptical section.
type Ellipse struct {
	XRadius float64 `json:"x_radius" yaml:"x_radius"`
	YRadius float64 `json:"y_radius" yaml:"y_radius"`
}

func (p *Ellipse) Family() FamilyName { return FamilyEllipse }

func (p *Ellipse) Constraints() []Constraint {
	return []Constraint{
		Positive("xRadius", p.XRadius),
		Positive("yRadius", p.YRadius),
	}
}

func (p *Ellipse) Derive() Metrics {
	return Metrics{"area": math.Pi * p.XRadius * p.YRadius}
}

func (p *Ellipse) Outline() Outline {
	return solidOutline(geometry.CenteredRange(2*p.XRadius, 2*p.YRadius))
}

// Capsule is a rectangle capped by two half circles on its shorter sides.
// A capsule with equal width and depth would be a circle and is rejected.
type Capsule struct {
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
}

func (p *Capsule) Family() FamilyName { return FamilyCapsule }

func (p *Capsule) Constraints() []Constraint {
	return []Constraint{
		Positive("width", p.Width),
		Positive("depth", p.Depth),
		Distinct("width", p.Width, "depth", p.Depth),
	}
}

func (p *Capsule) Derive() Metrics {
	r := math.Min(p.Width, p.Depth) / 2
	straight := math.Abs(p.Width - p.Depth)
	return Metrics{
		"capRadius":      r,
		"straightLength": straight,
		"area":           math.Pi*r*r + straight*2*r,
	}
}

func (p *Capsule) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.Width, p.Depth))
}

// Trapezium has parallel top and bottom edges; the top edge is shifted
// horizontally by TopOffset.
type Trapezium struct {
	TopWidth    float64 `json:"top_width" yaml:"top_width"`
	BottomWidth float64 `json:"bottom_width" yaml:"bottom_width"`
	Depth       float64 `json:"depth" yaml:"depth"`
	TopOffset   float64 `json:"top_offset" yaml:"top_offset"`
}

func (p *Trapezium) Family() FamilyName { return FamilyTrapezium }

func (p *Trapezium) Constraints() []Constraint {
	return []Constraint{
		Positive("topWidth", p.TopWidth),
		Positive("bottomWidth", p.BottomWidth),
		Positive("depth", p.Depth),
		Finite("topOffset", p.TopOffset),
	}
}

func (p *Trapezium) Derive() Metrics {
	return Metrics{"area": (p.TopWidth + p.BottomWidth) / 2 * p.Depth}
}

func (p *Trapezium) Outline() Outline {
	r := geometry.EmptyRange().
		Extend(geometry.Pt(-p.BottomWidth/2, -p.Depth/2)).
		Extend(geometry.Pt(p.BottomWidth/2, -p.Depth/2)).
		Extend(geometry.Pt(p.TopOffset-p.TopWidth/2, p.Depth/2)).
		Extend(geometry.Pt(p.TopOffset+p.TopWidth/2, p.Depth/2))
	return solidOutline(r)
}

// Regular polygon side count limits.
const (
	MinPolygonSides = 3
	MaxPolygonSides = 32
)

// RegularPolygon is an equilateral, equiangular polygon with a flat bottom
// edge.
type RegularPolygon struct {
	SideCount  int     `json:"side_count" yaml:"side_count"`
	SideLength float64 `json:"side_length" yaml:"side_length"`
}

func (p *RegularPolygon) Family() FamilyName { return FamilyRegularPolygon }

func (p *RegularPolygon) Constraints() []Constraint {
	return []Constraint{
		IntBetween("sideCount", p.SideCount, MinPolygonSides, MaxPolygonSides),
		Positive("sideLength", p.SideLength),
	}
}

func (p *RegularPolygon) circumradius() float64 {
	return p.SideLength / (2 * math.Sin(math.Pi/float64(p.SideCount)))
}

func (p *RegularPolygon) Derive() Metrics {
	n := float64(p.SideCount)
	r := p.circumradius()
	return Metrics{
		"circumradius": r,
		"inradius":     r * math.Cos(math.Pi/n),
		"area":         n * p.SideLength * p.SideLength / (4 * math.Tan(math.Pi/n)),
	}
}

func (p *RegularPolygon) Outline() Outline {
	r := p.circumradius()
	step := 2 * math.Pi / float64(p.SideCount)
	start := -math.Pi/2 - step/2
	out := geometry.EmptyRange()
	for i := 0; i < p.SideCount; i++ {
		sin, cos := math.Sincos(start + step*float64(i))
		out = out.Extend(geometry.Pt(r*cos, r*sin))
	}
	return solidOutline(out)
}

// HollowRectangle is a rectangular tube with optional inner and outer
// corner radii.
type HollowRectangle struct {
	Width             float64 `json:"width" yaml:"width"`
	Depth             float64 `json:"depth" yaml:"depth"`
	WallThickness     float64 `json:"wall_thickness" yaml:"wall_thickness"`
	InnerFilletRadius float64 `json:"inner_fillet_radius" yaml:"inner_fillet_radius"`
	OuterFilletRadius float64 `json:"outer_fillet_radius" yaml:"outer_fillet_radius"`
}

func (p *HollowRectangle) Family() FamilyName { return FamilyHollowRectangle }

func (p *HollowRectangle) innerWidth() float64 {
	return geometry.FaceLength(p.Width, p.WallThickness, 2)
}

func (p *HollowRectangle) innerDepth() float64 {
	return geometry.FaceLength(p.Depth, p.WallThickness, 2)
}

func (p *HollowRectangle) Constraints() []Constraint {
	return []Constraint{
		Positive("width", p.Width),
		Positive("depth", p.Depth),
		Positive("wallThickness", p.WallThickness),
		NonNegative("innerFilletRadius", p.InnerFilletRadius),
		NonNegative("outerFilletRadius", p.OuterFilletRadius),
		LessThan("wallThickness", p.WallThickness, "width/2", p.Width/2),
		LessThan("wallThickness", p.WallThickness, "depth/2", p.Depth/2),
		AtMost("innerFilletRadius", p.InnerFilletRadius, "innerWidth/2",
			geometry.AvailableFilletSpan(p.innerWidth(), 0)),
		AtMost("innerFilletRadius", p.InnerFilletRadius, "innerDepth/2",
			geometry.AvailableFilletSpan(p.innerDepth(), 0)),
		AtMost("outerFilletRadius", p.OuterFilletRadius, "width/2", p.Width/2),
		AtMost("outerFilletRadius", p.OuterFilletRadius, "depth/2", p.Depth/2),
	}
}

func (p *HollowRectangle) Derive() Metrics {
	return Metrics{
		"innerWidth": p.innerWidth(),
		"innerDepth": p.innerDepth(),
	}
}

func (p *HollowRectangle) Outline() Outline {
	return hollowOutline(geometry.CenteredRange(p.Width, p.Depth))
}
