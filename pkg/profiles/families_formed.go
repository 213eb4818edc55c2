package profiles

import (
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// SchifflerizedLShape is an equal-leg angle whose legs are bent inward to
// form a 60° included angle at LegBendOffset from the heel.
type SchifflerizedLShape struct {
	LegLength     float64 `json:"leg_length" yaml:"leg_length"`
	Thickness     float64 `json:"thickness" yaml:"thickness"`
	LegBendOffset float64 `json:"leg_bend_offset" yaml:"leg_bend_offset"`
	FilletRadius  float64 `json:"fillet_radius" yaml:"fillet_radius"`
	EdgeRadius    float64 `json:"edge_radius" yaml:"edge_radius"`
}

func (p *SchifflerizedLShape) Family() FamilyName { return FamilySchifflerizedLShape }

func (p *SchifflerizedLShape) Constraints() []Constraint {
	return []Constraint{
		Positive("legLength", p.LegLength),
		Positive("thickness", p.Thickness),
		Positive("legBendOffset", p.LegBendOffset),
		NonNegative("filletRadius", p.FilletRadius),
		NonNegative("edgeRadius", p.EdgeRadius),
		LessThan("thickness", p.Thickness, "legLength", p.LegLength),
		Between("legBendOffset", p.LegBendOffset,
			"thickness", p.Thickness, "legLength - thickness", p.LegLength-p.Thickness),
		AtMost("filletRadius", p.FilletRadius, "(legBendOffset - thickness)/2",
			geometry.AvailableFilletSpan(p.LegBendOffset-p.Thickness, 0)),
		AtMost("edgeRadius", p.EdgeRadius, "thickness/2",
			geometry.AvailableFilletSpan(p.Thickness, 0)),
	}
}

func (p *SchifflerizedLShape) Derive() Metrics {
	return Metrics{
		"legInnerFace":    geometry.FaceLength(p.LegLength, p.Thickness, 1),
		"bentLegLength":   p.LegLength - p.LegBendOffset,
		"heelInnerLength": p.LegBendOffset - p.Thickness,
	}
}

func (p *SchifflerizedLShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.LegLength, p.LegLength))
}

// BentPlate is a plate of constant thickness bent once. BendAngle is the
// included angle between the two legs; Width is the developed length and
// BendOffset the distance from one edge to the bend line.
type BentPlate struct {
	Width         float64 `json:"width" yaml:"width"`
	BendAngle     float64 `json:"bend_angle" yaml:"bend_angle"`
	BendOffset    float64 `json:"bend_offset" yaml:"bend_offset"`
	BendRadius    float64 `json:"bend_radius" yaml:"bend_radius"`
	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
}

func (p *BentPlate) Family() FamilyName { return FamilyBentPlate }

// tangentLength is how far the bend arc eats into each leg.
func (p *BentPlate) tangentLength() float64 {
	return p.BendRadius * math.Tan((math.Pi-p.BendAngle)/2)
}

func (p *BentPlate) Constraints() []Constraint {
	tangent := p.tangentLength()
	return []Constraint{
		Positive("width", p.Width),
		AngleBetween("bendAngle", p.BendAngle, 0, math.Pi, "0", "pi"),
		Positive("bendOffset", p.BendOffset),
		NonNegative("bendRadius", p.BendRadius),
		Positive("wallThickness", p.WallThickness),
		LessThan("bendOffset", p.BendOffset, "width", p.Width),
		LessThan("wallThickness", p.WallThickness, "bendOffset", p.BendOffset),
		LessThan("wallThickness", p.WallThickness, "width - bendOffset", p.Width-p.BendOffset),
		AtMost("bendTangentLength", tangent, "bendOffset", p.BendOffset),
		AtMost("bendTangentLength", tangent, "width - bendOffset", p.Width-p.BendOffset),
	}
}

func (p *BentPlate) Derive() Metrics {
	return Metrics{
		"bendTangentLength": p.tangentLength(),
		"firstLegLength":    p.BendOffset,
		"secondLegLength":   p.Width - p.BendOffset,
	}
}

func (p *BentPlate) Outline() Outline {
	// First leg runs from the bend toward -x, the second leg leaves the bend
	// at BendAngle from the first.
	sin, cos := math.Sincos(math.Pi - p.BendAngle)
	second := p.Width - p.BendOffset
	r := geometry.EmptyRange().
		Extend(geometry.Pt(-p.BendOffset, 0)).
		Extend(geometry.Pt(0, 0)).
		Extend(geometry.Pt(second*cos, second*sin))
	return solidOutline(r.Grow(p.WallThickness / 2))
}

// CenterLineCShape is a cold-formed channel described on its center line,
// with optional lips of length Girth.
type CenterLineCShape struct {
	FlangeWidth   float64 `json:"flange_width" yaml:"flange_width"`
	Depth         float64 `json:"depth" yaml:"depth"`
	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
	FilletRadius  float64 `json:"fillet_radius" yaml:"fillet_radius"`
	Girth         float64 `json:"girth" yaml:"girth"`
}

func (p *CenterLineCShape) Family() FamilyName { return FamilyCenterLineCShape }

func (p *CenterLineCShape) Constraints() []Constraint {
	return coldFormedConstraints("flangeWidth", p.FlangeWidth, p.Depth, p.WallThickness,
		p.FilletRadius, p.Girth, false)
}

func (p *CenterLineCShape) Derive() Metrics {
	return coldFormedMetrics(p.FlangeWidth, p.Depth, p.WallThickness, p.Girth, 2)
}

func (p *CenterLineCShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.FlangeWidth+p.WallThickness, p.Depth+p.WallThickness))
}

// CenterLineLShape is a cold-formed angle described on its center line.
type CenterLineLShape struct {
	Width         float64 `json:"width" yaml:"width"`
	Depth         float64 `json:"depth" yaml:"depth"`
	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
	FilletRadius  float64 `json:"fillet_radius" yaml:"fillet_radius"`
	Girth         float64 `json:"girth" yaml:"girth"`
}

func (p *CenterLineLShape) Family() FamilyName { return FamilyCenterLineLShape }

func (p *CenterLineLShape) Constraints() []Constraint {
	return coldFormedConstraints("width", p.Width, p.Depth, p.WallThickness,
		p.FilletRadius, p.Girth, true)
}

func (p *CenterLineLShape) Derive() Metrics {
	return coldFormedMetrics(p.Width, p.Depth, p.WallThickness, p.Girth, 1)
}

func (p *CenterLineLShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.Width+p.WallThickness, p.Depth+p.WallThickness))
}

// CenterLineZShape is a cold-formed zed described on its center line.
type CenterLineZShape struct {
	FlangeWidth   float64 `json:"flange_width" yaml:"flange_width"`
	Depth         float64 `json:"depth" yaml:"depth"`
	WallThickness float64 `json:"wall_thickness" yaml:"wall_thickness"`
	FilletRadius  float64 `json:"fillet_radius" yaml:"fillet_radius"`
	Girth         float64 `json:"girth" yaml:"girth"`
}

func (p *CenterLineZShape) Family() FamilyName { return FamilyCenterLineZShape }

func (p *CenterLineZShape) Constraints() []Constraint {
	return coldFormedConstraints("flangeWidth", p.FlangeWidth, p.Depth, p.WallThickness,
		p.FilletRadius, p.Girth, false)
}

func (p *CenterLineZShape) Derive() Metrics {
	return coldFormedMetrics(p.FlangeWidth, p.Depth, p.WallThickness, p.Girth, 2)
}

func (p *CenterLineZShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(2*p.FlangeWidth+p.WallThickness, p.Depth+p.WallThickness))
}

// coldFormedConstraints is the table shared by the center-line families.
// widthField names the horizontal dimension; boundGirthByWidth adds the
// extra lip bound of the angle, whose lip runs along the width.
func coldFormedConstraints(widthField string, width, depth, wall, fillet, girth float64,
	boundGirthByWidth bool) []Constraint {
	rows := []Constraint{
		Positive(widthField, width),
		Positive("depth", depth),
		Positive("wallThickness", wall),
		NonNegative("filletRadius", fillet),
		NonNegative("girth", girth),
		LessThan("wallThickness", wall, widthField+"/2", width/2),
		LessThan("wallThickness", wall, "depth/2", depth/2),
		AtMost("filletRadius", fillet, "("+widthField+" - 2*wallThickness)/2",
			geometry.AvailableFilletSpan(geometry.FaceLength(width, wall, 2), 0)),
		AtMost("filletRadius", fillet, "(depth - 2*wallThickness)/2",
			geometry.AvailableFilletSpan(geometry.FaceLength(depth, wall, 2), 0)),
		ZeroOr(girth, Between("girth", girth,
			"wallThickness + filletRadius", wall+fillet, "depth/2", depth/2)),
	}
	if boundGirthByWidth {
		rows = append(rows, ZeroOr(girth, LessThan("girth", girth, widthField+"/2", width/2)))
	}
	return rows
}

func coldFormedMetrics(width, depth, wall, girth float64, flanges int) Metrics {
	return Metrics{
		"flatWidth":       geometry.FaceLength(width, wall, 2),
		"flatDepth":       geometry.FaceLength(depth, wall, 2),
		"developedLength": depth + float64(flanges)*width + float64(flanges)*girth,
	}
}
