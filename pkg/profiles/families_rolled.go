package profiles

import (
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// IShape is a doubly symmetric I (H, W) section with optionally sloped
// flanges.
type IShape struct {
	FlangeWidth      float64 `json:"flange_width" yaml:"flange_width"`
	Depth            float64 `json:"depth" yaml:"depth"`
	FlangeThickness  float64 `json:"flange_thickness" yaml:"flange_thickness"`
	WebThickness     float64 `json:"web_thickness" yaml:"web_thickness"`
	FilletRadius     float64 `json:"fillet_radius" yaml:"fillet_radius"`
	FlangeEdgeRadius float64 `json:"flange_edge_radius" yaml:"flange_edge_radius"`
	FlangeSlope      float64 `json:"flange_slope" yaml:"flange_slope"`
}

func (p *IShape) Family() FamilyName { return FamilyIShape }

// flangeInnerFace is the outstand of one flange half, from web face to tip.
func (p *IShape) flangeInnerFace() float64 {
	return geometry.FaceLength(p.FlangeWidth, p.WebThickness, 1) / 2
}

func (p *IShape) flangeSlopeHeight() float64 {
	return geometry.SlopeHeight(p.flangeInnerFace(), p.FlangeSlope)
}

func (p *IShape) webInnerFace() float64 {
	return geometry.FaceLength(p.Depth, p.FlangeThickness, 2)
}

func (p *IShape) Constraints() []Constraint {
	flange := p.flangeInnerFace()
	return []Constraint{
		Positive("flangeWidth", p.FlangeWidth),
		Positive("depth", p.Depth),
		Positive("flangeThickness", p.FlangeThickness),
		Positive("webThickness", p.WebThickness),
		NonNegative("filletRadius", p.FilletRadius),
		NonNegative("flangeEdgeRadius", p.FlangeEdgeRadius),
		SlopeAngle("flangeSlope", p.FlangeSlope),
		LessThan("flangeThickness", p.FlangeThickness, "depth/2", p.Depth/2),
		LessThan("webThickness", p.WebThickness, "flangeWidth", p.FlangeWidth),
		AtMost("filletRadius", p.FilletRadius, "webInnerFace/2 - flangeSlopeHeight",
			geometry.AvailableFilletSpan(p.webInnerFace(), p.flangeSlopeHeight())),
		AtMost("filletRadius", p.FilletRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
		AtMost("flangeEdgeRadius", p.FlangeEdgeRadius, "flangeThickness/2",
			geometry.AvailableFilletSpan(p.FlangeThickness, 0)),
		AtMost("flangeEdgeRadius", p.FlangeEdgeRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
	}
}

func (p *IShape) Derive() Metrics {
	return Metrics{
		"flangeInnerFace":   p.flangeInnerFace(),
		"flangeSlopeHeight": p.flangeSlopeHeight(),
		"webInnerFace":      p.webInnerFace(),
	}
}

func (p *IShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.FlangeWidth, p.Depth))
}

// AsymmetricIShape is an I section whose top and bottom flanges differ.
type AsymmetricIShape struct {
	TopFlangeWidth           float64 `json:"top_flange_width" yaml:"top_flange_width"`
	BottomFlangeWidth        float64 `json:"bottom_flange_width" yaml:"bottom_flange_width"`
	Depth                    float64 `json:"depth" yaml:"depth"`
	TopFlangeThickness       float64 `json:"top_flange_thickness" yaml:"top_flange_thickness"`
	BottomFlangeThickness    float64 `json:"bottom_flange_thickness" yaml:"bottom_flange_thickness"`
	WebThickness             float64 `json:"web_thickness" yaml:"web_thickness"`
	TopFlangeFilletRadius    float64 `json:"top_flange_fillet_radius" yaml:"top_flange_fillet_radius"`
	TopFlangeEdgeRadius      float64 `json:"top_flange_edge_radius" yaml:"top_flange_edge_radius"`
	TopFlangeSlope           float64 `json:"top_flange_slope" yaml:"top_flange_slope"`
	BottomFlangeFilletRadius float64 `json:"bottom_flange_fillet_radius" yaml:"bottom_flange_fillet_radius"`
	BottomFlangeEdgeRadius   float64 `json:"bottom_flange_edge_radius" yaml:"bottom_flange_edge_radius"`
	BottomFlangeSlope        float64 `json:"bottom_flange_slope" yaml:"bottom_flange_slope"`
}

func (p *AsymmetricIShape) Family() FamilyName { return FamilyAsymmetricIShape }

func (p *AsymmetricIShape) topFlangeInnerFace() float64 {
	return geometry.FaceLength(p.TopFlangeWidth, p.WebThickness, 1) / 2
}

func (p *AsymmetricIShape) bottomFlangeInnerFace() float64 {
	return geometry.FaceLength(p.BottomFlangeWidth, p.WebThickness, 1) / 2
}

func (p *AsymmetricIShape) topFlangeSlopeHeight() float64 {
	return geometry.SlopeHeight(p.topFlangeInnerFace(), p.TopFlangeSlope)
}

func (p *AsymmetricIShape) bottomFlangeSlopeHeight() float64 {
	return geometry.SlopeHeight(p.bottomFlangeInnerFace(), p.BottomFlangeSlope)
}

func (p *AsymmetricIShape) webInnerFace() float64 {
	return p.Depth - p.TopFlangeThickness - p.BottomFlangeThickness
}

func (p *AsymmetricIShape) Constraints() []Constraint {
	top, bottom := p.topFlangeInnerFace(), p.bottomFlangeInnerFace()
	web := p.webInnerFace()
	return []Constraint{
		Positive("topFlangeWidth", p.TopFlangeWidth),
		Positive("bottomFlangeWidth", p.BottomFlangeWidth),
		Positive("depth", p.Depth),
		Positive("topFlangeThickness", p.TopFlangeThickness),
		Positive("bottomFlangeThickness", p.BottomFlangeThickness),
		Positive("webThickness", p.WebThickness),
		NonNegative("topFlangeFilletRadius", p.TopFlangeFilletRadius),
		NonNegative("topFlangeEdgeRadius", p.TopFlangeEdgeRadius),
		NonNegative("bottomFlangeFilletRadius", p.BottomFlangeFilletRadius),
		NonNegative("bottomFlangeEdgeRadius", p.BottomFlangeEdgeRadius),
		SlopeAngle("topFlangeSlope", p.TopFlangeSlope),
		SlopeAngle("bottomFlangeSlope", p.BottomFlangeSlope),
		LessThan("topFlangeThickness + bottomFlangeThickness",
			p.TopFlangeThickness+p.BottomFlangeThickness, "depth", p.Depth),
		LessThan("webThickness", p.WebThickness, "topFlangeWidth", p.TopFlangeWidth),
		LessThan("webThickness", p.WebThickness, "bottomFlangeWidth", p.BottomFlangeWidth),
		AtMost("topFlangeFilletRadius", p.TopFlangeFilletRadius, "topFlangeInnerFace/2",
			geometry.AvailableFilletSpan(top, 0)),
		AtMost("topFlangeFilletRadius", p.TopFlangeFilletRadius, "webInnerFace/2 - bottomFlangeSlopeHeight",
			geometry.AvailableFilletSpan(web, p.bottomFlangeSlopeHeight())),
		AtMost("topFlangeEdgeRadius", p.TopFlangeEdgeRadius, "topFlangeThickness/2",
			geometry.AvailableFilletSpan(p.TopFlangeThickness, 0)),
		AtMost("topFlangeEdgeRadius", p.TopFlangeEdgeRadius, "topFlangeInnerFace/2",
			geometry.AvailableFilletSpan(top, 0)),
		AtMost("bottomFlangeFilletRadius", p.BottomFlangeFilletRadius, "bottomFlangeInnerFace/2",
			geometry.AvailableFilletSpan(bottom, 0)),
		AtMost("bottomFlangeFilletRadius", p.BottomFlangeFilletRadius, "webInnerFace/2 - topFlangeSlopeHeight",
			geometry.AvailableFilletSpan(web, p.topFlangeSlopeHeight())),
		AtMost("bottomFlangeEdgeRadius", p.BottomFlangeEdgeRadius, "bottomFlangeThickness/2",
			geometry.AvailableFilletSpan(p.BottomFlangeThickness, 0)),
		AtMost("bottomFlangeEdgeRadius", p.BottomFlangeEdgeRadius, "bottomFlangeInnerFace/2",
			geometry.AvailableFilletSpan(bottom, 0)),
	}
}

func (p *AsymmetricIShape) Derive() Metrics {
	return Metrics{
		"topFlangeInnerFace":      p.topFlangeInnerFace(),
		"bottomFlangeInnerFace":   p.bottomFlangeInnerFace(),
		"topFlangeSlopeHeight":    p.topFlangeSlopeHeight(),
		"bottomFlangeSlopeHeight": p.bottomFlangeSlopeHeight(),
		"webInnerFace":            p.webInnerFace(),
	}
}

func (p *AsymmetricIShape) Outline() Outline {
	w := math.Max(p.TopFlangeWidth, p.BottomFlangeWidth)
	return solidOutline(geometry.CenteredRange(w, p.Depth))
}

// CShape is a channel: a web with two flanges on one side.
type CShape struct {
	FlangeWidth      float64 `json:"flange_width" yaml:"flange_width"`
	Depth            float64 `json:"depth" yaml:"depth"`
	FlangeThickness  float64 `json:"flange_thickness" yaml:"flange_thickness"`
	WebThickness     float64 `json:"web_thickness" yaml:"web_thickness"`
	FilletRadius     float64 `json:"fillet_radius" yaml:"fillet_radius"`
	FlangeEdgeRadius float64 `json:"flange_edge_radius" yaml:"flange_edge_radius"`
	FlangeSlope      float64 `json:"flange_slope" yaml:"flange_slope"`
}

func (p *CShape) Family() FamilyName { return FamilyCShape }

func (p *CShape) Constraints() []Constraint {
	return flangedConstraints(p.FlangeWidth, p.Depth, p.FlangeThickness, p.WebThickness,
		p.FilletRadius, p.FlangeEdgeRadius, p.FlangeSlope)
}

func (p *CShape) Derive() Metrics {
	return flangedMetrics(p.FlangeWidth, p.Depth, p.FlangeThickness, p.WebThickness, p.FlangeSlope)
}

func (p *CShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.FlangeWidth, p.Depth))
}

// ZShape has its two flanges on opposite sides of the web.
type ZShape struct {
	FlangeWidth      float64 `json:"flange_width" yaml:"flange_width"`
	Depth            float64 `json:"depth" yaml:"depth"`
	FlangeThickness  float64 `json:"flange_thickness" yaml:"flange_thickness"`
	WebThickness     float64 `json:"web_thickness" yaml:"web_thickness"`
	FilletRadius     float64 `json:"fillet_radius" yaml:"fillet_radius"`
	FlangeEdgeRadius float64 `json:"flange_edge_radius" yaml:"flange_edge_radius"`
	FlangeSlope      float64 `json:"flange_slope" yaml:"flange_slope"`
}

func (p *ZShape) Family() FamilyName { return FamilyZShape }

func (p *ZShape) Constraints() []Constraint {
	return flangedConstraints(p.FlangeWidth, p.Depth, p.FlangeThickness, p.WebThickness,
		p.FilletRadius, p.FlangeEdgeRadius, p.FlangeSlope)
}

func (p *ZShape) Derive() Metrics {
	return flangedMetrics(p.FlangeWidth, p.Depth, p.FlangeThickness, p.WebThickness, p.FlangeSlope)
}

func (p *ZShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(2*p.FlangeWidth-p.WebThickness, p.Depth))
}

// flangedConstraints is the table shared by channel-like sections whose
// flanges project from one face of the web.
func flangedConstraints(flangeWidth, depth, flangeThickness, webThickness,
	filletRadius, edgeRadius, slope float64) []Constraint {
	m := flangedMetrics(flangeWidth, depth, flangeThickness, webThickness, slope)
	flange := m["flangeInnerFace"]
	return []Constraint{
		Positive("flangeWidth", flangeWidth),
		Positive("depth", depth),
		Positive("flangeThickness", flangeThickness),
		Positive("webThickness", webThickness),
		NonNegative("filletRadius", filletRadius),
		NonNegative("flangeEdgeRadius", edgeRadius),
		SlopeAngle("flangeSlope", slope),
		LessThan("flangeThickness", flangeThickness, "depth/2", depth/2),
		LessThan("webThickness", webThickness, "flangeWidth", flangeWidth),
		AtMost("filletRadius", filletRadius, "webInnerFace/2 - flangeSlopeHeight",
			geometry.AvailableFilletSpan(m["webInnerFace"], m["flangeSlopeHeight"])),
		AtMost("filletRadius", filletRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
		AtMost("flangeEdgeRadius", edgeRadius, "flangeThickness/2",
			geometry.AvailableFilletSpan(flangeThickness, 0)),
		AtMost("flangeEdgeRadius", edgeRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
	}
}

func flangedMetrics(flangeWidth, depth, flangeThickness, webThickness, slope float64) Metrics {
	flange := geometry.FaceLength(flangeWidth, webThickness, 1)
	return Metrics{
		"flangeInnerFace":   flange,
		"flangeSlopeHeight": geometry.SlopeHeight(flange, slope),
		"webInnerFace":      geometry.FaceLength(depth, flangeThickness, 2),
	}
}

// LShape is an angle with legs of Width and Depth and a common thickness.
type LShape struct {
	Width        float64 `json:"width" yaml:"width"`
	Depth        float64 `json:"depth" yaml:"depth"`
	Thickness    float64 `json:"thickness" yaml:"thickness"`
	FilletRadius float64 `json:"fillet_radius" yaml:"fillet_radius"`
	EdgeRadius   float64 `json:"edge_radius" yaml:"edge_radius"`
	LegSlope     float64 `json:"leg_slope" yaml:"leg_slope"`
}

func (p *LShape) Family() FamilyName { return FamilyLShape }

func (p *LShape) horizontalLegInnerFace() float64 {
	return geometry.FaceLength(p.Width, p.Thickness, 1)
}

func (p *LShape) verticalLegInnerFace() float64 {
	return geometry.FaceLength(p.Depth, p.Thickness, 1)
}

func (p *LShape) Constraints() []Constraint {
	h, v := p.horizontalLegInnerFace(), p.verticalLegInnerFace()
	return []Constraint{
		Positive("width", p.Width),
		Positive("depth", p.Depth),
		Positive("thickness", p.Thickness),
		NonNegative("filletRadius", p.FilletRadius),
		NonNegative("edgeRadius", p.EdgeRadius),
		SlopeAngle("legSlope", p.LegSlope),
		LessThan("thickness", p.Thickness, "width", p.Width),
		LessThan("thickness", p.Thickness, "depth", p.Depth),
		AtMost("filletRadius", p.FilletRadius, "horizontalLegInnerFace/2 - horizontalLegSlopeHeight",
			geometry.AvailableFilletSpan(h, geometry.SlopeHeight(h, p.LegSlope))),
		AtMost("filletRadius", p.FilletRadius, "verticalLegInnerFace/2 - verticalLegSlopeHeight",
			geometry.AvailableFilletSpan(v, geometry.SlopeHeight(v, p.LegSlope))),
		AtMost("edgeRadius", p.EdgeRadius, "thickness/2",
			geometry.AvailableFilletSpan(p.Thickness, 0)),
	}
}

func (p *LShape) Derive() Metrics {
	h, v := p.horizontalLegInnerFace(), p.verticalLegInnerFace()
	return Metrics{
		"horizontalLegInnerFace":   h,
		"verticalLegInnerFace":     v,
		"horizontalLegSlopeHeight": geometry.SlopeHeight(h, p.LegSlope),
		"verticalLegSlopeHeight":   geometry.SlopeHeight(v, p.LegSlope),
	}
}

func (p *LShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.Width, p.Depth))
}

// TShape is a tee: one flange on top of a single, optionally tapered web.
type TShape struct {
	FlangeWidth      float64 `json:"flange_width" yaml:"flange_width"`
	Depth            float64 `json:"depth" yaml:"depth"`
	FlangeThickness  float64 `json:"flange_thickness" yaml:"flange_thickness"`
	WebThickness     float64 `json:"web_thickness" yaml:"web_thickness"`
	FilletRadius     float64 `json:"fillet_radius" yaml:"fillet_radius"`
	FlangeEdgeRadius float64 `json:"flange_edge_radius" yaml:"flange_edge_radius"`
	FlangeSlope      float64 `json:"flange_slope" yaml:"flange_slope"`
	WebEdgeRadius    float64 `json:"web_edge_radius" yaml:"web_edge_radius"`
	WebSlope         float64 `json:"web_slope" yaml:"web_slope"`
}

func (p *TShape) Family() FamilyName { return FamilyTShape }

func (p *TShape) Derive() Metrics {
	return teeMetrics(p.FlangeWidth, p.Depth, p.FlangeThickness, p.WebThickness, 0, 1,
		p.FlangeSlope, p.WebSlope)
}

func (p *TShape) Constraints() []Constraint {
	m := p.Derive()
	flange, web := m["flangeInnerFace"], m["webInnerFace"]
	return []Constraint{
		Positive("flangeWidth", p.FlangeWidth),
		Positive("depth", p.Depth),
		Positive("flangeThickness", p.FlangeThickness),
		Positive("webThickness", p.WebThickness),
		NonNegative("filletRadius", p.FilletRadius),
		NonNegative("flangeEdgeRadius", p.FlangeEdgeRadius),
		NonNegative("webEdgeRadius", p.WebEdgeRadius),
		SlopeAngle("flangeSlope", p.FlangeSlope),
		SlopeAngle("webSlope", p.WebSlope),
		LessThan("flangeThickness", p.FlangeThickness, "depth", p.Depth),
		LessThan("webThickness", p.WebThickness, "flangeWidth", p.FlangeWidth),
		LessThan("webSlopeHeight", m["webSlopeHeight"], "webThickness/2", p.WebThickness/2),
		AtMost("filletRadius", p.FilletRadius, "webInnerFace/2 - flangeSlopeHeight",
			geometry.AvailableFilletSpan(web, m["flangeSlopeHeight"])),
		AtMost("filletRadius", p.FilletRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
		AtMost("flangeEdgeRadius", p.FlangeEdgeRadius, "flangeThickness/2",
			geometry.AvailableFilletSpan(p.FlangeThickness, 0)),
		AtMost("flangeEdgeRadius", p.FlangeEdgeRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
		AtMost("webEdgeRadius", p.WebEdgeRadius, "webThickness/2 - webSlopeHeight",
			geometry.AvailableFilletSpan(p.WebThickness, m["webSlopeHeight"])),
		AtMost("webEdgeRadius", p.WebEdgeRadius, "webInnerFace/2",
			geometry.AvailableFilletSpan(web, 0)),
	}
}

func (p *TShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.FlangeWidth, p.Depth))
}

// TTShape is a double tee: one flange carried by two parallel webs.
type TTShape struct {
	FlangeWidth      float64 `json:"flange_width" yaml:"flange_width"`
	Depth            float64 `json:"depth" yaml:"depth"`
	FlangeThickness  float64 `json:"flange_thickness" yaml:"flange_thickness"`
	WebThickness     float64 `json:"web_thickness" yaml:"web_thickness"`
	WebSpacing       float64 `json:"web_spacing" yaml:"web_spacing"`
	FilletRadius     float64 `json:"fillet_radius" yaml:"fillet_radius"`
	FlangeEdgeRadius float64 `json:"flange_edge_radius" yaml:"flange_edge_radius"`
	FlangeSlope      float64 `json:"flange_slope" yaml:"flange_slope"`
	WebEdgeRadius    float64 `json:"web_edge_radius" yaml:"web_edge_radius"`
	WebSlope         float64 `json:"web_slope" yaml:"web_slope"`
}

func (p *TTShape) Family() FamilyName { return FamilyTTShape }

func (p *TTShape) Derive() Metrics {
	return teeMetrics(p.FlangeWidth, p.Depth, p.FlangeThickness, p.WebThickness, p.WebSpacing, 2,
		p.FlangeSlope, p.WebSlope)
}

func (p *TTShape) Constraints() []Constraint {
	m := p.Derive()
	flange, web := m["flangeInnerFace"], m["webInnerFace"]
	return []Constraint{
		Positive("flangeWidth", p.FlangeWidth),
		Positive("depth", p.Depth),
		Positive("flangeThickness", p.FlangeThickness),
		Positive("webThickness", p.WebThickness),
		Positive("webSpacing", p.WebSpacing),
		NonNegative("filletRadius", p.FilletRadius),
		NonNegative("flangeEdgeRadius", p.FlangeEdgeRadius),
		NonNegative("webEdgeRadius", p.WebEdgeRadius),
		SlopeAngle("flangeSlope", p.FlangeSlope),
		SlopeAngle("webSlope", p.WebSlope),
		LessThan("flangeThickness", p.FlangeThickness, "depth", p.Depth),
		LessThan("2*webThickness + webSpacing", 2*p.WebThickness+p.WebSpacing,
			"flangeWidth", p.FlangeWidth),
		LessThan("webSlopeHeight", m["webSlopeHeight"], "webThickness/2", p.WebThickness/2),
		AtMost("filletRadius", p.FilletRadius, "webInnerFace/2 - flangeSlopeHeight",
			geometry.AvailableFilletSpan(web, m["flangeSlopeHeight"])),
		AtMost("filletRadius", p.FilletRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
		AtMost("filletRadius", p.FilletRadius, "webSpacing/2",
			geometry.AvailableFilletSpan(p.WebSpacing, 0)),
		AtMost("flangeEdgeRadius", p.FlangeEdgeRadius, "flangeThickness/2",
			geometry.AvailableFilletSpan(p.FlangeThickness, 0)),
		AtMost("flangeEdgeRadius", p.FlangeEdgeRadius, "flangeInnerFace/2",
			geometry.AvailableFilletSpan(flange, 0)),
		AtMost("webEdgeRadius", p.WebEdgeRadius, "webThickness/2 - webSlopeHeight",
			geometry.AvailableFilletSpan(p.WebThickness, m["webSlopeHeight"])),
	}
}

func (p *TTShape) Outline() Outline {
	return solidOutline(geometry.CenteredRange(p.FlangeWidth, p.Depth))
}

// teeMetrics covers single and double tees; webs is 1 or 2 and spacing is
// the clear distance between two webs.
func teeMetrics(flangeWidth, depth, flangeThickness, webThickness, spacing float64, webs int,
	flangeSlope, webSlope float64) Metrics {
	flange := (flangeWidth - float64(webs)*webThickness - spacing) / 2
	web := geometry.FaceLength(depth, flangeThickness, 1)
	return Metrics{
		"flangeInnerFace":   flange,
		"flangeSlopeHeight": geometry.SlopeHeight(flange, flangeSlope),
		"webInnerFace":      web,
		"webSlopeHeight":    geometry.SlopeHeight(web, webSlope),
	}
}
