package profiles

import (
	"fmt"
	"math"

	"github.com/steelshape/steelshape/pkg/geometry"
)

// Double angle arrangements: long legs back to back or short legs back to
// back.
const (
	LongLegsBackToBack  = "LLBB"
	ShortLegsBackToBack = "SLBB"
)

// DoubleLShape is two copies of one LShape placed back to back with a gap.
type DoubleLShape struct {
	SingleProfileID string  `json:"single_profile_id" yaml:"single_profile_id"`
	Spacing         float64 `json:"spacing" yaml:"spacing"`
	Type            string  `json:"type" yaml:"type"`
}

func (p *DoubleLShape) Family() FamilyName { return FamilyDoubleLShape }

// SetSingleProfile records the referenced angle. It never fails; the
// target is resolved at commit.
func (p *DoubleLShape) SetSingleProfile(id string) { p.SingleProfileID = id }

func (p *DoubleLShape) Constraints() []Constraint {
	return []Constraint{
		NonNegative("spacing", p.Spacing),
		OneOf("type", p.Type, LongLegsBackToBack, ShortLegsBackToBack),
	}
}

func (p *DoubleLShape) Derive() Metrics {
	return Metrics{"spacing": p.Spacing}
}

func (p *DoubleLShape) References() []Reference {
	return []Reference{{
		Role:     "singleProfile",
		TargetID: p.SingleProfileID,
		Requires: Requirement{Family: FamilyLShape},
	}}
}

func (p *DoubleLShape) ComposeOutline(upstream []Outline) Outline {
	w, d := upstream[0].Range.Width(), upstream[0].Range.Depth()
	short, long := math.Min(w, d), math.Max(w, d)
	if p.Type == ShortLegsBackToBack {
		return unionOutline(geometry.CenteredRange(2*long+p.Spacing, short), 2)
	}
	return unionOutline(geometry.CenteredRange(2*short+p.Spacing, long), 2)
}

// DoubleCShape is two copies of one CShape placed back to back.
type DoubleCShape struct {
	SingleProfileID string  `json:"single_profile_id" yaml:"single_profile_id"`
	Spacing         float64 `json:"spacing" yaml:"spacing"`
}

func (p *DoubleCShape) Family() FamilyName { return FamilyDoubleCShape }

// SetSingleProfile records the referenced channel.
func (p *DoubleCShape) SetSingleProfile(id string) { p.SingleProfileID = id }

func (p *DoubleCShape) Constraints() []Constraint {
	return []Constraint{NonNegative("spacing", p.Spacing)}
}

func (p *DoubleCShape) Derive() Metrics {
	return Metrics{"spacing": p.Spacing}
}

func (p *DoubleCShape) References() []Reference {
	return []Reference{{
		Role:     "singleProfile",
		TargetID: p.SingleProfileID,
		Requires: Requirement{Family: FamilyCShape},
	}}
}

func (p *DoubleCShape) ComposeOutline(upstream []Outline) Outline {
	r := upstream[0].Range
	return unionOutline(geometry.CenteredRange(2*r.Width()+p.Spacing, r.Depth()), 2)
}

// DerivedProfile places a transformed copy of a single-perimeter profile.
type DerivedProfile struct {
	BaseProfileID    string         `json:"base_profile_id" yaml:"base_profile_id"`
	Offset           geometry.Point `json:"offset" yaml:"offset"`
	ScaleX           float64        `json:"scale_x" yaml:"scale_x"`
	ScaleY           float64        `json:"scale_y" yaml:"scale_y"`
	Rotation         float64        `json:"rotation" yaml:"rotation"`
	MirrorAboutYAxis bool           `json:"mirror_about_y_axis" yaml:"mirror_about_y_axis"`
}

func (p *DerivedProfile) Family() FamilyName { return FamilyDerivedProfile }

// SetBaseProfile records the profile being transformed.
func (p *DerivedProfile) SetBaseProfile(id string) { p.BaseProfileID = id }

func (p *DerivedProfile) transform() geometry.Transform2D {
	return geometry.Transform2D{
		Offset:   p.Offset,
		ScaleX:   p.ScaleX,
		ScaleY:   p.ScaleY,
		Rotation: p.Rotation,
		Mirror:   p.MirrorAboutYAxis,
	}
}

func (p *DerivedProfile) Constraints() []Constraint {
	return []Constraint{
		Finite("offset.x", p.Offset.X),
		Finite("offset.y", p.Offset.Y),
		Positive("scaleX", p.ScaleX),
		Positive("scaleY", p.ScaleY),
		Finite("rotation", p.Rotation),
	}
}

func (p *DerivedProfile) Derive() Metrics {
	return Metrics{"areaScale": p.ScaleX * p.ScaleY}
}

func (p *DerivedProfile) References() []Reference {
	return []Reference{{
		Role:     "baseProfile",
		TargetID: p.BaseProfileID,
		Requires: Requirement{SinglePerimeter: true},
	}}
}

func (p *DerivedProfile) ComposeOutline(upstream []Outline) Outline {
	base := upstream[0]
	base.Range = p.transform().ApplyRange(base.Range)
	return base
}

// Component is one placed member of an ArbitraryCompositeProfile.
type Component struct {
	ProfileID string         `json:"profile_id" yaml:"profile_id"`
	Offset    geometry.Point `json:"offset" yaml:"offset"`
	Rotation  float64        `json:"rotation" yaml:"rotation"`
	Mirror    bool           `json:"mirror" yaml:"mirror"`
}

func (c Component) transform() geometry.Transform2D {
	t := geometry.Identity()
	t.Offset, t.Rotation, t.Mirror = c.Offset, c.Rotation, c.Mirror
	return t
}

// MinCompositeComponents is the smallest composite.
const MinCompositeComponents = 2

// ArbitraryCompositeProfile is a union of placed single-perimeter
// profiles.
type ArbitraryCompositeProfile struct {
	Components []Component `json:"components" yaml:"components"`
}

func (p *ArbitraryCompositeProfile) Family() FamilyName { return FamilyArbitraryComposite }

// SetComponentProfile records the profile of component i, growing the
// component list if needed.
func (p *ArbitraryCompositeProfile) SetComponentProfile(i int, id string) {
	for len(p.Components) <= i {
		p.Components = append(p.Components, Component{})
	}
	p.Components[i].ProfileID = id
}

func (p *ArbitraryCompositeProfile) Constraints() []Constraint {
	rows := []Constraint{AtLeastCount("components", len(p.Components), MinCompositeComponents)}
	for i, c := range p.Components {
		prefix := fmt.Sprintf("components[%d]", i)
		rows = append(rows,
			Finite(prefix+".offset.x", c.Offset.X),
			Finite(prefix+".offset.y", c.Offset.Y),
			Finite(prefix+".rotation", c.Rotation),
		)
	}
	return rows
}

func (p *ArbitraryCompositeProfile) Derive() Metrics {
	return Metrics{"components": float64(len(p.Components))}
}

func (p *ArbitraryCompositeProfile) References() []Reference {
	refs := make([]Reference, len(p.Components))
	for i, c := range p.Components {
		refs[i] = Reference{
			Role:     fmt.Sprintf("components[%d]", i),
			TargetID: c.ProfileID,
			Requires: Requirement{SinglePerimeter: true},
		}
	}
	return refs
}

func (p *ArbitraryCompositeProfile) ComposeOutline(upstream []Outline) Outline {
	r := geometry.EmptyRange()
	var children int
	for i, o := range upstream {
		r = r.Union(p.Components[i].transform().ApplyRange(o.Range))
		children += o.Children
	}
	return unionOutline(r, children)
}

func unionOutline(r geometry.Range, children int) Outline {
	return Outline{Range: r, Boundary: BoundaryUnion, Children: children}
}
