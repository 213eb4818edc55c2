package profiles

import (
	"github.com/steelshape/steelshape/pkg/topology"
)

// ArbitraryShape is a region bounded by user supplied curves.
type ArbitraryShape struct {
	Network topology.CurveNetwork `json:"network" yaml:"network"`
}

func (p *ArbitraryShape) Family() FamilyName { return FamilyArbitraryShape }

// Constraints is empty: the geometry is checked by ValidateCurves.
func (p *ArbitraryShape) Constraints() []Constraint { return nil }

func (p *ArbitraryShape) Derive() Metrics {
	region, err := topology.Validate(p.Network)
	if err != nil {
		return Metrics{}
	}
	return Metrics{
		"area":  region.Area(),
		"loops": float64(region.LoopCount()),
	}
}

func (p *ArbitraryShape) ValidateCurves() (Outline, error) {
	region, err := topology.Validate(p.Network)
	if err != nil {
		return Outline{}, err
	}
	return regionOutline(region), nil
}

// ArbitraryCenterLine is a wall of constant thickness swept along a user
// supplied center line.
type ArbitraryCenterLine struct {
	Network       topology.CurveNetwork `json:"network" yaml:"network"`
	WallThickness float64               `json:"wall_thickness" yaml:"wall_thickness"`
}

func (p *ArbitraryCenterLine) Family() FamilyName { return FamilyArbitraryCenterLine }

func (p *ArbitraryCenterLine) Constraints() []Constraint {
	return []Constraint{Positive("wallThickness", p.WallThickness)}
}

func (p *ArbitraryCenterLine) Derive() Metrics {
	path, err := topology.ValidateCenterLine(p.Network)
	if err != nil {
		return Metrics{}
	}
	return Metrics{
		"length": path.Length,
		"area":   path.Length * p.WallThickness,
	}
}

func (p *ArbitraryCenterLine) ValidateCurves() (Outline, error) {
	path, err := topology.ValidateCenterLine(p.Network)
	if err != nil {
		return Outline{}, err
	}
	r := path.Range.Grow(p.WallThickness / 2)
	if path.Closed {
		return hollowOutline(r), nil
	}
	return solidOutline(r), nil
}
