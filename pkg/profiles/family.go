package profiles

import (
	"github.com/steelshape/steelshape/pkg/geometry"
	"github.com/steelshape/steelshape/pkg/topology"
)

// FamilyName is the registered name of a shape family.
type FamilyName string

// Kind groups families by how their geometry is defined.
type Kind string

const (
	KindParametric  Kind = "parametric"
	KindArbitrary   Kind = "arbitrary"
	KindReferencing Kind = "referencing"
)

// Family is a profile's parameter set. Implementations are plain structs
// mutated through their fields or setters before commit.
type Family interface {
	// Family returns the registered family name.
	Family() FamilyName

	// Constraints returns the ordered constraint table for the current
	// parameter values.
	Constraints() []Constraint

	// Derive returns the derived metrics of the current parameters.
	Derive() Metrics
}

// Outliner is implemented by families whose outline depends only on their
// own parameters.
type Outliner interface {
	Outline() Outline
}

// CurveBased is implemented by arbitrary families. ValidateCurves runs the
// topology validator and returns its error unchanged.
type CurveBased interface {
	ValidateCurves() (Outline, error)
}

// Referencing is implemented by families defined in terms of other profile
// instances.
type Referencing interface {
	// References returns the family's edges, including unset ones.
	References() []Reference

	// ComposeOutline builds the outline from the outlines of the resolved
	// references, given in References order.
	ComposeOutline(upstream []Outline) Outline
}

// Metrics holds derived quantities keyed by name. Values are recomputed on
// every call and never stored.
type Metrics map[string]float64

// BoundaryType describes the boundary of an outline.
type BoundaryType string

const (
	BoundaryOuter  BoundaryType = "outer"
	BoundaryParity BoundaryType = "parity"
	BoundaryUnion  BoundaryType = "union"
	BoundaryOpen   BoundaryType = "open"
)

// Outline is the part of an assembled outline the engine interrogates.
type Outline struct {
	Range    geometry.Range `json:"range"`
	Boundary BoundaryType   `json:"boundary"`
	Children int            `json:"children"`
}

// solidOutline is the outline of a single closed perimeter.
func solidOutline(r geometry.Range) Outline {
	return Outline{Range: r, Boundary: BoundaryOuter, Children: 1}
}

// hollowOutline is the outline of a perimeter with one hole.
func hollowOutline(r geometry.Range) Outline {
	return Outline{Range: r, Boundary: BoundaryParity, Children: 2}
}

func regionOutline(region *topology.Region) Outline {
	if region.Kind == topology.RegionParity {
		return hollowOutline(region.Range())
	}
	return solidOutline(region.Range())
}
