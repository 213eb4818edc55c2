package topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/geometry"
)

func unitSquare() Primitive {
	return Rectangle(-1, -1, 1, 1)
}

func TestValidate_SingleRectangle(t *testing.T) {
	region, err := Validate(Network(unitSquare()))
	require.NoError(t, err)

	assert.Equal(t, RegionSingle, region.Kind)
	assert.Nil(t, region.Inner)
	assert.Equal(t, 1, region.LoopCount())
	assert.Equal(t, 5, region.Outer.PointCount())
	assert.InDelta(t, 4.0, region.Area(), 1e-12)
	assert.Equal(t, 2.0, region.Range().Width())
}

func TestValidate_ParityRegion(t *testing.T) {
	tests := []struct {
		name    string
		network CurveNetwork
	}{
		{
			name: "tagged",
			network: CurveNetwork{Loops: []Loop{
				OuterLoop(unitSquare()),
				InnerLoop(Rectangle(-0.5, -0.5, 0.5, 0.5)),
			}},
		},
		{
			name:    "inferred from nesting",
			network: Network(Rectangle(-0.5, -0.5, 0.5, 0.5), unitSquare()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := Validate(tt.network)
			require.NoError(t, err)

			assert.Equal(t, RegionParity, region.Kind)
			require.NotNil(t, region.Inner)
			assert.Equal(t, BoundaryInner, region.Inner.Boundary)
			assert.Equal(t, 5, region.Inner.PointCount())
			assert.Equal(t, 2, region.LoopCount())
			assert.InDelta(t, 3.0, region.Area(), 1e-12)
		})
	}
}

func TestValidate_MultipleRegions(t *testing.T) {
	tests := []struct {
		name    string
		network CurveNetwork
	}{
		{
			name:    "two disjoint rectangles",
			network: Network(unitSquare(), Rectangle(3, 3, 5, 5)),
		},
		{
			name: "two tagged outer loops",
			network: CurveNetwork{Loops: []Loop{
				OuterLoop(unitSquare()),
				OuterLoop(Rectangle(3, 3, 5, 5)),
			}},
		},
		{
			name: "two holes",
			network: CurveNetwork{Loops: []Loop{
				OuterLoop(Rectangle(-10, -10, 10, 10)),
				InnerLoop(Rectangle(-5, -5, -1, -1)),
				InnerLoop(Rectangle(1, 1, 5, 5)),
			}},
		},
		{
			name: "hole outside the outer loop",
			network: CurveNetwork{Loops: []Loop{
				OuterLoop(unitSquare()),
				InnerLoop(Rectangle(3, 3, 4, 4)),
			}},
		},
		{
			name: "inner loop only",
			network: CurveNetwork{Loops: []Loop{
				InnerLoop(unitSquare()),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := Validate(tt.network)
			assert.Nil(t, region)
			assert.ErrorIs(t, err, ErrMultipleRegions)
		})
	}
}

func TestValidate_NotClosed(t *testing.T) {
	tests := []struct {
		name    string
		network CurveNetwork
	}{
		{"two point line", Network(Line(geometry.Pt(0, 0), geometry.Pt(1, 0)))},
		{"open polyline", Network(Polyline(
			geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(1, 1), geometry.Pt(0, 1),
		))},
		{"open arc", Network(Arc(geometry.Pt(0, 0), 1, 0, math.Pi))},
		{"tagged loop with gap", CurveNetwork{Loops: []Loop{OuterLoop(
			Line(geometry.Pt(0, 0), geometry.Pt(1, 0)),
			Line(geometry.Pt(1, 0), geometry.Pt(1, 1)),
			Line(geometry.Pt(1, 1.5), geometry.Pt(0, 0)),
		)}}},
		{"branching curves", Network(
			Line(geometry.Pt(0, 0), geometry.Pt(1, 0)),
			Line(geometry.Pt(1, 0), geometry.Pt(2, 0)),
			Line(geometry.Pt(1, 0), geometry.Pt(1, 1)),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.network)
			assert.ErrorIs(t, err, ErrNotClosed)
		})
	}
}

func TestValidate_NoArea(t *testing.T) {
	_, err := Validate(Network(Circle(geometry.Pt(0, 0), 0)))
	assert.ErrorIs(t, err, ErrNoArea)

	collinear := Polyline(geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(2, 0), geometry.Pt(0, 0))
	_, err = Validate(Network(collinear))
	assert.ErrorIs(t, err, ErrNoArea)
}

func TestValidate_NotPlanar(t *testing.T) {
	lifted := Polyline(
		geometry.Pt(-1, -1),
		geometry.Pt(-1, 1),
		geometry.Point{X: 1, Y: 1, Z: 0.01},
		geometry.Pt(1, -1),
		geometry.Pt(-1, -1),
	)
	_, err := Validate(Network(lifted))
	assert.ErrorIs(t, err, ErrNotPlanar)

	raisedCircle := Circle(geometry.Point{Z: 0.01}, 1)
	_, err = Validate(Network(raisedCircle))
	assert.ErrorIs(t, err, ErrNotPlanar)
}

func TestValidate_ArcsAndShuffledLines(t *testing.T) {
	region, err := Validate(Network(Circle(geometry.Pt(2, 3), 1)))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, region.Area(), 1e-9)
	assert.InDelta(t, 2.0, region.Range().Width(), 1e-9)

	half := Network(
		Line(geometry.Pt(-1, 0), geometry.Pt(1, 0)),
		Arc(geometry.Pt(0, 0), 1, 0, math.Pi),
	)
	region, err = Validate(half)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, region.Area(), 1e-9)

	// lines given out of order and in mixed directions
	shuffled := Network(
		Line(geometry.Pt(1, 1), geometry.Pt(1, -1)),
		Line(geometry.Pt(-1, -1), geometry.Pt(-1, 1)),
		Line(geometry.Pt(-1, -1), geometry.Pt(1, -1)),
		Line(geometry.Pt(-1, 1), geometry.Pt(1, 1)),
	)
	region, err = Validate(shuffled)
	require.NoError(t, err)
	assert.Equal(t, RegionSingle, region.Kind)
	assert.Equal(t, 5, region.Outer.PointCount())
	assert.InDelta(t, 4.0, region.Area(), 1e-12)

	ring := Network(Circle(geometry.Pt(0, 0), 2), Circle(geometry.Pt(0, 0), 1))
	region, err = Validate(ring)
	require.NoError(t, err)
	assert.Equal(t, RegionParity, region.Kind)
	assert.InDelta(t, 3*math.Pi, region.Area(), 1e-9)
}

func TestValidate_EmptyAndMalformed(t *testing.T) {
	_, err := Validate(CurveNetwork{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Validate(Network(Polyline(geometry.Pt(0, 0))))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Validate(Network(Line(geometry.Pt(math.NaN(), 0), geometry.Pt(1, 0))))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValidate_ScaledTolerance(t *testing.T) {
	big := Rectangle(-1e4, -1e4, 1e4, 1e4)
	big.Points[4].X += 1e-4 // within 1e-6 × 1e4
	region, err := Validate(Network(big))
	require.NoError(t, err)
	assert.Equal(t, RegionSingle, region.Kind)
}

func TestValidate_PinchedAndCrossingLoops(t *testing.T) {
	tests := []struct {
		name    string
		network CurveNetwork
	}{
		{"figure eight polyline", Network(Polyline(
			geometry.Pt(0, 0), geometry.Pt(1, 0), geometry.Pt(1, 1), geometry.Pt(0, 1),
			geometry.Pt(0, 0), geometry.Pt(-1, 0), geometry.Pt(-1, -1), geometry.Pt(0, -1),
			geometry.Pt(0, 0),
		))},
		{"rectangles sharing a corner", Network(Rectangle(0, 0, 1, 1), Rectangle(0, 0, -1, -1))},
		{"bowtie", Network(Polyline(
			geometry.Pt(0, 0), geometry.Pt(2, 2), geometry.Pt(2, 0), geometry.Pt(0, 3), geometry.Pt(0, 0),
		))},
		{"vertex on a far edge", Network(Polyline(
			geometry.Pt(0, 0), geometry.Pt(4, 0), geometry.Pt(4, 2), geometry.Pt(2, 0.5),
			geometry.Pt(2, 0), geometry.Pt(0, 2), geometry.Pt(0, 0),
		))},
		{"tagged loops sharing a corner", CurveNetwork{Loops: []Loop{
			OuterLoop(Rectangle(0, 0, 1, 1)),
			OuterLoop(Rectangle(1, 1, 2, 2)),
		}}},
		{"hole touching the outer loop", CurveNetwork{Loops: []Loop{
			OuterLoop(unitSquare()),
			InnerLoop(Rectangle(-1, -0.5, 0, 0.5)),
		}}},
		{"crossing circles", Network(Circle(geometry.Pt(0, 0), 1), Circle(geometry.Pt(1, 0), 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := Validate(tt.network)
			assert.Nil(t, region)
			assert.ErrorIs(t, err, ErrMultipleRegions)
		})
	}
}

func TestValidate_NonConvexLoopIsSimple(t *testing.T) {
	l := Polyline(
		geometry.Pt(0, 0), geometry.Pt(3, 0), geometry.Pt(3, 1), geometry.Pt(1, 1),
		geometry.Pt(1, 3), geometry.Pt(0, 3), geometry.Pt(0, 0),
	)
	region, err := Validate(Network(l))
	require.NoError(t, err)
	assert.Equal(t, RegionSingle, region.Kind)
	assert.InDelta(t, 5.0, region.Area(), 1e-12)
}

func TestValidate_PlanarityDoesNotScale(t *testing.T) {
	lifted := Rectangle(-20000, -20000, 20000, 20000)
	lifted.Points[2].Z = 0.01
	_, err := Validate(Network(lifted))
	assert.ErrorIs(t, err, ErrNotPlanar)

	_, err = ValidateCenterLine(Network(Polyline(
		geometry.Pt(-20000, 0), geometry.Point{X: 20000, Y: 0, Z: 0.01},
	)))
	assert.ErrorIs(t, err, ErrNotPlanar)
}

func TestTopologyError(t *testing.T) {
	err := newError(ReasonNotClosed, 2, "gap of %g", 0.5)
	assert.Equal(t, "topology invalid: not_closed (loop 2): gap of 0.5", err.Error())
	assert.ErrorIs(t, err, ErrNotClosed)
	assert.NotErrorIs(t, err, ErrNoArea)
	assert.Equal(t, "topology invalid: empty", (&TopologyError{Reason: ReasonEmpty, Loop: -1}).Error())
}
