package profiles

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/geometry"
	"github.com/steelshape/steelshape/pkg/topology"
)

// validFamilies returns one valid parameter set per registered family.
func validFamilies() map[FamilyName]Family {
	return map[FamilyName]Family{
		FamilyRectangle:        &Rectangle{Width: 200, Depth: 100},
		FamilyRoundedRectangle: &RoundedRectangle{Width: 200, Depth: 100, RoundingRadius: 10},
		FamilyCircle:           &Circle{Radius: 50},
		FamilyHollowCircle:     &HollowCircle{Radius: 50, WallThickness: 5},
		FamilyEllipse:          &Ellipse{XRadius: 30, YRadius: 20},
		FamilyCapsule:          &Capsule{Width: 200, Depth: 100},
		FamilyTrapezium:        &Trapezium{TopWidth: 100, BottomWidth: 200, Depth: 80, TopOffset: 10},
		FamilyRegularPolygon:   &RegularPolygon{SideCount: 6, SideLength: 50},
		FamilyHollowRectangle: &HollowRectangle{Width: 200, Depth: 100, WallThickness: 10,
			InnerFilletRadius: 5, OuterFilletRadius: 15},
		FamilyIShape: &IShape{FlangeWidth: 200, Depth: 400, FlangeThickness: 15, WebThickness: 10,
			FilletRadius: 20, FlangeEdgeRadius: 5},
		FamilyAsymmetricIShape: &AsymmetricIShape{TopFlangeWidth: 200, BottomFlangeWidth: 300, Depth: 500,
			TopFlangeThickness: 15, BottomFlangeThickness: 20, WebThickness: 10,
			TopFlangeFilletRadius: 15, TopFlangeEdgeRadius: 5,
			BottomFlangeFilletRadius: 15, BottomFlangeEdgeRadius: 5, BottomFlangeSlope: 0.1},
		FamilyCShape: &CShape{FlangeWidth: 100, Depth: 300, FlangeThickness: 12, WebThickness: 8,
			FilletRadius: 10, FlangeEdgeRadius: 4, FlangeSlope: 0.05},
		FamilyZShape: &ZShape{FlangeWidth: 100, Depth: 300, FlangeThickness: 12, WebThickness: 8,
			FilletRadius: 10, FlangeEdgeRadius: 4, FlangeSlope: 0.05},
		FamilyLShape: &LShape{Width: 100, Depth: 150, Thickness: 10, FilletRadius: 12, EdgeRadius: 5},
		FamilyTShape: &TShape{FlangeWidth: 200, Depth: 150, FlangeThickness: 12, WebThickness: 10,
			FilletRadius: 10, FlangeEdgeRadius: 4, WebEdgeRadius: 3, WebSlope: 0.01},
		FamilyTTShape: &TTShape{FlangeWidth: 600, Depth: 300, FlangeThickness: 50, WebThickness: 40,
			WebSpacing: 200, FilletRadius: 10, FlangeEdgeRadius: 5, WebEdgeRadius: 5, WebSlope: 0.02},
		FamilySchifflerizedLShape: &SchifflerizedLShape{LegLength: 100, Thickness: 10, LegBendOffset: 40,
			FilletRadius: 8, EdgeRadius: 3},
		FamilyBentPlate: &BentPlate{Width: 300, BendAngle: math.Pi / 2, BendOffset: 100,
			BendRadius: 10, WallThickness: 5},
		FamilyCenterLineCShape: &CenterLineCShape{FlangeWidth: 60, Depth: 150, WallThickness: 2,
			FilletRadius: 3, Girth: 15},
		FamilyCenterLineLShape: &CenterLineLShape{Width: 50, Depth: 80, WallThickness: 2,
			FilletRadius: 3, Girth: 10},
		FamilyCenterLineZShape: &CenterLineZShape{FlangeWidth: 60, Depth: 150, WallThickness: 2,
			FilletRadius: 3},
		FamilyDoubleLShape:   &DoubleLShape{Spacing: 10, Type: LongLegsBackToBack},
		FamilyDoubleCShape:   &DoubleCShape{},
		FamilyDerivedProfile: &DerivedProfile{ScaleX: 1, ScaleY: 2, Rotation: math.Pi / 4},
		FamilyArbitraryComposite: &ArbitraryCompositeProfile{Components: []Component{
			{ProfileID: "a"}, {ProfileID: "b", Offset: geometry.Pt(100, 0)},
		}},
		FamilyArbitraryShape: &ArbitraryShape{Network: topology.Network(topology.Rectangle(0, 0, 100, 50))},
		FamilyArbitraryCenterLine: &ArbitraryCenterLine{WallThickness: 5, Network: topology.Network(
			topology.Polyline(geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(100, 50)))},
	}
}

func TestEveryFamilyHasAValidFixture(t *testing.T) {
	fixtures := validFamilies()
	for _, spec := range Families() {
		f, ok := fixtures[spec.Name]
		require.True(t, ok, "no fixture for %s", spec.Name)
		assert.Equal(t, spec.Name, f.Family())
	}
	assert.Len(t, Families(), len(fixtures))
}

func TestValidFamiliesPass(t *testing.T) {
	for name, f := range validFamilies() {
		t.Run(string(name), func(t *testing.T) {
			assert.NoError(t, Validate(f))
			assert.Empty(t, EvaluateAll(f))

			o, static, err := StaticOutline(f)
			require.NoError(t, err)
			if static {
				assert.False(t, o.Range.IsEmpty())
				assert.Greater(t, o.Children, 0)
			}
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	for name, f := range validFamilies() {
		first, second := f.Derive(), f.Derive()
		require.Equal(t, len(first), len(second), name)
		for k, v := range first {
			assert.Equal(t, math.Float64bits(v), math.Float64bits(second[k]), "%s %s", name, k)
		}
	}
}

func TestNonFiniteParametersAreRejected(t *testing.T) {
	for name := range validFamilies() {
		fixture := validFamilies()[name]
		v := reflect.ValueOf(fixture).Elem()
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).Kind() != reflect.Float64 {
				continue
			}
			field := v.Type().Field(i).Name
			for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				f := validFamilies()[name]
				reflect.ValueOf(f).Elem().Field(i).SetFloat(bad)

				err := Validate(f)
				require.Error(t, err, "%s.%s = %v", name, field, bad)
				var viol *Violation
				require.True(t, errors.As(err, &viol), "%s.%s: %v", name, field, err)
				assert.Equal(t, ClassParameterInvalid, viol.Class, "%s.%s = %v: %v", name, field, bad, err)
			}
		}
	}
}

func TestIShapeScalarGrid(t *testing.T) {
	setters := map[string]func(*IShape, float64){
		"flangeWidth":      func(p *IShape, v float64) { p.FlangeWidth = v },
		"depth":            func(p *IShape, v float64) { p.Depth = v },
		"flangeThickness":  func(p *IShape, v float64) { p.FlangeThickness = v },
		"webThickness":     func(p *IShape, v float64) { p.WebThickness = v },
		"filletRadius":     func(p *IShape, v float64) { p.FilletRadius = v },
		"flangeEdgeRadius": func(p *IShape, v float64) { p.FlangeEdgeRadius = v },
	}
	optional := map[string]bool{"filletRadius": true, "flangeEdgeRadius": true}

	for field, set := range setters {
		for _, v := range []float64{-1, 0, math.NaN(), math.Inf(1), math.Inf(-1)} {
			p := validFamilies()[FamilyIShape].(*IShape)
			set(p, v)
			err := Evaluate(p)
			if v == 0 && optional[field] {
				assert.NoError(t, err, "%s = 0", field)
				continue
			}
			var viol *Violation
			require.True(t, errors.As(err, &viol), "%s = %v", field, v)
			assert.Equal(t, field, viol.Field)
			assert.Equal(t, ClassParameterInvalid, viol.Class)
		}
	}
}

func TestIShapeFilletBoundary(t *testing.T) {
	p := &IShape{FlangeWidth: 400, Depth: 200, FlangeThickness: 15, WebThickness: 10,
		FlangeSlope: 0.08}
	bound := geometry.AvailableFilletSpan(p.webInnerFace(), p.flangeSlopeHeight())
	require.Less(t, bound, geometry.AvailableFilletSpan(p.flangeInnerFace(), 0))

	p.FilletRadius = bound
	assert.NoError(t, Evaluate(p))

	p.FilletRadius = geometry.NextValueToward(bound, geometry.Up)
	err := Evaluate(p)
	var viol *Violation
	require.True(t, errors.As(err, &viol))
	assert.Equal(t, ClassConstraintViolated, viol.Class)
	assert.Equal(t, "filletRadius <= webInnerFace/2 - flangeSlopeHeight", viol.Constraint)
	assert.ErrorIs(t, err, ErrBoundExceeded)
}

func TestSlopeAtRightAngleRejectedEvenForHugeSections(t *testing.T) {
	p := &IShape{FlangeWidth: 1e300, Depth: 1e300, FlangeThickness: 1, WebThickness: 1,
		FlangeSlope: math.Pi / 2}
	var viol *Violation
	require.True(t, errors.As(Evaluate(p), &viol))
	assert.Equal(t, "flangeSlope", viol.Field)
}

func TestSlopeJustBelowRightAngle(t *testing.T) {
	// The angle itself is admissible; the resulting slope height leaves no
	// room for any fillet.
	p := validFamilies()[FamilyIShape].(*IShape)
	p.FilletRadius = 0
	p.FlangeSlope = geometry.NextValueToward(math.Pi/2, geometry.Down)

	var viol *Violation
	require.True(t, errors.As(Evaluate(p), &viol))
	assert.Equal(t, "filletRadius", viol.Field)
	assert.Equal(t, ClassConstraintViolated, viol.Class)
}

func TestHollowCircleWallIsStrict(t *testing.T) {
	p := &HollowCircle{Radius: 50, WallThickness: 50}
	assert.Error(t, Evaluate(p))

	p.WallThickness = geometry.NextValueToward(50, geometry.Down)
	assert.NoError(t, Evaluate(p))
}

func TestCapsuleUsesEpsilon(t *testing.T) {
	assert.Error(t, Evaluate(&Capsule{Width: 100, Depth: 100}))
	assert.Error(t, Evaluate(&Capsule{Width: 100, Depth: 100 + 1e-11}))
	assert.NoError(t, Evaluate(&Capsule{Width: 100, Depth: 100 + 1e-9}))
}

func TestRegularPolygonSideCount(t *testing.T) {
	for _, n := range []int{0, 2, 33} {
		assert.Error(t, Evaluate(&RegularPolygon{SideCount: n, SideLength: 1}), "sides %d", n)
	}
	for _, n := range []int{3, 32} {
		assert.NoError(t, Evaluate(&RegularPolygon{SideCount: n, SideLength: 1}), "sides %d", n)
	}
}

func TestEvaluateFailsFastInTableOrder(t *testing.T) {
	p := &IShape{FlangeWidth: 200, Depth: 100, FlangeThickness: 60, WebThickness: 10,
		FilletRadius: 500}

	var viol *Violation
	require.True(t, errors.As(Evaluate(p), &viol))
	assert.Equal(t, "flangeThickness < depth/2", viol.Constraint)

	all := EvaluateAll(p)
	require.GreaterOrEqual(t, len(all), 2)
	assert.Equal(t, viol.Constraint, all[0].Constraint)
}

func TestCenterLineGirth(t *testing.T) {
	p := validFamilies()[FamilyCenterLineCShape].(*CenterLineCShape)
	p.Girth = 0
	assert.NoError(t, Evaluate(p))

	p.Girth = p.WallThickness + p.FilletRadius
	assert.Error(t, Evaluate(p))

	p.Girth = p.Depth / 2
	assert.Error(t, Evaluate(p))

	l := validFamilies()[FamilyCenterLineLShape].(*CenterLineLShape)
	l.Girth = l.Width/2 + 1
	assert.Error(t, Evaluate(l))
}

func TestBentPlateTangentMustFitLegs(t *testing.T) {
	p := validFamilies()[FamilyBentPlate].(*BentPlate)
	p.BendRadius = 150
	var viol *Violation
	require.True(t, errors.As(Evaluate(p), &viol))
	assert.Equal(t, "bendTangentLength <= bendOffset", viol.Constraint)

	p.BendRadius = 10
	p.BendAngle = math.Pi
	assert.Error(t, Evaluate(p))
}

func TestArbitraryShapeReturnsTopologyError(t *testing.T) {
	p := &ArbitraryShape{Network: topology.Network(
		topology.Line(geometry.Pt(0, 0), geometry.Pt(10, 0)))}

	err := Validate(p)
	var topo *topology.TopologyError
	require.True(t, errors.As(err, &topo))
	assert.Equal(t, topology.ReasonNotClosed, topo.Reason)
	assert.ErrorIs(t, err, topology.ErrNotClosed)
}

func TestArbitraryOutlines(t *testing.T) {
	shape := &ArbitraryShape{Network: topology.CurveNetwork{Loops: []topology.Loop{
		topology.OuterLoop(topology.Rectangle(0, 0, 100, 100)),
		topology.InnerLoop(topology.Circle(geometry.Pt(50, 50), 20)),
	}}}
	o, err := shape.ValidateCurves()
	require.NoError(t, err)
	assert.Equal(t, BoundaryParity, o.Boundary)
	assert.Equal(t, 2, o.Children)

	ring := &ArbitraryCenterLine{WallThickness: 2, Network: topology.Network(
		topology.Circle(geometry.Pt(0, 0), 10))}
	o, err = ring.ValidateCurves()
	require.NoError(t, err)
	assert.Equal(t, BoundaryParity, o.Boundary)
	assert.InDelta(t, 22, o.Range.Width(), 0.05)
}

func TestAsymmetricIShapeFilletsBoundByOpposingSlope(t *testing.T) {
	tests := []struct {
		name  string
		shape *AsymmetricIShape
		set   func(p *AsymmetricIShape, v float64)
		bound func(p *AsymmetricIShape) float64
		row   string
	}{
		{
			name: "top fillet",
			shape: &AsymmetricIShape{TopFlangeWidth: 1000, BottomFlangeWidth: 300, Depth: 500,
				TopFlangeThickness: 15, BottomFlangeThickness: 20, WebThickness: 10, BottomFlangeSlope: 0.5},
			set:   func(p *AsymmetricIShape, v float64) { p.TopFlangeFilletRadius = v },
			bound: func(p *AsymmetricIShape) float64 { return p.webInnerFace()/2 - p.bottomFlangeSlopeHeight() },
			row:   "topFlangeFilletRadius <= webInnerFace/2 - bottomFlangeSlopeHeight",
		},
		{
			name: "bottom fillet",
			shape: &AsymmetricIShape{TopFlangeWidth: 300, BottomFlangeWidth: 1000, Depth: 500,
				TopFlangeThickness: 15, BottomFlangeThickness: 20, WebThickness: 10, TopFlangeSlope: 0.5},
			set:   func(p *AsymmetricIShape, v float64) { p.BottomFlangeFilletRadius = v },
			bound: func(p *AsymmetricIShape) float64 { return p.webInnerFace()/2 - p.topFlangeSlopeHeight() },
			row:   "bottomFlangeFilletRadius <= webInnerFace/2 - topFlangeSlopeHeight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.shape
			bound := tt.bound(p)
			// 232.5 less the slope height of a 145 wide outstand at 0.5 rad
			require.InDelta(t, 153.29, bound, 0.01)

			tt.set(p, bound)
			assert.NoError(t, Evaluate(p))

			tt.set(p, geometry.NextValueToward(bound, geometry.Up))
			var viol *Violation
			require.True(t, errors.As(Evaluate(p), &viol))
			assert.Equal(t, tt.row, viol.Constraint)
		})
	}
}

// param and setParam access a float parameter of a family by Go field name.
func param(f Family, name string) float64 {
	return reflect.ValueOf(f).Elem().FieldByName(name).Float()
}

func setParam(f Family, name string, v float64) {
	reflect.ValueOf(f).Elem().FieldByName(name).SetFloat(v)
}

func rowCheck(t *testing.T, f Family, name string) error {
	t.Helper()
	for _, c := range f.Constraints() {
		if c.Name == name {
			return c.Check()
		}
	}
	t.Fatalf("%s has no row %q", f.Family(), name)
	return nil
}

// TestConstraintBoundariesAreExact moves one parameter onto the bound of a
// row and one representable value to either side of it.
func TestConstraintBoundariesAreExact(t *testing.T) {
	half := func(field string) func(Family, Metrics) float64 {
		return func(f Family, _ Metrics) float64 { return param(f, field) / 2 }
	}
	halfMetric := func(key string) func(Family, Metrics) float64 {
		return func(_ Family, m Metrics) float64 { return m[key] / 2 }
	}
	span := func(face, slope string) func(Family, Metrics) float64 {
		return func(_ Family, m Metrics) float64 { return m[face]/2 - m[slope] }
	}
	field := func(name string) func(Family, Metrics) float64 {
		return func(f Family, _ Metrics) float64 { return param(f, name) }
	}

	tests := []struct {
		family FamilyName
		row    string
		param  string
		edge   func(Family, Metrics) float64
		// inclusive rows accept the edge itself; outward is the direction
		// that leaves the admissible side.
		inclusive bool
		outward   geometry.Direction
		prep      func(Family)
	}{
		{FamilyAsymmetricIShape, "topFlangeFilletRadius <= topFlangeInnerFace/2", "TopFlangeFilletRadius", halfMetric("topFlangeInnerFace"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "topFlangeFilletRadius <= webInnerFace/2 - bottomFlangeSlopeHeight", "TopFlangeFilletRadius", span("webInnerFace", "bottomFlangeSlopeHeight"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "topFlangeEdgeRadius <= topFlangeThickness/2", "TopFlangeEdgeRadius", half("TopFlangeThickness"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "topFlangeEdgeRadius <= topFlangeInnerFace/2", "TopFlangeEdgeRadius", halfMetric("topFlangeInnerFace"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "bottomFlangeFilletRadius <= bottomFlangeInnerFace/2", "BottomFlangeFilletRadius", halfMetric("bottomFlangeInnerFace"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "bottomFlangeFilletRadius <= webInnerFace/2 - topFlangeSlopeHeight", "BottomFlangeFilletRadius", span("webInnerFace", "topFlangeSlopeHeight"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "bottomFlangeEdgeRadius <= bottomFlangeThickness/2", "BottomFlangeEdgeRadius", half("BottomFlangeThickness"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "bottomFlangeEdgeRadius <= bottomFlangeInnerFace/2", "BottomFlangeEdgeRadius", halfMetric("bottomFlangeInnerFace"), true, geometry.Up, nil},
		{FamilyAsymmetricIShape, "webThickness < topFlangeWidth", "WebThickness", field("TopFlangeWidth"), false, geometry.Up, nil},
		{FamilyAsymmetricIShape, "topFlangeThickness + bottomFlangeThickness < depth", "Depth", func(f Family, _ Metrics) float64 {
			return param(f, "TopFlangeThickness") + param(f, "BottomFlangeThickness")
		}, false, geometry.Down, nil},

		{FamilyCShape, "filletRadius <= webInnerFace/2 - flangeSlopeHeight", "FilletRadius", span("webInnerFace", "flangeSlopeHeight"), true, geometry.Up, nil},
		{FamilyCShape, "filletRadius <= flangeInnerFace/2", "FilletRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},
		{FamilyCShape, "flangeEdgeRadius <= flangeThickness/2", "FlangeEdgeRadius", half("FlangeThickness"), true, geometry.Up, nil},
		{FamilyCShape, "flangeEdgeRadius <= flangeInnerFace/2", "FlangeEdgeRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},
		{FamilyCShape, "flangeThickness < depth/2", "FlangeThickness", half("Depth"), false, geometry.Up, nil},
		{FamilyCShape, "webThickness < flangeWidth", "WebThickness", field("FlangeWidth"), false, geometry.Up, nil},

		{FamilyZShape, "filletRadius <= webInnerFace/2 - flangeSlopeHeight", "FilletRadius", span("webInnerFace", "flangeSlopeHeight"), true, geometry.Up, nil},
		{FamilyZShape, "filletRadius <= flangeInnerFace/2", "FilletRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},
		{FamilyZShape, "flangeEdgeRadius <= flangeThickness/2", "FlangeEdgeRadius", half("FlangeThickness"), true, geometry.Up, nil},
		{FamilyZShape, "flangeEdgeRadius <= flangeInnerFace/2", "FlangeEdgeRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},

		{FamilyLShape, "filletRadius <= horizontalLegInnerFace/2 - horizontalLegSlopeHeight", "FilletRadius", span("horizontalLegInnerFace", "horizontalLegSlopeHeight"), true, geometry.Up, nil},
		{FamilyLShape, "filletRadius <= verticalLegInnerFace/2 - verticalLegSlopeHeight", "FilletRadius", span("verticalLegInnerFace", "verticalLegSlopeHeight"), true, geometry.Up, nil},
		{FamilyLShape, "edgeRadius <= thickness/2", "EdgeRadius", half("Thickness"), true, geometry.Up, nil},
		{FamilyLShape, "thickness < width", "Thickness", field("Width"), false, geometry.Up, nil},

		{FamilyTShape, "filletRadius <= webInnerFace/2 - flangeSlopeHeight", "FilletRadius", span("webInnerFace", "flangeSlopeHeight"), true, geometry.Up, nil},
		{FamilyTShape, "filletRadius <= flangeInnerFace/2", "FilletRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},
		{FamilyTShape, "flangeEdgeRadius <= flangeThickness/2", "FlangeEdgeRadius", half("FlangeThickness"), true, geometry.Up, nil},
		{FamilyTShape, "flangeEdgeRadius <= flangeInnerFace/2", "FlangeEdgeRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},
		{FamilyTShape, "webEdgeRadius <= webThickness/2 - webSlopeHeight", "WebEdgeRadius", func(f Family, m Metrics) float64 {
			return param(f, "WebThickness")/2 - m["webSlopeHeight"]
		}, true, geometry.Up, nil},
		{FamilyTShape, "webEdgeRadius <= webInnerFace/2", "WebEdgeRadius", halfMetric("webInnerFace"), true, geometry.Up, nil},
		{FamilyTShape, "flangeThickness < depth", "FlangeThickness", field("Depth"), false, geometry.Up, nil},

		{FamilyTTShape, "filletRadius <= webInnerFace/2 - flangeSlopeHeight", "FilletRadius", span("webInnerFace", "flangeSlopeHeight"), true, geometry.Up, nil},
		{FamilyTTShape, "filletRadius <= flangeInnerFace/2", "FilletRadius", halfMetric("flangeInnerFace"), true, geometry.Up, nil},
		{FamilyTTShape, "filletRadius <= webSpacing/2", "FilletRadius", half("WebSpacing"), true, geometry.Up, nil},
		{FamilyTTShape, "flangeEdgeRadius <= flangeThickness/2", "FlangeEdgeRadius", half("FlangeThickness"), true, geometry.Up, nil},
		{FamilyTTShape, "webEdgeRadius <= webThickness/2 - webSlopeHeight", "WebEdgeRadius", func(f Family, m Metrics) float64 {
			return param(f, "WebThickness")/2 - m["webSlopeHeight"]
		}, true, geometry.Up, nil},
		{FamilyTTShape, "2*webThickness + webSpacing < flangeWidth", "FlangeWidth", func(f Family, _ Metrics) float64 {
			return 2*param(f, "WebThickness") + param(f, "WebSpacing")
		}, false, geometry.Down, nil},

		{FamilyHollowRectangle, "innerFilletRadius <= innerWidth/2", "InnerFilletRadius", halfMetric("innerWidth"), true, geometry.Up, nil},
		{FamilyHollowRectangle, "innerFilletRadius <= innerDepth/2", "InnerFilletRadius", halfMetric("innerDepth"), true, geometry.Up, nil},
		{FamilyHollowRectangle, "outerFilletRadius <= depth/2", "OuterFilletRadius", half("Depth"), true, geometry.Up, nil},
		{FamilyHollowRectangle, "wallThickness < depth/2", "WallThickness", half("Depth"), false, geometry.Up, nil},

		{FamilyBentPlate, "bendTangentLength <= bendOffset", "BendOffset", func(_ Family, m Metrics) float64 {
			return m["bendTangentLength"]
		}, true, geometry.Down, nil},
		// A zero bend radius makes the tangent exactly zero, so the second
		// leg can be pinned to it without rounding.
		{FamilyBentPlate, "bendTangentLength <= width - bendOffset", "Width", field("BendOffset"), true, geometry.Down,
			func(f Family) { setParam(f, "BendRadius", 0) }},

		{FamilySchifflerizedLShape, "filletRadius <= (legBendOffset - thickness)/2", "FilletRadius", func(f Family, _ Metrics) float64 {
			return (param(f, "LegBendOffset") - param(f, "Thickness")) / 2
		}, true, geometry.Up, nil},
		{FamilySchifflerizedLShape, "edgeRadius <= thickness/2", "EdgeRadius", half("Thickness"), true, geometry.Up, nil},
		{FamilySchifflerizedLShape, "thickness < legBendOffset < legLength - thickness", "LegBendOffset", field("Thickness"), false, geometry.Down, nil},
		{FamilySchifflerizedLShape, "thickness < legBendOffset < legLength - thickness", "LegBendOffset", func(f Family, _ Metrics) float64 {
			return param(f, "LegLength") - param(f, "Thickness")
		}, false, geometry.Up, nil},

		{FamilyCenterLineCShape, "wallThickness + filletRadius < girth < depth/2 (when non-zero)", "Girth", func(f Family, _ Metrics) float64 {
			return param(f, "WallThickness") + param(f, "FilletRadius")
		}, false, geometry.Down, nil},
		{FamilyCenterLineCShape, "wallThickness + filletRadius < girth < depth/2 (when non-zero)", "Girth", half("Depth"), false, geometry.Up, nil},
		{FamilyCenterLineCShape, "filletRadius <= (flangeWidth - 2*wallThickness)/2", "FilletRadius", func(f Family, _ Metrics) float64 {
			return geometry.FaceLength(param(f, "FlangeWidth"), param(f, "WallThickness"), 2) / 2
		}, true, geometry.Up, nil},
		{FamilyCenterLineLShape, "girth < width/2 (when non-zero)", "Girth", half("Width"), false, geometry.Up, nil},
		{FamilyCenterLineLShape, "wallThickness + filletRadius < girth < depth/2 (when non-zero)", "Girth", func(f Family, _ Metrics) float64 {
			return param(f, "WallThickness") + param(f, "FilletRadius")
		}, false, geometry.Down, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+tt.row, func(t *testing.T) {
			f := validFamilies()[tt.family]
			if tt.prep != nil {
				tt.prep(f)
			}
			edge := tt.edge(f, f.Derive())
			inward := geometry.Up
			if tt.outward == geometry.Up {
				inward = geometry.Down
			}

			setParam(f, tt.param, edge)
			if tt.inclusive {
				assert.NoError(t, rowCheck(t, f, tt.row), "at %v", edge)
			} else {
				assert.ErrorIs(t, rowCheck(t, f, tt.row), ErrBoundExceeded, "at %v", edge)
			}

			setParam(f, tt.param, geometry.NextValueToward(edge, tt.outward))
			assert.ErrorIs(t, rowCheck(t, f, tt.row), ErrBoundExceeded, "one step outside %v", edge)

			setParam(f, tt.param, geometry.NextValueToward(edge, inward))
			assert.NoError(t, rowCheck(t, f, tt.row), "one step inside %v", edge)
		})
	}
}
