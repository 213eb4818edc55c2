package profiles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registered family names.
const (
	FamilyRectangle           FamilyName = "Rectangle"
	FamilyRoundedRectangle    FamilyName = "RoundedRectangle"
	FamilyCircle              FamilyName = "Circle"
	FamilyHollowCircle        FamilyName = "HollowCircle"
	FamilyEllipse             FamilyName = "Ellipse"
	FamilyCapsule             FamilyName = "Capsule"
	FamilyTrapezium           FamilyName = "Trapezium"
	FamilyRegularPolygon      FamilyName = "RegularPolygon"
	FamilyHollowRectangle     FamilyName = "HollowRectangle"
	FamilyIShape              FamilyName = "IShape"
	FamilyAsymmetricIShape    FamilyName = "AsymmetricIShape"
	FamilyCShape              FamilyName = "CShape"
	FamilyLShape              FamilyName = "LShape"
	FamilyTShape              FamilyName = "TShape"
	FamilyTTShape             FamilyName = "TTShape"
	FamilyZShape              FamilyName = "ZShape"
	FamilySchifflerizedLShape FamilyName = "SchifflerizedLShape"
	FamilyBentPlate           FamilyName = "BentPlate"
	FamilyCenterLineCShape    FamilyName = "CenterLineCShape"
	FamilyCenterLineLShape    FamilyName = "CenterLineLShape"
	FamilyCenterLineZShape    FamilyName = "CenterLineZShape"
	FamilyDoubleLShape        FamilyName = "DoubleLShape"
	FamilyDoubleCShape        FamilyName = "DoubleCShape"
	FamilyDerivedProfile      FamilyName = "DerivedProfile"
	FamilyArbitraryComposite  FamilyName = "ArbitraryCompositeProfile"
	FamilyArbitraryShape      FamilyName = "ArbitraryShape"
	FamilyArbitraryCenterLine FamilyName = "ArbitraryCenterLine"
)

// ErrUnknownFamily is returned for names that are not registered.
var ErrUnknownFamily = errors.New("unknown profile family")

// Spec describes a registered family.
type Spec struct {
	Name FamilyName
	Kind Kind

	// SinglePerimeter is true when every valid instance has an outline
	// made of one closed perimeter, possibly with a hole.
	SinglePerimeter bool

	// New returns a zero-valued parameter set.
	New func() Family
}

var (
	registryMu sync.RWMutex
	registry   = map[FamilyName]Spec{}
)

func init() {
	parametric := []Spec{
		{Name: FamilyRectangle, New: func() Family { return &Rectangle{} }},
		{Name: FamilyRoundedRectangle, New: func() Family { return &RoundedRectangle{} }},
		{Name: FamilyCircle, New: func() Family { return &Circle{} }},
		{Name: FamilyHollowCircle, New: func() Family { return &HollowCircle{} }},
		{Name: FamilyEllipse, New: func() Family { return &Ellipse{} }},
		{Name: FamilyCapsule, New: func() Family { return &Capsule{} }},
		{Name: FamilyTrapezium, New: func() Family { return &Trapezium{} }},
		{Name: FamilyRegularPolygon, New: func() Family { return &RegularPolygon{} }},
		{Name: FamilyHollowRectangle, New: func() Family { return &HollowRectangle{} }},
		{Name: FamilyIShape, New: func() Family { return &IShape{} }},
		{Name: FamilyAsymmetricIShape, New: func() Family { return &AsymmetricIShape{} }},
		{Name: FamilyCShape, New: func() Family { return &CShape{} }},
		{Name: FamilyLShape, New: func() Family { return &LShape{} }},
		{Name: FamilyTShape, New: func() Family { return &TShape{} }},
		{Name: FamilyTTShape, New: func() Family { return &TTShape{} }},
		{Name: FamilyZShape, New: func() Family { return &ZShape{} }},
		{Name: FamilySchifflerizedLShape, New: func() Family { return &SchifflerizedLShape{} }},
		{Name: FamilyBentPlate, New: func() Family { return &BentPlate{} }},
		{Name: FamilyCenterLineCShape, New: func() Family { return &CenterLineCShape{} }},
		{Name: FamilyCenterLineLShape, New: func() Family { return &CenterLineLShape{} }},
		{Name: FamilyCenterLineZShape, New: func() Family { return &CenterLineZShape{} }},
	}
	for _, s := range parametric {
		s.Kind, s.SinglePerimeter = KindParametric, true
		Register(s)
	}

	Register(Spec{Name: FamilyArbitraryShape, Kind: KindArbitrary, SinglePerimeter: true,
		New: func() Family { return &ArbitraryShape{} }})
	Register(Spec{Name: FamilyArbitraryCenterLine, Kind: KindArbitrary, SinglePerimeter: true,
		New: func() Family { return &ArbitraryCenterLine{} }})

	Register(Spec{Name: FamilyDoubleLShape, Kind: KindReferencing,
		New: func() Family { return &DoubleLShape{Type: LongLegsBackToBack} }})
	Register(Spec{Name: FamilyDoubleCShape, Kind: KindReferencing,
		New: func() Family { return &DoubleCShape{} }})
	Register(Spec{Name: FamilyDerivedProfile, Kind: KindReferencing, SinglePerimeter: true,
		New: func() Family { return &DerivedProfile{ScaleX: 1, ScaleY: 1} }})
	Register(Spec{Name: FamilyArbitraryComposite, Kind: KindReferencing,
		New: func() Family { return &ArbitraryCompositeProfile{} }})
}

// Register adds a family. It panics on a duplicate name, like
// database/sql.Register.
func Register(s Spec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if s.New == nil {
		panic("profiles: Register called with nil constructor for " + string(s.Name))
	}
	if _, dup := registry[s.Name]; dup {
		panic("profiles: Register called twice for " + string(s.Name))
	}
	registry[s.Name] = s
}

// Lookup returns the spec of a registered family.
func Lookup(name FamilyName) (Spec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// Families returns all registered specs sorted by name.
func Families() []Spec {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Spec, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// New returns a zero-valued parameter set of the named family.
func New(name FamilyName) (Family, error) {
	s, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return s.New(), nil
}

// Decode builds a parameter set of the named family from JSON. Unknown
// fields are rejected.
func Decode(name FamilyName, data []byte) (Family, error) {
	f, err := New(name)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("failed to decode %s parameters: %w", name, err)
	}
	return f, nil
}

// Encode returns the JSON form of f's parameters.
func Encode(f Family) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s parameters: %w", f.Family(), err)
	}
	return data, nil
}

// IsSinglePerimeter reports whether the family of f always yields one
// closed perimeter.
func IsSinglePerimeter(f Family) bool {
	s, ok := Lookup(f.Family())
	return ok && s.SinglePerimeter
}

// StaticOutline returns the outline of a family that does not reference
// other profiles. Referencing families report false.
func StaticOutline(f Family) (Outline, bool, error) {
	switch v := f.(type) {
	case Outliner:
		return v.Outline(), true, nil
	case CurveBased:
		o, err := v.ValidateCurves()
		if err != nil {
			return Outline{}, true, err
		}
		return o, true, nil
	default:
		return Outline{}, false, nil
	}
}
