package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/engine"
	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/stores"
)

const plateDocument = `
profiles:
  - id: rot
    name: Rotated plate
    family: DerivedProfile
    params:
      base_profile_id: plate
      offset: {x: 10, y: 0}
      scale_x: 1
      scale_y: 1
      rotation: 0
  - id: plate
    name: Plate 400x20
    code: PL400
    family: Rectangle
    params: {width: 400, depth: 20}
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(plateDocument))
	require.NoError(t, err)
	require.Len(t, doc.Profiles, 2)

	ps, err := doc.ToProfiles()
	require.NoError(t, err)

	derived, ok := ps[0].Params.(*profiles.DerivedProfile)
	require.True(t, ok)
	assert.Equal(t, "plate", derived.BaseProfileID)
	assert.Equal(t, 10.0, derived.Offset.X)

	plate, ok := ps[1].Params.(*profiles.Rectangle)
	require.True(t, ok)
	assert.Equal(t, &profiles.Rectangle{Width: 400, Depth: 20}, plate)
	assert.Equal(t, "PL400", ps[1].Code)
	assert.Equal(t, "Plate 400x20", ps[1].Name)
}

func TestParseDocumentRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "profiles: [{name: a, family: Circle}]"},
		{"missing name", "profiles: [{id: a, family: Circle}]"},
		{"missing family", "profiles: [{id: a, name: a}]"},
		{"duplicate id", "profiles: [{id: a, name: a, family: Circle}, {id: a, name: b, family: Circle}]"},
		{"not yaml", "profiles: {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestToProfileDecodeErrors(t *testing.T) {
	doc, err := ParseDocument([]byte(`
profiles:
  - {id: a, name: a, family: Hexagon}
  - {id: b, name: b, family: Circle, params: {radius: 5, colour: red}}
  - {id: c, name: c, family: Circle, params: [1, 2]}
  - {id: d, name: d, family: Circle}
`))
	require.NoError(t, err)

	_, err = doc.Profiles[0].ToProfile()
	assert.True(t, errors.Is(err, profiles.ErrUnknownFamily))

	_, err = doc.Profiles[1].ToProfile()
	assert.ErrorContains(t, err, "colour")

	_, err = doc.Profiles[2].ToProfile()
	assert.Error(t, err)

	// Values are checked at validation, not at decode
	p, err := doc.Profiles[3].ToProfile()
	require.NoError(t, err)
	err = engine.ValidateProfile(p)
	assert.Equal(t, engine.ErrorClassParameterInvalid, engine.ClassOf(err))
}

func TestDocumentAppliesThroughCoordinator(t *testing.T) {
	ctx := context.Background()
	coord, err := engine.NewCoordinator(ctx, stores.NewMemoryStore())
	require.NoError(t, err)

	doc, err := ParseDocument([]byte(plateDocument))
	require.NoError(t, err)
	ps, err := doc.ToProfiles()
	require.NoError(t, err)

	results, err := coord.Apply(ctx, ps)
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err, r.ProfileID)
	}

	outline, err := coord.Outline(ctx, "rot")
	require.NoError(t, err)
	assert.InDelta(t, 400, outline.Range.Width(), 1e-9)
}
