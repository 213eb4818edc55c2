package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/engine"
)

const catalog = `
profiles:
  - id: plate-wide
    name: Wide plate
    family: DerivedProfile
    params: {base_profile_id: plate, scale_x: 2, scale_y: 1}
  - id: plate
    name: Plate 200x20
    family: Rectangle
    params: {width: 200, depth: 20}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand("test", "none", "today")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCommitThenInspect(t *testing.T) {
	db := filepath.Join(t.TempDir(), "profiles.db")
	doc := writeCatalog(t, catalog)

	out, err := run(t, "--db", db, "commit", doc)
	require.NoError(t, err, out)
	assert.Contains(t, out, "ok    plate")

	out, err = run(t, "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "plate-wide")
	assert.Contains(t, out, "Rectangle")

	out, err = run(t, "--db", db, "--json", "outline", "plate-wide")
	require.NoError(t, err)
	var outline struct {
		Range struct {
			Low, High struct{ X, Y float64 }
		}
		Children int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outline))
	assert.InDelta(t, 400, outline.Range.High.X-outline.Range.Low.X, 1e-9)

	out, err = run(t, "--db", db, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")

	_, err = run(t, "--db", db, "delete", "plate")
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeReferenced, engine.CodeOf(err))

	out, err = run(t, "--db", db, "delete", "plate-wide")
	require.NoError(t, err, out)

	out, err = run(t, "--db", db, "--json", "audit", "--action", "profile.deleted")
	require.NoError(t, err)
	assert.Contains(t, out, "plate-wide")
}

func TestValidateReportsFailures(t *testing.T) {
	doc := writeCatalog(t, `
profiles:
  - id: good
    name: good
    family: Circle
    params: {radius: 10}
  - id: bad
    name: bad
    family: HollowCircle
    params: {radius: 10, wall_thickness: 20}
`)

	out, err := run(t, "validate", doc)
	require.Error(t, err)
	assert.Contains(t, out, "ok    good")
	assert.Contains(t, out, "FAIL  bad")

	out, err = run(t, "--json", "validate", "--all", doc)
	require.Error(t, err)
	var diagnoses []diagnosis
	require.NoError(t, json.Unmarshal([]byte(out), &diagnoses))
	require.Len(t, diagnoses, 2)
	assert.Empty(t, diagnoses[0].Failures)
	assert.NotEmpty(t, diagnoses[1].Failures)
}

func TestFamilies(t *testing.T) {
	out, err := run(t, "--json", "families")
	require.NoError(t, err)

	var families []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &families))
	assert.Len(t, families, 27)
}
