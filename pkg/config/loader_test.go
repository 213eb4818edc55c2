package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/engine"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func profileIDs(ps []*engine.Profile) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestLoadFromPathsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "profiles: [{id: a, name: a, family: Circle, params: {radius: 1}}]")
	writeFile(t, filepath.Join(dir, "b.yml"), "profiles: [{id: b, name: b, family: Circle, params: {radius: 2}}]")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a document")

	loader := NewLoader(zerolog.Nop())
	ps, err := loader.LoadFromPaths(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, profileIDs(ps))
}

func TestLoadFromPathsRejectsDuplicatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	writeFile(t, first, "profiles: [{id: a, name: a, family: Circle}]")
	writeFile(t, second, "profiles: [{id: a, name: again, family: Circle}]")

	loader := NewLoader(zerolog.Nop())
	_, err := loader.LoadFromPaths(context.Background(), []string{first, second})
	assert.ErrorContains(t, err, `profile "a" defined in both`)

	_, err = loader.LoadFromPaths(context.Background(), []string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestLoaderCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	writeFile(t, path, "profiles: [{id: a, name: a, family: Circle}]")

	loader := NewLoader(zerolog.Nop())
	ctx := context.Background()
	_, err := loader.LoadFromPaths(ctx, []string{path})
	require.NoError(t, err)

	writeFile(t, path, "profiles: [{id: b, name: b, family: Circle}]")
	ps, err := loader.LoadFromPaths(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, profileIDs(ps), "served from cache")

	loader.ClearCache()
	ps, err = loader.LoadFromPaths(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, profileIDs(ps))
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	writeFile(t, path, "profiles: [{id: a, name: a, family: Circle}]")

	loader := NewLoader(zerolog.Nop())
	loader.reloadDelay = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan []string, 4)
	err := loader.Watch(ctx, []string{path}, func(_ context.Context, ps []*engine.Profile) error {
		reloaded <- profileIDs(ps)
		return nil
	})
	require.NoError(t, err)

	writeFile(t, path, "profiles: [{id: a, name: a, family: Circle}, {id: b, name: b, family: Circle}]")

	select {
	case ids := <-reloaded:
		assert.Equal(t, []string{"a", "b"}, ids)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after document change")
	}
}
