package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/stores"
)

func derivedFrom(id string) *profiles.DerivedProfile {
	d := &profiles.DerivedProfile{ScaleX: 1, ScaleY: 1}
	d.SetBaseProfile(id)
	return d
}

func TestApplyOrdersByReferences(t *testing.T) {
	eachStore(t, func(t *testing.T, h *harness) {
		ctx := context.Background()
		ps := []*Profile{
			{ID: "top", Name: "top", Params: derivedFrom("mid")},
			{ID: "mid", Name: "mid", Params: derivedFrom("base")},
			{ID: "base", Name: "base", Params: rect(100, 50)},
		}

		results, err := h.coord.Apply(ctx, ps)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, r := range results {
			assert.Equal(t, i, r.Index)
			assert.True(t, r.Valid(), "%s: %v", r.ProfileID, r.Err)
		}
		assert.Equal(t, []string{"top"}, h.coord.Dependents("mid"))

		// A second apply updates in place
		ps[2].Params = rect(120, 50)
		results, err = h.coord.Apply(ctx, ps)
		require.NoError(t, err)
		for _, r := range results {
			assert.NoError(t, r.Err)
		}
		got, err := h.coord.Get(ctx, "base")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Revision)
	})
}

func TestApplyReportsEachFailure(t *testing.T) {
	eachStore(t, func(t *testing.T, h *harness) {
		ctx := context.Background()
		ps := []*Profile{
			{ID: "a", Name: "a", Params: derivedFrom("b")},
			{ID: "b", Name: "b", Params: derivedFrom("a")},
			{ID: "bad", Name: "bad", Params: rect(-1, 10)},
			{ID: "ok", Name: "ok", Params: rect(1, 10)},
			nil,
		}

		results, err := h.coord.Apply(ctx, ps)
		require.NoError(t, err)

		assert.Equal(t, ErrCodeTargetMissing, CodeOf(results[0].Err))
		assert.Equal(t, ErrCodeTargetMissing, CodeOf(results[1].Err))
		assert.Equal(t, ErrorClassParameterInvalid, ClassOf(results[2].Err))
		assert.NoError(t, results[3].Err)
		assert.Equal(t, ErrorClassParameterInvalid, ClassOf(results[4].Err))

		_, err = h.coord.Get(ctx, "a")
		assert.True(t, IsNotFound(err))
	})
}

func TestApplyCancelled(t *testing.T) {
	h := newHarness(t, stores.NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.coord.Apply(ctx, []*Profile{{ID: "r", Name: "r", Params: rect(1, 1)}})
	assert.Equal(t, ErrCodeBatchCancelled, CodeOf(err))
	ok, err := h.store.Exists(context.Background(), "r")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommitOrder(t *testing.T) {
	ps := []*Profile{
		{ID: "x", Params: derivedFrom("y")},
		{ID: "y", Params: derivedFrom("z")},
		{ID: "z", Params: rect(1, 1)},
		{ID: "w", Params: derivedFrom("external")},
	}
	assert.Equal(t, []int{2, 3, 1, 0}, commitOrder(ps))
}
