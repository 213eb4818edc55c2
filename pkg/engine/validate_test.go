package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/stores"
)

func TestValidateBatchKeepsOrder(t *testing.T) {
	ps := []*Profile{
		NewProfile("ok", rect(10, 20)),
		NewProfile("nan", rect(math.NaN(), 20)),
		NewProfile("channel", channel()),
		nil,
		NewProfile("big fillet", &profiles.LShape{Width: 100, Depth: 150, Thickness: 10, FilletRadius: 200}),
	}

	results, err := ValidateBatch(context.Background(), ps, 2)
	require.NoError(t, err)
	require.Len(t, results, len(ps))

	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}
	assert.True(t, results[0].Valid())
	assert.Equal(t, ErrorClassParameterInvalid, ClassOf(results[1].Err))
	assert.True(t, results[2].Valid())
	assert.Equal(t, ErrorClassParameterInvalid, ClassOf(results[3].Err))
	assert.Equal(t, ErrorClassConstraintViolated, ClassOf(results[4].Err))
	assert.Equal(t, ps[4].ID, results[4].ProfileID)
	assert.Equal(t, profiles.FamilyLShape, results[4].Family)
}

func TestValidateBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ValidateBatch(ctx, []*Profile{NewProfile("ok", rect(1, 1))}, 1)
	require.Error(t, err)
	assert.Equal(t, ErrCodeBatchCancelled, CodeOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCoordinatorValidateBatchRecordsMetrics(t *testing.T) {
	h := newHarness(t, stores.NewMemoryStore())
	ps := []*Profile{
		NewProfile("a", rect(1, 1)),
		NewProfile("b", rect(-1, 1)),
	}

	results, err := h.coord.ValidateBatch(context.Background(), ps, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1.0, h.counter(t, "steelshape_validations_total",
		map[string]string{"family": "Rectangle", "outcome": "valid"}))
	assert.Equal(t, 1.0, h.counter(t, "steelshape_validations_total",
		map[string]string{"family": "Rectangle", "outcome": OutcomeRejected}))
}

func TestDiagnoseCollectsEveryViolation(t *testing.T) {
	assert.Empty(t, Diagnose(NewProfile("ok", rect(1, 1))))

	bad := Diagnose(NewProfile("bad", rect(-1, math.Inf(1))))
	require.Len(t, bad, 2)
	assert.Equal(t, "width", bad[0].Details["field"])
	assert.Equal(t, "depth", bad[1].Details["field"])

	// Fail-fast still reports only the first
	err := ValidateProfile(NewProfile("bad", rect(-1, math.Inf(1))))
	var e *EngineError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "width", e.Details["field"])

	missing := Diagnose(&Profile{Name: "x"})
	require.Len(t, missing, 1)
	assert.Equal(t, ErrorClassParameterInvalid, missing[0].Class)
}

func TestEngineErrorFormatting(t *testing.T) {
	err := NewReferentialError("reference baseProfile points at missing profile p9", nil).
		WithCode(ErrCodeTargetMissing).
		WithResource("p1").
		WithOperation(OperationInsert)

	assert.Equal(t,
		"[referential] reference baseProfile points at missing profile p9 (profile=p1, operation=insert)",
		err.Error())

	assert.True(t, errors.Is(err, &EngineError{Class: ErrorClassReferential, Code: ErrCodeTargetMissing}))
	assert.False(t, errors.Is(err, &EngineError{Class: ErrorClassReferential, Code: ErrCodeWrongFamily}))

	wrapped := NewInternalError("store operation failed", stores.ErrNotFound)
	assert.True(t, errors.Is(wrapped, stores.ErrNotFound))
	assert.False(t, IsCommitRejected(wrapped))
	assert.Equal(t, ErrorClass(""), ClassOf(errors.New("plain")))
}
