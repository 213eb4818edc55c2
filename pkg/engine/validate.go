package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/steelshape/steelshape/pkg/profiles"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// ValidateProfile answers whether a profile's own definition is
// realizable: required fields, then the family's constraint table, then
// curve topology for arbitrary families. References are not resolved.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return NewParameterError("profile is required", nil)
	}
	if err := validate.Struct(p); err != nil {
		return NewParameterError("profile definition is incomplete", err).WithResource(p.ID)
	}
	if _, ok := profiles.Lookup(p.Family()); !ok {
		return NewParameterError(fmt.Sprintf("unknown family %q", p.Family()), profiles.ErrUnknownFamily).
			WithCode(ErrCodeUnknownFamily).
			WithResource(p.ID)
	}
	if err := profiles.Validate(p.Params); err != nil {
		return classifyValidation(err).WithResource(p.ID)
	}
	return nil
}

// Diagnose evaluates every constraint row of the profile and returns all
// failures in table order, followed by a topology failure if any. Commits
// never use it; they stop at the first failure.
func Diagnose(p *Profile) []*EngineError {
	if err := ValidateProfile(p); err == nil {
		return nil
	}
	if p == nil || p.Params == nil {
		return []*EngineError{NewParameterError("profile definition is incomplete", nil)}
	}

	var out []*EngineError
	if err := validate.Struct(p); err != nil {
		out = append(out, NewParameterError("profile definition is incomplete", err).WithResource(p.ID))
	}
	violations := profiles.EvaluateAll(p.Params)
	for _, v := range violations {
		out = append(out, classifyValidation(v).WithResource(p.ID))
	}
	if len(violations) == 0 {
		if c, ok := p.Params.(profiles.CurveBased); ok {
			if _, err := c.ValidateCurves(); err != nil {
				out = append(out, classifyValidation(err).WithResource(p.ID))
			}
		}
	}
	return out
}

// ValidateBatch validates independent profiles concurrently, at most limit
// at a time (GOMAXPROCS when limit <= 0). Results keep the input order.
// Only cancellation of ctx makes it return an error.
func ValidateBatch(ctx context.Context, ps []*Profile, limit int) ([]BatchResult, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(ps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, p := range ps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := BatchResult{Index: i, Err: ValidateProfile(p)}
			if p != nil {
				res.ProfileID = p.ID
				res.Family = p.Family()
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, NewInternalError("batch validation cancelled", err).WithCode(ErrCodeBatchCancelled)
	}
	return results, nil
}

// ValidateBatch runs the package-level ValidateBatch and records each
// result in the validation metrics.
func (c *Coordinator) ValidateBatch(ctx context.Context, ps []*Profile, limit int) ([]BatchResult, error) {
	results, err := ValidateBatch(ctx, ps, limit)
	if err != nil {
		return nil, err
	}
	for i, res := range results {
		if ps[i] != nil {
			c.recordValidation(ps[i], res.Err)
		}
	}
	return results, nil
}
