package engine

import (
	"context"
)

// Apply commits a set of profiles, inserting new ones and updating
// existing ones. Profiles referenced from within the set are committed
// before their referrers; otherwise input order is kept. Every profile is
// attempted, and results are returned in input order.
func (c *Coordinator) Apply(ctx context.Context, ps []*Profile) ([]BatchResult, error) {
	results := make([]BatchResult, len(ps))
	for _, i := range commitOrder(ps) {
		if err := ctx.Err(); err != nil {
			return results, NewInternalError("apply cancelled", err).WithCode(ErrCodeBatchCancelled)
		}

		p := ps[i]
		if p == nil {
			results[i] = BatchResult{Index: i, Err: NewParameterError("profile is required", nil)}
			continue
		}
		results[i] = BatchResult{Index: i, ProfileID: p.ID, Family: p.Family()}

		exists, err := c.store.Exists(ctx, p.ID)
		if err != nil {
			results[i].Err = NewInternalError("failed to check profile", err)
			continue
		}
		if exists {
			results[i].Err = c.Update(ctx, p)
		} else {
			results[i].Err = c.Insert(ctx, p)
		}
		results[i].ProfileID = p.ID
	}
	return results, nil
}

// commitOrder returns indexes of ps so that a profile follows every
// profile of the set it references. Profiles caught in a cycle keep their
// input order at the end; the commit check rejects them.
func commitOrder(ps []*Profile) []int {
	index := make(map[string]int, len(ps))
	for i, p := range ps {
		if p != nil && p.ID != "" {
			index[p.ID] = i
		}
	}

	pending := make([]int, len(ps))
	dependents := make(map[int][]int)
	for i, p := range ps {
		if p == nil || p.Params == nil {
			continue
		}
		for _, ref := range p.References() {
			j, ok := index[ref.TargetID]
			if !ok || j == i {
				continue
			}
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	order := make([]int, 0, len(ps))
	done := make([]bool, len(ps))
	for progressed := true; progressed; {
		progressed = false
		for i := range ps {
			if done[i] || pending[i] > 0 {
				continue
			}
			done[i] = true
			progressed = true
			order = append(order, i)
			for _, d := range dependents[i] {
				pending[d]--
			}
		}
	}
	for i := range ps {
		if !done[i] {
			order = append(order, i)
		}
	}
	return order
}
