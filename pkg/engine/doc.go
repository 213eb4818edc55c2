// Package engine is the commit path for profile definitions.
//
// # Commit pipeline
//
// Coordinator.Insert and Coordinator.Update run the same steps in order and
// stop at the first failure:
//
//  1. Required fields of the Profile (name, parameter set).
//  2. The family's own geometry: its ordered constraint table, then the
//     curve topology for arbitrary families (profiles.Validate).
//  3. Each reference edge of a referencing family: the edge must be set,
//     its target must be committed and of the required family, and the
//     edge must not close a reference cycle.
//  4. Persist the profile, its edges and an audit entry atomically.
//  5. Mark the profile and every transitive dependent's outline stale.
//
// Any failure in steps 1 to 3 is a commit rejection (IsCommitRejected)
// classified as parameter_invalid, constraint_violated, topology_invalid
// or referential. The message carries the specific reason.
//
// # References
//
// Setting a reference on a referencing family (for example
// DoubleCShape.SetSingleProfile) only records the intended target; it
// never fails. The target is checked when the referencing profile is
// committed. Delete fails while any committed edge targets the profile.
//
// # Outlines
//
// Outline recomputes stale outlines on read. A referencing profile's outline
// is composed from the current outlines of its targets, so updating a
// target changes its dependents' outlines without re-running the
// dependents' constraint tables.
//
// # Example
//
//	store := stores.NewMemoryStore()
//	coord, _ := engine.NewCoordinator(ctx, store)
//
//	base := engine.NewProfile("C 200", &profiles.CShape{...})
//	_ = coord.Insert(ctx, base)
//
//	pair := &profiles.DoubleCShape{Spacing: 10}
//	pair.SetSingleProfile(base.ID)
//	_ = coord.Insert(ctx, engine.NewProfile("2C 200", pair))
//
//	err := coord.Delete(ctx, base.ID) // referential: still referenced
package engine
