// Package profiles defines the structural cross-section families and the
// ordered constraint table each of them must satisfy before an instance can
// be committed.
//
// # Constraint tables
//
// A family's Constraints method returns its rules as data: an ordered slice
// of named rows built from a handful of constructors (Positive, NonNegative,
// SlopeAngle, LessThan, AtMost, Between, ...). Evaluate walks the table and
// stops at the first row that fails:
//
//	shape := &profiles.IShape{FlangeWidth: 200, Depth: 300, ...}
//	if err := profiles.Evaluate(shape); err != nil {
//	    var v *profiles.Violation
//	    errors.As(err, &v) // v.Constraint, v.Reason
//	}
//
// Rows are evaluated in order and later rows may read values that earlier
// rows guard; every bound is a total function, so an unvalidated parameter
// only ever produces a failing comparison, never a panic.
//
// # Family kinds
//
// Parametric families are fully described by their numbers. Arbitrary
// families carry a topology.CurveNetwork and are validated by the topology
// package. Referencing families (double shapes, derived and composite
// profiles) point at other profile instances; their references are resolved
// by the engine at commit time, not here.
package profiles
