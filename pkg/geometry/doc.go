// Package geometry provides the scalar guards and slope-adjusted metrics
// shared by every profile family, plus the small point and range types used
// by outlines and the curve topology validator.
//
// # Scalar guards
//
// CheckScalar is the single gate every length and angle passes before any
// cross-parameter constraint is evaluated:
//
//	if err := geometry.CheckScalar(depth, false); err != nil {
//	    // ErrNaN, ErrInfinite, ErrNegative or ErrZero
//	}
//
// # Derived metrics
//
// FaceLength, SlopeHeight and AvailableFilletSpan are total functions. They
// never fail, even on unvalidated input; an impossible result (a negative
// span, an infinite slope height) is surfaced by the constraint that bounds
// it, not by the metric.
//
// # Boundary semantics
//
// Two comparison policies coexist and are tagged per constraint: ExactBound
// compares directly, so the bound itself passes and NextValueToward(bound,
// Up) fails; EpsilonBound applies the fixed CoarseEpsilon margin and is
// used by the Distinct row of Capsule.
package geometry
