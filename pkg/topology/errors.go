package topology

import "fmt"

// Reason is the sub-reason of a topology failure.
type Reason string

const (
	ReasonEmpty           Reason = "empty"
	ReasonMalformed       Reason = "malformed"
	ReasonNotClosed       Reason = "not_closed"
	ReasonNotPlanar       Reason = "not_planar"
	ReasonNoArea          Reason = "no_area"
	ReasonMultipleRegions Reason = "multiple_regions"
	ReasonBranching       Reason = "branching"
)

// Sentinels for errors.Is; they match any TopologyError with the same
// reason.
var (
	ErrEmpty           = &TopologyError{Reason: ReasonEmpty}
	ErrMalformed       = &TopologyError{Reason: ReasonMalformed}
	ErrNotClosed       = &TopologyError{Reason: ReasonNotClosed}
	ErrNotPlanar       = &TopologyError{Reason: ReasonNotPlanar}
	ErrNoArea          = &TopologyError{Reason: ReasonNoArea}
	ErrMultipleRegions = &TopologyError{Reason: ReasonMultipleRegions}
	ErrBranching       = &TopologyError{Reason: ReasonBranching}
)

// TopologyError reports why a curve network was rejected.
type TopologyError struct {
	Reason Reason

	// Loop is the index of the offending loop in collection order, or -1.
	Loop int

	Detail string
}

// Error implements the error interface.
func (e *TopologyError) Error() string {
	msg := fmt.Sprintf("topology invalid: %s", e.Reason)
	if e.Loop >= 0 {
		msg = fmt.Sprintf("%s (loop %d)", msg, e.Loop)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches on the reason only.
func (e *TopologyError) Is(target error) bool {
	t, ok := target.(*TopologyError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason
}

func newError(reason Reason, loop int, format string, args ...interface{}) *TopologyError {
	return &TopologyError{Reason: reason, Loop: loop, Detail: fmt.Sprintf(format, args...)}
}
