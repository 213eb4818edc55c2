package profiles

import "fmt"

// Requirement states what a reference's target must be.
type Requirement struct {
	// Family, when set, is the only family the target may belong to.
	Family FamilyName `json:"family,omitempty"`

	// SinglePerimeter requires the target's outline to be a single closed
	// perimeter.
	SinglePerimeter bool `json:"single_perimeter,omitempty"`
}

// Accepts reports whether a profile of family name satisfies r.
func (r Requirement) Accepts(name FamilyName) bool {
	if r.Family != "" && r.Family != name {
		return false
	}
	if r.SinglePerimeter {
		spec, ok := Lookup(name)
		if !ok || !spec.SinglePerimeter {
			return false
		}
	}
	return true
}

// String describes the requirement for error messages.
func (r Requirement) String() string {
	switch {
	case r.Family != "":
		return fmt.Sprintf("family %s", r.Family)
	case r.SinglePerimeter:
		return "a single-perimeter profile"
	default:
		return "any profile"
	}
}

// Reference is one outgoing edge of a referencing family. An empty
// TargetID is an unset edge; it is rejected at commit, never on set.
type Reference struct {
	Role     string      `json:"role"`
	TargetID string      `json:"target_id"`
	Requires Requirement `json:"requires"`
}

// IsSet reports whether the edge has a target.
func (r Reference) IsSet() bool {
	return r.TargetID != ""
}
