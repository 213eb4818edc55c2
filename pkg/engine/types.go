package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/stores"
)

// Operation names used in errors, metrics and the audit trail.
const (
	OperationInsert  = "insert"
	OperationUpdate  = "update"
	OperationDelete  = "delete"
	OperationOutline = "outline"
)

// Commit outcomes recorded in metrics.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Profile is a profile definition: identity plus exactly one family
// parameter set. Referencing families carry their pending edges inside
// Params until commit resolves them.
type Profile struct {
	// ID is the unique identifier. Insert assigns a UUID when empty.
	ID string `json:"id"`

	// Name is the non-empty display name.
	Name string `json:"name" validate:"required"`

	// Code is the optional catalog code.
	Code string `json:"code,omitempty"`

	// Params is the family parameter set.
	Params profiles.Family `json:"-" validate:"required"`

	// Revision counts committed versions, starting at 1.
	Revision int64 `json:"revision,omitempty"`

	// CreatedAt is when the profile was first committed.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the profile was last committed.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewProfile creates an uncommitted profile with a fresh ID.
func NewProfile(name string, params profiles.Family) *Profile {
	return &Profile{
		ID:     uuid.New().String(),
		Name:   name,
		Params: params,
	}
}

// Family returns the family name of the parameter set, or "" if unset.
func (p *Profile) Family() profiles.FamilyName {
	if p.Params == nil {
		return ""
	}
	return p.Params.Family()
}

// References returns the profile's edges, or nil for non-referencing
// families.
func (p *Profile) References() []profiles.Reference {
	if r, ok := p.Params.(profiles.Referencing); ok {
		return r.References()
	}
	return nil
}

type profileJSON struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Code      string               `json:"code,omitempty"`
	Family    profiles.FamilyName  `json:"family"`
	Params    json.RawMessage      `json:"params"`
	Revision  int64                `json:"revision,omitempty"`
	CreatedAt *time.Time           `json:"created_at,omitempty"`
	UpdatedAt *time.Time           `json:"updated_at,omitempty"`
	Refs      []profiles.Reference `json:"references,omitempty"`
}

// MarshalJSON encodes the profile with its family name and parameters.
func (p *Profile) MarshalJSON() ([]byte, error) {
	out := profileJSON{
		ID:       p.ID,
		Name:     p.Name,
		Code:     p.Code,
		Family:   p.Family(),
		Revision: p.Revision,
		Refs:     p.References(),
	}
	if p.Params != nil {
		params, err := profiles.Encode(p.Params)
		if err != nil {
			return nil, err
		}
		out.Params = params
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = &p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAt = &p.UpdatedAt
	}
	return json.Marshal(out)
}

// toRecord encodes the profile for the store.
func (p *Profile) toRecord() (*stores.Record, error) {
	params, err := profiles.Encode(p.Params)
	if err != nil {
		return nil, err
	}
	return &stores.Record{
		ID:     p.ID,
		Name:   p.Name,
		Code:   p.Code,
		Family: string(p.Family()),
		Params: params,
	}, nil
}

// profileFromRecord decodes a stored record.
func profileFromRecord(rec *stores.Record) (*Profile, error) {
	params, err := profiles.Decode(profiles.FamilyName(rec.Family), rec.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", rec.ID, err)
	}
	return &Profile{
		ID:        rec.ID,
		Name:      rec.Name,
		Code:      rec.Code,
		Params:    params,
		Revision:  rec.Revision,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// BatchResult is the outcome of validating one profile of a batch.
type BatchResult struct {
	Index     int
	ProfileID string
	Family    profiles.FamilyName
	Err       error
}

// Valid reports whether the profile passed.
func (r BatchResult) Valid() bool {
	return r.Err == nil
}
