package stores

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a profile id has no committed record.
	ErrNotFound = errors.New("profile not found")

	// ErrReferenced is returned when deleting a profile that is still the
	// target of a committed reference.
	ErrReferenced = errors.New("profile is referenced")
)

// Audit actions written by the coordinator.
const (
	AuditProfileInserted = "profile.inserted"
	AuditProfileUpdated  = "profile.updated"
	AuditProfileDeleted  = "profile.deleted"
)

// Record is a committed profile as persisted: identity plus the family
// parameters as a JSON document.
type Record struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Family    string          `json:"family"`
	Params    json.RawMessage `json:"params"`
	Revision  int64           `json:"revision"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Edge is one committed reference from a profile to the profile it
// depends on. Role names the parameter slot holding the reference.
type Edge struct {
	SourceID string `json:"source_id"`
	Role     string `json:"role"`
	TargetID string `json:"target_id"`
}

// AuditEntry represents an audit trail entry
type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`              // e.g., "profile.inserted", "profile.deleted"
	Actor     string    `json:"actor"`               // user or system identifier
	TargetID  *string   `json:"target_id,omitempty"` // profile ID
	Details   *string   `json:"details,omitempty"`   // JSON blob
	Timestamp time.Time `json:"timestamp"`
}

// ProfileStore defines the persistence layer behind the coordinator.
//
// Save and Delete are atomic: a profile, its outgoing edges and the audit
// entry are written together or not at all.
type ProfileStore interface {
	// Exists reports whether a committed profile has the given id.
	Exists(ctx context.Context, id string) (bool, error)

	// Resolve returns the committed record, or ErrNotFound.
	Resolve(ctx context.Context, id string) (*Record, error)

	// Save inserts or replaces a record and replaces its outgoing edges.
	// Every edge target must already exist, otherwise ErrNotFound. On
	// success rec carries the stored revision and timestamps.
	Save(ctx context.Context, rec *Record, edges []Edge, audit *AuditEntry) error

	// Delete removes a record and its outgoing edges. It fails with
	// ErrReferenced while any edge targets id, and ErrNotFound when id is
	// not committed.
	Delete(ctx context.Context, id string, audit *AuditEntry) error

	// Referrers lists edges whose target is id.
	Referrers(ctx context.Context, id string) ([]Edge, error)

	// Edges lists every committed edge ordered by source and role.
	Edges(ctx context.Context) ([]Edge, error)

	// List returns records ordered by id, optionally filtered by family.
	List(ctx context.Context, family *string, limit, offset int) ([]*Record, error)

	// ListAuditEntries returns audit entries newest first.
	ListAuditEntries(ctx context.Context, action *string, limit, offset int) ([]*AuditEntry, error)

	HealthCheck(ctx context.Context) error
	Close() error
}
