package stores

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements ProfileStore in process memory. It is used for
// dry runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	edges   map[string][]Edge // keyed by source id
	audit   []*AuditEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		edges:   make(map[string][]Edge),
	}
}

// Exists reports whether a profile with the given id is committed.
func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok, nil
}

// Resolve returns a copy of the committed record.
func (s *MemoryStore) Resolve(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneRecord(rec), nil
}

// Save inserts or replaces a profile together with its outgoing edges.
func (s *MemoryStore) Save(_ context.Context, rec *Record, edges []Edge, audit *AuditEntry) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("profile id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, edge := range edges {
		if _, ok := s.records[edge.TargetID]; !ok && edge.TargetID != rec.ID {
			return fmt.Errorf("%w: %s references %s", ErrNotFound, edge.Role, edge.TargetID)
		}
	}

	now := time.Now().UTC()
	stored := cloneRecord(rec)
	stored.Revision = 1
	stored.CreatedAt = now
	if prev, ok := s.records[rec.ID]; ok {
		stored.Revision = prev.Revision + 1
		stored.CreatedAt = prev.CreatedAt
	}
	stored.UpdatedAt = now
	s.records[rec.ID] = stored

	out := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		out = append(out, Edge{SourceID: rec.ID, Role: edge.Role, TargetID: edge.TargetID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	if len(out) == 0 {
		delete(s.edges, rec.ID)
	} else {
		s.edges[rec.ID] = out
	}

	s.appendAudit(audit)

	rec.Revision = stored.Revision
	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a profile unless another profile references it.
func (s *MemoryStore) Delete(_ context.Context, id string, audit *AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if referrers := s.referrersLocked(id); len(referrers) > 0 {
		return fmt.Errorf("%w: %s is referenced by %s", ErrReferenced, id, describeEdges(referrers))
	}
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	delete(s.records, id)
	delete(s.edges, id)
	s.appendAudit(audit)
	return nil
}

// Referrers lists the edges that target id.
func (s *MemoryStore) Referrers(_ context.Context, id string) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.referrersLocked(id), nil
}

func (s *MemoryStore) referrersLocked(id string) []Edge {
	out := []Edge{}
	for _, edges := range s.edges {
		for _, e := range edges {
			if e.TargetID == id && e.SourceID != id {
				out = append(out, e)
			}
		}
	}
	sortEdges(out)
	return out
}

// Edges lists every committed edge.
func (s *MemoryStore) Edges(_ context.Context) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Edge{}
	for _, edges := range s.edges {
		out = append(out, edges...)
	}
	sortEdges(out)
	return out, nil
}

// List returns profiles ordered by id.
func (s *MemoryStore) List(_ context.Context, family *string, limit, offset int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id, rec := range s.records {
		if family != nil && rec.Family != *family {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := []*Record{}
	for _, id := range page(ids, limit, offset) {
		records = append(records, cloneRecord(s.records[id]))
	}
	return records, nil
}

// ListAuditEntries returns audit entries newest first.
func (s *MemoryStore) ListAuditEntries(_ context.Context, action *string, limit, offset int) ([]*AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*AuditEntry{}
	for i := len(s.audit) - 1; i >= 0; i-- {
		entry := s.audit[i]
		if action != nil && entry.Action != *action {
			continue
		}
		copied := *entry
		matched = append(matched, &copied)
	}
	return page(matched, limit, offset), nil
}

// HealthCheck always succeeds.
func (s *MemoryStore) HealthCheck(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) appendAudit(entry *AuditEntry) {
	if entry == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.ID = int64(len(s.audit) + 1)
	copied := *entry
	s.audit = append(s.audit, &copied)
}

func cloneRecord(rec *Record) *Record {
	out := *rec
	out.Params = append([]byte(nil), rec.Params...)
	return &out
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].Role < edges[j].Role
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
