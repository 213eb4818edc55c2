package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/steelshape/steelshape/pkg/profiles"
	"github.com/steelshape/steelshape/pkg/stores"
	"github.com/steelshape/steelshape/pkg/telemetry"
)

// Coordinator is the commit path for profiles. It validates a profile's
// own geometry, resolves its references against the store, persists it,
// and keeps outlines of referencing profiles in step with their upstream
// profiles.
//
// Commits are serialized: each one sees a consistent snapshot of the
// profiles it references.
type Coordinator struct {
	store  stores.ProfileStore
	tel    *telemetry.Telemetry
	logger *telemetry.Logger
	actor  string

	mu       sync.Mutex
	graph    *ReferenceGraph
	outlines map[string]*outlineEntry
}

type outlineEntry struct {
	outline profiles.Outline
	stale   bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTelemetry sets the telemetry bundle. The default records nothing.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(c *Coordinator) { c.tel = tel }
}

// WithActor sets the actor written to the audit trail.
func WithActor(actor string) Option {
	return func(c *Coordinator) { c.actor = actor }
}

// NewCoordinator loads the committed reference graph from store.
func NewCoordinator(ctx context.Context, store stores.ProfileStore, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		store:    store,
		actor:    "engine",
		outlines: make(map[string]*outlineEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tel == nil {
		c.tel = telemetry.Nop()
	}
	c.logger = c.tel.Logger.NewComponentLogger("coordinator")

	records, err := store.List(ctx, nil, 0, 0)
	if err != nil {
		return nil, NewInternalError("failed to load profiles", err)
	}
	edges, err := store.Edges(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load references", err)
	}
	graph, err := BuildReferenceGraph(records, edges)
	if err != nil {
		return nil, err
	}
	c.graph = graph

	c.tel.Metrics.SetProfileCount(float64(graph.Len()))
	c.logger.Debugf("Loaded %d profiles and %d references", len(records), len(edges))
	return c, nil
}

// Insert commits a new profile. An empty ID is replaced by a UUID.
func (c *Coordinator) Insert(ctx context.Context, p *Profile) error {
	if p != nil && p.ID == "" {
		p.ID = uuid.New().String()
	}
	return c.commit(ctx, p, OperationInsert)
}

// Update commits new parameters for an existing profile. Profiles that
// reference it are not re-validated; their outlines are marked stale.
func (c *Coordinator) Update(ctx context.Context, p *Profile) error {
	return c.commit(ctx, p, OperationUpdate)
}

// Validate runs the full commit check, including reference resolution,
// without persisting anything.
func (c *Coordinator) Validate(ctx context.Context, p *Profile) error {
	if p == nil {
		return NewParameterError("profile is required", nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.check(ctx, p)
	return err
}

func (c *Coordinator) commit(ctx context.Context, p *Profile, op string) (err error) {
	if p == nil {
		return NewParameterError("profile is required", nil).WithOperation(op)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	family := string(p.Family())
	timer := telemetry.NewTimer()
	ctx, span := c.tel.Tracer.StartCommitSpan(ctx, p.ID, family, op)
	defer span.End()
	logger := c.logger.WithProfileID(p.ID).WithFamily(family).WithOperation(op)

	defer func() {
		outcome := OutcomeCommitted
		if err != nil {
			outcome = c.reportFailure(logger, p.ID, family, op, err)
			telemetry.RecordRejection(span, string(ClassOf(err)), CodeOf(err), err)
		} else {
			telemetry.RecordSuccess(span)
		}
		c.tel.Metrics.RecordCommit(op, outcome, timer.Duration())
	}()

	exists, err := c.store.Exists(ctx, p.ID)
	if err != nil {
		return NewInternalError("failed to check profile", err)
	}
	switch {
	case op == OperationInsert && exists:
		return NewParameterError("profile already exists", nil).WithCode(ErrCodeAlreadyExists)
	case op == OperationUpdate && !exists:
		return NewNotFoundError(p.ID, nil)
	}

	edges, err := c.check(ctx, p)
	if err != nil {
		return err
	}
	if op == OperationUpdate {
		if err := c.checkReferrersAccept(ctx, p); err != nil {
			return err
		}
	}

	rec, err := p.toRecord()
	if err != nil {
		return NewInternalError("failed to encode parameters", err)
	}

	action := stores.AuditProfileInserted
	if op == OperationUpdate {
		action = stores.AuditProfileUpdated
	}
	if err := c.store.Save(ctx, rec, edges, c.auditEntry(action, p.ID, family)); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return NewReferentialError("referenced profile disappeared before commit", err).
				WithCode(ErrCodeTargetMissing)
		}
		return mapStoreError(p.ID, err)
	}
	p.Revision, p.CreatedAt, p.UpdatedAt = rec.Revision, rec.CreatedAt, rec.UpdatedAt

	c.graph.SetEdges(p.ID, p.Family(), edges)
	stale := c.markStale(p.ID)

	c.tel.Metrics.SetProfileCount(float64(c.graph.Len()))
	_ = c.tel.Events.PublishProfileCommitted(p.ID, family, op)
	if len(stale) > 0 {
		_ = c.tel.Events.PublishProfilesStale(p.ID, stale)
		logger.Debugf("Marked %d dependent outlines stale", len(stale))
	}

	logger.Zerolog().Info().
		Int64("revision", p.Revision).
		Int("references", len(edges)).
		Msg("Profile committed")
	return nil
}

// check validates the profile's own geometry, then resolves its
// references. It returns the edges to persist.
func (c *Coordinator) check(ctx context.Context, p *Profile) ([]stores.Edge, error) {
	if err := ValidateProfile(p); err != nil {
		c.recordValidation(p, err)
		return nil, err
	}
	c.recordValidation(p, nil)

	refs := p.References()
	edges := make([]stores.Edge, 0, len(refs))
	for _, ref := range refs {
		err := c.commitReference(ctx, p.ID, ref)
		telemetry.AddReferenceEvent(ctx, ref.Role, ref.TargetID, err == nil)
		if err != nil {
			return nil, err
		}
		edges = append(edges, stores.Edge{SourceID: p.ID, Role: ref.Role, TargetID: ref.TargetID})
	}
	return edges, nil
}

// CommitReference resolves a single edge of source against the committed
// profiles: the target must exist, satisfy the edge's family requirement,
// and not close a reference cycle.
func (c *Coordinator) CommitReference(ctx context.Context, sourceID string, ref profiles.Reference) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.commitReference(ctx, sourceID, ref)
	if err != nil {
		c.tel.Metrics.RecordReferentialRejection(CodeOf(err))
	}
	return err
}

func (c *Coordinator) commitReference(ctx context.Context, sourceID string, ref profiles.Reference) error {
	if !ref.IsSet() {
		return NewReferentialError(fmt.Sprintf("reference %s is not set", ref.Role), nil).
			WithCode(ErrCodeUnsetReference).
			WithResource(sourceID).
			WithDetail("role", ref.Role)
	}

	rec, err := c.store.Resolve(ctx, ref.TargetID)
	if errors.Is(err, stores.ErrNotFound) {
		return NewReferentialError(
			fmt.Sprintf("reference %s points at missing profile %s", ref.Role, ref.TargetID), err,
		).WithCode(ErrCodeTargetMissing).
			WithResource(sourceID).
			WithDetail("role", ref.Role).
			WithDetail("target", ref.TargetID)
	}
	if err != nil {
		return NewInternalError("failed to resolve reference", err).WithResource(sourceID)
	}

	target := profiles.FamilyName(rec.Family)
	if !ref.Requires.Accepts(target) {
		return NewReferentialError(
			fmt.Sprintf("reference %s requires %s, but %s is a %s", ref.Role, ref.Requires, ref.TargetID, target), nil,
		).WithCode(ErrCodeWrongFamily).
			WithResource(sourceID).
			WithDetail("role", ref.Role).
			WithDetail("target", ref.TargetID).
			WithDetail("target_family", string(target))
	}

	if cycle := c.graph.CyclePath(sourceID, ref.TargetID); cycle != nil {
		return NewReferentialError(
			fmt.Sprintf("reference %s would create a cycle: %s", ref.Role, formatCycle(cycle)), nil,
		).WithCode(ErrCodeReferenceCycle).
			WithResource(sourceID).
			WithDetail("cycle", cycle)
	}

	return nil
}

// checkReferrersAccept rejects an update that changes the family of a
// profile to one its referrers' edges do not accept.
func (c *Coordinator) checkReferrersAccept(ctx context.Context, p *Profile) error {
	newFamily := p.Family()
	if c.graph.nodes[p.ID] == newFamily {
		return nil
	}

	for _, referrerID := range c.graph.Referrers(p.ID) {
		rec, err := c.store.Resolve(ctx, referrerID)
		if err != nil {
			return NewInternalError("failed to resolve referrer", err).WithResource(referrerID)
		}
		referrer, err := profileFromRecord(rec)
		if err != nil {
			return NewInternalError("failed to decode referrer", err).WithResource(referrerID)
		}
		for _, ref := range referrer.References() {
			if ref.TargetID != p.ID || ref.Requires.Accepts(newFamily) {
				continue
			}
			return NewReferentialError(
				fmt.Sprintf("%s.%s requires %s, so the profile cannot become a %s", referrerID, ref.Role, ref.Requires, newFamily), nil,
			).WithCode(ErrCodeWrongFamily).
				WithDetail("referrer", referrerID).
				WithDetail("role", ref.Role)
		}
	}
	return nil
}

// Delete removes a profile. It fails with a referential error while any
// committed reference targets it.
func (c *Coordinator) Delete(ctx context.Context, id string) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	family := string(c.graph.nodes[id])
	timer := telemetry.NewTimer()
	ctx, span := c.tel.Tracer.StartCommitSpan(ctx, id, family, OperationDelete)
	defer span.End()
	logger := c.logger.WithProfileID(id).WithOperation(OperationDelete)

	defer func() {
		outcome := OutcomeCommitted
		if err != nil {
			outcome = c.reportFailure(logger, id, family, OperationDelete, err)
			telemetry.RecordRejection(span, string(ClassOf(err)), CodeOf(err), err)
		} else {
			telemetry.RecordSuccess(span)
		}
		c.tel.Metrics.RecordCommit(OperationDelete, outcome, timer.Duration())
	}()

	referrers, err := c.store.Referrers(ctx, id)
	if err != nil {
		return NewInternalError("failed to list referrers", err)
	}
	if len(referrers) > 0 {
		return referencedError(id, referrers)
	}

	if err := c.store.Delete(ctx, id, c.auditEntry(stores.AuditProfileDeleted, id, family)); err != nil {
		return mapStoreError(id, err)
	}

	c.graph.Remove(id)
	delete(c.outlines, id)
	c.tel.Metrics.SetProfileCount(float64(c.graph.Len()))
	c.tel.Metrics.SetStaleProfiles(float64(c.staleCount()))
	_ = c.tel.Events.PublishProfileDeleted(id)

	logger.Info("Profile deleted")
	return nil
}

// CanDelete reports whether id is committed and unreferenced.
func (c *Coordinator) CanDelete(ctx context.Context, id string) (bool, error) {
	exists, err := c.store.Exists(ctx, id)
	if err != nil {
		return false, NewInternalError("failed to check profile", err)
	}
	if !exists {
		return false, NewNotFoundError(id, nil)
	}
	referrers, err := c.store.Referrers(ctx, id)
	if err != nil {
		return false, NewInternalError("failed to list referrers", err)
	}
	return len(referrers) == 0, nil
}

// Get returns the committed profile.
func (c *Coordinator) Get(ctx context.Context, id string) (*Profile, error) {
	rec, err := c.store.Resolve(ctx, id)
	if err != nil {
		return nil, mapStoreError(id, err)
	}
	p, err := profileFromRecord(rec)
	if err != nil {
		return nil, NewInternalError("failed to decode profile", err).WithResource(id)
	}
	return p, nil
}

// List returns committed profiles ordered by ID, optionally restricted to
// one family.
func (c *Coordinator) List(ctx context.Context, family profiles.FamilyName) ([]*Profile, error) {
	var filter *string
	if family != "" {
		f := string(family)
		filter = &f
	}
	records, err := c.store.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, NewInternalError("failed to list profiles", err)
	}

	out := make([]*Profile, 0, len(records))
	for _, rec := range records {
		p, err := profileFromRecord(rec)
		if err != nil {
			return nil, NewInternalError("failed to decode profile", err).WithResource(rec.ID)
		}
		out = append(out, p)
	}
	return out, nil
}

// Outline returns the outline of a committed profile, recomputing it when
// it is stale. A referencing profile's outline is composed from the
// current outlines of its targets; its own constraints are not re-run.
func (c *Coordinator) Outline(ctx context.Context, id string) (profiles.Outline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, span := c.tel.Tracer.StartOutlineSpan(ctx, id)
	defer span.End()

	o, err := c.outline(ctx, id, make(map[string]bool))
	if err != nil {
		telemetry.RecordError(span, err)
		return profiles.Outline{}, err
	}
	telemetry.RecordSuccess(span)
	return o, nil
}

func (c *Coordinator) outline(ctx context.Context, id string, visiting map[string]bool) (profiles.Outline, error) {
	if e, ok := c.outlines[id]; ok && !e.stale {
		return e.outline, nil
	}
	if visiting[id] {
		return profiles.Outline{}, NewInternalError("circular reference while building outline", nil).
			WithCode(ErrCodeOutlineUnstable).WithResource(id)
	}
	visiting[id] = true
	defer delete(visiting, id)

	p, err := c.Get(ctx, id)
	if err != nil {
		return profiles.Outline{}, err
	}

	o, static, err := profiles.StaticOutline(p.Params)
	if err != nil {
		return profiles.Outline{}, classifyValidation(err).WithResource(id).WithOperation(OperationOutline)
	}
	if !static {
		r, ok := p.Params.(profiles.Referencing)
		if !ok {
			return profiles.Outline{}, NewInternalError(
				fmt.Sprintf("family %s has no outline", p.Family()), nil,
			).WithResource(id)
		}
		refs := r.References()
		upstream := make([]profiles.Outline, len(refs))
		for i, ref := range refs {
			if upstream[i], err = c.outline(ctx, ref.TargetID, visiting); err != nil {
				return profiles.Outline{}, err
			}
		}
		o = r.ComposeOutline(upstream)
	}

	c.outlines[id] = &outlineEntry{outline: o}
	family := string(p.Family())
	c.tel.Metrics.RecordOutlineRecomputation(family)
	c.tel.Metrics.SetStaleProfiles(float64(c.staleCount()))
	_ = c.tel.Events.PublishOutlineRecomputed(id, family)
	c.logger.WithProfileID(id).WithFamily(family).Debug("Outline recomputed")
	return o, nil
}

// IsStale reports whether id's cached outline awaits recomputation.
// Profiles whose outline was never built count as stale.
func (c *Coordinator) IsStale(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.outlines[id]
	return !ok || e.stale
}

// markStale flags id and every transitive dependent for recomputation and
// returns the dependents.
func (c *Coordinator) markStale(id string) []string {
	dependents := c.graph.Dependents(id)
	for _, dep := range append([]string{id}, dependents...) {
		if e, ok := c.outlines[dep]; ok {
			e.stale = true
		} else {
			c.outlines[dep] = &outlineEntry{stale: true}
		}
	}
	c.tel.Metrics.SetStaleProfiles(float64(c.staleCount()))
	return dependents
}

func (c *Coordinator) staleCount() int {
	n := 0
	for _, e := range c.outlines {
		if e.stale {
			n++
		}
	}
	return n
}

// ReferenceDOT renders the committed reference graph in DOT format.
func (c *Coordinator) ReferenceDOT() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.ToDOT()
}

// Dependents returns the profiles whose outline depends on id.
func (c *Coordinator) Dependents(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph.Dependents(id)
}

func (c *Coordinator) recordValidation(p *Profile, err error) {
	family := string(p.Family())
	if err == nil {
		c.tel.Metrics.RecordValidation(family, "valid")
		return
	}
	c.tel.Metrics.RecordValidation(family, OutcomeRejected)
	c.tel.Metrics.RecordViolation(family, string(ClassOf(err)))
}

// reportFailure annotates err, logs it and publishes the rejection. It
// returns the commit outcome label.
func (c *Coordinator) reportFailure(logger *telemetry.Logger, id, family, op string, err error) string {
	var e *EngineError
	if errors.As(err, &e) {
		if e.Resource == "" {
			e.WithResource(id)
		}
		e.WithOperation(op)
		c.tel.Metrics.RecordError(string(e.Class), e.Code)
	}

	if class := ClassOf(err); class == "" || class == ErrorClassInternal {
		logger.WithError(err).Error("Commit failed")
		return OutcomeFailed
	}

	if IsReferential(err) {
		c.tel.Metrics.RecordReferentialRejection(CodeOf(err))
	}
	reason := err.Error()
	if e != nil {
		reason = e.Message
	}
	_ = c.tel.Events.PublishProfileRejected(id, family, string(ClassOf(err)), reason)
	logger.WithError(err).Warn("Commit rejected")
	return OutcomeRejected
}

func (c *Coordinator) auditEntry(action, id, family string) *stores.AuditEntry {
	target := id
	entry := &stores.AuditEntry{
		Action:   action,
		Actor:    c.actor,
		TargetID: &target,
	}
	if data, err := json.Marshal(map[string]string{"family": family}); err == nil {
		details := string(data)
		entry.Details = &details
	}
	return entry
}

func referencedError(id string, referrers []stores.Edge) *EngineError {
	names := make([]string, len(referrers))
	for i, e := range referrers {
		names[i] = e.SourceID + "." + e.Role
	}
	return NewReferentialError(
		fmt.Sprintf("profile is referenced by %d live reference(s)", len(referrers)), nil,
	).WithCode(ErrCodeReferenced).
		WithResource(id).
		WithDetail("referrers", names)
}

// mapStoreError converts store sentinels into engine errors.
func mapStoreError(id string, err error) error {
	switch {
	case errors.Is(err, stores.ErrReferenced):
		return NewReferentialError("profile is referenced", err).WithCode(ErrCodeReferenced).WithResource(id)
	case errors.Is(err, stores.ErrNotFound):
		return NewNotFoundError(id, err)
	default:
		return NewInternalError("store operation failed", err).WithResource(id)
	}
}
