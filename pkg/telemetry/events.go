package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a profile lifecycle notification.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	ProfileID string                 `json:"profile_id,omitempty"`
	Family    string                 `json:"family,omitempty"`
	Message   string                 `json:"message"`
	Level     string                 `json:"level"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Event types.
const (
	EventTypeProfileCommitted  = "profile.committed"
	EventTypeProfileRejected   = "profile.rejected"
	EventTypeProfileDeleted    = "profile.deleted"
	EventTypeProfilesStale     = "profile.stale"
	EventTypeOutlineRecomputed = "outline.recomputed"
)

// Event levels, lowest first.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

var (
	errPublisherStopped = errors.New("event publisher stopped")
	errBufferFull       = errors.New("event buffer full, event dropped")
)

// EventSubscriber receives delivered events.
type EventSubscriber func(event Event)

// EventFilter reports whether an event passes.
type EventFilter func(event Event) bool

type subscription struct {
	fn     EventSubscriber
	filter EventFilter
}

func (s subscription) deliver(e Event) {
	if s.filter == nil || s.filter(e) {
		s.fn(e)
	}
}

// EventPublisher fans events out to subscribers, in registration order.
// With EnableAsync set, events are queued and delivered by one worker so
// Publish never blocks the commit pipeline.
type EventPublisher struct {
	config EventsConfig

	mu      sync.RWMutex
	subs    []subscription
	filters []EventFilter

	queue chan Event
	stop  context.CancelFunc
	done  chan struct{}
	ctx   context.Context
}

// NewEventPublisher creates a publisher. A disabled publisher accepts and
// drops everything.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	ep := &EventPublisher{config: cfg}
	if !cfg.Enabled {
		return ep, nil
	}
	if ep.config.MaxBatchSize <= 0 {
		ep.config.MaxBatchSize = 1
	}
	ep.ctx, ep.stop = context.WithCancel(context.Background())
	if cfg.EnableAsync {
		ep.queue = make(chan Event, cfg.BufferSize)
		ep.done = make(chan struct{})
		go ep.run()
	}
	return ep, nil
}

// Publish stamps and delivers event. Asynchronous publishers return an
// error instead of blocking when the queue is full.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Source == "" {
		event.Source = "engine"
	}
	if !ep.accepts(event) {
		return nil
	}

	if ep.queue == nil {
		ep.deliver(event)
		return nil
	}
	select {
	case <-ep.ctx.Done():
		return errPublisherStopped
	default:
	}
	select {
	case ep.queue <- event:
		return nil
	default:
		return errBufferFull
	}
}

func (ep *EventPublisher) emit(typ, level, profileID, family, message string, data map[string]interface{}) error {
	return ep.Publish(Event{
		Type:      typ,
		Level:     level,
		ProfileID: profileID,
		Family:    family,
		Message:   message,
		Data:      data,
	})
}

// PublishProfileCommitted publishes a successful insert or update.
func (ep *EventPublisher) PublishProfileCommitted(profileID, family, operation string) error {
	return ep.emit(EventTypeProfileCommitted, EventLevelInfo, profileID, family,
		fmt.Sprintf("Profile %s committed", operation),
		map[string]interface{}{"operation": operation})
}

// PublishProfileRejected publishes a rejected commit.
func (ep *EventPublisher) PublishProfileRejected(profileID, family, class, reason string) error {
	return ep.emit(EventTypeProfileRejected, EventLevelWarning, profileID, family, reason,
		map[string]interface{}{"class": class})
}

func (ep *EventPublisher) PublishProfileDeleted(profileID string) error {
	return ep.emit(EventTypeProfileDeleted, EventLevelInfo, profileID, "", "Profile deleted", nil)
}

// PublishProfilesStale lists the outlines invalidated by a commit of
// profileID.
func (ep *EventPublisher) PublishProfilesStale(profileID string, stale []string) error {
	return ep.emit(EventTypeProfilesStale, EventLevelInfo, profileID, "",
		fmt.Sprintf("%d outlines marked stale", len(stale)),
		map[string]interface{}{"stale": stale})
}

func (ep *EventPublisher) PublishOutlineRecomputed(profileID, family string) error {
	return ep.emit(EventTypeOutlineRecomputed, EventLevelInfo, profileID, family, "Outline recomputed", nil)
}

// Subscribe registers fn for events passing filter. A nil filter passes
// everything.
func (ep *EventPublisher) Subscribe(fn EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	ep.subs = append(ep.subs, subscription{fn: fn, filter: filter})
	ep.mu.Unlock()
}

// AddFilter drops events failing filter before any subscriber sees them.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	ep.filters = append(ep.filters, filter)
	ep.mu.Unlock()
}

func (ep *EventPublisher) accepts(e Event) bool {
	ep.mu.RLock()
	defer ep.mu.RUnlock()
	for _, f := range ep.filters {
		if !f(e) {
			return false
		}
	}
	return true
}

func (ep *EventPublisher) deliver(e Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()
	for _, s := range ep.subs {
		s.deliver(e)
	}
}

// run delivers queued events in batches of up to MaxBatchSize and drains
// the queue once the publisher is stopped.
func (ep *EventPublisher) run() {
	defer close(ep.done)

	batch := make([]Event, 0, ep.config.MaxBatchSize)
	flush := func() {
		for _, e := range batch {
			ep.deliver(e)
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-ep.queue:
			batch = append(batch, e)
			if len(batch) >= ep.config.MaxBatchSize || len(ep.queue) == 0 {
				flush()
			}
		case <-ep.ctx.Done():
			for len(ep.queue) > 0 {
				batch = append(batch, <-ep.queue)
			}
			flush()
			return
		}
	}
}

// Shutdown stops the publisher and waits for queued events to be
// delivered, or for ctx to expire.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}
	ep.stop()
	if ep.done == nil {
		return nil
	}
	select {
	case <-ep.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown: %w", ctx.Err())
	}
}

func levelRank(level string) int {
	switch level {
	case EventLevelWarning:
		return 1
	case EventLevelError:
		return 2
	default:
		return 0
	}
}

// FilterByLevel passes events at minLevel or above.
func FilterByLevel(minLevel string) EventFilter {
	floor := levelRank(minLevel)
	return func(e Event) bool { return levelRank(e.Level) >= floor }
}

// FilterByType passes events of the given types.
func FilterByType(types ...string) EventFilter {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(e Event) bool {
		_, ok := set[e.Type]
		return ok
	}
}

// FilterByProfileID passes events about one profile.
func FilterByProfileID(profileID string) EventFilter {
	return func(e Event) bool { return e.ProfileID == profileID }
}
