// Package store holds the process-wide in-memory index of tickets, plans,
// and opaque embedding vectors, kept current by the watcher and queried
// by the editor and graph packages. At most one instance can be bound as
// the process-wide store; Open enforces that.
package store

import (
	"sync"

	"janus/internal/docparse"
	"janus/internal/errs"
)

// ChangeKind distinguishes the two broadcast event families.
type ChangeKind int

const (
	TicketsChanged ChangeKind = iota
	PlansChanged
)

// Event is pushed to subscribers on every upsert/remove. Stems is the set
// of entities that changed in this batch; subscribers are expected to
// re-query the store for current state, not to treat Stems as a diff.
type Event struct {
	Kind  ChangeKind
	Stems []string
}

// Store is the concurrent in-memory index. Zero value is not usable; use
// New.
type Store struct {
	mu         sync.RWMutex
	tickets    map[string]*docparse.TicketMetadata
	plans      map[string]*docparse.PlanMetadata
	embeddings map[string]any

	broadcast *Broadcaster
}

// New returns a fresh, unbound Store. Pass it to Open to bind it as the
// process-wide instance, which Instance then returns.
func New() *Store {
	return &Store{
		tickets:    make(map[string]*docparse.TicketMetadata),
		plans:      make(map[string]*docparse.PlanMetadata),
		embeddings: make(map[string]any),
		broadcast:  NewBroadcaster(),
	}
}

var (
	instanceMu sync.Mutex
	instance   *Store
)

// Open binds s as the process-wide store instance. Calling Open a second
// time with a different instance is an error: exactly one store is
// allowed to be live per process, so a background watcher can never end
// up updating a store nobody is reading from. Calling Open again with the
// same instance is a no-op.
func Open(s *Store) error {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil && instance != s {
		return errs.ErrAlreadyBound
	}

	instance = s

	return nil
}

// Instance returns the process-wide store bound by Open, or nil if none
// has been bound yet.
func Instance() *Store {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	return instance
}

// resetInstance clears the process-wide binding. Test-only.
func resetInstance() {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	instance = nil
}

// Subscribe registers a new listener for change events. Call the
// returned cancel func to unsubscribe.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.broadcast.Subscribe()
}

// UpsertTicket inserts or replaces a ticket and broadcasts TicketsChanged.
func (s *Store) UpsertTicket(meta *docparse.TicketMetadata) {
	s.mu.Lock()
	s.tickets[meta.ID] = meta
	s.mu.Unlock()

	s.broadcast.Publish(Event{Kind: TicketsChanged, Stems: []string{meta.ID}})
}

// RemoveTicket deletes a ticket by stem and broadcasts TicketsChanged.
// Removing a stem that isn't present is a no-op.
func (s *Store) RemoveTicket(stem string) {
	s.mu.Lock()
	delete(s.tickets, stem)
	s.mu.Unlock()

	s.broadcast.Publish(Event{Kind: TicketsChanged, Stems: []string{stem}})
}

// ApplyTicketChanges applies a batch of ticket upserts and removals under
// a single lock acquisition and emits exactly one TicketsChanged event
// naming every touched stem, regardless of how many files changed. Used
// by the watcher after a debounce window settles; single-edit callers
// should use UpsertTicket/RemoveTicket instead.
func (s *Store) ApplyTicketChanges(upserts []*docparse.TicketMetadata, removes []string) {
	if len(upserts) == 0 && len(removes) == 0 {
		return
	}

	stems := make([]string, 0, len(upserts)+len(removes))

	s.mu.Lock()

	for _, meta := range upserts {
		s.tickets[meta.ID] = meta
		stems = append(stems, meta.ID)
	}

	for _, stem := range removes {
		delete(s.tickets, stem)
		stems = append(stems, stem)
	}

	s.mu.Unlock()

	s.broadcast.Publish(Event{Kind: TicketsChanged, Stems: stems})
}

// ApplyPlanChanges is ApplyTicketChanges for plans.
func (s *Store) ApplyPlanChanges(upserts []*docparse.PlanMetadata, removes []string) {
	if len(upserts) == 0 && len(removes) == 0 {
		return
	}

	stems := make([]string, 0, len(upserts)+len(removes))

	s.mu.Lock()

	for _, meta := range upserts {
		s.plans[meta.ID] = meta
		stems = append(stems, meta.ID)
	}

	for _, stem := range removes {
		delete(s.plans, stem)
		stems = append(stems, stem)
	}

	s.mu.Unlock()

	s.broadcast.Publish(Event{Kind: PlansChanged, Stems: stems})
}

// UpsertPlan inserts or replaces a plan and broadcasts PlansChanged.
func (s *Store) UpsertPlan(meta *docparse.PlanMetadata) {
	s.mu.Lock()
	s.plans[meta.ID] = meta
	s.mu.Unlock()

	s.broadcast.Publish(Event{Kind: PlansChanged, Stems: []string{meta.ID}})
}

// RemovePlan deletes a plan by stem and broadcasts PlansChanged.
func (s *Store) RemovePlan(stem string) {
	s.mu.Lock()
	delete(s.plans, stem)
	s.mu.Unlock()

	s.broadcast.Publish(Event{Kind: PlansChanged, Stems: []string{stem}})
}

// GetTicket returns a ticket by stem.
func (s *Store) GetTicket(stem string) (*docparse.TicketMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[stem]

	return t, ok
}

// GetPlan returns a plan by stem.
func (s *Store) GetPlan(stem string) (*docparse.PlanMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[stem]

	return p, ok
}

// SetEmbedding stores an opaque embedding vector for stem, invalidating
// whatever was there before. The store never interprets the value.
func (s *Store) SetEmbedding(stem string, vector any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.embeddings[stem] = vector
}

// GetEmbedding returns the embedding vector stored for stem, if any.
func (s *Store) GetEmbedding(stem string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.embeddings[stem]

	return v, ok
}

// InvalidateEmbedding drops stem's embedding, e.g. after its ticket body
// changes.
func (s *Store) InvalidateEmbedding(stem string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.embeddings, stem)
}

// SnapshotAll returns a shallow clone of the current ticket and plan
// maps. The metadata pointers themselves are shared (callers must treat
// them as read-only) but the maps are independent, so secondary queries
// can iterate without holding the store lock.
func (s *Store) SnapshotAll() (map[string]*docparse.TicketMetadata, map[string]*docparse.PlanMetadata) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make(map[string]*docparse.TicketMetadata, len(s.tickets))
	for k, v := range s.tickets {
		tickets[k] = v
	}

	plans := make(map[string]*docparse.PlanMetadata, len(s.plans))
	for k, v := range s.plans {
		plans[k] = v
	}

	return tickets, plans
}

// TicketKeys returns every ticket stem currently held, for partial-id
// resolution.
func (s *Store) TicketKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.tickets))
	for k := range s.tickets {
		keys = append(keys, k)
	}

	return keys
}
