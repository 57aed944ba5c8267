package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store for testing and local development.
// All methods are safe for concurrent use; the single mutex gives the same
// dedup guarantee a database unique constraint provides.
type MemoryStore struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*Event
	byEventID map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory inbound event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:      make(map[uuid.UUID]*Event),
		byEventID: make(map[string]uuid.UUID),
	}
}

// FindOrCreate implements Store.
func (m *MemoryStore) FindOrCreate(ctx context.Context, ev *Event) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byEventID[ev.EventID]; ok {
		*ev = *m.byID[id]
		return false, nil
	}

	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	stored := *ev
	m.byID[ev.ID] = &stored
	m.byEventID[ev.EventID] = ev.ID

	return true, nil
}

// FindByID implements Store.
func (m *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := *ev
	return &out, nil
}

// Update implements Store.
func (m *MemoryStore) Update(ctx context.Context, ev *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[ev.ID]
	if !ok {
		return ErrNotFound
	}

	ev.UpdatedAt = time.Now().UTC()
	stored.Status = ev.Status
	stored.Attempts = ev.Attempts
	stored.ProcessedAt = ev.ProcessedAt
	stored.UpdatedAt = ev.UpdatedAt

	return nil
}

// Len returns the number of stored events. Useful in tests.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.byID)
}
