package subscription

import (
	"context"
	"sync"
)

// MemoryStore implements Store for testing and local development.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

// NewMemoryStore creates an empty in-memory subscription store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subs: make(map[string]Subscription),
	}
}

// FindByID returns a copy of the stored subscription or ErrNotFound.
func (m *MemoryStore) FindByID(ctx context.Context, id string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy to prevent external mutation of stored state.
	out := sub
	return &out, nil
}

// Save upserts the subscription keyed by its caller-assigned id.
func (m *MemoryStore) Save(ctx context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[sub.ID] = *sub
	return nil
}

// Len returns the number of stored subscriptions. Useful in tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.subs)
}
