package attempt

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	attempts map[string]Attempt
	items    map[string][]Item

	// FailItems forces the next InsertItems call to fail, for exercising
	// the recorder's compensating delete.
	FailItems error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempts: map[string]Attempt{}, items: map[string][]Item{}}
}

func (m *MemoryStore) InsertAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *MemoryStore) InsertItems(_ context.Context, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailItems != nil {
		err := m.FailItems
		m.FailItems = nil
		return err
	}
	for _, it := range items {
		m.items[it.AttemptID] = append(m.items[it.AttemptID], it)
	}
	return nil
}

func (m *MemoryStore) DeleteAttempt(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, id)
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) GetItems(_ context.Context, attemptID string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Item(nil), m.items[attemptID]...), nil
}

func (m *MemoryStore) ListAttempts(_ context.Context, opts ListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.UserID != nil && *a.UserID == opts.UserID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
