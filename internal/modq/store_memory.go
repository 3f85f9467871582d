package modq

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]Flag
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: map[string]Flag{}}
}

func (m *MemoryStore) Insert(_ context.Context, f Flag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[f.ID] = f
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flags[id]
	if !ok {
		return Flag{}, ErrNotFound
	}
	return f, nil
}

func (m *MemoryStore) MarkResolved(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flags[id]
	if !ok {
		return ErrNotFound
	}
	f.Resolved = true
	m.flags[id] = f
	return nil
}

func (m *MemoryStore) List(_ context.Context, filter Filter) ([]Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Flag
	for _, f := range m.flags {
		if filter.QuestionID != nil && f.QuestionID != *filter.QuestionID {
			continue
		}
		if filter.Resolved != nil && f.Resolved != *filter.Resolved {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
