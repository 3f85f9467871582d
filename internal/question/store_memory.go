package question

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and dev seeding.
type MemoryStore struct {
	mu         sync.RWMutex
	questions  map[int64]RawQuestion
	categories map[int64][]int64 // question id -> category ids
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		questions:  map[int64]RawQuestion{},
		categories: map[int64][]int64{},
	}
}

func (m *MemoryStore) Put(q RawQuestion, categoryIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions[q.ID] = q
	m.categories[q.ID] = categoryIDs
}

func (m *MemoryStore) MetaInCategories(_ context.Context, categoryIDs []int64) ([]Meta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := make(map[int64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		want[id] = struct{}{}
	}
	var out []Meta
	for qid, cats := range m.categories {
		for _, c := range cats {
			if _, ok := want[c]; ok {
				q := m.questions[qid]
				out = append(out, Meta{ID: q.ID, Difficulty: q.Difficulty, Aircraft: q.Aircraft, Status: q.Status})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ByIDs(_ context.Context, ids []int64) ([]RawQuestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RawQuestion, 0, len(ids))
	for _, id := range ids {
		if q, ok := m.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}
