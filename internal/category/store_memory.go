package category

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and dev seeding.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[int64]Category
}

func NewMemoryStore(cats ...Category) *MemoryStore {
	m := &MemoryStore{byID: map[int64]Category{}}
	for _, c := range cats {
		m.byID[c.ID] = c
	}
	return m
}

func (m *MemoryStore) Put(c Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = c
}

func (m *MemoryStore) BySlug(_ context.Context, slug string) (Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (m *MemoryStore) ChildrenOf(_ context.Context, parentIDs []int64) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := make(map[int64]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		want[id] = struct{}{}
	}
	var out []Category
	for _, c := range m.byID {
		if c.ParentID == nil {
			continue
		}
		if _, ok := want[*c.ParentID]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListActive(_ context.Context) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Category
	for _, c := range m.byID {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}
