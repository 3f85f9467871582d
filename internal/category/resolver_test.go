package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestResolveDepthThree(t *testing.T) {
	store := NewMemoryStore(
		Category{ID: 1, Slug: "a320", IsActive: true},
		Category{ID: 2, Slug: "ata21", ParentID: ptr(1), IsActive: true},
		Category{ID: 3, Slug: "ata22", ParentID: ptr(1), IsActive: true},
		Category{ID: 4, Slug: "ata21-packs", ParentID: ptr(2), IsActive: true},
		Category{ID: 5, Slug: "ata21-valves", ParentID: ptr(4), IsActive: true},
		Category{ID: 9, Slug: "b737", IsActive: true}, // unrelated root
	)
	r := NewResolver(store)

	ids, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestResolveLeafIsInclusive(t *testing.T) {
	store := NewMemoryStore(Category{ID: 7, Slug: "solo"})
	r := NewResolver(store)

	ids, err := r.Resolve(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
}

// cycleStore reports the root as a child of its own descendant.
type cycleStore struct{}

func (cycleStore) BySlug(context.Context, string) (Category, error) { return Category{}, ErrNotFound }
func (cycleStore) ListActive(context.Context) ([]Category, error)   { return nil, nil }
func (cycleStore) ChildrenOf(_ context.Context, parents []int64) ([]Category, error) {
	var out []Category
	for _, p := range parents {
		switch p {
		case 1:
			out = append(out, Category{ID: 2, ParentID: ptr(1)})
		case 2:
			// corrupt edge pointing back at the root
			out = append(out, Category{ID: 1, ParentID: ptr(2)})
		}
	}
	return out, nil
}

func TestResolveTerminatesOnCycle(t *testing.T) {
	r := NewResolver(cycleStore{})
	ids, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

type failingStore struct{ err error }

func (f failingStore) BySlug(context.Context, string) (Category, error) { return Category{}, f.err }
func (f failingStore) ListActive(context.Context) ([]Category, error)   { return nil, f.err }
func (f failingStore) ChildrenOf(context.Context, []int64) ([]Category, error) {
	return nil, f.err
}

func TestResolvePropagatesStoreError(t *testing.T) {
	want := errors.New("connection refused")
	r := NewResolver(failingStore{err: want})
	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, want)
}

func TestBuildTree(t *testing.T) {
	roots := BuildTree([]Category{
		{ID: 1, Slug: "a320"},
		{ID: 2, Slug: "ata21", ParentID: ptr(1)},
		{ID: 3, Slug: "b737"},
	})
	require.Len(t, roots, 2)
	assert.Equal(t, "a320", roots[0].Slug)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "ata21", roots[0].Children[0].Slug)
}
