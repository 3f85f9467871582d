package question

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedAircraftPool(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	store.Put(RawQuestion{ID: 1, Aircraft: strPtr("A320"), Difficulty: DifficultyEasy, Status: StatusPublished}, 10)
	store.Put(RawQuestion{ID: 2, Aircraft: strPtr("A330"), Difficulty: DifficultyEasy, Status: StatusPublished}, 10)
	store.Put(RawQuestion{ID: 3, Aircraft: nil, Difficulty: DifficultyEasy, Status: StatusPublished}, 10)
	return store
}

func TestFilterAircraftLenient(t *testing.T) {
	f := NewPoolFilter(seedAircraftPool(t))
	ids, err := f.Filter(context.Background(), []int64{10}, Criteria{Aircraft: strPtr("A320")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)
}

func TestFilterAircraftStrict(t *testing.T) {
	f := NewPoolFilter(seedAircraftPool(t))
	ids, err := f.Filter(context.Background(), []int64{10}, Criteria{Aircraft: strPtr("A320"), StrictAircraft: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestFilterUnpublishedExcluded(t *testing.T) {
	store := NewMemoryStore()
	store.Put(RawQuestion{ID: 1, Difficulty: DifficultyEasy, Status: StatusPublished}, 10)
	store.Put(RawQuestion{ID: 2, Difficulty: DifficultyEasy, Status: StatusDraft}, 10)
	store.Put(RawQuestion{ID: 3, Difficulty: DifficultyEasy, Status: StatusArchived}, 10)

	f := NewPoolFilter(store)
	ids, err := f.Filter(context.Background(), []int64{10}, Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestFilterDifficultySubset(t *testing.T) {
	store := NewMemoryStore()
	store.Put(RawQuestion{ID: 1, Difficulty: DifficultyEasy, Status: StatusPublished}, 10)
	store.Put(RawQuestion{ID: 2, Difficulty: DifficultyMedium, Status: StatusPublished}, 10)
	store.Put(RawQuestion{ID: 3, Difficulty: DifficultyHard, Status: StatusPublished}, 10)

	f := NewPoolFilter(store)
	ids, err := f.Filter(context.Background(), []int64{10}, Criteria{Difficulties: []string{DifficultyEasy, DifficultyHard}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)

	// empty difficulty list means no restriction
	ids, err = f.Filter(context.Background(), []int64{10}, Criteria{Difficulties: nil})
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestFilterNoCategoriesIsEmptyNotError(t *testing.T) {
	f := NewPoolFilter(NewMemoryStore())
	ids, err := f.Filter(context.Background(), []int64{99}, Criteria{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFilterDeduplicatesMemberships(t *testing.T) {
	store := NewMemoryStore()
	store.Put(RawQuestion{ID: 1, Difficulty: DifficultyEasy, Status: StatusPublished}, 10, 11)

	f := NewPoolFilter(store)
	ids, err := f.Filter(context.Background(), []int64{10, 11}, Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}
