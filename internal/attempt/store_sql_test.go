package attempt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/aeroprep-backend/internal/attempt"
	"github.com/aeroprep/aeroprep-backend/internal/db"
)

func openTestDB(t *testing.T) *attempt.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return attempt.NewSQLStore(h)
}

func ip(i int) *int       { return &i }
func sp(s string) *string { return &s }

func TestSQLStoreRoundTrip(t *testing.T) {
	store := openTestDB(t)
	ctx := context.Background()

	a := attempt.Attempt{
		ID:            "att-1",
		UserID:        sp("u1"),
		CategorySlug:  "ata21",
		Mode:          attempt.ModeExam,
		QuestionCount: 2,
		CorrectCount:  1,
		Score:         50,
		Meta:          map[string]any{"seed": float64(42)},
		CreatedAt:     1700000000,
	}
	require.NoError(t, store.InsertAttempt(ctx, a))
	require.NoError(t, store.InsertItems(ctx, []attempt.Item{
		{AttemptID: "att-1", QuestionID: 1, AnswerIndex: ip(0), CorrectIndex: ip(0), IsCorrect: true, Tags: []string{"ata21"}},
		{AttemptID: "att-1", QuestionID: 2, AnswerIndex: ip(1), CorrectIndex: ip(2), IsCorrect: false},
	}))

	got, err := store.GetAttempt(ctx, "att-1")
	require.NoError(t, err)
	assert.Equal(t, a.Score, got.Score)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u1", *got.UserID)
	assert.Equal(t, float64(42), got.Meta["seed"])

	items, err := store.GetItems(ctx, "att-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsCorrect)
	assert.Equal(t, []string{"ata21"}, items[0].Tags)
	require.NotNil(t, items[1].CorrectIndex)
	assert.Equal(t, 2, *items[1].CorrectIndex)
}

func TestSQLStoreDeleteCascades(t *testing.T) {
	store := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.InsertAttempt(ctx, attempt.Attempt{ID: "att-2", QuestionCount: 1, CreatedAt: 1}))
	require.NoError(t, store.InsertItems(ctx, []attempt.Item{
		{AttemptID: "att-2", QuestionID: 1, CorrectIndex: ip(0)},
	}))
	require.NoError(t, store.DeleteAttempt(ctx, "att-2"))

	_, err := store.GetAttempt(ctx, "att-2")
	assert.ErrorIs(t, err, attempt.ErrNotFound)
	items, err := store.GetItems(ctx, "att-2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSQLStoreListNewestFirst(t *testing.T) {
	store := openTestDB(t)
	ctx := context.Background()

	for i, ts := range []int64{100, 300, 200} {
		require.NoError(t, store.InsertAttempt(ctx, attempt.Attempt{
			ID: string(rune('a' + i)), UserID: sp("u1"), CreatedAt: ts,
		}))
	}
	list, err := store.ListAttempts(ctx, attempt.ListOpts{UserID: "u1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(300), list[0].CreatedAt)
	assert.Equal(t, int64(200), list[1].CreatedAt)
}
