package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/aeroprep-backend/internal/question"
)

func pool(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{ID: int64(i + 1), Text: fmt.Sprintf("q%d", i+1)}
	}
	return qs
}

func idsOf(qs []question.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSampleSeededReproducible(t *testing.T) {
	candidates := pool(20)
	a := SampleSeeded(candidates, 5, 42)
	b := SampleSeeded(candidates, 5, 42)
	require.Len(t, a, 5)
	assert.Equal(t, idsOf(a), idsOf(b))
}

func TestSampleSeededDifferentSeedDifferentOrder(t *testing.T) {
	candidates := pool(30)
	a := SampleSeeded(candidates, 30, 42)
	b := SampleSeeded(candidates, 30, 43)
	assert.NotEqual(t, idsOf(a), idsOf(b))
}

func TestSampleSeededDoesNotMutateInput(t *testing.T) {
	candidates := pool(10)
	before := idsOf(candidates)
	_ = SampleSeeded(candidates, 5, 7)
	assert.Equal(t, before, idsOf(candidates))
}

func TestSampleLimitAbovePoolFullShuffle(t *testing.T) {
	candidates := pool(4)
	got := SampleSeeded(candidates, 10, 1)
	require.Len(t, got, 4)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, idsOf(got))
}

func TestSampleNoRepeats(t *testing.T) {
	got := Sample(pool(50), 20)
	require.Len(t, got, 20)
	seen := map[int64]bool{}
	for _, q := range got {
		assert.False(t, seen[q.ID], "question %d sampled twice", q.ID)
		seen[q.ID] = true
	}
}

func TestPRNGStreamRange(t *testing.T) {
	p := newPRNG(12345)
	for i := 0; i < 10000; i++ {
		v := p.next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}
