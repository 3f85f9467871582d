package quiz

import (
	"math/rand"

	"github.com/aeroprep/aeroprep-backend/internal/question"
)

// Sample shuffles candidates with a non-deterministic source and truncates
// to limit. Used for practice pulls where reproducibility is not needed.
func Sample(candidates []question.Question, limit int) []question.Question {
	out := make([]question.Question, len(candidates))
	copy(out, candidates)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return truncate(out, limit)
}

// SampleSeeded performs a Fisher-Yates shuffle driven by the pinned seeded
// generator: the same seed and input order always yield the same output.
func SampleSeeded(candidates []question.Question, limit int, seed uint32) []question.Question {
	out := make([]question.Question, len(candidates))
	copy(out, candidates)
	p := newPRNG(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := p.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return truncate(out, limit)
}

func truncate(qs []question.Question, limit int) []question.Question {
	if limit < len(qs) {
		return qs[:limit]
	}
	return qs
}
