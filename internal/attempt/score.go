package attempt

import "math"

type ScoreResult struct {
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// Score recomputes an attempt's result from its items alone. It is a pure
// function: running it over stored items must reproduce the header's
// correct_count and score, or the row is corrupt.
func Score(items []Item) ScoreResult {
	res := ScoreResult{Total: len(items)}
	for _, it := range items {
		if answered(it) {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.AccuracyPct = round2(float64(res.Correct) / float64(res.Total) * 100)
	}
	return res
}

func answered(it Item) bool {
	return it.AnswerIndex != nil && it.CorrectIndex != nil && *it.AnswerIndex == *it.CorrectIndex
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
