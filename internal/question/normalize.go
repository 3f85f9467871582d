package question

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var letterIndex = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}

// Normalizer is the single boundary converting stored question shapes into
// the canonical form. It runs once at the store/API edge; nothing past it
// branches on shape.
type Normalizer struct {
	log *zap.SugaredLogger
}

func NewNormalizer(log *zap.SugaredLogger) *Normalizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Normalizer{log: log}
}

func (n *Normalizer) Normalize(raw RawQuestion) Question {
	q := Question{
		ID:           raw.ID,
		LegacyID:     raw.LegacyID,
		Text:         raw.Text,
		ImageURL:     raw.ImageURL,
		Choices:      textSlots(raw.Choices),
		ChoiceImages: refSlots(raw.ChoiceImages),
		Explanations: refSlots(raw.Explanations),
		AnswerIndex:  AnswerIndex(raw.AnswerKey),
		Difficulty:   raw.Difficulty,
		Aircraft:     raw.Aircraft,
		Status:       raw.Status,
		Tags:         raw.Tags,
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if q.AnswerIndex != nil && q.Choices[*q.AnswerIndex] == "" {
		// Key points at a blank choice: the question is still served and
		// scored, but the record is suspect.
		n.log.Warnw("answer key references empty choice",
			"question_id", q.ID, "answer_index", *q.AnswerIndex)
	}
	return q
}

// AnswerIndex maps a stored answer key to a zero-based choice index.
// Letters A..D (case-insensitive, trimmed) and numeric values 0..3 (int or
// numeric string) are accepted; anything else yields nil, which callers
// treat as unscoreable.
func AnswerIndex(key any) *int {
	switch v := key.(type) {
	case nil:
		return nil
	case int:
		return indexInRange(v)
	case int64:
		return indexInRange(int(v))
	case float64:
		if v != float64(int(v)) {
			return nil
		}
		return indexInRange(int(v))
	case string:
		s := strings.ToUpper(strings.TrimSpace(v))
		if i, ok := letterIndex[s]; ok {
			return &i
		}
		if num, err := strconv.Atoi(s); err == nil {
			return indexInRange(num)
		}
		return nil
	default:
		return nil
	}
}

func indexInRange(i int) *int {
	if i < 0 || i >= NumChoices {
		return nil
	}
	return &i
}

// textSlots coerces a list- or letter-keyed choice payload into exactly
// four ordered strings, empty string for missing slots.
func textSlots(v any) []string {
	out := make([]string, NumChoices)
	for i, slot := range anySlots(v) {
		if s, ok := slot.(string); ok {
			out[i] = s
		}
	}
	return out
}

// refSlots is textSlots for nullable payloads (images, explanations):
// missing or non-string slots stay nil.
func refSlots(v any) []*string {
	out := make([]*string, NumChoices)
	for i, slot := range anySlots(v) {
		if s, ok := slot.(string); ok && s != "" {
			s := s
			out[i] = &s
		}
	}
	return out
}

// anySlots flattens either shape into a fixed 4-slot []any.
func anySlots(v any) []any {
	out := make([]any, NumChoices)
	switch t := v.(type) {
	case []any:
		for i := 0; i < NumChoices && i < len(t); i++ {
			out[i] = t[i]
		}
	case []string:
		for i := 0; i < NumChoices && i < len(t); i++ {
			out[i] = t[i]
		}
	case map[string]any:
		for letter, i := range letterIndex {
			if val, ok := mapLookup(t, letter); ok {
				out[i] = val
			}
		}
	case map[string]string:
		for letter, i := range letterIndex {
			if val, ok := t[letter]; ok {
				out[i] = val
			} else if val, ok := t[strings.ToLower(letter)]; ok {
				out[i] = val
			}
		}
	}
	return out
}

func mapLookup(m map[string]any, letter string) (any, bool) {
	if v, ok := m[letter]; ok {
		return v, true
	}
	if v, ok := m[strings.ToLower(letter)]; ok {
		return v, true
	}
	return nil, false
}
