package question

const NumChoices = 4

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is the canonical form every internal consumer operates on:
// choices, images and explanations are fixed 4-slot ordered lists and the
// answer is a zero-based index (nil when the stored key is unscoreable).
type Question struct {
	ID           int64     `json:"id"`
	LegacyID     *string   `json:"legacy_id,omitempty"`
	Text         string    `json:"question_text"`
	ImageURL     *string   `json:"question_image_url,omitempty"`
	Choices      []string  `json:"choices"`
	ChoiceImages []*string `json:"choice_images"`
	Explanations []*string `json:"explanations"`
	AnswerIndex  *int      `json:"answer_index,omitempty"`
	Difficulty   string    `json:"difficulty"`
	Aircraft     *string   `json:"aircraft,omitempty"`
	Status       string    `json:"status"`
	Tags         []string  `json:"tags"`
}

// RawQuestion mirrors a stored record before normalization. The authoring
// integration produced two shapes over time: ordered 4-element lists and
// letter-keyed maps (A..D); AnswerKey may be a letter, an int or a numeric
// string. Normalize is the only code that looks at these loose fields.
type RawQuestion struct {
	ID           int64
	LegacyID     *string
	Text         string
	ImageURL     *string
	Choices      any
	ChoiceImages any
	Explanations any
	AnswerKey    any
	Difficulty   string
	Aircraft     *string
	Status       string
	Tags         []string
}

// Meta is the slice of a question the pool filter needs.
type Meta struct {
	ID         int64
	Difficulty string
	Aircraft   *string
	Status     string
}

// Raw converts a canonical question back into the stored representation.
// Normalize(q.Raw()) returns q unchanged.
func (q Question) Raw() RawQuestion {
	choices := make([]any, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = c
	}
	images := make([]any, len(q.ChoiceImages))
	for i, im := range q.ChoiceImages {
		if im != nil {
			images[i] = *im
		}
	}
	expl := make([]any, len(q.Explanations))
	for i, e := range q.Explanations {
		if e != nil {
			expl[i] = *e
		}
	}
	var key any
	if q.AnswerIndex != nil {
		key = *q.AnswerIndex
	}
	return RawQuestion{
		ID:           q.ID,
		LegacyID:     q.LegacyID,
		Text:         q.Text,
		ImageURL:     q.ImageURL,
		Choices:      choices,
		ChoiceImages: images,
		Explanations: expl,
		AnswerKey:    key,
		Difficulty:   q.Difficulty,
		Aircraft:     q.Aircraft,
		Status:       q.Status,
		Tags:         q.Tags,
	}
}
