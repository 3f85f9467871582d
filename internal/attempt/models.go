package attempt

const (
	ModePractice = "practice"
	ModeExam     = "exam"
)

// Attempt is one submitted quiz session. Immutable after Record except for
// score reconciliation.
type Attempt struct {
	ID                 string         `json:"id"`
	UserID             *string        `json:"user_id,omitempty"`
	CategoryRootSlug   string         `json:"category_root_slug,omitempty"`
	CategorySlug       string         `json:"category_slug,omitempty"`
	IncludeDescendants bool           `json:"include_descendants"`
	Mode               string         `json:"mode"`
	QuestionCount      int            `json:"question_count"`
	CorrectCount       int            `json:"correct_count"`
	Score              float64        `json:"score"`
	DurationSec        *int           `json:"duration_sec,omitempty"`
	Meta               map[string]any `json:"meta,omitempty"`
	CreatedAt          int64          `json:"created_at"`
}

// Item is one answered question within an attempt. Written together with
// its header, never mutated afterward.
type Item struct {
	AttemptID    string   `json:"attempt_id,omitempty"`
	QuestionID   int64    `json:"question_id"`
	LegacyID     *string  `json:"legacy_id,omitempty"`
	AnswerIndex  *int     `json:"answer_index"`
	CorrectIndex *int     `json:"correct_index"`
	IsCorrect    bool     `json:"is_correct"`
	TimeSpentSec *int     `json:"time_spent_sec,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CategoryPath []string `json:"category_path,omitempty"`
}

// Header carries the caller-supplied attempt fields; counts and score are
// always recomputed from items at write time.
type Header struct {
	CategoryRootSlug   string
	CategorySlug       string
	IncludeDescendants bool
	Mode               string
	DurationSec        *int
	Meta               map[string]any
}

type Summary struct {
	AttemptID     string  `json:"attempt_id"`
	QuestionCount int     `json:"question_count"`
	CorrectCount  int     `json:"correct_count"`
	Score         float64 `json:"score"`
	Mode          string  `json:"mode"`
	SubmittedAt   int64   `json:"submitted_at"`
}
