package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroprep/aeroprep-backend/internal/question"
)

var (
	ErrItemsRequired    = errors.New("attempt has no items")
	ErrInvalidItems     = errors.New("attempt items invalid")
	ErrItemsWriteFailed = errors.New("attempt items write failed")
	ErrNotFound         = errors.New("attempt not found")
)

type ListOpts struct {
	UserID string
	Limit  int
	Offset int
}

type Store interface {
	InsertAttempt(ctx context.Context, a Attempt) error
	InsertItems(ctx context.Context, items []Item) error
	DeleteAttempt(ctx context.Context, id string) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	GetItems(ctx context.Context, attemptID string) ([]Item, error)
	ListAttempts(ctx context.Context, opts ListOpts) ([]Attempt, error)
}

// Recorder persists an attempt header plus its items so that the pair is
// atomic from a reader's point of view: if the item write fails the header
// is deleted again before the error returns.
//
// Repeated submissions of the same logical session are not deduplicated;
// each Record call creates a new attempt.
type Recorder struct {
	store Store
	log   *zap.SugaredLogger
}

func NewRecorder(store Store, log *zap.SugaredLogger) *Recorder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Recorder{store: store, log: log}
}

func (r *Recorder) Record(ctx context.Context, userID *string, h Header, items []Item) (Summary, error) {
	if len(items) == 0 {
		return Summary{}, ErrItemsRequired
	}
	for i := range items {
		if err := validateItem(items[i]); err != nil {
			return Summary{}, fmt.Errorf("item %d: %w", i, err)
		}
		items[i].IsCorrect = answered(items[i])
	}

	mode := h.Mode
	if mode == "" {
		mode = ModePractice
	}
	sc := Score(items)
	a := Attempt{
		ID:                 uuid.NewString(),
		UserID:             userID,
		CategoryRootSlug:   h.CategoryRootSlug,
		CategorySlug:       h.CategorySlug,
		IncludeDescendants: h.IncludeDescendants,
		Mode:               mode,
		QuestionCount:      sc.Total,
		CorrectCount:       sc.Correct,
		Score:              sc.AccuracyPct,
		DurationSec:        h.DurationSec,
		Meta:               h.Meta,
		CreatedAt:          time.Now().Unix(),
	}
	for i := range items {
		items[i].AttemptID = a.ID
	}

	if err := r.store.InsertAttempt(ctx, a); err != nil {
		return Summary{}, err
	}
	if err := r.store.InsertItems(ctx, items); err != nil {
		// compensating delete: no partial attempt may stay visible
		if delErr := r.store.DeleteAttempt(context.WithoutCancel(ctx), a.ID); delErr != nil {
			r.log.Errorw("compensating delete failed, orphaned attempt header",
				"attempt_id", a.ID, "error", delErr)
		}
		return Summary{}, fmt.Errorf("%w: %v", ErrItemsWriteFailed, err)
	}

	return Summary{
		AttemptID:     a.ID,
		QuestionCount: a.QuestionCount,
		CorrectCount:  a.CorrectCount,
		Score:         a.Score,
		Mode:          a.Mode,
		SubmittedAt:   a.CreatedAt,
	}, nil
}

func validateItem(it Item) error {
	if it.QuestionID == 0 {
		return fmt.Errorf("%w: missing question_id", ErrInvalidItems)
	}
	if !indexOK(it.AnswerIndex) {
		return fmt.Errorf("%w: answer_index out of range", ErrInvalidItems)
	}
	if !indexOK(it.CorrectIndex) {
		return fmt.Errorf("%w: correct_index out of range", ErrInvalidItems)
	}
	return nil
}

func indexOK(i *int) bool {
	return i == nil || (*i >= 0 && *i < question.NumChoices)
}

// VerifyResult reports whether the stored header still agrees with a fresh
// recomputation over its items.
type VerifyResult struct {
	Attempt    Attempt     `json:"attempt"`
	Recomputed ScoreResult `json:"recomputed"`
	Consistent bool        `json:"consistent"`
}

// Verify recomputes the score from stored items. A mismatch is surfaced as
// a consistency warning in the result and the log; the stored row is never
// silently overwritten.
func (r *Recorder) Verify(ctx context.Context, attemptID string) (VerifyResult, error) {
	a, err := r.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return VerifyResult{}, err
	}
	items, err := r.store.GetItems(ctx, attemptID)
	if err != nil {
		return VerifyResult{}, err
	}
	sc := Score(items)
	res := VerifyResult{
		Attempt:    a,
		Recomputed: sc,
		Consistent: sc.Total == a.QuestionCount && sc.Correct == a.CorrectCount && sc.AccuracyPct == a.Score,
	}
	if !res.Consistent {
		r.log.Warnw("stored attempt score disagrees with recomputation",
			"attempt_id", a.ID,
			"stored_correct", a.CorrectCount, "recomputed_correct", sc.Correct,
			"stored_score", a.Score, "recomputed_score", sc.AccuracyPct)
	}
	return res, nil
}
