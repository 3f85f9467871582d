// Package modq records user-submitted quality flags against questions and
// lets moderators work them off.
package modq

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("flag not found")

type Flag struct {
	ID         string         `json:"id"`
	QuestionID int64          `json:"question_id"`
	Reason     string         `json:"reason"`
	Comment    string         `json:"comment,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	Resolved   bool           `json:"resolved"`
	CreatedAt  int64          `json:"created_at"`
}

type Filter struct {
	QuestionID *int64
	Resolved   *bool
	Limit      int
}

type Store interface {
	Insert(ctx context.Context, f Flag) error
	Get(ctx context.Context, id string) (Flag, error)
	MarkResolved(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]Flag, error)
}

type Queue struct {
	store    Store
	pageSize int
}

func NewQueue(store Store, pageSize int) *Queue {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Queue{store: store, pageSize: pageSize}
}

// Submit records a new flag. Duplicates for the same question are allowed.
func (q *Queue) Submit(ctx context.Context, questionID int64, reason, comment string, meta map[string]any) (string, error) {
	f := Flag{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		Reason:     reason,
		Comment:    comment,
		Meta:       meta,
		CreatedAt:  time.Now().Unix(),
	}
	if err := q.store.Insert(ctx, f); err != nil {
		return "", err
	}
	return f.ID, nil
}

// Resolve transitions resolved false -> true. Resolving an already-resolved
// flag is a no-op success, which makes concurrent resolves safe.
func (q *Queue) Resolve(ctx context.Context, id string) (bool, error) {
	f, err := q.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if f.Resolved {
		return true, nil
	}
	if err := q.store.MarkResolved(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// List returns flags newest first, bounded to the configured page size.
func (q *Queue) List(ctx context.Context, f Filter) ([]Flag, error) {
	if f.Limit <= 0 || f.Limit > q.pageSize {
		f.Limit = q.pageSize
	}
	return q.store.List(ctx, f)
}
