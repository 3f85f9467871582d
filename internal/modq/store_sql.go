package modq

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Insert(ctx context.Context, f Flag) error {
	meta := f.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJ, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question_flags (id, question_id, reason, comment, meta_json, resolved, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		f.ID, f.QuestionID, f.Reason, f.Comment, string(metaJ), f.Resolved, f.CreatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Flag, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, reason, comment, meta_json, resolved, created_at
		FROM question_flags WHERE id=$1`, id)
	f, err := scanFlag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Flag{}, ErrNotFound
	}
	return f, err
}

func (s *SQLStore) MarkResolved(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE question_flags SET resolved=TRUE WHERE id=$1`, id)
	return err
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Flag, error) {
	q := `SELECT id, question_id, reason, comment, meta_json, resolved, created_at
		FROM question_flags WHERE 1=1`
	var args []any
	if f.QuestionID != nil {
		args = append(args, *f.QuestionID)
		q += fmt.Sprintf(" AND question_id=$%d", len(args))
	}
	if f.Resolved != nil {
		args = append(args, *f.Resolved)
		q += fmt.Sprintf(" AND resolved=$%d", len(args))
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Flag
	for rows.Next() {
		fl, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fl)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlag(r rowScanner) (Flag, error) {
	var f Flag
	var metaJ string
	if err := r.Scan(&f.ID, &f.QuestionID, &f.Reason, &f.Comment, &metaJ, &f.Resolved, &f.CreatedAt); err != nil {
		return Flag{}, err
	}
	if err := json.Unmarshal([]byte(metaJ), &f.Meta); err != nil {
		f.Meta = map[string]any{}
	}
	return f, nil
}
