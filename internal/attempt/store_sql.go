package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	meta := a.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJ, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attempts
		  (id, user_id, category_root_slug, category_slug, include_descendants,
		   mode, question_count, correct_count, score, duration_sec, meta_json, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, nullableStr(a.UserID), a.CategoryRootSlug, a.CategorySlug, a.IncludeDescendants,
		a.Mode, a.QuestionCount, a.CorrectCount, a.Score, nullableInt(a.DurationSec), string(metaJ), a.CreatedAt)
	return err
}

func (s *SQLStore) InsertItems(ctx context.Context, items []Item) error {
	for _, it := range items {
		tagsJ, err := json.Marshal(orEmpty(it.Tags))
		if err != nil {
			return err
		}
		pathJ, err := json.Marshal(orEmpty(it.CategoryPath))
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO attempt_items
			  (attempt_id, question_id, legacy_id, answer_index, correct_index,
			   is_correct, time_spent_sec, difficulty, tags_json, category_path_json)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			it.AttemptID, it.QuestionID, nullableStr(it.LegacyID), nullableInt(it.AnswerIndex),
			nullableInt(it.CorrectIndex), it.IsCorrect, nullableInt(it.TimeSpentSec),
			it.Difficulty, string(tagsJ), string(pathJ)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) DeleteAttempt(ctx context.Context, id string) error {
	// items cascade via FK
	_, err := s.db.ExecContext(ctx, `DELETE FROM attempts WHERE id=$1`, id)
	return err
}

const attemptCols = `id, user_id, category_root_slug, category_slug, include_descendants,
	mode, question_count, correct_count, score, duration_sec, meta_json, created_at`

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attemptCols+` FROM attempts WHERE id=$1`, id)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNotFound
	}
	return a, err
}

func (s *SQLStore) GetItems(ctx context.Context, attemptID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT attempt_id, question_id, legacy_id, answer_index, correct_index,
		       is_correct, time_spent_sec, difficulty, tags_json, category_path_json
		FROM attempt_items WHERE attempt_id=$1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var (
			it              Item
			legacy          sql.NullString
			answer, correct sql.NullInt64
			spent           sql.NullInt64
			diff            sql.NullString
			tagsJ, pathJ    string
		)
		if err := rows.Scan(&it.AttemptID, &it.QuestionID, &legacy, &answer, &correct,
			&it.IsCorrect, &spent, &diff, &tagsJ, &pathJ); err != nil {
			return nil, err
		}
		if legacy.Valid {
			it.LegacyID = &legacy.String
		}
		it.AnswerIndex = intFromNull(answer)
		it.CorrectIndex = intFromNull(correct)
		it.TimeSpentSec = intFromNull(spent)
		it.Difficulty = diff.String
		_ = json.Unmarshal([]byte(tagsJ), &it.Tags)
		_ = json.Unmarshal([]byte(pathJ), &it.CategoryPath)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts ListOpts) ([]Attempt, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+attemptCols+` FROM attempts
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		opts.UserID, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(r rowScanner) (Attempt, error) {
	var (
		a        Attempt
		user     sql.NullString
		duration sql.NullInt64
		metaJ    string
	)
	if err := r.Scan(&a.ID, &user, &a.CategoryRootSlug, &a.CategorySlug, &a.IncludeDescendants,
		&a.Mode, &a.QuestionCount, &a.CorrectCount, &a.Score, &duration, &metaJ, &a.CreatedAt); err != nil {
		return Attempt{}, err
	}
	if user.Valid {
		a.UserID = &user.String
	}
	a.DurationSec = intFromNull(duration)
	if err := json.Unmarshal([]byte(metaJ), &a.Meta); err != nil {
		a.Meta = map[string]any{}
	}
	return a, nil
}

func nullableStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
