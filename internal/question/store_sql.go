package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) MetaInCategories(ctx context.Context, categoryIDs []int64) ([]Meta, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	ph, args := placeholders(categoryIDs)
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT q.id, q.difficulty, q.aircraft, q.status
		FROM questions q
		JOIN question_categories qc ON qc.question_id = q.id
		WHERE qc.category_id IN (`+ph+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meta
	for rows.Next() {
		var m Meta
		var aircraft sql.NullString
		if err := rows.Scan(&m.ID, &m.Difficulty, &aircraft, &m.Status); err != nil {
			return nil, err
		}
		if aircraft.Valid {
			m.Aircraft = &aircraft.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) ByIDs(ctx context.Context, ids []int64) ([]RawQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := placeholders(ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, legacy_id, question_text, question_image_url,
		       choices_json, choice_images_json, explanations_json,
		       answer_key, difficulty, aircraft, status, tags_json
		FROM questions WHERE id IN (`+ph+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RawQuestion
	for rows.Next() {
		var (
			rq                         RawQuestion
			legacy, imageURL, aircraft sql.NullString
			choicesJ, imagesJ, explJ   sql.NullString
			answerKeyJ, tagsJ          string
		)
		if err := rows.Scan(&rq.ID, &legacy, &rq.Text, &imageURL,
			&choicesJ, &imagesJ, &explJ,
			&answerKeyJ, &rq.Difficulty, &aircraft, &rq.Status, &tagsJ); err != nil {
			return nil, err
		}
		if legacy.Valid {
			rq.LegacyID = &legacy.String
		}
		if imageURL.Valid {
			rq.ImageURL = &imageURL.String
		}
		if aircraft.Valid {
			rq.Aircraft = &aircraft.String
		}
		rq.Choices = decodeLoose(choicesJ)
		rq.ChoiceImages = decodeLoose(imagesJ)
		rq.Explanations = decodeLoose(explJ)
		rq.AnswerKey = decodeKey(answerKeyJ)
		if err := json.Unmarshal([]byte(tagsJ), &rq.Tags); err != nil {
			rq.Tags = nil
		}
		out = append(out, rq)
	}
	return out, rows.Err()
}

// decodeLoose keeps whatever JSON shape the column holds; the normalizer
// owns interpretation.
func decodeLoose(col sql.NullString) any {
	if !col.Valid || col.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(col.String), &v); err != nil {
		return nil
	}
	return v
}

// decodeKey: the answer_key column may hold a bare letter ("B") or a JSON
// scalar ("\"B\"", "2").
func decodeKey(col string) any {
	var v any
	if err := json.Unmarshal([]byte(col), &v); err == nil {
		return v
	}
	return col
}

func placeholders(ids []int64) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(ph, ","), args
}
