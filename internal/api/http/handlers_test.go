package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/aeroprep/aeroprep-backend/internal/api/http"
	"github.com/aeroprep/aeroprep-backend/internal/attempt"
	"github.com/aeroprep/aeroprep-backend/internal/auth"
	"github.com/aeroprep/aeroprep-backend/internal/category"
	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/modq"
	"github.com/aeroprep/aeroprep-backend/internal/question"
	"github.com/aeroprep/aeroprep-backend/internal/quiz"
	"github.com/aeroprep/aeroprep-backend/internal/ratelimit"
)

func ptr(v int64) *int64 { return &v }

type env struct {
	router   nethttp.Handler
	auth     *auth.Service
	attempts *attempt.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cats := category.NewMemoryStore(
		category.Category{ID: 1, Slug: "a320", Label: "A320", IsActive: true},
		category.Category{ID: 2, Slug: "ata21", ParentID: ptr(1), Label: "Air Conditioning", IsActive: true},
		category.Category{ID: 3, Slug: "ata22", ParentID: ptr(1), Label: "Auto Flight", IsActive: true},
	)
	qs := question.NewMemoryStore()
	for i := int64(1); i <= 5; i++ {
		qs.Put(question.RawQuestion{
			ID: i, Text: fmt.Sprintf("easy %d", i),
			Choices: []any{"w", "x", "y", "z"}, AnswerKey: "A",
			Difficulty: question.DifficultyEasy, Status: question.StatusPublished,
		}, 2)
	}
	for i := int64(6); i <= 10; i++ {
		qs.Put(question.RawQuestion{
			ID: i, Text: fmt.Sprintf("hard %d", i),
			Choices: []any{"w", "x", "y", "z"}, AnswerKey: "B",
			Difficulty: question.DifficultyHard, Status: question.StatusPublished,
		}, 2)
	}
	for i := int64(11); i <= 13; i++ {
		qs.Put(question.RawQuestion{
			ID: i, Text: fmt.Sprintf("af %d", i),
			Choices: map[string]any{"A": "w", "B": "x", "C": "y", "D": "z"}, AnswerKey: "C",
			Difficulty: question.DifficultyMedium, Status: question.StatusPublished,
		}, 3)
	}

	authSvc := auth.NewService("test-secret")
	attStore := attempt.NewMemoryStore()

	cfg := config.Config{
		CORSOrigins:     []string{"http://localhost:3000"},
		PoolCap:         400,
		DefaultLimit:    20,
		MaxLimit:        100,
		FlagPageSize:    50,
		RateLimitWindow: time.Minute,
		RateLimitMax:    1000,
	}
	router := api.NewRouter(api.Deps{
		Cfg:        cfg,
		Quiz:       quiz.NewService(cats, qs, cfg.PoolCap, nil),
		Recorder:   attempt.NewRecorder(attStore, nil),
		Attempts:   attStore,
		Flags:      modq.NewQueue(modq.NewMemoryStore(), cfg.FlagPageSize),
		Categories: cats,
		Auth:       authSvc,
		Limiter:    ratelimit.NewMemoryStore(),
	})
	return &env{router: router, auth: authSvc, attempts: attStore}
}

func (e *env) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *env) token(t *testing.T, sub, tier, role string) string {
	t.Helper()
	tok, err := e.auth.IssueJWT(sub, tier, role)
	require.NoError(t, err)
	return tok
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rr)["error"]
}

func TestQuizEndToEndEasyDescendants(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "GET", "/quiz?category=a320&limit=8&difficulty=easy&include_descendants=1", "", nil)
	require.Equal(t, 200, rr.Code, rr.Body.String())

	res := decode[struct {
		Items []question.Question `json:"items"`
		Meta  struct {
			Category string `json:"category"`
			PoolSize int    `json:"pool_size"`
		} `json:"meta"`
	}](t, rr)

	require.Len(t, res.Items, 5, "pool smaller than limit returns the whole pool")
	assert.Equal(t, "a320", res.Meta.Category)
	assert.Equal(t, 5, res.Meta.PoolSize)
	seen := map[int64]bool{}
	for _, q := range res.Items {
		assert.Equal(t, question.DifficultyEasy, q.Difficulty)
		seen[q.ID] = true
	}
	for id := int64(1); id <= 5; id++ {
		assert.True(t, seen[id])
	}
}

func TestQuizMissingCategoryParam(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "GET", "/quiz", "", nil)
	assert.Equal(t, 400, rr.Code)
	assert.Equal(t, "category_slug_required", errCode(t, rr))
}

func TestQuizUnknownCategory(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "GET", "/quiz?category=b747", "", nil)
	assert.Equal(t, 404, rr.Code)
	assert.Equal(t, "category_not_found", errCode(t, rr))
}

func TestQuizExamSeedReproducible(t *testing.T) {
	e := newEnv(t)
	url := "/quiz?category=a320&include_descendants=1&limit=6&mode=exam&seed=42"
	a := decode[struct {
		Items []question.Question `json:"items"`
	}](t, e.do(t, "GET", url, "", nil))
	b := decode[struct {
		Items []question.Question `json:"items"`
	}](t, e.do(t, "GET", url, "", nil))
	require.Len(t, a.Items, 6)
	for i := range a.Items {
		assert.Equal(t, a.Items[i].ID, b.Items[i].ID)
	}
}

func TestSubmitAttemptFlow(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, "u1", "free", "student")

	rr := e.do(t, "POST", "/attempts", tok, map[string]any{
		"category_slug": "ata21",
		"mode":          "practice",
		"items": []map[string]any{
			{"question_id": 1, "answer_index": 0, "correct_index": 0},
			{"question_id": 2, "answer_index": 1, "correct_index": 2},
		},
	})
	require.Equal(t, 201, rr.Code, rr.Body.String())
	sum := decode[attempt.Summary](t, rr)
	assert.Equal(t, 2, sum.QuestionCount)
	assert.Equal(t, 1, sum.CorrectCount)
	assert.Equal(t, 50.0, sum.Score)

	// owner can read it back with items
	rr = e.do(t, "GET", "/attempts/"+sum.AttemptID, tok, nil)
	require.Equal(t, 200, rr.Code)

	// and verify reports consistency
	rr = e.do(t, "GET", "/attempts/"+sum.AttemptID+"/verify", tok, nil)
	require.Equal(t, 200, rr.Code)
	ver := decode[attempt.VerifyResult](t, rr)
	assert.True(t, ver.Consistent)

	// other users are rejected
	rr = e.do(t, "GET", "/attempts/"+sum.AttemptID, e.token(t, "u2", "free", "student"), nil)
	assert.Equal(t, 403, rr.Code)
}

func TestSubmitAttemptEmptyItems(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "POST", "/attempts", "", map[string]any{"mode": "practice", "items": []any{}})
	assert.Equal(t, 400, rr.Code)
	assert.Equal(t, "items_required", errCode(t, rr))
}

func TestSubmitAttemptMalformedItem(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "POST", "/attempts", "", map[string]any{
		"mode":  "practice",
		"items": []map[string]any{{"question_id": 1, "answer_index": 7, "correct_index": 0}},
	})
	assert.Equal(t, 400, rr.Code)
	assert.Equal(t, "invalid_items", errCode(t, rr))
}

func TestGuestAttemptAllowed(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "POST", "/attempts", "", map[string]any{
		"mode":  "practice",
		"items": []map[string]any{{"question_id": 1, "answer_index": 0, "correct_index": 0}},
	})
	assert.Equal(t, 201, rr.Code)
}

func TestFlagLifecycle(t *testing.T) {
	e := newEnv(t)
	student := e.token(t, "u1", "free", "student")
	mod := e.token(t, "m1", "pro", "moderator")

	// anonymous submission is rejected
	rr := e.do(t, "POST", "/flags", "", map[string]any{"question_id": 3, "reason": "typo"})
	assert.Equal(t, 401, rr.Code)

	rr = e.do(t, "POST", "/flags", student, map[string]any{"question_id": 3, "reason": "typo", "comment": "choice C"})
	require.Equal(t, 201, rr.Code)
	id := decode[map[string]string](t, rr)["id"]
	require.NotEmpty(t, id)

	// students cannot resolve
	rr = e.do(t, "POST", "/flags/"+id+"/resolve", student, nil)
	assert.Equal(t, 403, rr.Code)

	rr = e.do(t, "POST", "/flags/"+id+"/resolve", mod, nil)
	require.Equal(t, 200, rr.Code)
	assert.True(t, decode[map[string]bool](t, rr)["resolved"])

	// resolving again is a no-op success
	rr = e.do(t, "POST", "/flags/"+id+"/resolve", mod, nil)
	require.Equal(t, 200, rr.Code)

	rr = e.do(t, "GET", "/flags?resolved=true&subject=3", mod, nil)
	require.Equal(t, 200, rr.Code)
	flags := decode[map[string][]modq.Flag](t, rr)["flags"]
	require.Len(t, flags, 1)
	assert.Equal(t, int64(3), flags[0].QuestionID)
}

func TestListCategoriesTree(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "GET", "/categories", "", nil)
	require.Equal(t, 200, rr.Code)
	res := decode[map[string][]category.Node](t, rr)
	require.Len(t, res["categories"], 1)
	assert.Len(t, res["categories"][0].Children, 2)
}

func TestListAttemptsRequiresAuth(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "GET", "/attempts", "", nil)
	assert.Equal(t, 401, rr.Code)
	assert.Equal(t, "auth_required", errCode(t, rr))
}

func TestOwnAttemptHistory(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, "u9", "free", "student")
	for i := 0; i < 2; i++ {
		rr := e.do(t, "POST", "/attempts", tok, map[string]any{
			"mode":  "practice",
			"items": []map[string]any{{"question_id": 1, "answer_index": 0, "correct_index": 0}},
		})
		require.Equal(t, 201, rr.Code)
	}
	rr := e.do(t, "GET", "/attempts", tok, nil)
	require.Equal(t, 200, rr.Code)
	list := decode[map[string][]attempt.Attempt](t, rr)["attempts"]
	assert.Len(t, list, 2)
}
