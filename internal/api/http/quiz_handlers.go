package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
	"github.com/aeroprep/aeroprep-backend/internal/auth"
	"github.com/aeroprep/aeroprep-backend/internal/category"
	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/question"
	"github.com/aeroprep/aeroprep-backend/internal/quiz"
)

type quizMeta struct {
	Category string  `json:"category"`
	PoolSize int     `json:"pool_size"`
	Seed     *uint32 `json:"seed,omitempty"`
}

type quizResponse struct {
	Items []question.Question `json:"items"`
	Meta  quizMeta            `json:"meta"`
}

// GET /quiz?category=<slug>&limit=<n>&difficulty=<csv>&aircraft=<code>
//   &strict_aircraft=<0|1>&include_descendants=<0|1>&mode=<practice|exam>&seed=<uint32>
func QuizHandler(svc *quiz.Service, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		slug := strings.TrimSpace(q.Get("category"))
		if slug == "" {
			apierr.Write(w, apierr.BadRequest(apierr.CodeCategorySlugRequired))
			return
		}

		limit := parseIntDefault(q.Get("limit"), cfg.DefaultLimit)
		if limit < 1 {
			limit = 1
		}
		if limit > cfg.MaxLimit {
			limit = cfg.MaxLimit
		}

		req := quiz.Request{
			CategorySlug:       slug,
			IncludeDescendants: boolParam(q.Get("include_descendants")),
			Limit:              limit,
			Difficulties:       csvParam(q.Get("difficulty")),
			StrictAircraft:     boolParam(q.Get("strict_aircraft")),
			Mode:               q.Get("mode"),
			Tier:               auth.TierFree,
		}
		if ac := strings.TrimSpace(q.Get("aircraft")); ac != "" {
			req.Aircraft = &ac
		}
		if s := q.Get("seed"); s != "" {
			if v, err := strconv.ParseUint(s, 10, 32); err == nil {
				seed := uint32(v)
				req.Seed = &seed
			}
		}
		if p, ok := auth.PrincipalFromContext(r.Context()); ok {
			req.Tier = p.Tier
		}

		res, err := svc.Build(r.Context(), req)
		if err != nil {
			apierr.Write(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quizResponse{
			Items: res.Items,
			Meta:  quizMeta{Category: res.Category.Slug, PoolSize: res.PoolSize, Seed: res.Seed},
		})
	}
}

// GET /categories
func ListCategoriesHandler(store category.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := store.ListActive(r.Context())
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": category.BuildTree(cats)})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func boolParam(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func csvParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
