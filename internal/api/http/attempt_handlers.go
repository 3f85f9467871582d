package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
	"github.com/aeroprep/aeroprep-backend/internal/attempt"
	"github.com/aeroprep/aeroprep-backend/internal/auth"
	"github.com/aeroprep/aeroprep-backend/internal/rbac"
)

type submitAttemptRequest struct {
	Aircraft           *string        `json:"aircraft,omitempty"`
	CategoryRootSlug   string         `json:"category_root_slug,omitempty"`
	CategorySlug       string         `json:"category_slug,omitempty"`
	IncludeDescendants bool           `json:"include_descendants,omitempty"`
	Mode               string         `json:"mode"`
	DurationSec        *int           `json:"duration_sec,omitempty"`
	Meta               map[string]any `json:"meta,omitempty"`
	Items              []attempt.Item `json:"items"`
}

// POST /attempts
func SubmitAttemptHandler(rec *attempt.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitAttemptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.Write(w, apierr.BadRequest(apierr.CodeBadRequest))
			return
		}

		var userID *string
		if p, ok := auth.PrincipalFromContext(r.Context()); ok {
			userID = &p.UserID
		}

		meta := req.Meta
		if req.Aircraft != nil {
			if meta == nil {
				meta = map[string]any{}
			}
			meta["aircraft"] = *req.Aircraft
		}

		sum, err := rec.Record(r.Context(), userID, attempt.Header{
			CategoryRootSlug:   req.CategoryRootSlug,
			CategorySlug:       req.CategorySlug,
			IncludeDescendants: req.IncludeDescendants,
			Mode:               req.Mode,
			DurationSec:        req.DurationSec,
			Meta:               meta,
		}, req.Items)
		if err != nil {
			apierr.Write(w, mapRecordErr(err))
			return
		}
		writeJSON(w, http.StatusCreated, sum)
	}
}

func mapRecordErr(err error) error {
	switch {
	case errors.Is(err, attempt.ErrItemsRequired):
		return apierr.BadRequest(apierr.CodeItemsRequired)
	case errors.Is(err, attempt.ErrInvalidItems):
		return apierr.BadRequest(apierr.CodeInvalidItems)
	default:
		return apierr.From(err)
	}
}

// GET /attempts — the caller's own history.
func ListAttemptsHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			apierr.Write(w, apierr.AuthRequired())
			return
		}
		list, err := store.ListAttempts(r.Context(), attempt.ListOpts{
			UserID: p.UserID,
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		if list == nil {
			list = []attempt.Attempt{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempts": list})
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := loadOwnedAttempt(store, r)
		if err != nil {
			apierr.Write(w, err)
			return
		}
		items, err := store.GetItems(r.Context(), a.ID)
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempt": a, "items": items})
	}
}

// GET /attempts/{attemptID}/verify — recompute the score from stored items.
func VerifyAttemptHandler(rec *attempt.Recorder, store attempt.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := loadOwnedAttempt(store, r)
		if err != nil {
			apierr.Write(w, err)
			return
		}
		res, err := rec.Verify(r.Context(), a.ID)
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// loadOwnedAttempt fetches the attempt and enforces that the caller owns it
// unless their role can view all attempts.
func loadOwnedAttempt(store attempt.Store, r *http.Request) (attempt.Attempt, error) {
	id := chi.URLParam(r, "attemptID")
	a, err := store.GetAttempt(r.Context(), id)
	if errors.Is(err, attempt.ErrNotFound) {
		return attempt.Attempt{}, apierr.NotFound(apierr.CodeAttemptNotFound)
	}
	if err != nil {
		return attempt.Attempt{}, apierr.StoreUnavailable(err)
	}
	p, _ := auth.PrincipalFromContext(r.Context())
	if rbac.NewChecker(nil).Has(p.Role, "attempt:view-all") {
		return a, nil
	}
	if a.UserID == nil || *a.UserID != p.UserID {
		return attempt.Attempt{}, apierr.Forbidden(apierr.CodeForbidden)
	}
	return a, nil
}
