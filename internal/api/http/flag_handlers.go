package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
	"github.com/aeroprep/aeroprep-backend/internal/auth"
	"github.com/aeroprep/aeroprep-backend/internal/modq"
)

// POST /flags {question_id, reason, comment?, meta?}
func SubmitFlagHandler(q *modq.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			apierr.Write(w, apierr.AuthRequired())
			return
		}
		var req struct {
			QuestionID int64          `json:"question_id"`
			Reason     string         `json:"reason"`
			Comment    string         `json:"comment,omitempty"`
			Meta       map[string]any `json:"meta,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.Write(w, apierr.BadRequest(apierr.CodeBadRequest))
			return
		}
		if req.QuestionID == 0 || req.Reason == "" {
			apierr.Write(w, apierr.BadRequest(apierr.CodeBadRequest))
			return
		}
		id, err := q.Submit(r.Context(), req.QuestionID, req.Reason, req.Comment, req.Meta)
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// POST /flags/{flagID}/resolve
func ResolveFlagHandler(q *modq.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "flagID")
		resolved, err := q.Resolve(r.Context(), id)
		if errors.Is(err, modq.ErrNotFound) {
			apierr.Write(w, apierr.NotFound(apierr.CodeFlagNotFound))
			return
		}
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"resolved": resolved})
	}
}

// GET /flags?resolved=<bool>&subject=<question id>&limit=<n>
func ListFlagsHandler(q *modq.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter modq.Filter
		if s := r.URL.Query().Get("resolved"); s != "" {
			v := boolParam(s)
			filter.Resolved = &v
		}
		if s := r.URL.Query().Get("subject"); s != "" {
			qid, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				apierr.Write(w, apierr.BadRequest(apierr.CodeBadRequest))
				return
			}
			filter.QuestionID = &qid
		}
		filter.Limit = parseIntDefault(r.URL.Query().Get("limit"), 0)

		flags, err := q.List(r.Context(), filter)
		if err != nil {
			apierr.Write(w, apierr.StoreUnavailable(err))
			return
		}
		if flags == nil {
			flags = []modq.Flag{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"flags": flags})
	}
}
