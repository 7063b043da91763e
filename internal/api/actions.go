package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/analyzer"
	"github.com/MikeSquared-Agency/notewise/internal/processor"
	"github.com/MikeSquared-Agency/notewise/internal/store"
)

const maxBodyBytes = 1 << 20

type AnalyzeRequest struct {
	Text         string  `json:"text"`
	UserID       string  `json:"user_id"`
	TranscriptID *string `json:"transcript_id,omitempty"`
}

type ReviewRequest struct {
	Feedback *string `json:"user_feedback,omitempty"`
}

// analyze handles POST /api/v1/analyze
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	job, err := s.pipeline.Analyze(r.Context(), processor.Request{
		Text:         req.Text,
		UserID:       req.UserID,
		TranscriptID: req.TranscriptID,
		Source:       processor.SourceAPI,
	})
	if err != nil {
		var ae *analyzer.AnalysisError
		if errors.As(err, &ae) {
			writeError(w, http.StatusUnprocessableEntity, ae.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// listActions handles GET /api/v1/actions?user_id=&status=&limit=
func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		writeError(w, http.StatusServiceUnavailable, processor.ErrNoStore.Error())
		return
	}

	q := r.URL.Query()
	f := store.Filter{UserID: q.Get("user_id")}
	if raw := q.Get("status"); raw != "" {
		f.Status = action.Status(raw)
		if !f.Status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status: "+raw)
			return
		}
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+raw)
			return
		}
		f.Limit = n
	}

	records, err := s.queue.ListActions(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": records,
		"count":   len(records),
	})
}

// getAction handles GET /api/v1/actions/{id}
func (s *Server) getAction(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		writeError(w, http.StatusServiceUnavailable, processor.ErrNoStore.Error())
		return
	}
	rec, err := s.queue.GetAction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeReviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// review handles POST /api/v1/actions/{id}/{approve,deny,cancel}. The body
// is optional.
func (s *Server) review(to action.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReviewRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}

		rec, err := s.pipeline.Review(r.Context(), chi.URLParam(r, "id"), to, req.Feedback)
		if err != nil {
			writeReviewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, action.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, processor.ErrNoStore):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
