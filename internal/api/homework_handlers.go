package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type completeHomeworkRequest struct {
	Score int `json:"score"`
}

func (s *Server) handleListHomework(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	items, err := s.HomeworkService.List(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCompleteHomework(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	id := chi.URLParam(r, "id")

	var req completeHomeworkRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	item, err := s.HomeworkService.Complete(r.Context(), userID, id, req.Score)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	refs, err := s.HomeworkService.Queue(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if refs == nil {
		refs = []string{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"queue": refs})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", defaultHistoryLimit, maxHistoryLimit)

	alerts, err := s.HomeworkService.Alerts(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"alerts": alerts})
}

// handleSweep runs one overdue sweep synchronously. The scheduler covers
// routine operation; this endpoint exists for operators and tests.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	summary, err := s.HomeworkService.Sweep(r.Context(), time.Now().UTC())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, summary)
}
