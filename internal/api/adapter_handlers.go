package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

func (s *Server) handleAdapterState(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	state, err := s.AdapterService.State(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleAdapterHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", defaultHistoryLimit, maxHistoryLimit)

	entries, err := s.AdapterService.History(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}
