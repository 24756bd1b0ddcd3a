package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielvr/adaptengine/internal/services"
)

type completeDiagnosticRequest struct {
	GrammarScore       int `json:"grammar_score"`
	ListeningScore     int `json:"listening_score"`
	PronunciationScore int `json:"pronunciation_score"`
}

func (s *Server) handleStartDiagnostic(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	d, err := s.DiagnosticService.Start(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, d)
}

func (s *Server) handleGetDiagnostic(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	id := chi.URLParam(r, "id")

	d, err := s.DiagnosticService.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleCompleteDiagnostic(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	id := chi.URLParam(r, "id")

	var req completeDiagnosticRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	d, err := s.DiagnosticService.Complete(r.Context(), userID, id, services.DiagnosticScores{
		Grammar:       req.GrammarScore,
		Listening:     req.ListeningScore,
		Pronunciation: req.PronunciationScore,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, d)
}
