package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielvr/adaptengine/internal/services"
)

type createSessionRequest struct {
	Type string `json:"type"`
}

type completeSessionRequest struct {
	OverallScore       *float64 `json:"overall_score"`
	GrammarScore       *float64 `json:"grammar_score"`
	PronunciationScore *float64 `json:"pronunciation_score"`
	VocabularyScore    *float64 `json:"vocabulary_score"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req createSessionRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	session, err := s.SessionService.Create(r.Context(), userID, req.Type)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	id := chi.URLParam(r, "id")

	session, err := s.SessionService.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	id := chi.URLParam(r, "id")

	var req completeSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.Complete(r.Context(), userID, id, services.SessionScores{
		Overall:       req.OverallScore,
		Grammar:       req.GrammarScore,
		Pronunciation: req.PronunciationScore,
		Vocabulary:    req.VocabularyScore,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}
