package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielvr/adaptengine/internal/models"
)

type completeLessonRequest struct {
	ExerciseResults []exerciseResultRequest `json:"exercise_results"`
}

type exerciseResultRequest struct {
	ExerciseID string `json:"exercise_id"`
	Type       string `json:"type"`
	Attempts   int    `json:"attempts"`
	Correct    bool   `json:"correct"`
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	lessonID := chi.URLParam(r, "lessonID")

	progress, err := s.LessonService.Get(r.Context(), userID, lessonID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	lessonID := chi.URLParam(r, "lessonID")

	var req completeLessonRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	results := make([]models.ExerciseResult, len(req.ExerciseResults))
	for i, er := range req.ExerciseResults {
		results[i] = models.ExerciseResult{
			ExerciseID: er.ExerciseID,
			Type:       er.Type,
			Attempts:   er.Attempts,
			Correct:    er.Correct,
		}
	}

	progress, err := s.LessonService.Complete(r.Context(), userID, lessonID, results)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, progress)
}
