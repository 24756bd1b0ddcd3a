package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleEnsureProfile)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/complete", s.handleCompleteSession)

		r.Get("/adapter/state", s.handleAdapterState)
		r.Get("/adapter/history", s.handleAdapterHistory)

		r.Get("/homework", s.handleListHomework)
		r.Post("/homework/{id}/complete", s.handleCompleteHomework)
		r.Get("/queue", s.handleQueue)
		r.Get("/alerts", s.handleAlerts)

		r.Post("/diagnostics", s.handleStartDiagnostic)
		r.Get("/diagnostics/{id}", s.handleGetDiagnostic)
		r.Post("/diagnostics/{id}/complete", s.handleCompleteDiagnostic)

		r.Get("/lessons/{lessonID}", s.handleGetLesson)
		r.Post("/lessons/{lessonID}/complete", s.handleCompleteLesson)
	})

	r.Post("/admin/sweep", s.handleSweep)

	return r
}
