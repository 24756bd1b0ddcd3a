package api

import (
	"database/sql"

	"github.com/danielvr/adaptengine/internal/services"
)

// Server holds the service dependencies for the HTTP handlers.
type Server struct {
	DB                *sql.DB
	ProfileService    services.ProfileService
	SessionService    services.SessionService
	AdapterService    services.AdapterService
	HomeworkService   services.HomeworkService
	DiagnosticService services.DiagnosticService
	LessonService     services.LessonService
}
