package repository

import (
	"context"
	"time"

	"github.com/danielvr/adaptengine/internal/models"
)

// ProfileRepository handles user profile, adherence, and priority queue access
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Ensure(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateLevel(ctx context.Context, userID, level string) error
	IncrementAdherence(ctx context.Context, userID string, delta float64) error
	QueueAdd(ctx context.Context, userID, contentRef string) error
	QueueRemove(ctx context.Context, userID, contentRef string) error
	Queue(ctx context.Context, userID string) ([]string, error)
}

// SessionRepository handles session data access
type SessionRepository interface {
	Get(ctx context.Context, userID, id string) (*models.Session, error)
	Insert(ctx context.Context, session models.Session) error
	MarkCompleted(ctx context.Context, session models.Session) error
	RecentCompleted(ctx context.Context, userID string, limit int) ([]models.Session, error)
	Annotate(ctx context.Context, userID, id string, snapshot models.AdapterSnapshot) error
}

// AdapterRepository handles adapter state and its append-only history.
// State and history land in one transaction.
type AdapterRepository interface {
	State(ctx context.Context, userID string) (*models.AdapterState, error)
	ApplyAdaptation(ctx context.Context, userID string, state models.AdapterState, entries []models.AdaptationEntry) error
	History(ctx context.Context, userID string, limit int) ([]models.AdaptationEntry, error)
}

// HomeworkRepository handles homework items and schedule alerts
type HomeworkRepository interface {
	Get(ctx context.Context, userID, id string) (*models.HomeworkItem, error)
	Create(ctx context.Context, item models.HomeworkItem) (bool, error)
	List(ctx context.Context, userID string) ([]models.HomeworkItem, error)
	OverdueCandidates(ctx context.Context, now time.Time) ([]models.HomeworkItem, error)
	MarkOverdue(ctx context.Context, userID, id string, now time.Time) error
	ApplyCompletion(ctx context.Context, item models.HomeworkItem) error
	AppendAlert(ctx context.Context, alert models.ScheduleAlert) error
	ListAlerts(ctx context.Context, userID string, limit int) ([]models.ScheduleAlert, error)
}

// DiagnosticRepository handles placement test data access
type DiagnosticRepository interface {
	Get(ctx context.Context, userID, id string) (*models.Diagnostic, error)
	Insert(ctx context.Context, diagnostic models.Diagnostic) error
	Complete(ctx context.Context, diagnostic models.Diagnostic) error
}

// LessonRepository handles lesson progress data access
type LessonRepository interface {
	Get(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error)
	SaveCompletion(ctx context.Context, progress models.LessonProgress) error
}
