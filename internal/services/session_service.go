package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

// SessionScores carries the optional score fields reported on completion.
type SessionScores struct {
	Overall       *float64
	Grammar       *float64
	Pronunciation *float64
	Vocabulary    *float64
}

// SessionService handles session lifecycle business logic
type SessionService interface {
	Create(ctx context.Context, userID, sessionType string) (*models.Session, error)
	Get(ctx context.Context, userID, id string) (*models.Session, error)
	Complete(ctx context.Context, userID, id string, scores SessionScores) (*models.Session, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	profiles repository.ProfileRepository
	adapter  AdapterService
	locks    *UserLocks
	now      func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository, profiles repository.ProfileRepository, adapter AdapterService, locks *UserLocks) SessionService {
	return &sessionService{
		sessions: sessions,
		profiles: profiles,
		adapter:  adapter,
		locks:    locks,
		now:      time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, userID, sessionType string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	if sessionType == "" {
		sessionType = "chat"
	}
	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		log.Error("failed to ensure profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      sessionType,
		Status:    models.SessionInProgress,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("created session: user_id=%s, id=%s, type=%s", userID, session.ID, sessionType)
	return &session, nil
}

func (s *sessionService) Get(ctx context.Context, userID, id string) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	return session, nil
}

// Complete records the session scores and runs the adaptation pass. A
// session may only transition out of in_progress once; repeating the call
// is a conflict, never a second adaptation.
func (s *sessionService) Complete(ctx context.Context, userID, id string, scores SessionScores) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing session: user_id=%s, id=%s", userID, id)

	if err := validateScores(scores); err != nil {
		return nil, err
	}

	session, err := s.markCompleted(ctx, userID, id, scores)
	if err != nil {
		return nil, err
	}

	// The adaptation pass takes the user lock itself.
	if err := s.adapter.HandleSessionCompleted(ctx, *session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) markCompleted(ctx context.Context, userID, id string, scores SessionScores) (*models.Session, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(userID)
	defer unlock()

	session, err := s.sessions.Get(ctx, userID, id)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	if session.Status == models.SessionCompleted {
		return nil, errors.NewConflictError("session already completed")
	}

	now := s.now().UTC()
	session.Status = models.SessionCompleted
	session.CompletedAt = &now
	session.OverallScore = scores.Overall
	session.GrammarScore = scores.Grammar
	session.PronunciationScore = scores.Pronunciation
	session.VocabularyScore = scores.Vocabulary

	if err := s.sessions.MarkCompleted(ctx, *session); err != nil {
		log.Error("failed to mark session completed: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return session, nil
}

func validateScores(scores SessionScores) error {
	check := func(field string, v *float64) error {
		if v != nil && (*v < 0 || *v > 100) {
			return errors.NewValidationError(field, "must be between 0 and 100")
		}
		return nil
	}
	if err := check("overall_score", scores.Overall); err != nil {
		return err
	}
	if err := check("grammar_score", scores.Grammar); err != nil {
		return err
	}
	if err := check("pronunciation_score", scores.Pronunciation); err != nil {
		return err
	}
	return check("vocabulary_score", scores.Vocabulary)
}
