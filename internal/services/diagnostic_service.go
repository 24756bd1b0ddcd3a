package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danielvr/adaptengine/internal/diagnostic"
	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

// DiagnosticScores carries the three section scores of a placement test.
type DiagnosticScores struct {
	Grammar       int
	Listening     int
	Pronunciation int
}

// DiagnosticService handles placement tests and the level reset they can
// trigger.
type DiagnosticService interface {
	Start(ctx context.Context, userID string) (*models.Diagnostic, error)
	Get(ctx context.Context, userID, id string) (*models.Diagnostic, error)
	Complete(ctx context.Context, userID, id string, scores DiagnosticScores) (*models.Diagnostic, error)
}

type diagnosticService struct {
	diagnostics repository.DiagnosticRepository
	profiles    repository.ProfileRepository
	adapters    repository.AdapterRepository
	locks       *UserLocks
	now         func() time.Time
}

// NewDiagnosticService creates a new DiagnosticService
func NewDiagnosticService(
	diagnostics repository.DiagnosticRepository,
	profiles repository.ProfileRepository,
	adapters repository.AdapterRepository,
	locks *UserLocks,
) DiagnosticService {
	return &diagnosticService{
		diagnostics: diagnostics,
		profiles:    profiles,
		adapters:    adapters,
		locks:       locks,
		now:         time.Now,
	}
}

func (s *diagnosticService) Start(ctx context.Context, userID string) (*models.Diagnostic, error) {
	log := logger.FromContext(ctx)

	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		log.Error("failed to ensure profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	d := models.Diagnostic{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    models.DiagnosticInProgress,
		CreatedAt: s.now().UTC(),
	}
	if err := s.diagnostics.Insert(ctx, d); err != nil {
		log.Error("failed to insert diagnostic: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("started diagnostic: user_id=%s, id=%s", userID, d.ID)
	return &d, nil
}

func (s *diagnosticService) Get(ctx context.Context, userID, id string) (*models.Diagnostic, error) {
	d, err := s.diagnostics.Get(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if d == nil {
		return nil, errors.NewNotFoundError("diagnostic", id)
	}
	return d, nil
}

// Complete scores the placement test, assigns the CEFR level, and resets
// the adapter when the level changed. A level matching the current
// difficulty band leaves zones, difficulty, and history untouched.
func (s *diagnosticService) Complete(ctx context.Context, userID, id string, scores DiagnosticScores) (*models.Diagnostic, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing diagnostic: user_id=%s, id=%s", userID, id)

	if err := validateSectionScores(scores); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	d, err := s.diagnostics.Get(ctx, userID, id)
	if err != nil {
		log.Error("failed to get diagnostic: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if d == nil {
		return nil, errors.NewNotFoundError("diagnostic", id)
	}
	if d.Status == models.DiagnosticCompleted {
		return nil, errors.NewConflictError("diagnostic already completed")
	}

	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		log.Error("failed to ensure profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now().UTC()
	overall := diagnostic.OverallScore(scores.Grammar, scores.Listening, scores.Pronunciation)
	level := diagnostic.ScoreToLevel(overall)

	d.Status = models.DiagnosticCompleted
	d.GrammarScore = scores.Grammar
	d.ListeningScore = scores.Listening
	d.PronunciationScore = scores.Pronunciation
	d.OverallScore = &overall
	d.LevelAssigned = level
	d.Strengths = diagnostic.Strengths(scores.Grammar, scores.Listening, scores.Pronunciation)
	d.Weaknesses = diagnostic.Weaknesses(scores.Grammar, scores.Listening, scores.Pronunciation)
	d.CompletedAt = &now

	if err := s.diagnostics.Complete(ctx, *d); err != nil {
		log.Error("failed to complete diagnostic: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.profiles.UpdateLevel(ctx, userID, level); err != nil {
		log.Error("failed to update level: %v", err)
		return nil, errors.NewInternalError(err)
	}

	state, err := s.adapters.State(ctx, userID)
	if err != nil {
		log.Error("failed to load adapter state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	_, previous := previousOrBaseline(state, profile.Level)

	reset := diagnostic.ResetOnDiagnostic(level, previous, now)
	if reset.Applied {
		entry := reset.Entry
		entry.ID = uuid.NewString()
		entry.UserID = userID
		entry.TriggerSessionID = d.ID
		if err := s.adapters.ApplyAdaptation(ctx, userID, reset.State, []models.AdaptationEntry{entry}); err != nil {
			return nil, errors.NewInternalError(err)
		}
		log.Info("diagnostic reset applied: user_id=%s, level=%s", userID, level)
	}

	return d, nil
}

func validateSectionScores(scores DiagnosticScores) error {
	check := func(field string, v int) error {
		if v < 0 || v > 100 {
			return errors.NewValidationError(field, "must be between 0 and 100")
		}
		return nil
	}
	if err := check("grammar_score", scores.Grammar); err != nil {
		return err
	}
	if err := check("listening_score", scores.Listening); err != nil {
		return err
	}
	return check("pronunciation_score", scores.Pronunciation)
}
