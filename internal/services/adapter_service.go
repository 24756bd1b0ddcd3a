package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danielvr/adaptengine/internal/adapter"
	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/homework"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

// Adaptation reasons recorded on history entries.
const (
	ReasonCompletedMA5        = "session_completed_ma5"
	ReasonCompletedErraticMA7 = "session_completed_erratic_ma7"
)

// AdapterService runs the adaptation pass and serves the resulting state
// and history.
type AdapterService interface {
	State(ctx context.Context, userID string) (*models.AdapterState, error)
	History(ctx context.Context, userID string, limit int) ([]models.AdaptationEntry, error)
	HandleSessionCompleted(ctx context.Context, session models.Session) error
}

type adapterService struct {
	adapters     repository.AdapterRepository
	sessions     repository.SessionRepository
	profiles     repository.ProfileRepository
	homeworks    repository.HomeworkRepository
	locks        *UserLocks
	sessionLimit int
	now          func() time.Time
}

// NewAdapterService creates a new AdapterService
func NewAdapterService(
	adapters repository.AdapterRepository,
	sessions repository.SessionRepository,
	profiles repository.ProfileRepository,
	homeworks repository.HomeworkRepository,
	locks *UserLocks,
	sessionLimit int,
) AdapterService {
	return &adapterService{
		adapters:     adapters,
		sessions:     sessions,
		profiles:     profiles,
		homeworks:    homeworks,
		locks:        locks,
		sessionLimit: sessionLimit,
		now:          time.Now,
	}
}

func (s *adapterService) State(ctx context.Context, userID string) (*models.AdapterState, error) {
	state, err := s.adapters.State(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if state == nil {
		profile, err := s.profiles.Get(ctx, userID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if profile == nil {
			return nil, errors.NewNotFoundError("user", userID)
		}
		baseline := models.BaselineState(profile.Level)
		return &baseline, nil
	}
	return state, nil
}

func (s *adapterService) History(ctx context.Context, userID string, limit int) ([]models.AdaptationEntry, error) {
	entries, err := s.adapters.History(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

// HandleSessionCompleted is the adaptation pass for one completed session:
// classify zones over the recent window, move the difficulty rungs, append
// history, annotate the trigger session, and queue reinforcement homework
// for weak areas. The whole pass holds the user lock.
func (s *adapterService) HandleSessionCompleted(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)
	log.Debug("adaptation pass: user_id=%s, session_id=%s", session.UserID, session.ID)

	unlock := s.locks.Lock(session.UserID)
	defer unlock()

	profile, err := s.profiles.Ensure(ctx, session.UserID)
	if err != nil {
		log.Error("failed to ensure profile: %v", err)
		return errors.NewInternalError(err)
	}

	recent, err := s.sessions.RecentCompleted(ctx, session.UserID, s.sessionLimit)
	if err != nil {
		log.Error("failed to load recent sessions: %v", err)
		return errors.NewInternalError(err)
	}

	result := adapter.ClassifyZones(recent)
	now := s.now().UTC()

	if result.Fallback() {
		return s.applyFallback(ctx, session, *profile, result)
	}

	previous, err := s.adapters.State(ctx, session.UserID)
	if err != nil {
		log.Error("failed to load adapter state: %v", err)
		return errors.NewInternalError(err)
	}
	prevZones, prevDifficulty := previousOrBaseline(previous, profile.Level)

	sequences := adapter.ZoneSequences(result.Windowed)
	shift := adapter.ComputeDifficultyShift(sequences, prevDifficulty)

	reason := ReasonCompletedMA5
	if result.Erratic {
		reason = ReasonCompletedErraticMA7
	}

	entries := make([]models.AdaptationEntry, 0, len(models.SkillAreas))
	for _, area := range models.SkillAreas {
		accuracy := result.AreaAverages[area]
		streak := shift.Streaks[area]
		entries = append(entries, models.AdaptationEntry{
			ID:               uuid.NewString(),
			UserID:           session.UserID,
			TriggerSessionID: session.ID,
			Area:             string(area),
			Zone:             result.Zones[area],
			PreviousZone:     prevZones[area],
			Adjustment:       models.CompareZones(prevZones[area], result.Zones[area]),
			Reason:           reason,
			RecentAccuracy:   &accuracy,
			ZoneStreak:       &streak,
			DifficultyBefore: prevDifficulty[area],
			DifficultyAfter:  shift.Next[area],
			CreatedAt:        now,
		})
	}

	next := models.AdapterState{Zones: result.Zones, Difficulty: shift.Next}
	if err := s.adapters.ApplyAdaptation(ctx, session.UserID, next, entries); err != nil {
		return errors.NewInternalError(err)
	}

	if err := s.sessions.Annotate(ctx, session.UserID, session.ID, result.Snapshot()); err != nil {
		log.Error("failed to annotate session: %v", err)
		return errors.NewInternalError(err)
	}

	s.queueWeakAreaHomework(ctx, session, result, now)
	return nil
}

// applyFallback installs the baseline state for users below the minimum
// session count. Only the very first pass writes anything; the annotation
// is recorded either way.
func (s *adapterService) applyFallback(ctx context.Context, session models.Session, profile models.UserProfile, result adapter.ZoneResult) error {
	log := logger.FromContext(ctx)
	log.Debug("fallback pass: user_id=%s, sessions=%d", session.UserID, result.SessionsConsidered)

	previous, err := s.adapters.State(ctx, session.UserID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if previous == nil {
		baseline := models.BaselineState(profile.Level)
		if err := s.adapters.ApplyAdaptation(ctx, session.UserID, baseline, nil); err != nil {
			return errors.NewInternalError(err)
		}
	}

	if err := s.sessions.Annotate(ctx, session.UserID, session.ID, result.Snapshot()); err != nil {
		log.Error("failed to annotate session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// queueWeakAreaHomework creates one homework item per weak area. Failures
// here never fail the adaptation pass; the next weak session retries with
// the same deterministic id.
func (s *adapterService) queueWeakAreaHomework(ctx context.Context, session models.Session, result adapter.ZoneResult, now time.Time) {
	log := logger.FromContext(ctx)

	for _, area := range models.SkillAreas {
		if result.AreaAverages[area] >= adapter.HomeworkThreshold {
			continue
		}
		item := homework.NewItem(
			homework.SessionItemID(session.ID, area),
			session.UserID,
			session.ID,
			area,
			homework.SessionContentRef(area, session.ID),
			now,
		)
		created, err := s.homeworks.Create(ctx, item)
		if err != nil {
			log.Warn("failed to create homework for %s: %v", area, err)
			continue
		}
		if !created {
			continue
		}
		log.Info("queued homework: user_id=%s, id=%s, area=%s", session.UserID, item.ID, area)
		if err := s.profiles.QueueAdd(ctx, session.UserID, item.ContentRef); err != nil {
			log.Warn("failed to add %s to priority queue: %v", item.ContentRef, err)
		}
	}
}

// previousOrBaseline fills missing areas of a stored state with the
// baseline for the user's level, so partially written legacy rows still
// yield a complete map.
func previousOrBaseline(state *models.AdapterState, level string) (map[models.SkillArea]models.PerformanceZone, map[models.SkillArea]models.DifficultyStep) {
	zones := make(map[models.SkillArea]models.PerformanceZone, len(models.SkillAreas))
	difficulty := make(map[models.SkillArea]models.DifficultyStep, len(models.SkillAreas))
	for _, area := range models.SkillAreas {
		zones[area] = models.ZoneIdeal
		difficulty[area] = models.MidStepForLevel(level)
		if state == nil {
			continue
		}
		if z, ok := state.Zones[area]; ok {
			zones[area] = z
		}
		if d, ok := state.Difficulty[area]; ok {
			difficulty[area] = d
		}
	}
	return zones, difficulty
}
