package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/homework"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
	"github.com/danielvr/adaptengine/internal/spacedrep"
)

// AlertOverdue is the reason recorded on sweep-generated schedule alerts.
const AlertOverdue = "homework_overdue"

// Adherence deltas for homework outcomes.
const (
	adherenceOnTime  = 1.0
	adherenceLate    = 0.5
	adherenceOverdue = -1.0
)

// SweepSummary reports what one overdue sweep did.
type SweepSummary struct {
	Candidates    int `json:"candidates"`
	MarkedOverdue int `json:"marked_overdue"`
	Failed        int `json:"failed"`
}

// HomeworkService handles homework completion, listing, and the overdue
// sweep.
type HomeworkService interface {
	List(ctx context.Context, userID string) ([]models.HomeworkItem, error)
	Complete(ctx context.Context, userID, id string, score int) (*models.HomeworkItem, error)
	Queue(ctx context.Context, userID string) ([]string, error)
	Alerts(ctx context.Context, userID string, limit int) ([]models.ScheduleAlert, error)
	Sweep(ctx context.Context, now time.Time) (SweepSummary, error)
}

type homeworkService struct {
	homeworks repository.HomeworkRepository
	profiles  repository.ProfileRepository
	locks     *UserLocks
	now       func() time.Time
}

// NewHomeworkService creates a new HomeworkService
func NewHomeworkService(homeworks repository.HomeworkRepository, profiles repository.ProfileRepository, locks *UserLocks) HomeworkService {
	return &homeworkService{
		homeworks: homeworks,
		profiles:  profiles,
		locks:     locks,
		now:       time.Now,
	}
}

func (s *homeworkService) List(ctx context.Context, userID string) ([]models.HomeworkItem, error) {
	items, err := s.homeworks.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return items, nil
}

func (s *homeworkService) Queue(ctx context.Context, userID string) ([]string, error) {
	refs, err := s.profiles.Queue(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return refs, nil
}

func (s *homeworkService) Alerts(ctx context.Context, userID string, limit int) ([]models.ScheduleAlert, error) {
	alerts, err := s.homeworks.ListAlerts(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return alerts, nil
}

// Complete records one review attempt and advances the spaced-repetition
// schedule. Mastered items reject further attempts. Passing on time earns
// full adherence credit, passing after the deadline earns half; a failing
// attempt earns nothing. The content ref stays on the priority queue until
// the item is mastered.
func (s *homeworkService) Complete(ctx context.Context, userID, id string, score int) (*models.HomeworkItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing homework: user_id=%s, id=%s, score=%d", userID, id, score)

	if score < 0 || score > 100 {
		return nil, errors.NewValidationError("score", "must be between 0 and 100")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	item, err := s.homeworks.Get(ctx, userID, id)
	if err != nil {
		log.Error("failed to get homework: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("homework", id)
	}
	if item.Status == models.HomeworkMastered {
		return nil, errors.NewConflictError("homework already mastered")
	}

	now := s.now().UTC()
	// A completion whose schedule transition already ran and whose next
	// review is still in the future is a duplicate delivery, not a new
	// attempt. Drop it without touching progression or adherence.
	if item.Processed() && item.NextReviewAt != nil && now.Before(*item.NextReviewAt) {
		log.Debug("completion already processed: user_id=%s, id=%s", userID, id)
		return item, nil
	}
	late := item.Status == models.HomeworkOverdue || now.After(item.Deadline)

	result := spacedrep.Advance(item.RepetitionCount, score, now)
	item.Status = result.Status
	item.Interval = result.Interval
	item.Step = result.Step
	item.RepetitionCount = result.RepetitionCount
	item.NextReviewAt = result.NextReviewAt
	item.Score = &score
	item.Attempts++
	item.CompletedAt = &now
	item.ProcessedAt = &now
	item.UpdatedAt = now
	if result.Status == models.HomeworkMastered {
		item.MasteredAt = &now
	}

	if err := s.homeworks.ApplyCompletion(ctx, *item); err != nil {
		log.Error("failed to apply homework completion: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if score >= spacedrep.PassingScore {
		delta := adherenceOnTime
		if late {
			delta = adherenceLate
		}
		if err := s.profiles.IncrementAdherence(ctx, userID, delta); err != nil {
			log.Warn("failed to increment adherence: %v", err)
		}
	}

	// Only mastery clears the content from the priority queue; an item
	// still on the ladder keeps its ref there until the curve is done.
	if item.Status == models.HomeworkMastered {
		if err := s.profiles.QueueRemove(ctx, userID, item.ContentRef); err != nil {
			log.Warn("failed to remove %s from priority queue: %v", item.ContentRef, err)
		}
	} else {
		if err := s.profiles.QueueAdd(ctx, userID, item.ContentRef); err != nil {
			log.Warn("failed to add %s to priority queue: %v", item.ContentRef, err)
		}
	}

	log.Info("homework completed: user_id=%s, id=%s, status=%s, repetitions=%d",
		userID, id, item.Status, item.RepetitionCount)
	return item, nil
}

// Sweep marks every expired pending item overdue, docks adherence, queues
// the content for reinforcement, and records a schedule alert. One failed
// item never stops the rest; failures surface in the summary and retry on
// the next sweep.
func (s *homeworkService) Sweep(ctx context.Context, now time.Time) (SweepSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("sweep")

	candidates, err := s.homeworks.OverdueCandidates(ctx, now)
	if err != nil {
		log.Error("failed to load overdue candidates: %v", err)
		return SweepSummary{}, errors.NewInternalError(err)
	}

	actions := homework.SweepOverdue(now, candidates)
	summary := SweepSummary{Candidates: len(actions)}
	for _, action := range actions {
		if err := s.applyOverdue(ctx, action, now); err != nil {
			log.Error("failed to process overdue homework %s for user %s: %v", action.HomeworkID, action.UserID, err)
			summary.Failed++
			continue
		}
		summary.MarkedOverdue++
	}

	if summary.Candidates > 0 {
		log.Info("sweep done: candidates=%d, marked=%d, failed=%d", summary.Candidates, summary.MarkedOverdue, summary.Failed)
	}
	return summary, nil
}

func (s *homeworkService) applyOverdue(ctx context.Context, action homework.OverdueAction, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("sweep")

	unlock := s.locks.Lock(action.UserID)
	defer unlock()

	if err := s.homeworks.MarkOverdue(ctx, action.UserID, action.HomeworkID, now); err != nil {
		return err
	}
	if err := s.profiles.IncrementAdherence(ctx, action.UserID, adherenceOverdue); err != nil {
		return err
	}
	if err := s.profiles.QueueAdd(ctx, action.UserID, action.ContentRef); err != nil {
		return err
	}
	alert := models.ScheduleAlert{
		ID:         uuid.NewString(),
		UserID:     action.UserID,
		Reason:     AlertOverdue,
		ContentRef: action.ContentRef,
		HomeworkID: action.HomeworkID,
		CreatedAt:  now,
	}
	if err := s.homeworks.AppendAlert(ctx, alert); err != nil {
		// The item is already marked; an alert failure is not worth
		// retrying the whole action for.
		log.Warn("failed to append alert for homework %s: %v", action.HomeworkID, err)
	}
	return nil
}
