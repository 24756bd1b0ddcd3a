package services

import (
	"context"
	"time"

	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/homework"
	"github.com/danielvr/adaptengine/internal/lesson"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
	"github.com/danielvr/adaptengine/internal/spacedrep"
)

// LessonService handles lesson completion scoring and the review schedule
// for weak exercises.
type LessonService interface {
	Get(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error)
	Complete(ctx context.Context, userID, lessonID string, results []models.ExerciseResult) (*models.LessonProgress, error)
}

type lessonService struct {
	lessons   repository.LessonRepository
	homeworks repository.HomeworkRepository
	profiles  repository.ProfileRepository
	locks     *UserLocks
	now       func() time.Time
}

// NewLessonService creates a new LessonService
func NewLessonService(
	lessons repository.LessonRepository,
	homeworks repository.HomeworkRepository,
	profiles repository.ProfileRepository,
	locks *UserLocks,
) LessonService {
	return &lessonService{
		lessons:   lessons,
		homeworks: homeworks,
		profiles:  profiles,
		locks:     locks,
		now:       time.Now,
	}
}

func (s *lessonService) Get(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error) {
	p, err := s.lessons.Get(ctx, userID, lessonID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("lesson progress", lessonID)
	}
	return p, nil
}

// Complete grades the lesson from the reported attempts, schedules weak
// exercises for review on the interval ladder, and queues one reinforcement
// homework when the lesson as a whole was weak. Exercise scores are always
// recomputed server-side from attempts and correctness.
func (s *lessonService) Complete(ctx context.Context, userID, lessonID string, results []models.ExerciseResult) (*models.LessonProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing lesson: user_id=%s, lesson_id=%s, exercises=%d", userID, lessonID, len(results))

	if len(results) == 0 {
		return nil, errors.NewValidationError("exercise_results", "must not be empty")
	}
	for i := range results {
		if results[i].ExerciseID == "" {
			return nil, errors.NewValidationError("exercise_id", "must not be empty")
		}
		if results[i].Attempts < 1 {
			return nil, errors.NewValidationError("attempts", "must be at least 1")
		}
		results[i].Score = lesson.ScoreByAttempts(results[i].Attempts, results[i].Correct)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.profiles.Ensure(ctx, userID); err != nil {
		log.Error("failed to ensure profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	existing, err := s.lessons.Get(ctx, userID, lessonID)
	if err != nil {
		log.Error("failed to get lesson progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil && existing.Status == models.LessonCompleted {
		return nil, errors.NewConflictError("lesson already completed")
	}

	now := s.now().UTC()
	scores := lesson.ScorePerExercise(results)
	final := lesson.FinalScore(scores)
	weak := lesson.WeakExercises(scores)

	previousSteps := make(map[string]int)
	if existing != nil {
		for _, item := range existing.ReviewSchedule {
			previousSteps[item.ExerciseID] = item.Step
		}
	}
	schedule := spacedrep.BuildReviewSchedule(weak, previousSteps, now)

	progress := models.LessonProgress{
		LessonID:        lessonID,
		UserID:          userID,
		Status:          models.LessonCompleted,
		Score:           &final,
		ExerciseResults: results,
		WeakExercises:   weak,
		ReviewSchedule:  schedule,
		CompletedAt:     &now,
		UpdatedAt:       now,
	}
	if err := s.lessons.SaveCompletion(ctx, progress); err != nil {
		log.Error("failed to save lesson completion: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if final < lesson.WeakScore {
		s.queueLessonHomework(ctx, userID, lessonID, results, now)
	}

	log.Info("lesson completed: user_id=%s, lesson_id=%s, score=%d, weak=%d", userID, lessonID, final, len(weak))
	return &progress, nil
}

// queueLessonHomework creates the single reinforcement item for a weak
// lesson, targeting the skill area of the weakest exercise type. Failures
// never fail the completion; the deterministic id makes a later retry safe.
func (s *lessonService) queueLessonHomework(ctx context.Context, userID, lessonID string, results []models.ExerciseResult, now time.Time) {
	log := logger.FromContext(ctx)

	area := lesson.WeakestArea(results)
	item := homework.NewItem(
		homework.LessonItemID(lessonID),
		userID,
		lessonID,
		area,
		homework.LessonContentRef(lessonID, area),
		now,
	)
	created, err := s.homeworks.Create(ctx, item)
	if err != nil {
		log.Warn("failed to create lesson homework: %v", err)
		return
	}
	if !created {
		return
	}
	log.Info("queued lesson homework: user_id=%s, id=%s, area=%s", userID, item.ID, area)
	if err := s.profiles.QueueAdd(ctx, userID, item.ContentRef); err != nil {
		log.Warn("failed to add %s to priority queue: %v", item.ContentRef, err)
	}
}
