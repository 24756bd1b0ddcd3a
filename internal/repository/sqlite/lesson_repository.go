package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new LessonRepository implementation
func NewLessonRepository(database *sql.DB) repository.LessonRepository {
	return &lessonRepository{db: database}
}

func (r *lessonRepository) Get(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT lesson_id, user_id, status, score, exercise_results, weak_exercises, review_schedule, completed_at, updated_at
FROM lesson_progress WHERE user_id = ? AND lesson_id = ?
`, userID, lessonID)

	var p models.LessonProgress
	var score sql.NullInt64
	var results, weak, schedule sql.NullString
	var completed sql.NullTime
	err := row.Scan(&p.LessonID, &p.UserID, &p.Status, &score, &results, &weak, &schedule, &completed, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get lesson progress: %v", err)
		return nil, err
	}
	p.Score = intPtr(score)
	p.CompletedAt = timePtr(completed)
	if err := unmarshalJSON(results, &p.ExerciseResults); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(weak, &p.WeakExercises); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(schedule, &p.ReviewSchedule); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveCompletion upserts the full progress row so a lesson can be completed
// whether or not an in-progress row existed first.
func (r *lessonRepository) SaveCompletion(ctx context.Context, progress models.LessonProgress) error {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	results, err := marshalJSON(progress.ExerciseResults)
	if err != nil {
		return err
	}
	weak, err := marshalJSON(progress.WeakExercises)
	if err != nil {
		return err
	}
	schedule, err := marshalJSON(progress.ReviewSchedule)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO lesson_progress (lesson_id, user_id, status, score, exercise_results, weak_exercises, review_schedule, completed_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, lesson_id) DO UPDATE SET
    status = excluded.status,
    score = excluded.score,
    exercise_results = excluded.exercise_results,
    weak_exercises = excluded.weak_exercises,
    review_schedule = excluded.review_schedule,
    completed_at = excluded.completed_at,
    updated_at = excluded.updated_at
`, progress.LessonID, progress.UserID, progress.Status, nullInt(progress.Score), results, weak, schedule,
		nullTime(progress.CompletedAt), progress.UpdatedAt)
	if err != nil {
		log.Error("failed to save lesson completion: %v", err)
	}
	return err
}
