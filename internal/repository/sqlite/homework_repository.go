package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

const homeworkColumns = `id, user_id, source_session_id, source_type, content_ref, status, score, deadline, interval, repetition_count, step, next_review_at, attempts, completed_at, mastered_at, processed_at, created_at, updated_at`

type homeworkRepository struct {
	db *sql.DB
}

// NewHomeworkRepository creates a new HomeworkRepository implementation
func NewHomeworkRepository(database *sql.DB) repository.HomeworkRepository {
	return &homeworkRepository{db: database}
}

func scanHomework(row interface{ Scan(...any) error }) (*models.HomeworkItem, error) {
	var item models.HomeworkItem
	var score sql.NullInt64
	var nextReview, completed, mastered, processed sql.NullTime
	err := row.Scan(&item.ID, &item.UserID, &item.SourceSessionID, &item.SourceType, &item.ContentRef,
		&item.Status, &score, &item.Deadline, &item.Interval, &item.RepetitionCount, &item.Step,
		&nextReview, &item.Attempts, &completed, &mastered, &processed, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Score = intPtr(score)
	item.NextReviewAt = timePtr(nextReview)
	item.CompletedAt = timePtr(completed)
	item.MasteredAt = timePtr(mastered)
	item.ProcessedAt = timePtr(processed)
	return &item, nil
}

func (r *homeworkRepository) Get(ctx context.Context, userID, id string) (*models.HomeworkItem, error) {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT `+homeworkColumns+` FROM homework WHERE user_id = ? AND id = ?
`, userID, id)
	item, err := scanHomework(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get homework: %v", err)
		return nil, err
	}
	return item, nil
}

// Create inserts the item only if no item with the same id exists yet. The
// bool reports whether a row was actually written, so re-triggering the same
// weak area is a no-op that never resets progression state.
func (r *homeworkRepository) Create(ctx context.Context, item models.HomeworkItem) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	res, err := r.db.ExecContext(ctx, `
INSERT INTO homework (id, user_id, source_session_id, source_type, content_ref, status, score, deadline, interval, repetition_count, step, next_review_at, attempts, completed_at, mastered_at, processed_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, id) DO NOTHING
`, item.ID, item.UserID, item.SourceSessionID, string(item.SourceType), item.ContentRef, string(item.Status),
		nullInt(item.Score), item.Deadline, item.Interval, item.RepetitionCount, item.Step,
		nullTime(item.NextReviewAt), item.Attempts, nullTime(item.CompletedAt), nullTime(item.MasteredAt),
		nullTime(item.ProcessedAt), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		log.Error("failed to create homework: %v", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	created := affected > 0
	if !created {
		log.Debug("homework already exists: user_id=%s, id=%s", item.UserID, item.ID)
	}
	return created, nil
}

func (r *homeworkRepository) List(ctx context.Context, userID string) ([]models.HomeworkItem, error) {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT `+homeworkColumns+` FROM homework WHERE user_id = ? ORDER BY deadline, id
`, userID)
	if err != nil {
		log.Error("failed to list homework: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectHomework(rows)
}

// OverdueCandidates returns pending items whose deadline has passed. Items
// already marked overdue are excluded, which keeps the sweep idempotent.
func (r *homeworkRepository) OverdueCandidates(ctx context.Context, now time.Time) ([]models.HomeworkItem, error) {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	query, args, err := sqlBuilder.
		Select(homeworkColumns).
		From("homework").
		Where("status = ?", string(models.HomeworkPending)).
		Where("deadline <= ?", now).
		OrderBy("deadline", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query overdue candidates: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectHomework(rows)
}

func collectHomework(rows *sql.Rows) ([]models.HomeworkItem, error) {
	var items []models.HomeworkItem
	for rows.Next() {
		item, err := scanHomework(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// MarkOverdue flips a still-pending item to overdue. The status guard in the
// WHERE clause makes concurrent sweeps safe.
func (r *homeworkRepository) MarkOverdue(ctx context.Context, userID, id string, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	_, err := r.db.ExecContext(ctx, `
UPDATE homework SET status = ?, updated_at = ? WHERE user_id = ? AND id = ? AND status = ?
`, string(models.HomeworkOverdue), now, userID, id, string(models.HomeworkPending))
	if err != nil {
		log.Error("failed to mark homework overdue: %v", err)
	}
	return err
}

// ApplyCompletion persists the full post-transition item state.
func (r *homeworkRepository) ApplyCompletion(ctx context.Context, item models.HomeworkItem) error {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	_, err := r.db.ExecContext(ctx, `
UPDATE homework
SET status = ?, score = ?, interval = ?, repetition_count = ?, step = ?, next_review_at = ?,
    attempts = ?, completed_at = ?, mastered_at = ?, processed_at = ?, updated_at = ?
WHERE user_id = ? AND id = ?
`, string(item.Status), nullInt(item.Score), item.Interval, item.RepetitionCount, item.Step,
		nullTime(item.NextReviewAt), item.Attempts, nullTime(item.CompletedAt), nullTime(item.MasteredAt),
		nullTime(item.ProcessedAt), item.UpdatedAt, item.UserID, item.ID)
	if err != nil {
		log.Error("failed to apply homework completion: %v", err)
	}
	return err
}

func (r *homeworkRepository) AppendAlert(ctx context.Context, alert models.ScheduleAlert) error {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	_, err := r.db.ExecContext(ctx, `
INSERT INTO schedule_alerts (id, user_id, reason, content_ref, homework_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, alert.ID, alert.UserID, alert.Reason, alert.ContentRef, alert.HomeworkID, alert.CreatedAt)
	if err != nil {
		log.Error("failed to append alert: %v", err)
	}
	return err
}

func (r *homeworkRepository) ListAlerts(ctx context.Context, userID string, limit int) ([]models.ScheduleAlert, error) {
	log := logger.FromContext(ctx).WithPrefix("homework_repo")

	query, args, err := sqlBuilder.
		Select("id", "user_id", "reason", "content_ref", "homework_id", "created_at").
		From("schedule_alerts").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list alerts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var alerts []models.ScheduleAlert
	for rows.Next() {
		var a models.ScheduleAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Reason, &a.ContentRef, &a.HomeworkID, &a.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
