package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, user_id, type, status, overall_score, grammar_score, pronunciation_score, vocabulary_score, completed_at, created_at`

func scanSession(row interface{ Scan(...any) error }) (models.Session, error) {
	var s models.Session
	var overall, grammar, pronunciation, vocabulary sql.NullFloat64
	var completedAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.Status, &overall, &grammar, &pronunciation, &vocabulary, &completedAt, &s.CreatedAt)
	if err != nil {
		return s, err
	}
	s.OverallScore = floatPtr(overall)
	s.GrammarScore = floatPtr(grammar)
	s.PronunciationScore = floatPtr(pronunciation)
	s.VocabularyScore = floatPtr(vocabulary)
	s.CompletedAt = timePtr(completedAt)
	return s, nil
}

func (r *sessionRepository) Get(ctx context.Context, userID, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT `+sessionColumns+`
FROM sessions
WHERE user_id = ? AND id = ?
`, userID, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Insert(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, type=%s", s.ID, s.Type)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, type, status)
VALUES (?, ?, ?, ?)
`, s.ID, s.UserID, s.Type, s.Status)
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (r *sessionRepository) MarkCompleted(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("marking session completed: id=%s", s.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET status = ?, overall_score = ?, grammar_score = ?, pronunciation_score = ?, vocabulary_score = ?, completed_at = ?
WHERE user_id = ? AND id = ?
`, models.SessionCompleted,
		nullFloat(s.OverallScore), nullFloat(s.GrammarScore), nullFloat(s.PronunciationScore), nullFloat(s.VocabularyScore),
		nullTime(s.CompletedAt), s.UserID, s.ID)
	if err != nil {
		log.Error("failed to mark session completed: %v", err)
	}
	return err
}

func (r *sessionRepository) RecentCompleted(ctx context.Context, userID string, limit int) ([]models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("fetching recent completed sessions: user_id=%s, limit=%d", userID, limit)

	query, args, err := sqlBuilder.
		Select("id", "user_id", "type", "status", "overall_score", "grammar_score", "pronunciation_score", "vocabulary_score", "completed_at", "created_at").
		From("sessions").
		Where("user_id = ?", userID).
		Where("status = ?", models.SessionCompleted).
		Where("completed_at IS NOT NULL").
		OrderBy("completed_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d completed sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) Annotate(ctx context.Context, userID, id string, snapshot models.AdapterSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("annotating session: id=%s, mode=%s", id, snapshot.Mode)

	encoded, err := marshalJSON(snapshot)
	if err != nil {
		log.Error("failed to encode snapshot: %v", err)
		return err
	}
	_, err = r.db.ExecContext(ctx, `
UPDATE sessions SET adapter_snapshot = ? WHERE user_id = ? AND id = ?
`, encoded, userID, id)
	if err != nil {
		log.Error("failed to annotate session: %v", err)
	}
	return err
}
