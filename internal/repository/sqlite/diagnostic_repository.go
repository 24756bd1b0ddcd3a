package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

type diagnosticRepository struct {
	db *sql.DB
}

// NewDiagnosticRepository creates a new DiagnosticRepository implementation
func NewDiagnosticRepository(database *sql.DB) repository.DiagnosticRepository {
	return &diagnosticRepository{db: database}
}

func (r *diagnosticRepository) Get(ctx context.Context, userID, id string) (*models.Diagnostic, error) {
	log := logger.FromContext(ctx).WithPrefix("diagnostic_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, status, grammar_score, listening_score, pronunciation_score, overall_score,
       level_assigned, strengths, weaknesses, completed_at, created_at
FROM diagnostics WHERE user_id = ? AND id = ?
`, userID, id)

	var d models.Diagnostic
	var overall sql.NullInt64
	var level, strengths, weaknesses sql.NullString
	var completed sql.NullTime
	err := row.Scan(&d.ID, &d.UserID, &d.Status, &d.GrammarScore, &d.ListeningScore, &d.PronunciationScore,
		&overall, &level, &strengths, &weaknesses, &completed, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get diagnostic: %v", err)
		return nil, err
	}
	d.OverallScore = intPtr(overall)
	d.LevelAssigned = level.String
	d.CompletedAt = timePtr(completed)
	if err := unmarshalJSON(strengths, &d.Strengths); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(weaknesses, &d.Weaknesses); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *diagnosticRepository) Insert(ctx context.Context, diagnostic models.Diagnostic) error {
	log := logger.FromContext(ctx).WithPrefix("diagnostic_repo")

	_, err := r.db.ExecContext(ctx, `
INSERT INTO diagnostics (id, user_id, status, grammar_score, listening_score, pronunciation_score, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, diagnostic.ID, diagnostic.UserID, diagnostic.Status, diagnostic.GrammarScore, diagnostic.ListeningScore,
		diagnostic.PronunciationScore, diagnostic.CreatedAt)
	if err != nil {
		log.Error("failed to insert diagnostic: %v", err)
	}
	return err
}

func (r *diagnosticRepository) Complete(ctx context.Context, diagnostic models.Diagnostic) error {
	log := logger.FromContext(ctx).WithPrefix("diagnostic_repo")

	strengths, err := marshalJSON(diagnostic.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := marshalJSON(diagnostic.Weaknesses)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
UPDATE diagnostics
SET status = ?, grammar_score = ?, listening_score = ?, pronunciation_score = ?, overall_score = ?,
    level_assigned = ?, strengths = ?, weaknesses = ?, completed_at = ?
WHERE user_id = ? AND id = ?
`, diagnostic.Status, diagnostic.GrammarScore, diagnostic.ListeningScore, diagnostic.PronunciationScore,
		nullInt(diagnostic.OverallScore), diagnostic.LevelAssigned, strengths, weaknesses,
		nullTime(diagnostic.CompletedAt), diagnostic.UserID, diagnostic.ID)
	if err != nil {
		log.Error("failed to complete diagnostic: %v", err)
	}
	return err
}
