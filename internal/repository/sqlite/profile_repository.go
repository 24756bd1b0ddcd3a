package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	var p models.UserProfile
	err := r.db.QueryRowContext(ctx, `
SELECT id, level, adherence_score, created_at, updated_at
FROM users
WHERE id = ?
`, userID).Scan(&p.ID, &p.Level, &p.AdherenceScore, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Ensure(ctx context.Context, userID string) (*models.UserProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id) VALUES (?)
ON CONFLICT(id) DO NOTHING
`, userID)
	if err != nil {
		log.Error("failed to ensure profile: %v", err)
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *profileRepository) UpdateLevel(ctx context.Context, userID, level string) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating level: user_id=%s, level=%s", userID, level)

	_, err := r.db.ExecContext(ctx, `
UPDATE users SET level = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, level, userID)
	if err != nil {
		log.Error("failed to update level: %v", err)
	}
	return err
}

func (r *profileRepository) IncrementAdherence(ctx context.Context, userID string, delta float64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("incrementing adherence: user_id=%s, delta=%.1f", userID, delta)

	_, err := r.db.ExecContext(ctx, `
UPDATE users SET adherence_score = adherence_score + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, delta, userID)
	if err != nil {
		log.Error("failed to increment adherence: %v", err)
	}
	return err
}

func (r *profileRepository) QueueAdd(ctx context.Context, userID, contentRef string) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	// Set semantics: re-adding an existing ref is a no-op.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO priority_queue (user_id, content_ref) VALUES (?, ?)
ON CONFLICT(user_id, content_ref) DO NOTHING
`, userID, contentRef)
	if err != nil {
		log.Error("failed to add to priority queue: %v", err)
	}
	return err
}

func (r *profileRepository) QueueRemove(ctx context.Context, userID, contentRef string) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	_, err := r.db.ExecContext(ctx, `
DELETE FROM priority_queue WHERE user_id = ? AND content_ref = ?
`, userID, contentRef)
	if err != nil {
		log.Error("failed to remove from priority queue: %v", err)
	}
	return err
}

func (r *profileRepository) Queue(ctx context.Context, userID string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT content_ref FROM priority_queue WHERE user_id = ? ORDER BY added_at, content_ref
`, userID)
	if err != nil {
		log.Error("failed to query priority queue: %v", err)
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			log.Error("failed to scan priority queue row: %v", err)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
