package sqlite

import (
	"context"
	"database/sql"

	"github.com/danielvr/adaptengine/internal/db"
	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

type adapterRepository struct {
	db *sql.DB
}

// NewAdapterRepository creates a new AdapterRepository implementation
func NewAdapterRepository(database *sql.DB) repository.AdapterRepository {
	return &adapterRepository{db: database}
}

func (r *adapterRepository) State(ctx context.Context, userID string) (*models.AdapterState, error) {
	log := logger.FromContext(ctx).WithPrefix("adapter_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT area, zone, difficulty FROM adapter_state WHERE user_id = ?
`, userID)
	if err != nil {
		log.Error("failed to query adapter state: %v", err)
		return nil, err
	}
	defer rows.Close()

	state := models.AdapterState{
		Zones:      make(map[models.SkillArea]models.PerformanceZone),
		Difficulty: make(map[models.SkillArea]models.DifficultyStep),
	}
	found := false
	for rows.Next() {
		var area, zone, difficulty string
		if err := rows.Scan(&area, &zone, &difficulty); err != nil {
			log.Error("failed to scan adapter state row: %v", err)
			return nil, err
		}
		found = true
		skill := models.SkillArea(area)
		state.Zones[skill] = models.PerformanceZone(zone)
		// Malformed rungs fall back to A1-mid; legacy rows stay readable.
		state.Difficulty[skill] = models.NormalizeDifficulty(difficulty, "A1")
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		log.Debug("no adapter state for user_id=%s", userID)
		return nil, nil
	}
	return &state, nil
}

// ApplyAdaptation writes the new per-area state and appends the history
// entries in a single transaction: either everything lands or nothing does.
func (r *adapterRepository) ApplyAdaptation(ctx context.Context, userID string, state models.AdapterState, entries []models.AdaptationEntry) error {
	log := logger.FromContext(ctx).WithPrefix("adapter_repo")
	log.Debug("applying adaptation: user_id=%s, entries=%d", userID, len(entries))

	err := db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, area := range models.SkillAreas {
			zone, ok := state.Zones[area]
			if !ok {
				continue
			}
			difficulty := state.Difficulty[area]
			if _, err := tx.ExecContext(ctx, `
INSERT INTO adapter_state (user_id, area, zone, difficulty)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, area) DO UPDATE SET zone = excluded.zone, difficulty = excluded.difficulty
`, userID, string(area), string(zone), difficulty.String()); err != nil {
				return err
			}
		}

		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO adaptations (id, user_id, trigger_session_id, area, zone, previous_zone, adjustment, reason, recent_accuracy, zone_streak, difficulty_before, difficulty_after, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.ID, userID, e.TriggerSessionID, e.Area, string(e.Zone), string(e.PreviousZone), string(e.Adjustment), e.Reason,
				nullFloat(e.RecentAccuracy), nullInt(e.ZoneStreak), e.DifficultyBefore.String(), e.DifficultyAfter.String(), e.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to apply adaptation: %v", err)
	}
	return err
}

func (r *adapterRepository) History(ctx context.Context, userID string, limit int) ([]models.AdaptationEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("adapter_repo")

	query, args, err := sqlBuilder.
		Select("id", "user_id", "trigger_session_id", "area", "zone", "previous_zone", "adjustment", "reason",
			"recent_accuracy", "zone_streak", "difficulty_before", "difficulty_after", "created_at").
		From("adaptations").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.AdaptationEntry
	for rows.Next() {
		var e models.AdaptationEntry
		var accuracy sql.NullFloat64
		var streak sql.NullInt64
		var before, after string
		if err := rows.Scan(&e.ID, &e.UserID, &e.TriggerSessionID, &e.Area, &e.Zone, &e.PreviousZone, &e.Adjustment, &e.Reason,
			&accuracy, &streak, &before, &after, &e.CreatedAt); err != nil {
			log.Error("failed to scan history row: %v", err)
			return nil, err
		}
		e.RecentAccuracy = floatPtr(accuracy)
		e.ZoneStreak = intPtr(streak)
		e.DifficultyBefore = models.NormalizeDifficulty(before, "A1")
		e.DifficultyAfter = models.NormalizeDifficulty(after, "A1")
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
