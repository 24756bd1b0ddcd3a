package adapter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielvr/adaptengine/internal/adapter"
	"github.com/danielvr/adaptengine/internal/models"
)

func completedSession(overall float64) models.Session {
	now := time.Now()
	return models.Session{
		ID:           "s",
		UserID:       "u",
		Status:       models.SessionCompleted,
		OverallScore: &overall,
		CompletedAt:  &now,
	}
}

func completedSessions(overall ...float64) []models.Session {
	out := make([]models.Session, len(overall))
	for i, score := range overall {
		out[i] = completedSession(score)
	}
	return out
}

func TestZoneForScore(t *testing.T) {
	assert.Equal(t, models.ZoneTooEasy, adapter.ZoneForScore(81))
	assert.Equal(t, models.ZoneIdeal, adapter.ZoneForScore(80), "80 belongs to ideal")
	assert.Equal(t, models.ZoneIdeal, adapter.ZoneForScore(60), "60 belongs to ideal")
	assert.Equal(t, models.ZoneTooHard, adapter.ZoneForScore(59.9))
	assert.Equal(t, models.ZoneTooHard, adapter.ZoneForScore(0))
	assert.Equal(t, models.ZoneTooEasy, adapter.ZoneForScore(100))
}

func TestZoneForScore_Monotonic(t *testing.T) {
	// Zones never get easier as scores rise.
	prev := adapter.ZoneForScore(0).Ordinal()
	for score := 1.0; score <= 100; score++ {
		cur := adapter.ZoneForScore(score).Ordinal()
		assert.GreaterOrEqual(t, cur, prev, "zone regressed at score %.0f", score)
		prev = cur
	}
}

func TestClassifyZones_FallbackBelowMinimum(t *testing.T) {
	result := adapter.ClassifyZones(completedSessions(30, 95))

	assert.True(t, result.Fallback())
	assert.Equal(t, adapter.ModeFallback, result.Mode)
	assert.Equal(t, 2, result.SessionsConsidered)
	for _, area := range models.SkillAreas {
		assert.Equal(t, models.ZoneIdeal, result.Zones[area], "fallback puts %s in ideal", area)
	}
	assert.Empty(t, result.Windowed)
}

func TestClassifyZones_IgnoresIncompleteSessions(t *testing.T) {
	score := 90.0
	sessions := []models.Session{
		{Status: models.SessionInProgress, OverallScore: &score},
		completedSession(85),
		completedSession(88),
	}

	result := adapter.ClassifyZones(sessions)

	assert.True(t, result.Fallback(), "in-progress sessions must not count toward the minimum")
	assert.Equal(t, 2, result.SessionsConsidered)
}

func TestClassifyZones_StableHistoryUsesFiveSessionWindow(t *testing.T) {
	result := adapter.ClassifyZones(completedSessions(72, 75, 70, 74, 71, 73, 69))

	require.False(t, result.Fallback())
	assert.Equal(t, adapter.ModeMA5, result.Mode)
	assert.False(t, result.Erratic)
	assert.Equal(t, 5, result.SessionsConsidered, "stable history averages the five most recent sessions")
	assert.Len(t, result.Windowed, 5)
	assert.Equal(t, 72.4, result.AreaAverages[models.AreaGrammar])
	assert.Equal(t, models.ZoneIdeal, result.Zones[models.AreaGrammar])
}

func TestClassifyZones_ErraticHistoryWidensWindow(t *testing.T) {
	result := adapter.ClassifyZones(completedSessions(90, 60, 95, 88, 92, 91, 89))

	require.False(t, result.Fallback())
	assert.Equal(t, adapter.ModeMA7, result.Mode)
	assert.True(t, result.Erratic)
	assert.Equal(t, 7, result.SessionsConsidered)
}

func TestClassifyZones_ErraticShortHistoryUsesAllSessions(t *testing.T) {
	result := adapter.ClassifyZones(completedSessions(90, 60, 95))

	require.False(t, result.Fallback())
	assert.True(t, result.Erratic)
	assert.Equal(t, 3, result.SessionsConsidered, "window cannot exceed available history")
}

func TestClassifyZones_AreaScoreFallsBackToOverall(t *testing.T) {
	grammar := 30.0
	sessions := completedSessions(85, 85, 85)
	sessions[0].GrammarScore = &grammar
	sessions[1].GrammarScore = &grammar
	sessions[2].GrammarScore = &grammar

	result := adapter.ClassifyZones(sessions)

	require.False(t, result.Fallback())
	assert.Equal(t, models.ZoneTooHard, result.Zones[models.AreaGrammar])
	assert.Equal(t, models.ZoneTooEasy, result.Zones[models.AreaVocabulary], "missing area score inherits overall")
}

func TestClassifyZones_MissingAllScoresUsesDefault(t *testing.T) {
	now := time.Now()
	sessions := []models.Session{
		{Status: models.SessionCompleted, CompletedAt: &now},
		{Status: models.SessionCompleted, CompletedAt: &now},
		{Status: models.SessionCompleted, CompletedAt: &now},
	}

	result := adapter.ClassifyZones(sessions)

	require.False(t, result.Fallback())
	for _, area := range models.SkillAreas {
		assert.Equal(t, float64(adapter.DefaultScore), result.AreaAverages[area])
		assert.Equal(t, models.ZoneIdeal, result.Zones[area])
	}
}

func TestClassifyZones_Deterministic(t *testing.T) {
	sessions := completedSessions(55, 62, 48, 70, 66)

	first := adapter.ClassifyZones(sessions)
	second := adapter.ClassifyZones(sessions)

	assert.Equal(t, first.Zones, second.Zones)
	assert.Equal(t, first.AreaAverages, second.AreaAverages)
	assert.Equal(t, first.Mode, second.Mode)
}

func TestSnapshot(t *testing.T) {
	result := adapter.ClassifyZones(completedSessions(72, 75, 70))
	snap := result.Snapshot()

	assert.Equal(t, result.Mode, snap.Mode)
	assert.Equal(t, result.SessionsConsidered, snap.SessionsConsidered)
	assert.Equal(t, result.Zones, snap.NextState)
}
