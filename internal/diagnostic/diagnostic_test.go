package diagnostic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielvr/adaptengine/internal/diagnostic"
	"github.com/danielvr/adaptengine/internal/models"
)

var base = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestOverallScore_Weighted(t *testing.T) {
	// 0.3*50 + 0.3*70 + 0.4*80 = 68
	assert.Equal(t, 68, diagnostic.OverallScore(50, 70, 80))
	assert.Equal(t, 0, diagnostic.OverallScore(0, 0, 0))
	assert.Equal(t, 100, diagnostic.OverallScore(100, 100, 100))
}

func TestScoreToLevel_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		level string
	}{
		{0, "A1"},
		{20, "A1"},
		{21, "A2"},
		{40, "A2"},
		{41, "B1"},
		{60, "B1"},
		{61, "B2"},
		{80, "B2"},
		{81, "C1"},
		{100, "C1"},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, diagnostic.ScoreToLevel(c.score), "score %d", c.score)
	}
}

func TestStrengthsAndWeaknesses(t *testing.T) {
	strengths := diagnostic.Strengths(75, 40, 90)
	assert.Equal(t, []string{"solid grammar", "good pronunciation"}, strengths)

	weaknesses := diagnostic.Weaknesses(75, 40, 90)
	assert.Equal(t, []string{"listening comprehension needs practice"}, weaknesses)

	assert.Empty(t, diagnostic.Strengths(0, 0, 0))
	assert.Empty(t, diagnostic.Weaknesses(100, 100, 100))
}

func TestResetOnDiagnostic_LevelChangeResetsToMidRung(t *testing.T) {
	previous := map[models.SkillArea]models.DifficultyStep{
		models.AreaGrammar:       8, // B1-high
		models.AreaPronunciation: 7,
		models.AreaVocabulary:    6,
	}

	result := diagnostic.ResetOnDiagnostic("A2", previous, base)

	require.True(t, result.Applied)
	for _, area := range models.SkillAreas {
		assert.Equal(t, models.ZoneIdeal, result.State.Zones[area])
		assert.Equal(t, "A2-mid", result.State.Difficulty[area].String())
	}
	assert.Equal(t, "all", result.Entry.Area)
	assert.Equal(t, diagnostic.ResetReason, result.Entry.Reason)
	assert.Equal(t, "B1-high", result.Entry.DifficultyBefore.String())
	assert.Equal(t, "A2-mid", result.Entry.DifficultyAfter.String())
	assert.Equal(t, models.AdjustmentMaintained, result.Entry.Adjustment)
}

func TestResetOnDiagnostic_SameLevelIsNoOp(t *testing.T) {
	previous := map[models.SkillArea]models.DifficultyStep{
		models.AreaGrammar:       8, // B1-high
		models.AreaPronunciation: 7,
		models.AreaVocabulary:    6,
	}

	result := diagnostic.ResetOnDiagnostic("B1", previous, base)

	assert.False(t, result.Applied, "a diagnostic confirming the current band must not erase progress")
}
