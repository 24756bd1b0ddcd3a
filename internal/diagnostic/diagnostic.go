// Package diagnostic scores placement tests and drives the adapter reset
// that follows a level change.
package diagnostic

import (
	"math"
	"time"

	"github.com/danielvr/adaptengine/internal/models"
)

// Weighted contribution of each diagnostic section to the overall score.
const (
	grammarWeight       = 0.3
	listeningWeight     = 0.3
	pronunciationWeight = 0.4
)

// ResetReason tags the history entry appended by a diagnostic reset.
const ResetReason = "diagnostic_level_reset"

// OverallScore combines the section scores with the fixed weights.
func OverallScore(grammar, listening, pronunciation int) int {
	return int(math.Round(
		float64(grammar)*grammarWeight +
			float64(listening)*listeningWeight +
			float64(pronunciation)*pronunciationWeight))
}

// ScoreToLevel maps an overall score onto a CEFR band. Boundaries belong to
// the lower level.
func ScoreToLevel(score int) string {
	switch {
	case score <= 20:
		return "A1"
	case score <= 40:
		return "A2"
	case score <= 60:
		return "B1"
	case score <= 80:
		return "B2"
	default:
		return "C1"
	}
}

// Strengths lists the sections the learner already handles well.
func Strengths(grammar, listening, pronunciation int) []string {
	var out []string
	if grammar >= 70 {
		out = append(out, "solid grammar")
	}
	if listening >= 70 {
		out = append(out, "good listening comprehension")
	}
	if pronunciation >= 70 {
		out = append(out, "good pronunciation")
	}
	return out
}

// Weaknesses lists the sections needing attention.
func Weaknesses(grammar, listening, pronunciation int) []string {
	var out []string
	if grammar < 50 {
		out = append(out, "grammar needs attention")
	}
	if listening < 50 {
		out = append(out, "listening comprehension needs practice")
	}
	if pronunciation < 50 {
		out = append(out, "pronunciation needs attention")
	}
	return out
}

// ResetResult is the adapter state to install after a level change.
type ResetResult struct {
	Applied bool
	State   models.AdapterState
	Entry   models.AdaptationEntry
}

// ResetOnDiagnostic decides whether a newly assigned level resets the
// adapter. The current level is read off the grammar rung's band prefix;
// a matching prefix makes the whole reset a no-op.
func ResetOnDiagnostic(newLevel string, previous map[models.SkillArea]models.DifficultyStep, now time.Time) ResetResult {
	current := previous[models.AreaGrammar]
	if current.Level() == newLevel {
		return ResetResult{}
	}

	state := models.BaselineState(newLevel)
	return ResetResult{
		Applied: true,
		State:   state,
		Entry: models.AdaptationEntry{
			Area:             "all",
			Zone:             models.ZoneIdeal,
			PreviousZone:     models.ZoneIdeal,
			Adjustment:       models.AdjustmentMaintained,
			Reason:           ResetReason,
			DifficultyBefore: current,
			DifficultyAfter:  models.MidStepForLevel(newLevel),
			CreatedAt:        now,
		},
	}
}
