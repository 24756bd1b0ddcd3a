package adapter

import (
	"github.com/danielvr/adaptengine/internal/models"
)

// StreakThreshold is the hysteresis gate: the difficulty rung only moves
// after this many consecutive sessions land in the same zone.
const StreakThreshold = 3

// HomeworkThreshold is the windowed average below which an area gets
// reinforcement homework queued.
const HomeworkThreshold = 70

// DifficultyResult is the outcome of one ladder-controller pass.
type DifficultyResult struct {
	Next    map[models.SkillArea]models.DifficultyStep
	Streaks map[models.SkillArea]int
}

// ZoneSequences computes the per-session zone for every windowed session,
// most-recent-first, per area. These individual zones drive the streak rule
// and are deliberately distinct from the averaged zone of ClassifyZones.
func ZoneSequences(windowed []models.Session) map[models.SkillArea][]models.PerformanceZone {
	seqs := make(map[models.SkillArea][]models.PerformanceZone, len(models.SkillAreas))
	for _, area := range models.SkillAreas {
		zones := make([]models.PerformanceZone, len(windowed))
		for i, s := range windowed {
			zones[i] = ZoneForScore(AreaScore(s, area))
		}
		seqs[area] = zones
	}
	return seqs
}

// LeadingStreak counts identical zones from the head of the sequence.
func LeadingStreak(zones []models.PerformanceZone) int {
	if len(zones) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(zones); i++ {
		if zones[i] != zones[0] {
			break
		}
		streak++
	}
	return streak
}

// ShiftDelta returns the rung movement for a zone sequence: +1 after a
// tooEasy streak, -1 after a tooHard streak, 0 otherwise.
func ShiftDelta(zones []models.PerformanceZone) int {
	if len(zones) < StreakThreshold {
		return 0
	}
	if LeadingStreak(zones) < StreakThreshold {
		return 0
	}
	switch zones[0] {
	case models.ZoneTooEasy:
		return 1
	case models.ZoneTooHard:
		return -1
	default:
		return 0
	}
}

// ComputeDifficultyShift applies the streak rule per area against the
// previous difficulty map. Pure: identical inputs always yield identical
// output.
func ComputeDifficultyShift(
	sequences map[models.SkillArea][]models.PerformanceZone,
	previous map[models.SkillArea]models.DifficultyStep,
) DifficultyResult {
	result := DifficultyResult{
		Next:    make(map[models.SkillArea]models.DifficultyStep, len(models.SkillAreas)),
		Streaks: make(map[models.SkillArea]int, len(models.SkillAreas)),
	}
	for _, area := range models.SkillAreas {
		zones := sequences[area]
		result.Streaks[area] = LeadingStreak(zones)
		result.Next[area] = previous[area].Shift(ShiftDelta(zones))
	}
	return result
}
