package models

import "strings"

// DifficultyStep is one of 15 ordered rungs: 5 CEFR bands x {low, mid, high}.
type DifficultyStep int

const (
	MinDifficultyStep DifficultyStep = 0
	MaxDifficultyStep DifficultyStep = 14
)

var difficultySteps = [15]string{
	"A1-low", "A1-mid", "A1-high",
	"A2-low", "A2-mid", "A2-high",
	"B1-low", "B1-mid", "B1-high",
	"B2-low", "B2-mid", "B2-high",
	"C1-low", "C1-mid", "C1-high",
}

// Levels lists the CEFR bands covered by the ladder.
var Levels = []string{"A1", "A2", "B1", "B2", "C1"}

func (s DifficultyStep) String() string {
	return difficultySteps[s.Clamp()]
}

// Clamp bounds the step to the ladder.
func (s DifficultyStep) Clamp() DifficultyStep {
	if s < MinDifficultyStep {
		return MinDifficultyStep
	}
	if s > MaxDifficultyStep {
		return MaxDifficultyStep
	}
	return s
}

// Shift moves the step by delta rungs, clamped to the ladder.
func (s DifficultyStep) Shift(delta int) DifficultyStep {
	return (s + DifficultyStep(delta)).Clamp()
}

// Level returns the CEFR band prefix of the rung, e.g. "B1" for "B1-high".
func (s DifficultyStep) Level() string {
	name := s.String()
	if idx := strings.IndexByte(name, '-'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// ParseDifficultyStep parses a rung name such as "A2-mid".
func ParseDifficultyStep(name string) (DifficultyStep, bool) {
	for i, step := range difficultySteps {
		if step == name {
			return DifficultyStep(i), true
		}
	}
	return 0, false
}

// MidStepForLevel returns the mid rung of a CEFR band. Unknown levels fall
// back to A1, matching the legacy-data tolerance of the analyzer.
func MidStepForLevel(level string) DifficultyStep {
	normalized := strings.ToUpper(strings.TrimSpace(level))
	for i, band := range Levels {
		if band == normalized {
			return DifficultyStep(i*3 + 1)
		}
	}
	return DifficultyStep(1) // A1-mid
}

// NormalizeDifficulty parses a stored rung name, falling back to the mid
// rung of the user's level when the value is missing or malformed.
func NormalizeDifficulty(name string, fallbackLevel string) DifficultyStep {
	if step, ok := ParseDifficultyStep(name); ok {
		return step
	}
	return MidStepForLevel(fallbackLevel)
}
