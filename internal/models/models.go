package models

import "time"

// SkillArea identifies an independently tracked competency.
type SkillArea string

const (
	AreaGrammar       SkillArea = "grammar"
	AreaPronunciation SkillArea = "pronunciation"
	AreaVocabulary    SkillArea = "vocabulary"
)

// SkillAreas lists every tracked area in a stable order.
var SkillAreas = []SkillArea{AreaGrammar, AreaPronunciation, AreaVocabulary}

// Valid reports whether the area is one of the known skill areas.
func (a SkillArea) Valid() bool {
	switch a {
	case AreaGrammar, AreaPronunciation, AreaVocabulary:
		return true
	}
	return false
}

// PerformanceZone classifies a score band. It is always recomputed from
// session scores, never treated as ground truth.
type PerformanceZone string

const (
	ZoneTooEasy PerformanceZone = "tooEasy"
	ZoneIdeal   PerformanceZone = "ideal"
	ZoneTooHard PerformanceZone = "tooHard"
)

// Ordinal maps a zone onto the easy/hard axis: tooHard < ideal < tooEasy.
func (z PerformanceZone) Ordinal() int {
	switch z {
	case ZoneTooHard:
		return 0
	case ZoneTooEasy:
		return 2
	default:
		return 1
	}
}

// Adjustment labels the descriptive zone movement recorded in history.
type Adjustment string

const (
	AdjustmentIncreased  Adjustment = "increased"
	AdjustmentMaintained Adjustment = "maintained"
	AdjustmentDecreased  Adjustment = "decreased"
)

// CompareZones derives the adjustment label from the zone ordinals.
func CompareZones(previous, next PerformanceZone) Adjustment {
	switch {
	case next.Ordinal() > previous.Ordinal():
		return AdjustmentIncreased
	case next.Ordinal() < previous.Ordinal():
		return AdjustmentDecreased
	default:
		return AdjustmentMaintained
	}
}

// Session statuses.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// Session is a single completed or in-flight practice session. Per-area
// scores are optional: a missing score falls back to the overall score,
// which itself falls back to 70 when absent.
type Session struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	OverallScore       *float64   `json:"overall_score"`
	GrammarScore       *float64   `json:"grammar_score"`
	PronunciationScore *float64   `json:"pronunciation_score"`
	VocabularyScore    *float64   `json:"vocabulary_score"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// AdapterState holds the per-area zone and difficulty for one user.
type AdapterState struct {
	Zones      map[SkillArea]PerformanceZone `json:"zones"`
	Difficulty map[SkillArea]DifficultyStep  `json:"difficulty"`
}

// BaselineState returns the neutral state used before enough sessions exist:
// every area sits in the ideal zone at the mid rung of the given level.
func BaselineState(level string) AdapterState {
	state := AdapterState{
		Zones:      make(map[SkillArea]PerformanceZone, len(SkillAreas)),
		Difficulty: make(map[SkillArea]DifficultyStep, len(SkillAreas)),
	}
	for _, area := range SkillAreas {
		state.Zones[area] = ZoneIdeal
		state.Difficulty[area] = MidStepForLevel(level)
	}
	return state
}

// AdapterSnapshot is the audit annotation written back onto the session
// that triggered an adaptation pass.
type AdapterSnapshot struct {
	Mode               string                        `json:"mode"`
	SessionsConsidered int                           `json:"sessions_considered"`
	AreaAverages       map[SkillArea]float64         `json:"area_averages,omitempty"`
	NextState          map[SkillArea]PerformanceZone `json:"next_state"`
}

// AdaptationEntry is one append-only history record. Area is a skill area,
// or "all" for a diagnostic reset.
type AdaptationEntry struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	TriggerSessionID string          `json:"trigger_session_id,omitempty"`
	Area             string          `json:"area"`
	Zone             PerformanceZone `json:"zone"`
	PreviousZone     PerformanceZone `json:"previous_zone"`
	Adjustment       Adjustment      `json:"adjustment"`
	Reason           string          `json:"reason"`
	RecentAccuracy   *float64        `json:"recent_accuracy,omitempty"`
	ZoneStreak       *int            `json:"zone_streak,omitempty"`
	DifficultyBefore DifficultyStep  `json:"difficulty_before"`
	DifficultyAfter  DifficultyStep  `json:"difficulty_after"`
	CreatedAt        time.Time       `json:"created_at"`
}

// UserProfile is the per-user aggregate the engine mutates.
type UserProfile struct {
	ID             string    `json:"id"`
	Level          string    `json:"level"`
	AdherenceScore float64   `json:"adherence_score"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ScheduleAlert is emitted for downstream notification delivery; the engine
// only records it.
type ScheduleAlert struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Reason     string    `json:"reason"`
	ContentRef string    `json:"content_ref,omitempty"`
	HomeworkID string    `json:"homework_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
