// Package adapter implements the performance-window analyzer and the
// difficulty-ladder controller. Everything here is a pure function over
// session history; callers persist the results.
package adapter

import (
	"math"

	"github.com/danielvr/adaptengine/internal/models"
)

const (
	// MinSessions is the number of completed sessions required before any
	// adaptation happens.
	MinSessions = 3
	// WindowDefault and WindowErratic are the two statistical window sizes.
	WindowDefault = 5
	WindowErratic = 7
	// erraticDelta is the adjacent-score jump that marks a history erratic.
	erraticDelta = 20
	// DefaultScore substitutes for sessions missing every score field.
	DefaultScore = 70
)

// Analyzer modes, recorded on the session snapshot.
const (
	ModeFallback = "diagnostic_fallback"
	ModeMA5      = "moving_average_5"
	ModeMA7      = "moving_average_7"
)

// ZoneResult is the outcome of one analyzer pass.
type ZoneResult struct {
	Mode               string
	Erratic            bool
	SessionsConsidered int
	AreaAverages       map[models.SkillArea]float64
	Zones              map[models.SkillArea]models.PerformanceZone
	Windowed           []models.Session
}

// Fallback reports whether the pass produced only the baseline state.
func (r ZoneResult) Fallback() bool {
	return r.Mode == ModeFallback
}

// Snapshot converts the result into the audit annotation for the trigger
// session.
func (r ZoneResult) Snapshot() models.AdapterSnapshot {
	return models.AdapterSnapshot{
		Mode:               r.Mode,
		SessionsConsidered: r.SessionsConsidered,
		AreaAverages:       r.AreaAverages,
		NextState:          r.Zones,
	}
}

// ZoneForScore classifies a score: >80 tooEasy, 60-80 ideal, <60 tooHard.
func ZoneForScore(score float64) models.PerformanceZone {
	switch {
	case score > 80:
		return models.ZoneTooEasy
	case score >= 60:
		return models.ZoneIdeal
	default:
		return models.ZoneTooHard
	}
}

// OverallScore returns the session's overall score with the documented
// fallback for missing or non-finite values.
func OverallScore(s models.Session) float64 {
	return safeScore(s.OverallScore, DefaultScore)
}

// AreaScore returns the session's score for one area, falling back to the
// overall score and finally to the default.
func AreaScore(s models.Session, area models.SkillArea) float64 {
	overall := OverallScore(s)
	switch area {
	case models.AreaGrammar:
		return safeScore(s.GrammarScore, overall)
	case models.AreaPronunciation:
		return safeScore(s.PronunciationScore, overall)
	default:
		return safeScore(s.VocabularyScore, overall)
	}
}

func safeScore(value *float64, fallback float64) float64 {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return fallback
	}
	return *value
}

// ClassifyZones runs the analyzer over a user's session history, ordered
// most-recent-first. With fewer than MinSessions completed sessions it emits
// the baseline (every area ideal) and performs no windowing.
func ClassifyZones(sessions []models.Session) ZoneResult {
	recent := recentCompleted(sessions)

	if len(recent) < MinSessions {
		zones := make(map[models.SkillArea]models.PerformanceZone, len(models.SkillAreas))
		for _, area := range models.SkillAreas {
			zones[area] = models.ZoneIdeal
		}
		return ZoneResult{
			Mode:               ModeFallback,
			SessionsConsidered: len(recent),
			Zones:              zones,
		}
	}

	overall := make([]float64, len(recent))
	for i, s := range recent {
		overall[i] = OverallScore(s)
	}
	erratic := isErratic(overall)

	windowSize := WindowDefault
	if erratic {
		windowSize = WindowErratic
	}
	if windowSize > len(recent) {
		windowSize = len(recent)
	}
	windowed := recent[:windowSize]

	averages := make(map[models.SkillArea]float64, len(models.SkillAreas))
	zones := make(map[models.SkillArea]models.PerformanceZone, len(models.SkillAreas))
	for _, area := range models.SkillAreas {
		avg := average(areaScores(windowed, area))
		averages[area] = avg
		zones[area] = ZoneForScore(avg)
	}

	mode := ModeMA5
	if erratic {
		mode = ModeMA7
	}
	return ZoneResult{
		Mode:               mode,
		Erratic:            erratic,
		SessionsConsidered: len(windowed),
		AreaAverages:       averages,
		Zones:              zones,
		Windowed:           windowed,
	}
}

// recentCompleted keeps completed sessions in order and caps the set at the
// erratic window size. The windowed set is always a prefix of this set.
func recentCompleted(sessions []models.Session) []models.Session {
	out := make([]models.Session, 0, WindowErratic)
	for _, s := range sessions {
		if s.Status != models.SessionCompleted || s.CompletedAt == nil {
			continue
		}
		out = append(out, s)
		if len(out) == WindowErratic {
			break
		}
	}
	return out
}

// isErratic reports whether any two adjacent scores differ by more than the
// erratic delta. Short sequences are never erratic.
func isErratic(scores []float64) bool {
	if len(scores) < 3 {
		return false
	}
	for i := 1; i < len(scores); i++ {
		if math.Abs(scores[i-1]-scores[i]) > erraticDelta {
			return true
		}
	}
	return false
}

func areaScores(sessions []models.Session, area models.SkillArea) []float64 {
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		scores[i] = AreaScore(s, area)
	}
	return scores
}

// average rounds to one decimal place to keep stored accuracies stable.
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return math.Round(total/float64(len(values))*10) / 10
}
