package models

import "time"

// Diagnostic statuses.
const (
	DiagnosticInProgress = "in_progress"
	DiagnosticCompleted  = "completed"
)

// Diagnostic is a placement test. Completing one assigns a CEFR level and
// may reset the adapter state.
type Diagnostic struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Status             string     `json:"status"`
	GrammarScore       int        `json:"grammar_score"`
	ListeningScore     int        `json:"listening_score"`
	PronunciationScore int        `json:"pronunciation_score"`
	OverallScore       *int       `json:"overall_score,omitempty"`
	LevelAssigned      string     `json:"level_assigned,omitempty"`
	Strengths          []string   `json:"strengths,omitempty"`
	Weaknesses         []string   `json:"weaknesses,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
