package models

import "time"

// HomeworkStatus is the lifecycle state of a homework item.
type HomeworkStatus string

const (
	HomeworkPending   HomeworkStatus = "pending"
	HomeworkOverdue   HomeworkStatus = "overdue"
	HomeworkCompleted HomeworkStatus = "completed"
	HomeworkMastered  HomeworkStatus = "mastered"
)

// HomeworkItem is a scheduled reinforcement task with its own deadline and
// spaced-repetition state. The id is deterministic (trigger session + area,
// or lesson id) so re-triggering the same weak area never duplicates it.
type HomeworkItem struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	SourceSessionID string         `json:"source_session_id"`
	SourceType      SkillArea      `json:"source_type"`
	ContentRef      string         `json:"content_ref"`
	Status          HomeworkStatus `json:"status"`
	Score           *int           `json:"score,omitempty"`
	Deadline        time.Time      `json:"deadline"`
	Interval        string         `json:"interval"`
	RepetitionCount int            `json:"repetition_count"`
	Step            int            `json:"step"`
	NextReviewAt    *time.Time     `json:"next_review_at,omitempty"`
	Attempts        int            `json:"attempts"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	MasteredAt      *time.Time     `json:"mastered_at,omitempty"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Processed reports whether the spaced-repetition transition already ran for
// the current completion event.
func (h HomeworkItem) Processed() bool {
	return h.ProcessedAt != nil
}
