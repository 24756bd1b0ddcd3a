package models

import "time"

// Lesson statuses.
const (
	LessonInProgress = "in_progress"
	LessonCompleted  = "completed"
)

// Lesson exercise types.
const (
	ExerciseFlashcard      = "flashcard"
	ExerciseMultipleChoice = "multiple_choice"
	ExerciseFillBlank      = "fill_blank"
)

// ExerciseResult is one graded exercise inside a completed lesson.
type ExerciseResult struct {
	ExerciseID string `json:"exercise_id"`
	Type       string `json:"type"`
	Attempts   int    `json:"attempts"`
	Correct    bool   `json:"correct"`
	Score      int    `json:"score"`
}

// ReviewScheduleItem schedules a weak lesson exercise for review on the
// fixed interval ladder, keyed per exercise id.
type ReviewScheduleItem struct {
	ExerciseID    string    `json:"exercise_id"`
	Step          int       `json:"step"`
	IntervalHours int       `json:"interval_hours"`
	NextReviewAt  time.Time `json:"next_review_at"`
}

// LessonProgress tracks a user's state for one lesson.
type LessonProgress struct {
	LessonID        string               `json:"lesson_id"`
	UserID          string               `json:"user_id"`
	Status          string               `json:"status"`
	Score           *int                 `json:"score,omitempty"`
	ExerciseResults []ExerciseResult     `json:"exercise_results,omitempty"`
	WeakExercises   []string             `json:"weak_exercises,omitempty"`
	ReviewSchedule  []ReviewScheduleItem `json:"review_schedule,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}
