// Package homework holds the pure parts of the homework queue and deadline
// manager: deterministic ids, deadlines, and the overdue sweep.
package homework

import (
	"fmt"
	"time"

	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/spacedrep"
)

// DeadlineHours is how long a new homework item stays pending before the
// sweep marks it overdue.
const DeadlineHours = 48

// Deadline returns the due time for an item created now.
func Deadline(now time.Time) time.Time {
	return now.Add(DeadlineHours * time.Hour)
}

// SessionItemID builds the deterministic id for session-triggered homework.
// Re-triggering the same weak area for the same session yields the same id.
func SessionItemID(sessionID string, area models.SkillArea) string {
	return fmt.Sprintf("%s_%s", sessionID, area)
}

// LessonItemID builds the deterministic id for lesson-triggered homework.
func LessonItemID(lessonID string) string {
	return "lesson_" + lessonID
}

// SessionContentRef names the reinforcement content for a weak area.
func SessionContentRef(area models.SkillArea, sessionID string) string {
	return fmt.Sprintf("reinforcement:%s:%s", area, sessionID)
}

// LessonContentRef names the reinforcement content for a weak lesson.
func LessonContentRef(lessonID string, area models.SkillArea) string {
	return fmt.Sprintf("lesson:%s:reinforcement:%s", lessonID, area)
}

// NewItem builds a fresh pending homework item at the bottom of the ladder.
func NewItem(id, userID, sourceSessionID string, sourceType models.SkillArea, contentRef string, now time.Time) models.HomeworkItem {
	return models.HomeworkItem{
		ID:              id,
		UserID:          userID,
		SourceSessionID: sourceSessionID,
		SourceType:      sourceType,
		ContentRef:      contentRef,
		Status:          models.HomeworkPending,
		Deadline:        Deadline(now),
		Interval:        spacedrep.IntervalLabels[0],
		RepetitionCount: 0,
		Step:            0,
		Attempts:        0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OverdueAction describes everything the sweep must do for one expired item:
// mark it overdue, decrement adherence, union its content ref into the
// priority queue, and record a schedule alert.
type OverdueAction struct {
	HomeworkID string
	UserID     string
	ContentRef string
}

// SweepOverdue selects the pending items whose deadline has passed. Pure,
// so re-running a sweep over already-marked items yields nothing new.
func SweepOverdue(now time.Time, items []models.HomeworkItem) []OverdueAction {
	var actions []OverdueAction
	for _, item := range items {
		if item.Status != models.HomeworkPending {
			continue
		}
		if item.Deadline.After(now) {
			continue
		}
		actions = append(actions, OverdueAction{
			HomeworkID: item.ID,
			UserID:     item.UserID,
			ContentRef: item.ContentRef,
		})
	}
	return actions
}
