// Package spacedrep implements the fixed-ladder spaced-repetition engine
// shared by homework items and lesson-exercise review scheduling.
package spacedrep

import (
	"time"

	"github.com/danielvr/adaptengine/internal/models"
)

// IntervalLabels names the five ladder rungs.
var IntervalLabels = [5]string{"1h", "1d", "3d", "7d", "30d"}

// intervalHours holds the rung durations: 1h, 24h, 72h, 168h, 720h.
var intervalHours = [5]int{1, 24, 72, 168, 720}

const (
	// PassingScore separates success from failure on a completion.
	PassingScore = 70
	// MaxStep is the final ladder rung.
	MaxStep = 4
	// masteryRepetitions is the pass count after which another passing
	// completion masters the item.
	masteryRepetitions = 5
)

// Result is the next schedule for a homework item after a completion.
type Result struct {
	Status          models.HomeworkStatus
	Interval        string
	Step            int
	RepetitionCount int
	NextReviewAt    *time.Time
}

// IntervalDuration returns the duration of a ladder rung, clamping
// out-of-range steps.
func IntervalDuration(step int) time.Duration {
	return time.Duration(intervalHours[clampStep(step)]) * time.Hour
}

func clampStep(step int) int {
	if step < 0 {
		return 0
	}
	if step > MaxStep {
		return MaxStep
	}
	return step
}

// Advance computes the next repetition state for a homework item completed
// with the given score.
//
// A failing score restarts the curve at the 1h rung; the attempt still
// counts as one repetition. A passing score moves the item one rung up the
// ladder, and once the ladder is exhausted the next passing score masters
// the item, ending its review schedule.
func Advance(repetitionCount, score int, now time.Time) Result {
	if score < PassingScore {
		next := now.Add(IntervalDuration(0))
		return Result{
			Status:          models.HomeworkPending,
			Interval:        IntervalLabels[0],
			Step:            0,
			RepetitionCount: 1,
			NextReviewAt:    &next,
		}
	}

	if repetitionCount >= masteryRepetitions {
		return Result{
			Status:          models.HomeworkMastered,
			Interval:        IntervalLabels[MaxStep],
			Step:            MaxStep,
			RepetitionCount: repetitionCount + 1,
		}
	}

	step := clampStep(repetitionCount)
	next := now.Add(IntervalDuration(step))
	return Result{
		Status:          models.HomeworkCompleted,
		Interval:        IntervalLabels[step],
		Step:            step,
		RepetitionCount: repetitionCount + 1,
		NextReviewAt:    &next,
	}
}

// NextStep advances a lesson-exercise review step by exactly one rung.
// Exercises with no prior step start at the bottom; the score magnitude is
// irrelevant, only the weak classification matters.
func NextStep(previous int, known bool) int {
	if !known {
		return 0
	}
	return clampStep(previous + 1)
}

// BuildReviewSchedule schedules every weak exercise of a lesson on the
// ladder, keyed per exercise id.
func BuildReviewSchedule(weakExerciseIDs []string, previousSteps map[string]int, now time.Time) []models.ReviewScheduleItem {
	items := make([]models.ReviewScheduleItem, 0, len(weakExerciseIDs))
	for _, id := range weakExerciseIDs {
		prev, ok := previousSteps[id]
		step := NextStep(prev, ok)
		items = append(items, models.ReviewScheduleItem{
			ExerciseID:    id,
			Step:          step,
			IntervalHours: intervalHours[step],
			NextReviewAt:  now.Add(IntervalDuration(step)),
		})
	}
	return items
}
