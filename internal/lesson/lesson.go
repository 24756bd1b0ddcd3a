// Package lesson grades completed lesson modules and picks the skill area
// that lesson-triggered homework should reinforce.
package lesson

import (
	"math"
	"sort"

	"github.com/danielvr/adaptengine/internal/models"
)

// WeakScore is the per-exercise threshold below which an exercise needs
// review.
const WeakScore = 70

// ScoreByAttempts grades one objective exercise: full marks on a first-try
// correct answer, passing on a later correct answer, failing otherwise.
func ScoreByAttempts(attempts int, correct bool) int {
	if correct && attempts == 1 {
		return 100
	}
	if correct {
		return 70
	}
	return 40
}

// ScorePerExercise keeps the best score per exercise id, so a retry cannot
// lower an earlier result.
func ScorePerExercise(results []models.ExerciseResult) map[string]int {
	scores := make(map[string]int, len(results))
	for _, r := range results {
		if prev, ok := scores[r.ExerciseID]; !ok || r.Score > prev {
			scores[r.ExerciseID] = r.Score
		}
	}
	return scores
}

// FinalScore is the rounded mean over the per-exercise scores; an empty
// lesson scores zero.
func FinalScore(scores map[string]int) int {
	if len(scores) == 0 {
		return 0
	}
	var total int
	for _, s := range scores {
		total += s
	}
	return int(math.Round(float64(total) / float64(len(scores))))
}

// WeakExercises returns the exercise ids scoring below the weak threshold,
// sorted for deterministic output.
func WeakExercises(scores map[string]int) []string {
	var weak []string
	for id, score := range scores {
		if score < WeakScore {
			weak = append(weak, id)
		}
	}
	sort.Strings(weak)
	return weak
}

// WeakestArea maps the lowest-scoring exercise onto the skill area its
// homework should target: fill-blank exercises reinforce grammar, the rest
// reinforce vocabulary.
func WeakestArea(results []models.ExerciseResult) models.SkillArea {
	weakestType := models.ExerciseFillBlank
	weakestScore := math.MaxInt
	for _, r := range results {
		switch r.Type {
		case models.ExerciseFlashcard, models.ExerciseMultipleChoice, models.ExerciseFillBlank:
		default:
			continue
		}
		if r.Score < weakestScore {
			weakestType = r.Type
			weakestScore = r.Score
		}
	}
	if weakestType == models.ExerciseFillBlank {
		return models.AreaGrammar
	}
	return models.AreaVocabulary
}
