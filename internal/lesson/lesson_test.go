package lesson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielvr/adaptengine/internal/lesson"
	"github.com/danielvr/adaptengine/internal/models"
)

func TestScoreByAttempts(t *testing.T) {
	assert.Equal(t, 100, lesson.ScoreByAttempts(1, true), "first-try correct")
	assert.Equal(t, 70, lesson.ScoreByAttempts(2, true), "eventual correct")
	assert.Equal(t, 70, lesson.ScoreByAttempts(5, true))
	assert.Equal(t, 40, lesson.ScoreByAttempts(1, false), "incorrect")
	assert.Equal(t, 40, lesson.ScoreByAttempts(3, false))
}

func TestScorePerExercise_KeepsBestScore(t *testing.T) {
	results := []models.ExerciseResult{
		{ExerciseID: "ex1", Score: 40},
		{ExerciseID: "ex1", Score: 100},
		{ExerciseID: "ex1", Score: 70},
		{ExerciseID: "ex2", Score: 70},
	}

	scores := lesson.ScorePerExercise(results)

	assert.Equal(t, 100, scores["ex1"], "a retry never lowers an earlier result")
	assert.Equal(t, 70, scores["ex2"])
}

func TestFinalScore(t *testing.T) {
	assert.Equal(t, 0, lesson.FinalScore(nil))
	assert.Equal(t, 70, lesson.FinalScore(map[string]int{"a": 70}))
	assert.Equal(t, 85, lesson.FinalScore(map[string]int{"a": 100, "b": 70}))
	assert.Equal(t, 70, lesson.FinalScore(map[string]int{"a": 100, "b": 70, "c": 40}))
}

func TestWeakExercises_SortedBelowThreshold(t *testing.T) {
	weak := lesson.WeakExercises(map[string]int{
		"zeta":  40,
		"alpha": 69,
		"ok":    70,
		"good":  100,
	})

	assert.Equal(t, []string{"alpha", "zeta"}, weak, "70 is not weak, 69 is")
}

func TestWeakestArea(t *testing.T) {
	fillBlankWorst := []models.ExerciseResult{
		{ExerciseID: "a", Type: models.ExerciseFlashcard, Score: 100},
		{ExerciseID: "b", Type: models.ExerciseFillBlank, Score: 40},
	}
	assert.Equal(t, models.AreaGrammar, lesson.WeakestArea(fillBlankWorst), "fill-blank weakness reinforces grammar")

	flashcardWorst := []models.ExerciseResult{
		{ExerciseID: "a", Type: models.ExerciseFlashcard, Score: 40},
		{ExerciseID: "b", Type: models.ExerciseFillBlank, Score: 100},
	}
	assert.Equal(t, models.AreaVocabulary, lesson.WeakestArea(flashcardWorst))

	assert.Equal(t, models.AreaGrammar, lesson.WeakestArea(nil), "no results defaults to grammar")
}

func TestWeakestArea_IgnoresUnknownTypes(t *testing.T) {
	results := []models.ExerciseResult{
		{ExerciseID: "a", Type: "essay", Score: 10},
		{ExerciseID: "b", Type: models.ExerciseMultipleChoice, Score: 60},
	}
	assert.Equal(t, models.AreaVocabulary, lesson.WeakestArea(results))
}
