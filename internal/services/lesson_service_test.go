package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/testutil/mocks"
)

type lessonServiceMocks struct {
	lessons   *mocks.MockLessonRepository
	homeworks *mocks.MockHomeworkRepository
	profiles  *mocks.MockProfileRepository
}

func newLessonServiceForTest() (*lessonService, lessonServiceMocks) {
	m := lessonServiceMocks{
		lessons:   new(mocks.MockLessonRepository),
		homeworks: new(mocks.MockHomeworkRepository),
		profiles:  new(mocks.MockProfileRepository),
	}
	svc := &lessonService{
		lessons:   m.lessons,
		homeworks: m.homeworks,
		profiles:  m.profiles,
		locks:     NewUserLocks(),
		now:       func() time.Time { return testNow },
	}
	return svc, m
}

func TestLessonComplete_GradesAndSchedulesWeakExercises(t *testing.T) {
	svc, m := newLessonServiceForTest()

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.lessons.On("Get", mock.Anything, "u1", "lesson1").Return(nil, nil)
	m.lessons.On("SaveCompletion", mock.Anything, mock.Anything).Return(nil)

	results := []models.ExerciseResult{
		{ExerciseID: "e1", Type: models.ExerciseFlashcard, Attempts: 1, Correct: true},
		{ExerciseID: "e2", Type: models.ExerciseMultipleChoice, Attempts: 2, Correct: true},
		{ExerciseID: "e3", Type: models.ExerciseFillBlank, Attempts: 3, Correct: false},
	}

	progress, err := svc.Complete(context.Background(), "u1", "lesson1", results)
	require.NoError(t, err)

	// Scores 100, 70, 40 average to 70, on the passing side of the weak
	// threshold, so no homework gets queued.
	require.NotNil(t, progress.Score)
	assert.Equal(t, 70, *progress.Score)
	assert.Equal(t, models.LessonCompleted, progress.Status)
	assert.Equal(t, []string{"e3"}, progress.WeakExercises)

	require.Len(t, progress.ReviewSchedule, 1)
	item := progress.ReviewSchedule[0]
	assert.Equal(t, "e3", item.ExerciseID)
	assert.Equal(t, 0, item.Step)
	assert.Equal(t, 1, item.IntervalHours)
	assert.Equal(t, testNow.Add(time.Hour), item.NextReviewAt)

	m.homeworks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLessonComplete_WeakLessonQueuesHomework(t *testing.T) {
	svc, m := newLessonServiceForTest()

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.lessons.On("Get", mock.Anything, "u1", "lesson1").Return(nil, nil)
	m.lessons.On("SaveCompletion", mock.Anything, mock.Anything).Return(nil)
	m.homeworks.On("Create", mock.Anything, mock.MatchedBy(func(item models.HomeworkItem) bool {
		return item.ID == "lesson_lesson1" && item.SourceType == models.AreaGrammar
	})).Return(true, nil)
	m.profiles.On("QueueAdd", mock.Anything, "u1", mock.Anything).Return(nil)

	// Both exercises fail; the fill-blank one is weakest, so the homework
	// targets grammar.
	results := []models.ExerciseResult{
		{ExerciseID: "e1", Type: models.ExerciseFlashcard, Attempts: 2, Correct: true},
		{ExerciseID: "e2", Type: models.ExerciseFillBlank, Attempts: 3, Correct: false},
	}

	progress, err := svc.Complete(context.Background(), "u1", "lesson1", results)
	require.NoError(t, err)
	require.NotNil(t, progress.Score)
	assert.Equal(t, 55, *progress.Score)
	m.homeworks.AssertExpectations(t)
}

func TestLessonComplete_RetryAdvancesReviewStep(t *testing.T) {
	svc, m := newLessonServiceForTest()

	existing := &models.LessonProgress{
		LessonID: "lesson1",
		UserID:   "u1",
		Status:   models.LessonInProgress,
		ReviewSchedule: []models.ReviewScheduleItem{
			{ExerciseID: "e1", Step: 1, IntervalHours: 24},
		},
	}

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.lessons.On("Get", mock.Anything, "u1", "lesson1").Return(existing, nil)
	m.lessons.On("SaveCompletion", mock.Anything, mock.Anything).Return(nil)
	m.homeworks.On("Create", mock.Anything, mock.Anything).Return(true, nil)
	m.profiles.On("QueueAdd", mock.Anything, "u1", mock.Anything).Return(nil)

	results := []models.ExerciseResult{
		{ExerciseID: "e1", Type: models.ExerciseFlashcard, Attempts: 2, Correct: false},
	}

	progress, err := svc.Complete(context.Background(), "u1", "lesson1", results)
	require.NoError(t, err)
	require.Len(t, progress.ReviewSchedule, 1)
	assert.Equal(t, 2, progress.ReviewSchedule[0].Step)
	assert.Equal(t, 72, progress.ReviewSchedule[0].IntervalHours)
}

func TestLessonComplete_AlreadyCompleted(t *testing.T) {
	svc, m := newLessonServiceForTest()

	done := &models.LessonProgress{LessonID: "lesson1", UserID: "u1", Status: models.LessonCompleted}
	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.lessons.On("Get", mock.Anything, "u1", "lesson1").Return(done, nil)

	_, err := svc.Complete(context.Background(), "u1", "lesson1", []models.ExerciseResult{
		{ExerciseID: "e1", Type: models.ExerciseFlashcard, Attempts: 1, Correct: true},
	})
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeConflict, appErr.Code)
	m.lessons.AssertNotCalled(t, "SaveCompletion", mock.Anything, mock.Anything)
}

func TestLessonComplete_Validation(t *testing.T) {
	svc, _ := newLessonServiceForTest()

	cases := []struct {
		name    string
		results []models.ExerciseResult
	}{
		{"empty results", nil},
		{"missing exercise id", []models.ExerciseResult{{Type: models.ExerciseFlashcard, Attempts: 1}}},
		{"zero attempts", []models.ExerciseResult{{ExerciseID: "e1", Type: models.ExerciseFlashcard, Attempts: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Complete(context.Background(), "u1", "lesson1", tc.results)
			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		})
	}
}

func TestLessonComplete_ClientScoresAreIgnored(t *testing.T) {
	svc, m := newLessonServiceForTest()

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.lessons.On("Get", mock.Anything, "u1", "lesson1").Return(nil, nil)
	m.lessons.On("SaveCompletion", mock.Anything, mock.Anything).Return(nil)

	// The reported score of 5 must be overwritten by the server-side grade.
	results := []models.ExerciseResult{
		{ExerciseID: "e1", Type: models.ExerciseFlashcard, Attempts: 1, Correct: true, Score: 5},
	}

	progress, err := svc.Complete(context.Background(), "u1", "lesson1", results)
	require.NoError(t, err)
	require.NotNil(t, progress.Score)
	assert.Equal(t, 100, *progress.Score)
}
