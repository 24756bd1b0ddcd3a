package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/danielvr/adaptengine/internal/adapter"
	apperrors "github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/testutil/mocks"
)

type adapterServiceMocks struct {
	adapters  *mocks.MockAdapterRepository
	sessions  *mocks.MockSessionRepository
	profiles  *mocks.MockProfileRepository
	homeworks *mocks.MockHomeworkRepository
}

func newAdapterServiceForTest() (*adapterService, adapterServiceMocks) {
	m := adapterServiceMocks{
		adapters:  new(mocks.MockAdapterRepository),
		sessions:  new(mocks.MockSessionRepository),
		profiles:  new(mocks.MockProfileRepository),
		homeworks: new(mocks.MockHomeworkRepository),
	}
	svc := &adapterService{
		adapters:     m.adapters,
		sessions:     m.sessions,
		profiles:     m.profiles,
		homeworks:    m.homeworks,
		locks:        NewUserLocks(),
		sessionLimit: 15,
		now:          func() time.Time { return testNow },
	}
	return svc, m
}

func scoredSession(id string, overall, grammar, pronunciation, vocabulary float64) models.Session {
	completed := testNow.Add(-time.Hour)
	return models.Session{
		ID:                 id,
		UserID:             "u1",
		Type:               "practice",
		Status:             models.SessionCompleted,
		OverallScore:       &overall,
		GrammarScore:       &grammar,
		PronunciationScore: &pronunciation,
		VocabularyScore:    &vocabulary,
		CompletedAt:        &completed,
	}
}

func stableRecent(n int) []models.Session {
	sessions := make([]models.Session, 0, n)
	for i := 0; i < n; i++ {
		sessions = append(sessions, scoredSession("s"+string(rune('a'+i)), 65, 50, 75, 72))
	}
	return sessions
}

func b1Profile() *models.UserProfile {
	return &models.UserProfile{ID: "u1", Level: "B1"}
}

func TestHandleSessionCompleted_FallbackInstallsBaselineOnce(t *testing.T) {
	svc, m := newAdapterServiceForTest()
	trigger := scoredSession("s1", 65, 50, 75, 72)

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.sessions.On("RecentCompleted", mock.Anything, "u1", 15).Return([]models.Session{trigger}, nil)
	m.adapters.On("State", mock.Anything, "u1").Return(nil, nil)
	m.adapters.On("ApplyAdaptation", mock.Anything, "u1", mock.MatchedBy(func(state models.AdapterState) bool {
		return state.Zones[models.AreaGrammar] == models.ZoneIdeal &&
			state.Difficulty[models.AreaGrammar].String() == "B1-mid"
	}), []models.AdaptationEntry(nil)).Return(nil)
	m.sessions.On("Annotate", mock.Anything, "u1", "s1", mock.MatchedBy(func(snap models.AdapterSnapshot) bool {
		return snap.Mode == adapter.ModeFallback && snap.SessionsConsidered == 1
	})).Return(nil)

	err := svc.HandleSessionCompleted(context.Background(), trigger)
	require.NoError(t, err)
	m.adapters.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
	m.homeworks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleSessionCompleted_FallbackKeepsExistingState(t *testing.T) {
	svc, m := newAdapterServiceForTest()
	trigger := scoredSession("s1", 65, 50, 75, 72)
	existing := models.BaselineState("A2")

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.sessions.On("RecentCompleted", mock.Anything, "u1", 15).Return([]models.Session{trigger}, nil)
	m.adapters.On("State", mock.Anything, "u1").Return(&existing, nil)
	m.sessions.On("Annotate", mock.Anything, "u1", "s1", mock.Anything).Return(nil)

	err := svc.HandleSessionCompleted(context.Background(), trigger)
	require.NoError(t, err)
	m.adapters.AssertNotCalled(t, "ApplyAdaptation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSessionCompleted_FullPassShiftsAndQueuesHomework(t *testing.T) {
	svc, m := newAdapterServiceForTest()
	recent := stableRecent(5)
	trigger := recent[0]

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.sessions.On("RecentCompleted", mock.Anything, "u1", 15).Return(recent, nil)
	m.adapters.On("State", mock.Anything, "u1").Return(nil, nil)

	var applied models.AdapterState
	var entries []models.AdaptationEntry
	m.adapters.On("ApplyAdaptation", mock.Anything, "u1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			applied = args.Get(2).(models.AdapterState)
			entries = args.Get(3).([]models.AdaptationEntry)
		}).Return(nil)
	m.sessions.On("Annotate", mock.Anything, "u1", trigger.ID, mock.MatchedBy(func(snap models.AdapterSnapshot) bool {
		return snap.Mode == adapter.ModeMA5 && snap.SessionsConsidered == 5
	})).Return(nil)

	// Grammar averages 50, below the homework threshold.
	m.homeworks.On("Create", mock.Anything, mock.MatchedBy(func(item models.HomeworkItem) bool {
		return item.ID == trigger.ID+"_grammar" &&
			item.SourceType == models.AreaGrammar &&
			item.Status == models.HomeworkPending &&
			item.Deadline.Equal(testNow.Add(48*time.Hour))
	})).Return(true, nil)
	m.profiles.On("QueueAdd", mock.Anything, "u1", "reinforcement:grammar:"+trigger.ID).Return(nil)

	err := svc.HandleSessionCompleted(context.Background(), trigger)
	require.NoError(t, err)

	assert.Equal(t, models.ZoneTooHard, applied.Zones[models.AreaGrammar])
	assert.Equal(t, models.ZoneIdeal, applied.Zones[models.AreaPronunciation])
	assert.Equal(t, models.ZoneIdeal, applied.Zones[models.AreaVocabulary])

	// Five straight tooHard sessions ease grammar down one rung; the
	// other areas hold at the level midpoint.
	assert.Equal(t, "B1-low", applied.Difficulty[models.AreaGrammar].String())
	assert.Equal(t, "B1-mid", applied.Difficulty[models.AreaPronunciation].String())
	assert.Equal(t, "B1-mid", applied.Difficulty[models.AreaVocabulary].String())

	require.Len(t, entries, 3)
	byArea := make(map[string]models.AdaptationEntry, len(entries))
	for _, e := range entries {
		byArea[e.Area] = e
	}
	grammar := byArea["grammar"]
	assert.NotEmpty(t, grammar.ID)
	assert.Equal(t, trigger.ID, grammar.TriggerSessionID)
	assert.Equal(t, models.ZoneTooHard, grammar.Zone)
	assert.Equal(t, models.ZoneIdeal, grammar.PreviousZone)
	assert.Equal(t, ReasonCompletedMA5, grammar.Reason)
	require.NotNil(t, grammar.RecentAccuracy)
	assert.InDelta(t, 50, *grammar.RecentAccuracy, 0.001)
	require.NotNil(t, grammar.ZoneStreak)
	assert.Equal(t, 5, *grammar.ZoneStreak)
	assert.Equal(t, "B1-mid", grammar.DifficultyBefore.String())
	assert.Equal(t, "B1-low", grammar.DifficultyAfter.String())

	m.homeworks.AssertExpectations(t)
	m.profiles.AssertExpectations(t)
}

func TestHandleSessionCompleted_ErraticHistoryUsesWiderWindow(t *testing.T) {
	svc, m := newAdapterServiceForTest()
	recent := []models.Session{
		scoredSession("s1", 90, 90, 90, 90),
		scoredSession("s2", 55, 55, 55, 55),
		scoredSession("s3", 92, 92, 92, 92),
		scoredSession("s4", 50, 50, 50, 50),
		scoredSession("s5", 88, 88, 88, 88),
		scoredSession("s6", 52, 52, 52, 52),
		scoredSession("s7", 91, 91, 91, 91),
	}

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.sessions.On("RecentCompleted", mock.Anything, "u1", 15).Return(recent, nil)
	m.adapters.On("State", mock.Anything, "u1").Return(nil, nil)

	var entries []models.AdaptationEntry
	m.adapters.On("ApplyAdaptation", mock.Anything, "u1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			entries = args.Get(3).([]models.AdaptationEntry)
		}).Return(nil)
	m.sessions.On("Annotate", mock.Anything, "u1", "s1", mock.MatchedBy(func(snap models.AdapterSnapshot) bool {
		return snap.Mode == adapter.ModeMA7 && snap.SessionsConsidered == 7
	})).Return(nil)

	err := svc.HandleSessionCompleted(context.Background(), recent[0])
	require.NoError(t, err)

	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, ReasonCompletedErraticMA7, e.Reason)
	}
	// The averaged scores sit in the ideal band, so nothing falls below
	// the homework threshold.
	m.homeworks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleSessionCompleted_DuplicateHomeworkIsQuietlySkipped(t *testing.T) {
	svc, m := newAdapterServiceForTest()
	recent := stableRecent(5)

	m.profiles.On("Ensure", mock.Anything, "u1").Return(b1Profile(), nil)
	m.sessions.On("RecentCompleted", mock.Anything, "u1", 15).Return(recent, nil)
	m.adapters.On("State", mock.Anything, "u1").Return(nil, nil)
	m.adapters.On("ApplyAdaptation", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil)
	m.sessions.On("Annotate", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil)
	m.homeworks.On("Create", mock.Anything, mock.Anything).Return(false, nil)

	err := svc.HandleSessionCompleted(context.Background(), recent[0])
	require.NoError(t, err)
	m.profiles.AssertNotCalled(t, "QueueAdd", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdapterState_FallsBackToBaseline(t *testing.T) {
	svc, m := newAdapterServiceForTest()

	m.adapters.On("State", mock.Anything, "u1").Return(nil, nil)
	m.profiles.On("Get", mock.Anything, "u1").Return(&models.UserProfile{ID: "u1", Level: "A2"}, nil)

	state, err := svc.State(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "A2-mid", state.Difficulty[models.AreaGrammar].String())
	assert.Equal(t, models.ZoneIdeal, state.Zones[models.AreaVocabulary])
}

func TestAdapterState_UnknownUser(t *testing.T) {
	svc, m := newAdapterServiceForTest()

	m.adapters.On("State", mock.Anything, "u1").Return(nil, nil)
	m.profiles.On("Get", mock.Anything, "u1").Return(nil, nil)

	_, err := svc.State(context.Background(), "u1")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
