package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/danielvr/adaptengine/internal/models"
)

// MockHomeworkRepository is a mock implementation of repository.HomeworkRepository
type MockHomeworkRepository struct {
	mock.Mock
}

func (m *MockHomeworkRepository) Get(ctx context.Context, userID, id string) (*models.HomeworkItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HomeworkItem), args.Error(1)
}

func (m *MockHomeworkRepository) Create(ctx context.Context, item models.HomeworkItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

func (m *MockHomeworkRepository) List(ctx context.Context, userID string) ([]models.HomeworkItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HomeworkItem), args.Error(1)
}

func (m *MockHomeworkRepository) OverdueCandidates(ctx context.Context, now time.Time) ([]models.HomeworkItem, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HomeworkItem), args.Error(1)
}

func (m *MockHomeworkRepository) MarkOverdue(ctx context.Context, userID, id string, now time.Time) error {
	args := m.Called(ctx, userID, id, now)
	return args.Error(0)
}

func (m *MockHomeworkRepository) ApplyCompletion(ctx context.Context, item models.HomeworkItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockHomeworkRepository) AppendAlert(ctx context.Context, alert models.ScheduleAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockHomeworkRepository) ListAlerts(ctx context.Context, userID string, limit int) ([]models.ScheduleAlert, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScheduleAlert), args.Error(1)
}
