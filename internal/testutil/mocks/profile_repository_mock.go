package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/danielvr/adaptengine/internal/models"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Ensure(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateLevel(ctx context.Context, userID, level string) error {
	args := m.Called(ctx, userID, level)
	return args.Error(0)
}

func (m *MockProfileRepository) IncrementAdherence(ctx context.Context, userID string, delta float64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockProfileRepository) QueueAdd(ctx context.Context, userID, contentRef string) error {
	args := m.Called(ctx, userID, contentRef)
	return args.Error(0)
}

func (m *MockProfileRepository) QueueRemove(ctx context.Context, userID, contentRef string) error {
	args := m.Called(ctx, userID, contentRef)
	return args.Error(0)
}

func (m *MockProfileRepository) Queue(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
