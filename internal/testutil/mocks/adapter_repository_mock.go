package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/danielvr/adaptengine/internal/models"
)

// MockAdapterRepository is a mock implementation of repository.AdapterRepository
type MockAdapterRepository struct {
	mock.Mock
}

func (m *MockAdapterRepository) State(ctx context.Context, userID string) (*models.AdapterState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdapterState), args.Error(1)
}

func (m *MockAdapterRepository) ApplyAdaptation(ctx context.Context, userID string, state models.AdapterState, entries []models.AdaptationEntry) error {
	args := m.Called(ctx, userID, state, entries)
	return args.Error(0)
}

func (m *MockAdapterRepository) History(ctx context.Context, userID string, limit int) ([]models.AdaptationEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdaptationEntry), args.Error(1)
}
