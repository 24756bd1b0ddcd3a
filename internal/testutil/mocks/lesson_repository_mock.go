package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/danielvr/adaptengine/internal/models"
)

// MockLessonRepository is a mock implementation of repository.LessonRepository
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) Get(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LessonProgress), args.Error(1)
}

func (m *MockLessonRepository) SaveCompletion(ctx context.Context, progress models.LessonProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}
