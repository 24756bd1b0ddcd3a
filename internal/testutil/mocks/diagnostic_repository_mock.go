package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/danielvr/adaptengine/internal/models"
)

// MockDiagnosticRepository is a mock implementation of repository.DiagnosticRepository
type MockDiagnosticRepository struct {
	mock.Mock
}

func (m *MockDiagnosticRepository) Get(ctx context.Context, userID, id string) (*models.Diagnostic, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diagnostic), args.Error(1)
}

func (m *MockDiagnosticRepository) Insert(ctx context.Context, diagnostic models.Diagnostic) error {
	args := m.Called(ctx, diagnostic)
	return args.Error(0)
}

func (m *MockDiagnosticRepository) Complete(ctx context.Context, diagnostic models.Diagnostic) error {
	args := m.Called(ctx, diagnostic)
	return args.Error(0)
}
