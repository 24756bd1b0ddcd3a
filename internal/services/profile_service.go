package services

import (
	"context"

	"github.com/danielvr/adaptengine/internal/errors"
	"github.com/danielvr/adaptengine/internal/models"
	"github.com/danielvr/adaptengine/internal/repository"
)

// ProfileService handles user profile reads
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Ensure(ctx context.Context, userID string) (*models.UserProfile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return profile, nil
}

func (s *profileService) Ensure(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return profile, nil
}
