package service

import (
	"context"
	"fmt"

	"freshkart/internal/model"
	"freshkart/internal/repository"
	"freshkart/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type profileService struct {
	repo   repository.ProfileRepository
	logger zerolog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: logger.With().Str("service", "profile").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req model.ProfileRequest) (*model.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}
