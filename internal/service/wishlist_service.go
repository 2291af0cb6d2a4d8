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

type wishlistService struct {
	repo   repository.WishlistRepository
	logger zerolog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, logger zerolog.Logger) WishlistService {
	return &wishlistService{
		repo:   repo,
		logger: logger.With().Str("service", "wishlist").Logger(),
	}
}

func (s *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent.
func (s *wishlistService) Add(ctx context.Context, userID uuid.UUID, req model.WishlistRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, userID, req.ProductID); err != nil {
		return wrapUnlessDomain("failed to add to wishlist", err)
	}
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
