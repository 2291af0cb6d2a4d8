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

// ReviewLoyaltyPoints is credited to the author of every new review.
const ReviewLoyaltyPoints = 10

// reviewService implements ReviewService.
type reviewService struct {
	repo   repository.ReviewRepository
	logger zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, logger zerolog.Logger) ReviewService {
	return &reviewService{
		repo:   repo,
		logger: logger.With().Str("service", "review").Logger(),
	}
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req model.ReviewRequest) (*model.Review, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, review, ReviewLoyaltyPoints); err != nil {
		return nil, wrapUnlessDomain("failed to create review", err)
	}

	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("product_id", review.ProductID.String()).
		Int("rating", review.Rating).
		Msg("review created")
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, userID, id uuid.UUID, req model.ReviewUpdateRequest) (*model.Review, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	review, err := s.authored(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Title = req.Title
	review.Comment = req.Comment
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, wrapUnlessDomain("failed to update review", err)
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.authored(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapUnlessDomain("failed to delete review", err)
	}
	return nil
}

// authored loads a review and checks userID wrote it.
func (s *reviewService) authored(ctx context.Context, userID, id uuid.UUID) (*model.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, model.ErrReviewNotFound
	}
	if review.UserID != userID {
		s.logger.Warn().
			Str("review_id", id.String()).
			Str("user_id", userID.String()).
			Msg("review change by non-author rejected")
		return nil, model.ErrForbidden
	}
	return review, nil
}
