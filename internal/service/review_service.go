package service

import (
	"context"
	"fmt"

	"prolens/internal/model"
	"prolens/internal/repository"

	"github.com/rs/zerolog"
)

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	logger     zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, logger zerolog.Logger) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

func (s *reviewService) Create(ctx context.Context, userID int64, req *model.ReviewRequest) (*model.Review, error) {
	if !model.ValidRating(req.Rating) {
		return nil, model.ErrInvalidRating
	}

	review := &model.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("review_id", review.ID).Int64("product_id", review.ProductID).Msg("review created")
	return review, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to list reviews")
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("review_id", id).Msg("failed to get review")
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, model.ErrReviewNotFound
	}
	return review, nil
}

// Update edits a review owned by userID. Reviews owned by someone else are reported as missing.
func (s *reviewService) Update(ctx context.Context, userID, id int64, req *model.ReviewUpdateRequest) (*model.Review, error) {
	if !model.ValidRating(req.Rating) {
		return nil, model.ErrInvalidRating
	}

	review := &model.Review{ID: id, UserID: userID, Rating: req.Rating, Comment: req.Comment}
	ok, err := s.reviewRepo.UpdateOwned(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.reviewRepo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if !ok {
		return model.ErrReviewNotFound
	}
	return nil
}
