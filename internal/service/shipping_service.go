package service

import (
	"context"
	"fmt"

	"prolens/internal/model"
	"prolens/internal/repository"

	"github.com/rs/zerolog"
)

// shippingService implements ShippingService.
type shippingService struct {
	shippingRepo repository.ShippingRepository
	logger       zerolog.Logger
}

// NewShippingService creates a new shipping service.
func NewShippingService(shippingRepo repository.ShippingRepository, logger zerolog.Logger) ShippingService {
	return &shippingService{
		shippingRepo: shippingRepo,
		logger:       logger.With().Str("service", "shipping").Logger(),
	}
}

func (s *shippingService) Save(ctx context.Context, userID int64, req *model.ShippingRequest) (*model.Shipping, error) {
	shipping := &model.Shipping{
		UserID:   userID,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
	}
	if err := s.shippingRepo.Upsert(ctx, nil, shipping); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save shipping")
		return nil, fmt.Errorf("failed to save shipping: %w", err)
	}
	return shipping, nil
}

func (s *shippingService) Get(ctx context.Context, userID int64) (*model.Shipping, error) {
	shipping, err := s.shippingRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get shipping")
		return nil, fmt.Errorf("failed to get shipping: %w", err)
	}
	if shipping == nil {
		return nil, model.ErrShippingNotFound
	}
	return shipping, nil
}

func (s *shippingService) List(ctx context.Context) ([]model.Shipping, error) {
	profiles, err := s.shippingRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list shipping")
		return nil, fmt.Errorf("failed to list shipping: %w", err)
	}
	return profiles, nil
}
