package service

import (
	"context"
	"fmt"

	"prolens/internal/model"
	"prolens/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	txManager   repository.TxManager
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	txManager repository.TxManager,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		txManager:   txManager,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Add increases the quantity of a line, creating it if needed.
func (s *cartService) Add(ctx context.Context, userID int64, req *model.CartRequest) (*model.CartLine, error) {
	return s.write(ctx, userID, req, true)
}

// Update sets the quantity of an existing line.
func (s *cartService) Update(ctx context.Context, userID int64, req *model.CartRequest) (*model.CartLine, error) {
	return s.write(ctx, userID, req, false)
}

// write locks the product row so the stock bound holds against concurrent checkouts.
func (s *cartService) write(ctx context.Context, userID int64, req *model.CartRequest, accumulate bool) (line *model.CartLine, err error) {
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	products, err := s.productRepo.LockByIDs(ctx, tx, []int64{req.ProductID})
	if err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	product, ok := products[req.ProductID]
	if !ok {
		return nil, model.ErrProductNotFound
	}

	existing, err := s.cartRepo.GetLine(ctx, tx, userID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	quantity := req.Quantity
	switch {
	case accumulate && existing != nil:
		quantity += existing.Quantity
	case !accumulate && existing == nil:
		return nil, model.ErrCartLineNotFound
	}

	if quantity > product.Stock {
		s.logger.Debug().
			Int64("product_id", product.ID).
			Int("requested", quantity).
			Int("stock", product.Stock).
			Msg("cart quantity exceeds stock")
		return nil, model.NewCartStockError(product.Stock)
	}

	line = &model.CartLine{UserID: userID, ProductID: req.ProductID, Quantity: quantity}
	if err = s.cartRepo.Upsert(ctx, tx, line); err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	line.Product = &model.ProductSummary{
		ID:          product.ID,
		Name:        product.Name,
		RentalPrice: product.RentalPrice,
		Thumbnail:   product.Thumbnail,
		Stock:       product.Stock,
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int64("product_id", req.ProductID).
		Int("quantity", quantity).
		Msg("cart line saved")

	return line, nil
}

// Get returns the cart with product summaries.
func (s *cartService) Get(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return lines, nil
}

// Remove deletes a line.
func (s *cartService) Remove(ctx context.Context, userID, productID int64) error {
	removed, err := s.cartRepo.Delete(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Int64("product_id", productID).Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if !removed {
		return model.ErrCartLineNotFound
	}
	return nil
}
