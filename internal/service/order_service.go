package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"prolens/internal/cache"
	"prolens/internal/events"
	"prolens/internal/metrics"
	"prolens/internal/model"
	"prolens/internal/report"
	"prolens/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	txManager    repository.TxManager
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	shippingRepo repository.ShippingRepository
	cache        cache.ProductCache
	publisher    events.Publisher
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	txManager repository.TxManager,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	shippingRepo repository.ShippingRepository,
	productCache cache.ProductCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		txManager:    txManager,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		shippingRepo: shippingRepo,
		cache:        productCache,
		publisher:    publisher,
		metrics:      m,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts the user's cart into an order.
//
// Cart lines and product rows are locked inside one transaction, product rows in
// ascending id order. Stock is checked for every line before any is decremented, and
// prices come from the locked product rows, never from the request.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, req *model.PlaceOrderRequest) (result *model.PlaceOrderResult, err error) {
	if req == nil {
		return nil, model.ErrInvalidJSON
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		code := model.ErrCodeInternalError
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			code = domainErr.Code
		}
		s.metrics.OrderRejected(code)
	}()

	lines, err := s.cartRepo.LockByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		s.logger.Debug().Int64("user_id", userID).Msg("checkout with empty cart")
		return nil, model.ErrEmptyCart
	}

	productIDs := make([]int64, len(lines))
	for i, line := range lines {
		productIDs[i] = line.ProductID
	}
	slices.Sort(productIDs)

	products, err := s.productRepo.LockByIDs(ctx, tx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			s.logger.Error().
				Int64("user_id", userID).
				Int64("product_id", line.ProductID).
				Msg("cart line references a missing product")
			return nil, model.ErrProductMissing
		}
		if line.Quantity > p.Stock {
			s.logger.Info().
				Int64("product_id", p.ID).
				Int("requested", line.Quantity).
				Int("stock", p.Stock).
				Msg("insufficient stock")
			return nil, model.NewStockError(p.Name, line.Quantity, p.Stock)
		}
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		p := products[line.ProductID]

		ok, err := s.productRepo.DecrementStock(ctx, tx, p.ID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve stock: %w", err)
		}
		if !ok {
			s.logger.Warn().
				Int64("product_id", p.ID).
				Int("requested", line.Quantity).
				Msg("stock decrement rejected after check")
			return nil, model.NewStockChangedError(p.Name)
		}

		items = append(items, model.NewOrderItem(p, line.Quantity))
	}

	shipping := req.Shipping(userID)
	if err = s.shippingRepo.Upsert(ctx, tx, &shipping); err != nil {
		return nil, fmt.Errorf("failed to save shipping: %w", err)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	order := &model.Order{
		UserID:        userID,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		Status:        model.OrderStatusPending,
		TotalAmount:   model.SumItems(items),
		Items:         items,
		PaymentMethod: paymentMethod,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.cartRepo.ClearByUser(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.cache.Invalidate(ctx, productIDs...)
	s.publish(ctx, events.NewOrderPlaced(order))
	s.metrics.OrderPlaced(order.TotalAmount)

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", userID).
		Int("item_count", len(items)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("order placed successfully")

	return &model.PlaceOrderResult{Order: order, Shipping: &shipping}, nil
}

// publish delivers an event after commit. Failures are logged, never returned.
func (s *orderService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event_type", event.Type).Int64("order_id", event.OrderID).Msg("order event not published")
	}
}

// ListForUser returns the user's orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetForUser returns one of the user's own orders. Other users' orders are reported as missing.
func (s *orderService) GetForUser(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		s.logger.Warn().Int64("user_id", userID).Int64("order_id", orderID).Msg("order requested by another user")
		return nil, model.ErrOrderNotFound
	}
	order.Customer = nil
	return order, nil
}

// List returns every order. An empty status or "All" disables the filter.
func (s *orderService) List(ctx context.Context, status string) ([]model.Order, error) {
	filter, err := parseOrderFilter(status)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("status", status).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func parseOrderFilter(status string) (model.OrderFilter, error) {
	if status == "" || status == "All" {
		return model.OrderFilter{}, nil
	}
	parsed, err := model.ParseOrderStatus(status)
	if err != nil {
		return model.OrderFilter{}, err
	}
	return model.OrderFilter{Status: parsed}, nil
}

// GetByID returns any order with its customer summary.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along Pending, Processing, Shipped, Delivered.
// Forward skips are allowed, Cancelled is reachable from any non-terminal state and
// setting the current status again is a no-op.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (order *model.Order, err error) {
	next, err := model.ParseOrderStatus(status)
	if err != nil {
		s.logger.Debug().Str("status", status).Msg("unknown order status")
		return nil, err
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err = s.orderRepo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	previous := order.Status
	if previous == next {
		if err = tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
		return order, nil
	}
	if !previous.CanTransitionTo(next) {
		return nil, model.NewTransitionError(string(previous), string(next))
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = next
	s.publish(ctx, events.NewStatusChanged(events.TypeOrderStatusChanged, order, string(previous), string(next)))
	s.metrics.StatusChanged("status", string(next))

	s.logger.Info().
		Int64("order_id", id).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("order status updated")

	return order, nil
}

// UpdatePaymentStatus moves an order along Unpaid, Paid, Refunded.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, id int64, status string) (order *model.Order, err error) {
	next, err := model.ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err = s.orderRepo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	previous := order.PaymentStatus
	if previous == next {
		if err = tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to update payment status: %w", err)
		}
		return order, nil
	}
	if !previous.CanTransitionTo(next) {
		return nil, model.NewTransitionError(string(previous), string(next))
	}

	if err = s.orderRepo.UpdatePaymentStatus(ctx, tx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	order.PaymentStatus = next
	s.publish(ctx, events.NewStatusChanged(events.TypePaymentStatusChanged, order, string(previous), string(next)))
	s.metrics.StatusChanged("payment", string(next))

	s.logger.Info().
		Int64("order_id", id).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("payment status updated")

	return order, nil
}

// Export writes orders matching the status filter as an XLSX workbook.
func (s *orderService) Export(ctx context.Context, w io.Writer, status string) error {
	orders, err := s.List(ctx, status)
	if err != nil {
		return err
	}
	return report.WriteOrders(w, orders)
}
