package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// orderStatusRank orders the forward fulfilment path. Cancelled is off-path.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// OrderStatuses lists every order status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus returns the status named by s. Matching is exact.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range OrderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further transition is possible from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order in state s may move to next.
// Forward moves may skip states; Cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "Unpaid"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

// ParsePaymentStatus returns the payment status named by s.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransitionTo reports whether payment may move from s to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusUnpaid:
		return next == PaymentStatusPaid
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	default:
		return false
	}
}

// DefaultPaymentMethod is recorded when the caller does not choose one.
const DefaultPaymentMethod = "Cash on Delivery"

// OrderItem is one line of the immutable order snapshot.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// NewOrderItem snapshots a product at the given quantity.
func NewOrderItem(p Product, quantity int) OrderItem {
	return OrderItem{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  quantity,
		Price:     p.RentalPrice,
		Total:     p.RentalPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumItems returns the sum of the line totals.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total)
	}
	return total
}

// Order represents a placed rental order.
type Order struct {
	ID             int64           `json:"order_id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	FullName       string          `json:"fullName" db:"full_name"`
	Phone          string          `json:"phone" db:"phone"`
	Address        string          `json:"address" db:"address"`
	City           string          `json:"city" db:"city"`
	Status         OrderStatus     `json:"status" db:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Items          []OrderItem     `json:"order_items" db:"order_items"`
	PaymentMethod  string          `json:"payment_method" db:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status" db:"payment_status"`
	TrackingNumber *string         `json:"tracking_number,omitempty" db:"tracking_number"`
	Customer       *Customer       `json:"user,omitempty"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// PlaceOrderRequest represents the checkout payload. The cart itself is read server-side.
type PlaceOrderRequest struct {
	FullName      string `json:"fullName" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,phone,max=20"`
	Address       string `json:"address" validate:"required,max=500"`
	City          string `json:"city" validate:"required,max=100"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
}

// Shipping returns the shipping profile carried by the request.
func (r *PlaceOrderRequest) Shipping(userID int64) Shipping {
	return Shipping{
		UserID:   userID,
		FullName: r.FullName,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
	}
}

// PlaceOrderResult is the outcome of a successful checkout.
type PlaceOrderResult struct {
	Order    *Order    `json:"order"`
	Shipping *Shipping `json:"shipping"`
}

// StatusUpdateRequest represents the admin payload for changing order status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentUpdateRequest represents the admin payload for changing payment status.
type PaymentUpdateRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// OrderFilter narrows admin order listings. A zero Status matches all orders.
type OrderFilter struct {
	Status OrderStatus
}
