package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success       bool   `json:"success"`
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidRating     = "INVALID_RATING"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeProductMissing    = "PRODUCT_MISSING"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeReviewNotFound    = "REVIEW_NOT_FOUND"
	ErrCodeCartLineNotFound  = "CART_LINE_NOT_FOUND"
	ErrCodeShippingNotFound  = "SHIPPING_NOT_FOUND"
	ErrCodeReviewExists      = "REVIEW_EXISTS"
	ErrCodeProductExists     = "PRODUCT_EXISTS"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so errors.Is works
// against the sentinels below even when the message was specialised.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidJSON       = NewDomainError(ErrCodeInvalidJSON, "Invalid request body")
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Invalid status type")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidRating     = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Your cart is empty!")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrProductMissing    = NewDomainError(ErrCodeProductMissing, "Product not found in DB")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrReviewNotFound    = NewDomainError(ErrCodeReviewNotFound, "Review not found or unauthorized")
	ErrCartLineNotFound  = NewDomainError(ErrCodeCartLineNotFound, "Product is not in your cart")
	ErrShippingNotFound  = NewDomainError(ErrCodeShippingNotFound, "No saved address found")
	ErrReviewExists      = NewDomainError(ErrCodeReviewExists, "You have already reviewed this product")
	ErrProductExists     = NewDomainError(ErrCodeProductExists, "A product with this brand and name already exists")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "Status transition not allowed")
	ErrUnauthorised      = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrUnknownUser       = NewDomainError(ErrCodeUnauthorised, "User account not found")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "Access denied")
)

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidationFailed, message)
}

// NewStockError reports that a line asks for more units than remain.
func NewStockError(name string, requested, available int) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock,
		fmt.Sprintf("%s is short by %d: Only %d items in stock", name, requested-available, available))
}

// NewStockChangedError reports a guarded decrement that found less stock than was checked.
func NewStockChangedError(name string) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, fmt.Sprintf("%s is no longer available in the requested quantity", name))
}

// NewCartStockError reports a cart write that would exceed stock.
func NewCartStockError(available int) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, fmt.Sprintf("Only %d items in stock", available))
}

// NewTransitionError reports a status change that the state machine forbids.
func NewTransitionError(from, to string) *DomainError {
	return NewDomainError(ErrCodeInvalidTransition,
		fmt.Sprintf("Cannot change status from %s to %s", from, to))
}
