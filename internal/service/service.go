package service

import (
	"context"
	"io"

	"prolens/internal/model"
	"prolens/internal/repository"
)

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// List retrieves products with optional category filter and pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product, served from cache when possible.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Related retrieves up to eight products of the same category, excluding id.
	Related(ctx context.Context, id int64, category model.Category) ([]model.Product, error)

	// Categories lists the categories that currently have products.
	Categories(ctx context.Context) ([]repository.CategoryCount, error)

	// Create adds a product.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product.
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product together with its cart lines and reviews.
	Delete(ctx context.Context, id int64) error

	// Export writes the inventory as an XLSX workbook.
	Export(ctx context.Context, w io.Writer) error
}

// CartService defines operations on a user's cart.
type CartService interface {
	// Add increases the quantity of a line, creating it if needed.
	Add(ctx context.Context, userID int64, req *model.CartRequest) (*model.CartLine, error)

	// Get returns the cart with product summaries.
	Get(ctx context.Context, userID int64) ([]model.CartLine, error)

	// Update sets the quantity of an existing line.
	Update(ctx context.Context, userID int64, req *model.CartRequest) (*model.CartLine, error)

	// Remove deletes a line.
	Remove(ctx context.Context, userID, productID int64) error
}

// OrderService defines checkout and order management operations.
type OrderService interface {
	// PlaceOrder converts the user's cart into an order in one transaction.
	PlaceOrder(ctx context.Context, userID int64, req *model.PlaceOrderRequest) (*model.PlaceOrderResult, error)

	// ListForUser returns the user's orders, newest first.
	ListForUser(ctx context.Context, userID int64) ([]model.Order, error)

	// GetForUser returns one of the user's own orders.
	GetForUser(ctx context.Context, userID, orderID int64) (*model.Order, error)

	// List returns every order, optionally filtered by status.
	List(ctx context.Context, status string) ([]model.Order, error)

	// GetByID returns any order with its customer summary.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// UpdateStatus moves an order along the fulfilment state machine.
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error)

	// UpdatePaymentStatus moves an order along the payment state machine.
	UpdatePaymentStatus(ctx context.Context, id int64, status string) (*model.Order, error)

	// Export writes orders matching the status filter as an XLSX workbook.
	Export(ctx context.Context, w io.Writer, status string) error
}

// ShippingService defines operations on saved delivery details.
type ShippingService interface {
	// Save upserts the user's profile.
	Save(ctx context.Context, userID int64, req *model.ShippingRequest) (*model.Shipping, error)

	// Get returns the user's saved profile.
	Get(ctx context.Context, userID int64) (*model.Shipping, error)

	// List returns every saved profile.
	List(ctx context.Context) ([]model.Shipping, error)
}

// ReviewService defines operations on product reviews.
type ReviewService interface {
	Create(ctx context.Context, userID int64, req *model.ReviewRequest) (*model.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Review, error)
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	Update(ctx context.Context, userID, id int64, req *model.ReviewUpdateRequest) (*model.Review, error)
	Delete(ctx context.Context, userID, id int64) error
}
