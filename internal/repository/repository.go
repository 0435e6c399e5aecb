package repository

import (
	"context"

	"prolens/internal/model"

	"github.com/jackc/pgx/v5"
)

// TxManager opens transactions shared by the tx-scoped repository methods.
type TxManager interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// CategoryCount is a category in use together with its product count.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter, newest first.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product. Returns nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Related retrieves up to limit products of the category, excluding one id.
	Related(ctx context.Context, category model.Category, excludeID int64, limit int) ([]model.Product, error)

	// Categories lists the distinct categories in use.
	Categories(ctx context.Context) ([]CategoryCount, error)

	// Create inserts a product and fills in its id and timestamps.
	Create(ctx context.Context, p *model.Product) error

	// InsertIfAbsent inserts a product unless (brand, name) already exists.
	InsertIfAbsent(ctx context.Context, p *model.Product) (bool, error)

	// Update replaces a product's mutable fields.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product and, by cascade, its cart lines and reviews.
	Delete(ctx context.Context, id int64) error

	// LockByIDs locks the product rows in id order and returns them keyed by id.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Product, error)

	// DecrementStock takes quantity units off a product if enough remain.
	// Reports false when the guard rejected the update.
	DecrementStock(ctx context.Context, tx pgx.Tx, id int64, quantity int) (bool, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// ListByUser retrieves a user's cart with product summaries.
	ListByUser(ctx context.Context, userID int64) ([]model.CartLine, error)

	// LockByUser locks and returns the user's cart lines.
	LockByUser(ctx context.Context, tx pgx.Tx, userID int64) ([]model.CartLine, error)

	// GetLine returns the line for (user, product), or nil.
	GetLine(ctx context.Context, tx pgx.Tx, userID, productID int64) (*model.CartLine, error)

	// Upsert sets the quantity of the (user, product) line.
	Upsert(ctx context.Context, tx pgx.Tx, line *model.CartLine) error

	// Delete removes a single line. Reports whether a row was removed.
	Delete(ctx context.Context, userID, productID int64) (bool, error)

	// ClearByUser removes every line of the user within the transaction.
	ClearByUser(ctx context.Context, tx pgx.Tx, userID int64) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts an order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its customer summary. Returns nil when missing.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// List retrieves all orders matching the filter, newest first.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// LockByID locks an order row. Returns nil when missing.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error)

	// UpdateStatus sets the fulfilment status of an order.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error

	// UpdatePaymentStatus sets the payment status of an order.
	UpdatePaymentStatus(ctx context.Context, tx pgx.Tx, id int64, status model.PaymentStatus) error
}

// ShippingRepository defines the interface for shipping profile data access.
type ShippingRepository interface {
	// Upsert saves the user's single shipping profile. A nil tx writes through the pool.
	Upsert(ctx context.Context, tx pgx.Tx, s *model.Shipping) error

	// GetByUser returns the user's profile, or nil.
	GetByUser(ctx context.Context, userID int64) (*model.Shipping, error)

	// List returns every saved profile.
	List(ctx context.Context) ([]model.Shipping, error)
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	// Create inserts a review. Duplicate (product, user) pairs yield ErrReviewExists.
	Create(ctx context.Context, r *model.Review) error

	// ListByProduct returns a product's reviews with author names, newest first.
	ListByProduct(ctx context.Context, productID int64) ([]model.Review, error)

	// GetByID returns a review, or nil.
	GetByID(ctx context.Context, id int64) (*model.Review, error)

	// UpdateOwned updates a review only if userID wrote it. Reports whether it matched.
	UpdateOwned(ctx context.Context, r *model.Review) (bool, error)

	// DeleteOwned deletes a review only if userID wrote it. Reports whether it matched.
	DeleteOwned(ctx context.Context, id, userID int64) (bool, error)
}

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
