package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"prolens/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, brand, category, rental_price, stock, description,
	COALESCE(specifications, ''), COALESCE(included_items, ''), thumbnail, images,
	created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p      model.Product
		images []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Category,
		&p.RentalPrice,
		&p.Stock,
		&p.Description,
		&p.Specifications,
		&p.IncludedItems,
		&p.Thumbnail,
		&images,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return p, fmt.Errorf("failed to decode product images: %w", err)
		}
	}
	return p, nil
}

func (r *productRepository) queryProducts(ctx context.Context, q Querier, query string, args ...any) ([]model.Product, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// List retrieves products matching the filter, newest first.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	return r.queryProducts(ctx, r.pool, query, string(filter.Category), limit, filter.Offset)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Related retrieves up to limit products sharing a category.
func (r *productRepository) Related(ctx context.Context, category model.Category, excludeID int64, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND id <> $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	return r.queryProducts(ctx, r.pool, query, string(category), excludeID, limit)
}

// Categories lists the distinct categories in use.
func (r *productRepository) Categories(ctx context.Context) ([]CategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		GROUP BY category
		ORDER BY category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func encodeImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}

// Create inserts a product and fills in its id and timestamps.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	images, err := encodeImages(p.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		INSERT INTO products (name, brand, category, rental_price, stock, description,
			specifications, included_items, thumbnail, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		p.Name, p.Brand, string(p.Category), p.RentalPrice, p.Stock, p.Description,
		p.Specifications, p.IncludedItems, p.Thumbnail, images,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrProductExists
		}
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int64("product_id", p.ID).Msg("product created successfully")
	return nil
}

// InsertIfAbsent inserts a product unless (brand, name) already exists.
func (r *productRepository) InsertIfAbsent(ctx context.Context, p *model.Product) (bool, error) {
	images, err := encodeImages(p.Images)
	if err != nil {
		return false, fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		INSERT INTO products (name, brand, category, rental_price, stock, description,
			specifications, included_items, thumbnail, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (brand, name) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		p.Name, p.Brand, string(p.Category), p.RentalPrice, p.Stock, p.Description,
		p.Specifications, p.IncludedItems, p.Thumbnail, images,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to seed product")
		return false, fmt.Errorf("failed to seed product: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update replaces a product's mutable fields.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	images, err := encodeImages(p.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, brand = $3, category = $4, rental_price = $5, stock = $6,
			description = $7, specifications = $8, included_items = $9, thumbnail = $10,
			images = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Brand, string(p.Category), p.RentalPrice, p.Stock, p.Description,
		p.Specifications, p.IncludedItems, p.Thumbnail, images,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductNotFound
		}
		if isUniqueViolation(err) {
			return model.ErrProductExists
		}
		r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// LockByIDs locks the product rows in id order and returns them keyed by id.
// Ids with no row are simply absent from the result.
func (r *productRepository) LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Product, error) {
	locked := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`

	products, err := r.queryProducts(ctx, tx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	for _, p := range products {
		locked[p.ID] = p
	}
	return locked, nil
}

// DecrementStock takes quantity units off a product if enough remain.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id int64, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Int("quantity", quantity).Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
