package repository

import (
	"context"
	"errors"
	"fmt"

	"prolens/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reviewRepository implements the ReviewRepository interface using PostgreSQL.
type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

// Create inserts a review.
func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, rv.ProductID, rv.UserID, rv.Rating, rv.Comment).
		Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrReviewExists
		}
		if fkErr := foreignKeyError(err); fkErr != nil {
			return fkErr
		}
		r.logger.Error().Err(err).Int64("product_id", rv.ProductID).Int64("user_id", rv.UserID).Msg("failed to create review")
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByProduct returns a product's reviews with author names, newest first.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
			u.username
		FROM reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var (
			rv       model.Review
			username *string
		)
		err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt, &username)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if username != nil {
			rv.Author = &model.Author{UserID: rv.UserID, Username: *username}
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// GetByID returns a review, or nil.
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	var rv model.Review
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("review_id", id).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	return &rv, nil
}

// UpdateOwned updates rating and comment only if rv.UserID wrote the review.
func (r *reviewRepository) UpdateOwned(ctx context.Context, rv *model.Review) (bool, error) {
	query := `
		UPDATE reviews
		SET rating = $3, comment = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING product_id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, rv.ID, rv.UserID, rv.Rating, rv.Comment).
		Scan(&rv.ProductID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Int64("review_id", rv.ID).Msg("failed to update review")
		return false, fmt.Errorf("failed to update review: %w", err)
	}
	return true, nil
}

// DeleteOwned deletes a review only if userID wrote it.
func (r *reviewRepository) DeleteOwned(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("review_id", id).Msg("failed to delete review")
		return false, fmt.Errorf("failed to delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
