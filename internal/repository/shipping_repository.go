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

// shippingRepository implements the ShippingRepository interface using PostgreSQL.
type shippingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShippingRepository creates a new PostgreSQL-backed shipping repository.
func NewShippingRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShippingRepository {
	return &shippingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shipping").Logger(),
	}
}

// Upsert saves the user's single shipping profile. A nil tx writes through the pool.
func (r *shippingRepository) Upsert(ctx context.Context, tx pgx.Tx, s *model.Shipping) error {
	query := `
		INSERT INTO shipping (user_id, full_name, phone, address, city)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	var q Querier = r.pool
	if tx != nil {
		q = tx
	}

	err := q.QueryRow(ctx, query, s.UserID, s.FullName, s.Phone, s.Address, s.City).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if fkErr := foreignKeyError(err); fkErr != nil {
			return fkErr
		}
		r.logger.Error().Err(err).Int64("user_id", s.UserID).Msg("failed to save shipping")
		return fmt.Errorf("failed to save shipping: %w", err)
	}
	return nil
}

// GetByUser returns the user's profile, or nil.
func (r *shippingRepository) GetByUser(ctx context.Context, userID int64) (*model.Shipping, error) {
	query := `
		SELECT id, user_id, full_name, phone, address, city, created_at, updated_at
		FROM shipping
		WHERE user_id = $1
	`

	var s model.Shipping
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.FullName, &s.Phone, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query shipping")
		return nil, fmt.Errorf("failed to query shipping: %w", err)
	}
	return &s, nil
}

// List returns every saved profile, most recently updated first.
func (r *shippingRepository) List(ctx context.Context) ([]model.Shipping, error) {
	query := `
		SELECT id, user_id, full_name, phone, address, city, created_at, updated_at
		FROM shipping
		ORDER BY updated_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query shipping")
		return nil, fmt.Errorf("failed to query shipping: %w", err)
	}
	defer rows.Close()

	profiles := []model.Shipping{}
	for rows.Next() {
		var s model.Shipping
		if err := rows.Scan(&s.ID, &s.UserID, &s.FullName, &s.Phone, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shipping: %w", err)
		}
		profiles = append(profiles, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipping: %w", err)
	}
	return profiles, nil
}
