package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prolens/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes translated into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// txManager implements TxManager on a connection pool.
type txManager struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTxManager creates a TxManager backed by pool.
func NewTxManager(pool *pgxpool.Pool, logger zerolog.Logger) TxManager {
	return &txManager{
		pool:   pool,
		logger: logger.With().Str("repository", "tx").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (m *txManager) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

// foreignKeyError names the missing row behind a foreign key violation, or returns nil
// when err is not one. Only the default "<table>_<column>_fkey" names are recognised.
func foreignKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !isForeignKeyViolation(err) || !errors.As(err, &pgErr) {
		return nil
	}
	switch {
	case strings.HasSuffix(pgErr.ConstraintName, "_user_id_fkey"):
		return model.ErrUnknownUser
	case strings.HasSuffix(pgErr.ConstraintName, "_product_id_fkey"):
		return model.ErrProductNotFound
	}
	return nil
}
