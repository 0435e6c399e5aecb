package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"prolens/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "wrapped foreign key violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), foreignKey: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, isForeignKeyViolation(tt.err))
		})
	}
}

func TestForeignKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "cart user", err: &pgconn.PgError{Code: "23503", ConstraintName: "cart_items_user_id_fkey"}, want: model.ErrUnknownUser},
		{name: "review user", err: &pgconn.PgError{Code: "23503", ConstraintName: "reviews_user_id_fkey"}, want: model.ErrUnknownUser},
		{name: "wrapped shipping user", err: fmt.Errorf("save: %w", &pgconn.PgError{Code: "23503", ConstraintName: "shipping_user_id_fkey"}), want: model.ErrUnknownUser},
		{name: "cart product", err: &pgconn.PgError{Code: "23503", ConstraintName: "cart_items_product_id_fkey"}, want: model.ErrProductNotFound},
		{name: "unnamed constraint", err: &pgconn.PgError{Code: "23503"}},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "reviews_product_id_user_id_key"}},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foreignKeyError(tt.err))
		})
	}
}

// failingTx is a pgx.Tx whose QueryRow fails with err. Other methods are not used.
type failingTx struct {
	pgx.Tx
	err error
}

type failingRow struct{ err error }

func (r failingRow) Scan(dest ...any) error { return r.err }

func (tx failingTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return failingRow{err: tx.err}
}

func TestCartRepository_UpsertForeignKeys(t *testing.T) {
	repo := NewCartRepository(nil, zerolog.Nop())
	line := &model.CartLine{UserID: 404, ProductID: 1, Quantity: 1}

	err := repo.Upsert(context.Background(), failingTx{err: &pgconn.PgError{Code: "23503", ConstraintName: "cart_items_user_id_fkey"}}, line)
	assert.ErrorIs(t, err, model.ErrUnknownUser)
	assert.NotErrorIs(t, err, model.ErrProductNotFound)

	err = repo.Upsert(context.Background(), failingTx{err: &pgconn.PgError{Code: "23503", ConstraintName: "cart_items_product_id_fkey"}}, line)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestTxManager_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	tm := NewTxManager(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := tm.BeginTx(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)

	_, err = tx.Exec(ctx, `INSERT INTO users (username, email) VALUES ('rolled', 'rolled@example.com')`)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestTxManager_BeginTxCancelledContext(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	tm := NewTxManager(pool, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tx, err := tm.BeginTx(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.Nil(t, tx)
}
