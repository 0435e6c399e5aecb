package database

import (
	"context"
	"testing"
	"time"

	"prolens/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSchema_DeclaresTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"users", "products", "cart_items", "shipping", "orders", "reviews"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, schema, "UNIQUE (product_id, user_id)")
	assert.Contains(t, schema, "CHECK (stock >= 0)")
	assert.NotContains(t, schema, "is_active", "account state is owned by the auth system")
}

func TestNewPoolFromURL_InvalidConnectionString(t *testing.T) {
	pool, err := NewPoolFromURL(context.Background(), "::not a url::", config.DatabaseConfig{}, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
	assert.Nil(t, pool)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPoolFromURL(ctx, connStr, config.DatabaseConfig{MaxConnections: 4, MinConnections: 1}, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, EnsureSchema(ctx, pool, zerolog.Nop()))
	require.NoError(t, EnsureSchema(ctx, pool, zerolog.Nop()))

	var count int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name IN ('users','products','cart_items','shipping','orders','reviews')
	`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
