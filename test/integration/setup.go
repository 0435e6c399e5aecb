package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prolens/internal/auth"
	"prolens/internal/cache"
	"prolens/internal/config"
	"prolens/internal/database"
	"prolens/internal/events"
	"prolens/internal/handler"
	"prolens/internal/metrics"
	"prolens/internal/model"
	"prolens/internal/repository"
	"prolens/internal/router"
	"prolens/internal/service"
	"prolens/internal/validate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testSecret = "integration-secret"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a pool and the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// TestServer is the full HTTP stack over a real database.
type TestServer struct {
	Handler  http.Handler
	Tokens   *auth.Tokens
	Registry *prometheus.Registry
}

// NewTestServer wires real repositories and services behind the router.
// Cache and event publishing are disabled.
func NewTestServer(t *testing.T, testDB *TestDB) *TestServer {
	t.Helper()

	logger := zerolog.Nop()
	pool := testDB.Pool

	txManager := repository.NewTxManager(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	shippingRepo := repository.NewShippingRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)

	productCache := cache.NewNopProductCache()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	validator := validate.New()

	handlers := router.Handlers{
		Product: handler.NewProductHandler(service.NewProductService(productRepo, productCache, logger), validator, logger),
		Cart:    handler.NewCartHandler(service.NewCartService(txManager, cartRepo, productRepo, logger), validator, logger),
		Order: handler.NewOrderHandler(service.NewOrderService(
			txManager, cartRepo, productRepo, orderRepo, shippingRepo,
			productCache, events.NewNopPublisher(), m, logger,
		), validator, logger),
		Shipping: handler.NewShippingHandler(service.NewShippingService(shippingRepo, logger), validator, logger),
		Review:   handler.NewReviewHandler(service.NewReviewService(reviewRepo, logger), validator, logger),
	}

	tokens := auth.NewTokens(testSecret, time.Hour)

	return &TestServer{
		Handler:  router.New(handlers, tokens, m, registry, logger),
		Tokens:   tokens,
		Registry: registry,
	}
}

// Token issues a bearer token for id.
func (s *TestServer) Token(t *testing.T, id model.Identity) string {
	t.Helper()
	token, err := s.Tokens.Issue(id)
	require.NoError(t, err)
	return token
}

// Do sends a request through the full middleware chain. body is JSON-encoded when not nil.
func (s *TestServer) Do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, req)
	return w
}

// SeedUser inserts a user and returns its identity.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username string, role model.Role) model.Identity {
	t.Helper()

	email := username + "@example.com"
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, role) VALUES ($1, $2, $3) RETURNING id`,
		username, email, string(role),
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return model.Identity{UserID: id, Email: email, Role: role}
}

// SeedProduct inserts a product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string, category model.Category, price string, stock int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (name, brand, category, rental_price, stock, description, thumbnail)
		 VALUES ($1, 'Test', $2, $3, $4, $5, 'thumb.jpg') RETURNING id`,
		name, string(category), decimal.RequireFromString(price), stock, name+" for rent",
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return id
}

// StockOf reads a product's current stock.
func StockOf(t *testing.T, pool *pgxpool.Pool, productID int64) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	require.NoError(t, err)
	return stock
}

// CountRows counts rows in table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(), fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	require.NoError(t, err)
	return count
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"reviews", "orders", "shipping", "cart_items", "products", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
