package cache

import (
	"context"
	"testing"
	"time"

	"prolens/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestNopProductCache(t *testing.T) {
	c := NewNopProductCache()
	ctx := context.Background()

	c.Set(ctx, &model.Product{ID: 1})
	p, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Nil(t, p)
	c.Invalidate(ctx, 1, 2)
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "prolens:product:42", productKey(42))
}

func TestRedisProductCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, endpoint, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisProductCache(client, time.Minute, zerolog.Nop())

	_, ok := c.Get(ctx, 7)
	assert.False(t, ok)

	product := &model.Product{
		ID:          7,
		Name:        "A7 IV",
		Brand:       "Sony",
		Category:    model.CategoryMirrorless,
		RentalPrice: decimal.RequireFromString("149.99"),
		Stock:       3,
		Images:      []string{},
	}
	c.Set(ctx, product)

	got, ok := c.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, "A7 IV", got.Name)
	assert.True(t, product.RentalPrice.Equal(got.RentalPrice))

	c.Invalidate(ctx, 7)
	_, ok = c.Get(ctx, 7)
	assert.False(t, ok)
}
