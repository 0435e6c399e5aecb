package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"prolens/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProductCache holds product detail lookups. Failures are logged and treated as misses.
type ProductCache interface {
	// Get returns a cached product and whether it was found.
	Get(ctx context.Context, id int64) (*model.Product, bool)

	// Set stores a product.
	Set(ctx context.Context, p *model.Product)

	// Invalidate drops the given products.
	Invalidate(ctx context.Context, ids ...int64)
}

const keyPrefix = "prolens:product:"

func productKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// redisProductCache implements ProductCache on Redis.
type redisProductCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisProductCache creates a Redis-backed product cache.
func NewRedisProductCache(client redis.Cmdable, ttl time.Duration, logger zerolog.Logger) ProductCache {
	return &redisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("cache", "product").Logger(),
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (c *redisProductCache) Get(ctx context.Context, id int64) (*model.Product, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache read failed")
		}
		return nil, false
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", id).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return &p, true
}

func (c *redisProductCache) Set(ctx context.Context, p *model.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn().Err(err).Int64("product_id", p.ID).Msg("failed to encode cache entry")
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", p.ID).Msg("cache write failed")
	}
}

func (c *redisProductCache) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Int("count", len(ids)).Msg("cache invalidation failed")
	}
}

// nopProductCache never stores anything.
type nopProductCache struct{}

// NewNopProductCache returns a cache that always misses.
func NewNopProductCache() ProductCache {
	return nopProductCache{}
}

func (nopProductCache) Get(context.Context, int64) (*model.Product, bool) { return nil, false }
func (nopProductCache) Set(context.Context, *model.Product)               {}
func (nopProductCache) Invalidate(context.Context, ...int64)              {}
