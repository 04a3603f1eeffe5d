package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Waito3007/aRefactor/internal/core/domain"
	"github.com/Waito3007/aRefactor/internal/metrics"
)

// Client wraps Redis operations for the product read cache. The cache is an
// accelerator only: every method degrades to an error the caller may treat as
// a miss, and invalidation happens after a mutation commits.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key helpers
func productKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:product:%s", id)
}

const productKeyPattern = "catalog:product:*"

// GetProduct returns the cached product, or (nil, nil) on a miss.
func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	val, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err == redis.Nil {
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("get failed: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(val, &p); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode cached product: %w", err)
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	return &p, nil
}

// SetProduct caches a product for the given TTL.
func (c *Client) SetProduct(ctx context.Context, p *domain.Product, ttl time.Duration) error {
	val, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	if err := c.rdb.Set(ctx, productKey(p.ID), val, ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}

// InvalidateProduct drops one product from the cache.
func (c *Client) InvalidateProduct(ctx context.Context, id uuid.UUID) error {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}

// FlushProducts drops every cached product and returns the number removed.
func (c *Client) FlushProducts(ctx context.Context) (int64, error) {
	var removed int64

	iter := c.rdb.Scan(ctx, 0, productKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("del failed: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan failed: %w", err)
	}

	return removed, nil
}
