// Package cache provides a Redis read-through cache for product lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
)

const productKeyPrefix = "product:"

// ProductCache caches individual products by ID. All methods are best-effort:
// a Redis failure is logged and treated as a miss so the database remains the
// source of truth.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductCache creates a product cache with the given TTL.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached product, or (nil, nil) on a miss.
func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, error) {
	data, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.WarnContext(ctx, "product cache get failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt entry; drop it and fall back to the database.
		_ = c.client.Del(ctx, productKeyPrefix+id).Err()
		return nil, nil
	}

	return &p, nil
}

// Set stores the product with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product for cache: %w", err)
	}

	if err := c.client.Set(ctx, productKeyPrefix+p.ID, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache set failed",
			slog.String("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// Invalidate removes the product from the cache.
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, productKeyPrefix+id).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache invalidate failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
