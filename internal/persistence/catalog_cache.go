package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/coaching-service/internal/domain"
)

const catalogCacheKey = "catalog:offerings:active"

// CatalogCache keeps the public offering list in Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache builds the cache on the shared Redis connection.
func NewCatalogCache(r *Redis, ttl time.Duration) *CatalogCache {
	if r == nil {
		return &CatalogCache{ttl: ttl}
	}
	return &CatalogCache{client: r.Client, ttl: ttl}
}

// Get returns the cached offerings; ok is false on a miss.
func (c *CatalogCache) Get(ctx context.Context) ([]domain.Offering, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var offerings []domain.Offering
	if err := json.Unmarshal(raw, &offerings); err != nil {
		return nil, false, err
	}
	return offerings, true, nil
}

// Set stores offerings for the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, offerings []domain.Offering) error {
	if c.client == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(offerings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogCacheKey, raw, c.ttl).Err()
}

// Invalidate drops the cached list after an admin edit.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, catalogCacheKey).Err()
}
