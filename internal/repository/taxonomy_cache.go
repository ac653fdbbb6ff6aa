// internal/repository/taxonomy_cache.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

const (
	CategoriesCacheKey = "discovery:taxonomy:categories"
	AreasCacheKey      = "discovery:taxonomy:areas"
)

// TaxonomySource is the store a CachedTaxonomyStore reads through to.
type TaxonomySource interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchAreas(ctx context.Context) ([]models.Area, error)
}

// CachedTaxonomyStore is a Redis read-through cache in front of a taxonomy source.
// Redis failures never fail a read; the source is consulted instead.
type CachedTaxonomyStore struct {
	source TaxonomySource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedTaxonomyStore(source TaxonomySource, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedTaxonomyStore {
	return &CachedTaxonomyStore{
		source: source,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "taxonomy-cache"}),
	}
}

func (c *CachedTaxonomyStore) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if c.readCache(ctx, CategoriesCacheKey, &categories) {
		return categories, nil
	}

	categories, err := c.source.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, CategoriesCacheKey, categories)
	return categories, nil
}

func (c *CachedTaxonomyStore) FetchAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if c.readCache(ctx, AreasCacheKey, &areas) {
		return areas, nil
	}

	areas, err := c.source.FetchAreas(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, AreasCacheKey, areas)
	return areas, nil
}

// Invalidate drops both cached catalogs.
func (c *CachedTaxonomyStore) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, CategoriesCacheKey, AreasCacheKey).Err()
}

func (c *CachedTaxonomyStore) readCache(ctx context.Context, key string, dest interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("taxonomy cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.logger.Warn("taxonomy cache entry is corrupt", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return true
}

func (c *CachedTaxonomyStore) writeCache(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("taxonomy cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
