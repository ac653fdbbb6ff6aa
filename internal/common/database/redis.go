// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"pro-discovery/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client used by the taxonomy cache.
type RedisClient struct {
	Client *redis.Client
}

// cacheOptions sizes the pool for the taxonomy cache: a few small keys read on every
// facets and suggestion call. Reads time out fast; a slow cache is treated as a miss.
func cacheOptions(cfg config.RedisConfig) *redis.Options {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	readTimeout := 500 * time.Millisecond
	if cfg.Timeout > 0 {
		readTimeout = config.GetDuration(cfg.Timeout)
	}
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
		PoolSize:     poolSize,
		MinIdleConns: 1,
		MaxRetries:   1,
	}
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required for the taxonomy cache")
	}
	return &RedisClient{Client: redis.NewClient(cacheOptions(cfg))}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
