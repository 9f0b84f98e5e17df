package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/grammar-relay/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "corrections:"

// RedisCache is a Redis implementation of the CacheRepository interface.
// Redis evicts keys on its own, so Cleanup is a no-op.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// redisEntry is the stored JSON payload for a correction
type redisEntry struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
}

// NewRedisCache creates a new Redis cache from a connection URL
func NewRedisCache(url string, logger *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisCache{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

// Get retrieves the cached correction for a fragment
func (c *RedisCache) Get(ctx context.Context, fragment string) (string, bool, error) {
	key := redisKeyPrefix + strings.ToLower(fragment)

	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query Redis: %w", err)
	}

	var entry redisEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.Error("Corrupt cache entry, treating as absent",
			zap.String("key", key),
			zap.Error(err))
		return "", false, nil
	}

	return entry.Corrected, true, nil
}

// Set stores a correction entry, overwriting any existing entry for its key
func (c *RedisCache) Set(ctx context.Context, entry *core.CorrectionEntry) error {
	payload, err := json.Marshal(redisEntry{
		Original:  entry.Original,
		Corrected: entry.Corrected,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, redisKeyPrefix+entry.Key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis expires keys by TTL
func (c *RedisCache) Cleanup(_ context.Context) error {
	return nil
}

// Stop closes the Redis connection
func (c *RedisCache) Stop() {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
