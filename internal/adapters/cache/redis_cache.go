package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scamshield/honeypot/internal/core"
)

// RedisCache is a Redis implementation of the VerdictCache interface. Expiry
// is delegated to Redis TTLs, so Cleanup is a no-op.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisCache creates a new Redis cache and verifies connectivity
func NewRedisCache(ctx context.Context, addr, password string, db int, keyPrefix string, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr))

	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}, nil
}

type redisVerdict struct {
	Analysis core.ScamAnalysis `json:"analysis"`
	LastSeen time.Time         `json:"last_seen"`
}

func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// Get retrieves a cached verdict by key
func (c *RedisCache) Get(ctx context.Context, key string) (*core.VerdictEntry, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query Redis: %w", err)
	}

	var stored redisVerdict
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode cached verdict: %w", err)
	}

	return &core.VerdictEntry{
		Key:      key,
		Analysis: stored.Analysis,
		LastSeen: stored.LastSeen,
	}, nil
}

// Set stores a verdict with the given TTL
func (c *RedisCache) Set(ctx context.Context, entry *core.VerdictEntry, ttl time.Duration) error {
	data, err := json.Marshal(redisVerdict{
		Analysis: entry.Analysis,
		LastSeen: entry.LastSeen,
	})
	if err != nil {
		return fmt.Errorf("failed to encode verdict: %w", err)
	}

	if err := c.client.Set(ctx, c.key(entry.Key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}
	return nil
}

// Delete removes a cached verdict
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Cleanup is a no-op: Redis expires keys itself
func (c *RedisCache) Cleanup(_ context.Context) error {
	return nil
}

// Stop closes the Redis connection
func (c *RedisCache) Stop() {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
	}
}
