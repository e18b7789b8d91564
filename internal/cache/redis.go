package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

const redisKeyPrefix = "recipegen:cache:"

// RedisCache shares cached recipes between instances. Redis failures are
// logged and behave like a miss or a dropped write.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

type storedEntry struct {
	CreatedAt time.Time       `json:"created_at"`
	Recipe    json.RawMessage `json:"recipe"`
}

// NewRedisCache creates a cache over an existing client.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string, now time.Time) (types.Recipe, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("redis cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var stored storedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		c.logger.Warn("corrupt cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if now.Sub(stored.CreatedAt) >= c.ttl {
		return nil, false
	}
	recipe, err := types.DecodeRecipe(stored.Recipe)
	if err != nil {
		c.logger.Warn("corrupt cached recipe", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return recipe, true
}

func (c *RedisCache) Put(ctx context.Context, key string, recipe types.Recipe, now time.Time) {
	raw, err := json.Marshal(recipe)
	if err != nil {
		c.logger.Warn("failed to encode recipe for cache", zap.String("key", key), zap.Error(err))
		return
	}
	data, err := json.Marshal(storedEntry{CreatedAt: now, Recipe: raw})
	if err != nil {
		c.logger.Warn("failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

// Flush deletes every cached recipe, leaving other keys alone.
func (c *RedisCache) Flush(ctx context.Context) error {
	keys, err := c.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Len(ctx context.Context) int {
	keys, err := c.keys(ctx)
	if err != nil {
		c.logger.Warn("redis cache scan failed", zap.Error(err))
		return 0
	}
	return len(keys)
}

// Close is a no-op; the client is owned by the caller.
func (c *RedisCache) Close() error {
	return nil
}
