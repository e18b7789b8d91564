package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultRedisKey = "recipegen:ratelimit"

// admitScript prunes, checks and records in one step so concurrent
// instances cannot overshoot the limit. Scores are unix milliseconds.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisLimiter shares one window between all instances using a sorted set.
// If Redis is unavailable calls are admitted; a cancelled caller never is.
type RedisLimiter struct {
	client redis.UniversalClient
	key    string
	limit  int
	logger *zap.Logger
}

// NewRedisLimiter admits up to limit calls per Window across instances.
func NewRedisLimiter(client redis.UniversalClient, limit int, logger *zap.Logger) *RedisLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{client: client, key: defaultRedisKey, limit: limit, logger: logger}
}

func (l *RedisLimiter) Admit(ctx context.Context, now time.Time) bool {
	if err := ctx.Err(); err != nil {
		l.logger.Debug("rate limit check skipped, caller gone", zap.Error(err))
		return false
	}
	ms := now.UnixMilli()
	member := fmt.Sprintf("%d-%s", ms, uuid.NewString())

	admitted, err := admitScript.Run(ctx, l.client, []string{l.key},
		ms, Window.Milliseconds(), l.limit, member).Int()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		l.logger.Warn("rate limit check failed, admitting", zap.Error(err))
		return true
	}
	return admitted == 1
}

func (l *RedisLimiter) Usage(ctx context.Context, now time.Time) int {
	minScore := "(" + strconv.FormatInt(now.Add(-Window).UnixMilli(), 10)
	n, err := l.client.ZCount(ctx, l.key, minScore, "+inf").Result()
	if err != nil {
		l.logger.Warn("rate limit usage lookup failed", zap.Error(err))
		return 0
	}
	return int(n)
}

func (l *RedisLimiter) Limit() int {
	return l.limit
}
