package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit"

// Limiter ограничивает число запросов с одного ключа за окно
type Limiter interface {
	// Allow учитывает запрос и возвращает, разрешен ли он, и через сколько окно сбросится
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RedisLimiter - счетчик с фиксированным окном на INCR + EXPIRE
type RedisLimiter struct {
	client *redis.Client
	scope  string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, scope string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		scope:  scope,
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := fmt.Sprintf("%s:%s:%s", keyPrefix, l.scope, key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	count := incr.Val()
	retryAfter := ttl.Val()
	// окно начинается с первого запроса; ключ без TTL (сбой после INCR) тоже получает окно
	if retryAfter < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate window: %w", err)
		}
		retryAfter = l.window
	}
	if count <= int64(l.limit) {
		return true, 0, nil
	}
	return false, retryAfter, nil
}
