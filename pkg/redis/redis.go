package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/rescue_dispatch/internal/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient создает клиент Redis для кэша инцидентов, очереди вебхуков и лимитера
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	poolSize := cfg.RedisPoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		PoolSize: poolSize,
		// BRPOP воркера не должен упираться в таймаут чтения
		ReadTimeout: -1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	return rdb, nil
}
