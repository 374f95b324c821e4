package cache

import (
	"context"
	"fmt"
	"time"

	"ai-coder/config"

	"github.com/go-redis/redis/v8"
)

// Enabled reports whether a Redis address is configured at all.
func Enabled(cfg *config.RedisConfig) bool {
	return cfg.Address != ""
}

func Addr(cfg *config.RedisConfig) string {
	return fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
}

// NewRedisClient dials Redis and pings it once so a bad address fails at startup.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         Addr(cfg),
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
