package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates the optional Redis client backing the distributed
// last-solve cache mirror. Returns nil when Cache.RedisURL is unset — the
// mirror is disabled and the process-wide in-memory cache is authoritative.
func NewRedisClient(cfg *Config, logger *zap.Logger) *redis.Client {
	if cfg.Cache.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		logger.Warn("Invalid CACHE_REDIS_URL, disabling cache mirror", zap.Error(err))
		return nil
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable - last-solve cache mirror disabled", zap.Error(err))
		return nil
	}

	logger.Info("Redis cache mirror connected", zap.String("addr", opts.Addr))
	return client
}
