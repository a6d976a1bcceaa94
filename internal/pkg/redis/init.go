package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/logger"
)

var Rdb *redis.Client

// InitRedis connects the shared client used by the upstream
// concurrency gate and the per-shortcode enrichment lock.
func InitRedis(cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	rdb.AddHook(logger.NewRedisLogger())

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return err
	}

	Rdb = rdb
	return nil
}
