package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicer/internal/config"
	"github.com/smallbiznis/invoicer/internal/providers/closer"
	"go.uber.org/zap"
)

// NewRedisClient returns nil when REDIS_ADDR is empty. Callers treat a nil
// client as "locks and limits disabled".
func NewRedisClient(cfg config.Config, closers *closer.Closers, log *zap.Logger) redis.UniversalClient {
	if !cfg.Redis.Enabled() {
		log.Info("redis not configured, locks and rate limits disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closers.Register("redis", client.Close)
	return client
}

func Ping(ctx context.Context, client redis.UniversalClient) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}
