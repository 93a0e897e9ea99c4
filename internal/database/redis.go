package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"school-portal-api/internal/config"
)

const redisPingTimeout = 3 * time.Second

// InitRedis connects to Redis when an address or URL is configured.
// It returns (nil, nil) when Redis is not configured; the list cache is then disabled.
func InitRedis(cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil || opts == nil {
		if opts == nil && err == nil {
			log.Info("Redis not configured, list cache disabled")
		}
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	log.Info("Redis connection established",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
	)
	return client, nil
}

// redisOptions prefers a redis:// URL over the discrete address fields
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	switch {
	case cfg.URL != "":
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	case cfg.Addr != "":
		return &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}, nil
	default:
		return nil, nil
	}
}
