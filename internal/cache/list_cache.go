// Package cache keeps serialized list pages in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "school_portal:list"

// NoVersion is returned by Get when the kind's version could not be read; Set ignores it
const NoVersion int64 = -1

// ListCache stores list responses per content kind. Invalidate drops every page of a kind.
// Get returns the version it observed; passing it to Set keeps a page computed before an
// Invalidate from being stored as current.
type ListCache interface {
	Get(ctx context.Context, kind, key string, dest interface{}) (version int64, hit bool)
	Set(ctx context.Context, kind string, version int64, key string, value interface{})
	Invalidate(ctx context.Context, kind string)
}

// RedisListCache versions keys per kind; bumping the version orphans old pages, which then expire by TTL.
// A nil client turns every call into a miss or no-op.
type RedisListCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisListCache creates a cache; client may be nil
func NewRedisListCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisListCache{redis: client, ttl: ttl, logger: logger}
}

func versionKey(kind string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, kind)
}

func pageKey(kind string, version int64, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", keyPrefix, kind, version, key)
}

func (c *RedisListCache) version(ctx context.Context, kind string) (int64, error) {
	v, err := c.redis.Get(ctx, versionKey(kind)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// Get loads a cached page into dest and reports whether it was found
func (c *RedisListCache) Get(ctx context.Context, kind, key string, dest interface{}) (int64, bool) {
	if c.redis == nil {
		return NoVersion, false
	}

	v, err := c.version(ctx, kind)
	if err != nil {
		c.logger.Warn("Failed to read list cache version", zap.String("kind", kind), zap.Error(err))
		return NoVersion, false
	}

	data, err := c.redis.Get(ctx, pageKey(kind, v, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Failed to read list cache", zap.String("kind", kind), zap.Error(err))
		}
		return v, false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Discarding undecodable list cache entry", zap.String("kind", kind), zap.Error(err))
		return v, false
	}
	return v, true
}

// Set stores a page under version. A page written under a version that was
// invalidated meanwhile is never read and expires by TTL.
func (c *RedisListCache) Set(ctx context.Context, kind string, version int64, key string, value interface{}) {
	if c.redis == nil || version == NoVersion {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode list page", zap.String("kind", kind), zap.Error(err))
		return
	}

	if err := c.redis.Set(ctx, pageKey(kind, version, key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write list cache", zap.String("kind", kind), zap.Error(err))
	}
}

// Invalidate bumps the kind's version
func (c *RedisListCache) Invalidate(ctx context.Context, kind string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Incr(ctx, versionKey(kind)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate list cache", zap.String("kind", kind), zap.Error(err))
	}
}

var _ ListCache = (*RedisListCache)(nil)
