// Package cache wraps Redis for the API: cached brand payloads, mirrored
// analysis run status, per-token rate limit counters and job event fan-out.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the full Redis surface. Consumers declare the narrower slice
// they use (brand.KV, ai.StatusCache, middleware.Counter, jobs.Publisher).
// Implementations must be safe for concurrent use.
type Cache interface {
	Ping(ctx context.Context) error

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error

	SetRunStatus(ctx context.Context, userID, runID uuid.UUID, status string, ttl time.Duration) error
	GetRunStatus(ctx context.Context, userID, runID uuid.UUID) (string, bool, error)

	IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error)
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisCache implements Cache with go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache parses a redis:// URL. It does not dial; call Ping to verify.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Get reports a missing key as found=false with a nil error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	return val, err == nil, missingOK(err)
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) SetRunStatus(ctx context.Context, userID, runID uuid.UUID, status string, ttl time.Duration) error {
	return c.client.Set(ctx, RunStatusKey(userID, runID), status, ttl).Err()
}

func (c *RedisCache) GetRunStatus(ctx context.Context, userID, runID uuid.UUID) (string, bool, error) {
	val, err := c.client.Get(ctx, RunStatusKey(userID, runID)).Result()
	return val, err == nil, missingOK(err)
}

// IncrWithExpiry bumps a fixed-window counter. The window starts at the
// first hit; later hits in the same window leave its expiry untouched.
func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Publish fans payload out to every subscriber of channel. Delivery is
// fire-and-forget; nobody listening is not an error.
func (c *RedisCache) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.client.Publish(ctx, channel, payload).Err()
}

func missingOK(err error) error {
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
