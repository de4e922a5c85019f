package brand

import (
	"context"
	"log/slog"
	"time"

	"github.com/careerai/careerai/internal/cache"
)

// KV is the slice of the cache the brand decorator needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedClient serves repeat lookups for a domain from Redis. Only
// successful payloads are cached; failures always reach the upstream.
type CachedClient struct {
	next Client
	kv   KV
	ttl  time.Duration
}

func NewCachedClient(next Client, kv KV, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, kv: kv, ttl: ttl}
}

func (c *CachedClient) Lookup(ctx context.Context, domain string) (*Brand, error) {
	key := cache.BrandKey(domain)

	raw, found, err := c.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("brand cache read failed", "domain", domain, "error", err)
	}
	if found {
		if b, err := Decode(raw); err == nil {
			return b, nil
		}
		slog.Warn("brand cache entry unreadable", "domain", domain)
	}

	b, err := c.next.Lookup(ctx, domain)
	if err != nil {
		return nil, err
	}

	if len(b.Raw) > 0 {
		if err := c.kv.Set(ctx, key, b.Raw, c.ttl); err != nil {
			slog.Warn("brand cache write failed", "domain", domain, "error", err)
		}
	}
	return b, nil
}

var _ Client = (*CachedClient)(nil)
