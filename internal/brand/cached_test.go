package brand

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingClient struct {
	calls int
	brand *Brand
	err   error
}

func (c *countingClient) Lookup(_ context.Context, _ string) (*Brand, error) {
	c.calls++
	return c.brand, c.err
}

func TestCachedClient_SecondLookupServedFromCache(t *testing.T) {
	upstream := &countingClient{}
	b, err := Decode([]byte(stripeBrand))
	require.NoError(t, err)
	upstream.brand = b

	kv := newMemKV()
	c := NewCachedClient(upstream, kv, time.Hour)

	first, err := c.Lookup(context.Background(), "stripe.com")
	require.NoError(t, err)
	second, err := c.Lookup(context.Background(), "STRIPE.com")
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, BestLogoURL(first), BestLogoURL(second))
	assert.Equal(t, time.Hour, kv.ttls["brand:stripe.com"])
}

func TestCachedClient_FailuresAreNotCached(t *testing.T) {
	upstream := &countingClient{err: ErrBrandNotFound}
	kv := newMemKV()
	c := NewCachedClient(upstream, kv, time.Hour)

	for i := 0; i < 2; i++ {
		_, err := c.Lookup(context.Background(), "nope.com")
		assert.True(t, errors.Is(err, ErrBrandNotFound))
	}
	assert.Equal(t, 2, upstream.calls)
	assert.Empty(t, kv.data)
}
