package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func TestJSONRoundTripThroughCache(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()

	require.NoError(t, SetJSON(ctx, c, "products:all", []string{"semen", "bata"}, time.Minute))

	var got []string
	require.True(t, GetJSON(ctx, c, "products:all", &got))
	assert.Equal(t, []string{"semen", "bata"}, got)

	require.NoError(t, c.Delete(ctx, "products:all"))
	assert.False(t, GetJSON(ctx, c, "products:all", &got))
}

func TestGetJSONTreatsGarbageAsMiss(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	require.NoError(t, c.Set(ctx, "k", []byte("{not json"), time.Minute))

	var got map[string]string
	assert.False(t, GetJSON(ctx, c, "k", &got))
}

func TestNoopAndNilCache(t *testing.T) {
	ctx := context.Background()
	var dst []int
	assert.False(t, GetJSON(ctx, NewNoop(), "k", &dst))
	assert.False(t, GetJSON(ctx, nil, "k", &dst))
	assert.NoError(t, SetJSON(ctx, nil, "k", dst, time.Second))
}

func TestRedisConfig(t *testing.T) {
	assert.False(t, RedisConfig{}.Enabled())
	assert.True(t, RedisConfig{Addr: "localhost:6379"}.Enabled())

	_, err := NewRedis(RedisConfig{})
	require.Error(t, err)
	_, err = NewRedis(RedisConfig{URL: "http://not-redis"})
	require.ErrorContains(t, err, "parse redis url")
}

func TestRedisKeyPrefix(t *testing.T) {
	r, err := NewRedis(RedisConfig{URL: "redis://localhost:6379/2", Prefix: "konstruksi:"})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "konstruksi:products:published", r.key("products:published"))
	assert.Equal(t, "konstruksi:pages:home", r.key("konstruksi:pages:home"))

	bare, err := NewRedis(RedisConfig{Addr: "localhost:6379"})
	require.NoError(t, err)
	defer bare.Close()
	assert.Equal(t, "pages:home", bare.key("pages:home"))
}
