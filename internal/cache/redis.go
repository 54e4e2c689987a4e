package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	// URL wins over Addr/Password/DB when set.
	URL      string
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key so several sites can share one instance.
	Prefix string
}

func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Addr != ""
}

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedis(cfg RedisConfig) (*RedisCache, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	case cfg.Addr != "":
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis address not configured")
	}
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	return &RedisCache{client: redis.NewClient(opts), prefix: cfg.Prefix}, nil
}

func (r *RedisCache) key(k string) string {
	if r.prefix == "" || strings.HasPrefix(k, r.prefix) {
		return k
	}
	return r.prefix + k
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// Delete removes all keys in a single round trip.
func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}
	return r.client.Del(ctx, prefixed...).Err()
}
