package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-aegis/aegis/internal/core"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface check.
var _ core.Cache[struct{}] = (*RedisCache[struct{}])(nil)

// RedisCache implements Cache backed by Redis. Values are JSON-encoded,
// so any T that round-trips through encoding/json works.
// Suitable for multi-instance deployments.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache. The prefix namespaces all
// keys so multiple caches can share one Redis database.
func NewRedisCache[T any](client *redis.Client, prefix string) *RedisCache[T] {
	return &RedisCache[T]{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisCache[T]) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Get retrieves a value from cache.
func (r *RedisCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrCacheMiss
		}
		return zero, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, err
	}
	return value, nil
}

// Set stores a value in cache with TTL.
func (r *RedisCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

// Delete removes a key from cache.
func (r *RedisCache[T]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close releases the underlying Redis connection.
func (r *RedisCache[T]) Close() error {
	return r.client.Close()
}

// Health pings the Redis server.
func (r *RedisCache[T]) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
