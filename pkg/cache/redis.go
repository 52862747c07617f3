package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "xscrape:"

// redisEnvelope wraps a cached value with its timestamps. Redis handles
// expiry server-side via the key TTL; the envelope preserves creation time
// so entry age survives the round-trip.
type redisEnvelope struct {
	Value     []byte `json:"value"`
	CreatedAt int64  `json:"created_at"` // unix nanoseconds
	ExpiresAt int64  `json:"expires_at"`
}

// RedisStore caches results in a shared Redis instance, suitable for
// multiple scraper processes sharing one cache.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore connects to Redis at url (e.g. "redis://localhost:6379/0")
// and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, now: time.Now}, nil
}

// Get returns the entry for key, or (nil, nil) when absent or expired.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := s.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("cache decode %q: %w", key, err)
	}
	// Belt and braces: redis should have expired the key already.
	if s.now().UnixNano() >= env.ExpiresAt {
		return nil, nil
	}

	return &Entry{
		Key:       key,
		Value:     env.Value,
		CreatedAt: time.Unix(0, env.CreatedAt),
		ExpiresAt: time.Unix(0, env.ExpiresAt),
	}, nil
}

// Set stores value under key with the given ttl.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	data, err := json.Marshal(redisEnvelope{
		Value:     value,
		CreatedAt: now.UnixNano(),
		ExpiresAt: now.Add(ttl).UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, redisPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Invalidate removes the entry for key, if any.
func (s *RedisStore) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache invalidate %q: %w", key, err)
	}
	return nil
}

// Clear removes every entry under the scraper's key prefix, leaving other
// tenants of the Redis instance untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache clear scan: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
