// Package cache provides result caching with pluggable backends. Entries
// expire lazily: expiration is checked at read time and expired rows are
// never served, whether or not a backend has deleted them yet.
package cache

import (
	"context"
	"strings"
	"time"
)

// Entry is one cached scrape result with its storage metadata.
type Entry struct {
	Key       string
	Value     []byte // serialized result JSON
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Store is the backend interface. Get returns (nil, nil) on a miss or an
// expired entry; storage errors are returned so callers can degrade to a
// live fetch.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// Key normalizes a handle into a cache key: strip the @ prefix, lowercase.
// "@Jack" and "jack" share one entry.
func Key(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
