package cache

import (
	"context"
	"time"
)

// NullStore is the disabled-cache backend: every read misses, every write
// succeeds and is discarded.
type NullStore struct{}

// Get always misses.
func (NullStore) Get(_ context.Context, _ string) (*Entry, error) { return nil, nil }

// Set discards the value.
func (NullStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }

// Invalidate is a no-op.
func (NullStore) Invalidate(_ context.Context, _ string) error { return nil }

// Clear is a no-op.
func (NullStore) Clear(_ context.Context) error { return nil }

// Close is a no-op.
func (NullStore) Close() error { return nil }
