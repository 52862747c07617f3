// Package proxy rotates outbound requests across a pool of proxy URLs.
package proxy

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
)

// Mode selects how the rotator picks the next proxy.
type Mode string

const (
	// RoundRobin cycles through the pool in order.
	RoundRobin Mode = "round_robin"
	// Random picks uniformly at random on each call.
	Random Mode = "random"
)

// Rotator hands out proxy URLs from a fixed pool. Safe for concurrent use.
type Rotator struct {
	mu    sync.Mutex
	pool  []string
	mode  Mode
	index int
}

// New creates a rotator over the given proxy URLs. An empty pool is valid;
// Next then reports no proxy available. Unknown modes fall back to
// round-robin.
func New(pool []string, mode Mode) *Rotator {
	if mode != Random {
		mode = RoundRobin
	}
	return &Rotator{pool: pool, mode: mode}
}

// FromFile loads a proxy pool from a file with one URL per line. Blank lines
// and lines starting with # are skipped.
func FromFile(path string, mode Mode) (*Rotator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	var pool []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pool = append(pool, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}

	return New(pool, mode), nil
}

// Next returns the next proxy URL per the configured mode. The second return
// is false when the pool is empty, meaning connect directly.
func (r *Rotator) Next() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pool) == 0 {
		return "", false
	}

	if r.mode == Random {
		return r.pool[rand.Intn(len(r.pool))], true //nolint:gosec // not cryptographic
	}

	p := r.pool[r.index]
	r.index = (r.index + 1) % len(r.pool)
	return p, true
}

// Size returns the number of proxies in the pool.
func (r *Rotator) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pool)
}
