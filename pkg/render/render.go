// Package render fetches rendered profile pages. The default implementation
// drives plain HTTP with browser-like headers; a headless-browser renderer
// can be plugged in behind the same interface.
package render

import (
	"context"
	"time"
)

// Options controls a single page render.
type Options struct {
	Headless  bool              // run a headless browser when the renderer supports one
	Proxy     string            // proxy URL, empty for a direct connection
	Timeout   time.Duration     // per-render deadline
	UserAgent string            // override; empty picks from the built-in rotation
	Cookies   map[string]string // session cookies (auth_token, ct0)
}

// Result is the outcome of a successful render.
type Result struct {
	HTML       string
	StatusCode int
}

// Renderer loads a profile page for a handle and returns its rendered HTML.
// Implementations map blocking statuses to the sentinel errors in pkg/record.
type Renderer interface {
	Render(ctx context.Context, handle string, opts Options) (*Result, error)
}
