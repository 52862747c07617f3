// Package fetch wraps a page render with retry semantics: transient failures
// get retried with exponential backoff, permanent ones fail immediately.
package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/codeGROOVE-dev/xscrape/pkg/record"
	"github.com/codeGROOVE-dev/xscrape/pkg/render"
)

// Config controls the retry schedule.
type Config struct {
	Attempts  uint          // total attempts including the first
	BaseDelay time.Duration // delay before the first retry, doubled each attempt
	MaxDelay  time.Duration // backoff cap
}

// DefaultConfig matches the scraper defaults: three attempts, 1s base delay
// capped at 30s.
func DefaultConfig() Config {
	return Config{
		Attempts:  3,
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
	}
}

// Do renders the profile page for handle, retrying transient failures per
// cfg. Permanent errors (not found, suspended, auth required, other 4xx)
// are returned after the first attempt. The returned error is the one from
// the final attempt.
func Do(ctx context.Context, r render.Renderer, handle string, opts render.Options, cfg Config, logger *slog.Logger) (*render.Result, error) {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return retry.DoWithData(
		func() (*render.Result, error) {
			return r.Render(ctx, handle, opts)
		},
		retry.Context(ctx),
		retry.Attempts(cfg.Attempts),
		retry.Delay(cfg.BaseDelay),
		retry.MaxDelay(cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxJitter(cfg.BaseDelay/4),
		retry.LastErrorOnly(true),
		retry.RetryIf(record.IsTransient),
		retry.OnRetry(func(n uint, err error) {
			logger.DebugContext(ctx, "retrying render",
				"handle", handle, "attempt", n+1, "error", err)
		}),
	)
}
