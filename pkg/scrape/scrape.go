// Package scrape orchestrates profile scrapes: cache lookup, bounded
// concurrent fetching with retries, extraction, and normalization into
// final results.
package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/xscrape/pkg/cache"
	"github.com/codeGROOVE-dev/xscrape/pkg/extract"
	"github.com/codeGROOVE-dev/xscrape/pkg/fetch"
	"github.com/codeGROOVE-dev/xscrape/pkg/normalize"
	"github.com/codeGROOVE-dev/xscrape/pkg/proxy"
	"github.com/codeGROOVE-dev/xscrape/pkg/record"
	"github.com/codeGROOVE-dev/xscrape/pkg/render"
)

// Config controls scraping behavior. Zero values take the documented
// defaults.
type Config struct {
	Concurrency      int           // max simultaneous live fetches (default 5)
	Attempts         uint          // fetch attempts per target (default 3)
	BaseDelay        time.Duration // backoff base delay (default 1s)
	MaxDelay         time.Duration // backoff cap (default 30s)
	CacheTTL         time.Duration // result freshness window (default 5m)
	Timeout          time.Duration // per-render deadline (default 30s)
	MinFetchInterval time.Duration // politeness gap between live fetches (default none)
	UserAgent        string        // override; empty rotates built-in agents
	Headless         bool          // request headless rendering when supported
	ForceRefresh     bool          // bypass cache reads (writes still happen)
}

func (c *Config) applyDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	if c.Attempts == 0 {
		c.Attempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Scraper coordinates the full pipeline for one or many targets.
type Scraper struct {
	cfg      Config
	store    cache.Store
	renderer render.Renderer
	rotator  *proxy.Rotator
	cookies  map[string]string
	parser   extract.Parser
	logger   *slog.Logger
	sem      chan struct{}
	pacer    *pacer
	now      func() time.Time
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithStore sets the cache backend. Default is the null store.
func WithStore(store cache.Store) Option {
	return func(s *Scraper) { s.store = store }
}

// WithRenderer sets the page renderer. Default is the HTTP client.
func WithRenderer(r render.Renderer) Option {
	return func(s *Scraper) { s.renderer = r }
}

// WithRotator sets the proxy pool. Default is no proxying.
func WithRotator(r *proxy.Rotator) Option {
	return func(s *Scraper) { s.rotator = r }
}

// WithCookies sets session cookies forwarded to the renderer.
func WithCookies(cookies map[string]string) Option {
	return func(s *Scraper) { s.cookies = cookies }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) { s.logger = logger }
}

// New creates a Scraper with the given configuration.
func New(cfg Config, opts ...Option) *Scraper {
	cfg.applyDefaults()

	s := &Scraper{
		cfg:     cfg,
		store:   cache.NullStore{},
		rotator: proxy.New(nil, proxy.RoundRobin),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.NewClient(render.WithLogger(s.logger))
	}
	s.sem = make(chan struct{}, cfg.Concurrency)
	s.pacer = newPacer(cfg.MinFetchInterval)
	return s
}

// ScrapeOne scrapes a single handle. It never returns an error: failures are
// reported in the Result with Success false and Error set.
func (s *Scraper) ScrapeOne(ctx context.Context, handle string) *record.Result {
	start := s.now()
	key := cache.Key(handle)

	if !s.cfg.ForceRefresh {
		if result := s.cachedResult(ctx, key, start); result != nil {
			return result
		}
	}

	result := s.scrapeLive(ctx, key)
	result.Duration = s.now().Sub(start)

	if result.Success {
		s.storeResult(ctx, key, result)
	}
	return result
}

// ScrapeMany scrapes handles concurrently, bounded by the configured
// concurrency limit. Results come back in input order, one per handle.
func (s *Scraper) ScrapeMany(ctx context.Context, handles []string) []*record.Result {
	results := make([]*record.Result, len(handles))

	g, ctx := errgroup.WithContext(ctx)
	for i, handle := range handles {
		g.Go(func() error {
			results[i] = s.ScrapeOne(ctx, handle)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	return results
}

// Invalidate drops the cached result for handle, if any.
func (s *Scraper) Invalidate(ctx context.Context, handle string) error {
	return s.store.Invalidate(ctx, cache.Key(handle))
}

// ClearCache drops every cached result.
func (s *Scraper) ClearCache(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Close releases the cache backend.
func (s *Scraper) Close() error {
	return s.store.Close()
}

// cachedResult returns a fresh cached result for key, or nil on a miss.
// Cache errors degrade to a live fetch.
func (s *Scraper) cachedResult(ctx context.Context, key string, start time.Time) *record.Result {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, falling back to live fetch",
			"handle", key, "error", err)
		return nil
	}
	if entry == nil {
		return nil
	}

	var result record.Result
	if err := json.Unmarshal(entry.Value, &result); err != nil {
		s.logger.WarnContext(ctx, "corrupt cache entry, falling back to live fetch",
			"handle", key, "error", err)
		return nil
	}

	result.Cached = true
	result.CacheAge = entry.Age(s.now())
	result.Duration = s.now().Sub(start)
	s.logger.DebugContext(ctx, "cache hit", "handle", key, "age", result.CacheAge)
	return &result
}

// scrapeLive performs the fetch-extract-normalize pipeline for one target.
// The concurrency semaphore is held only around the live fetch.
func (s *Scraper) scrapeLive(ctx context.Context, key string) *record.Result {
	result := &record.Result{Handle: key, ScrapedAt: s.now()}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		result.Error = ctx.Err().Error()
		return result
	}

	res, err := s.fetchPage(ctx, key)
	<-s.sem

	if err != nil {
		s.logger.WarnContext(ctx, "scrape failed", "handle", key, "error", err)
		result.Error = err.Error()
		return result
	}

	ex := s.parser.Parse(res.HTML, key)
	result.Warnings = append(result.Warnings, ex.Warnings...)

	now := s.now()
	profile, warns := normalize.BuildProfile(ex.Profile, key, now)
	result.Warnings = append(result.Warnings, warns...)
	if profile == nil {
		result.Error = "profile data not found in page"
		return result
	}

	posts, warns := normalize.BuildPosts(ex.Posts, key, now)
	result.Warnings = append(result.Warnings, warns...)
	normalize.OrderPosts(posts)

	result.Success = true
	result.Profile = profile
	result.Posts = posts
	s.logger.InfoContext(ctx, "scraped profile",
		"handle", key, "posts", len(posts), "warnings", len(result.Warnings))
	return result
}

// fetchPage waits out the politeness interval, picks a proxy, and renders
// the page with retries.
func (s *Scraper) fetchPage(ctx context.Context, key string) (*render.Result, error) {
	if err := s.pacer.wait(ctx); err != nil {
		return nil, err
	}

	opts := render.Options{
		Headless:  s.cfg.Headless,
		Timeout:   s.cfg.Timeout,
		UserAgent: s.cfg.UserAgent,
		Cookies:   s.cookies,
	}
	if p, ok := s.rotator.Next(); ok {
		opts.Proxy = p
	}

	return fetch.Do(ctx, s.renderer, key, opts, fetch.Config{
		Attempts:  s.cfg.Attempts,
		BaseDelay: s.cfg.BaseDelay,
		MaxDelay:  s.cfg.MaxDelay,
	}, s.logger)
}

// storeResult caches a successful result. Write failures are logged, never
// surfaced.
func (s *Scraper) storeResult(ctx context.Context, key string, result *record.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.WarnContext(ctx, "cache encode failed", "handle", key, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "handle", key, "error", err)
	}
}
