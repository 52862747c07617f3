// Command xscrape scrapes X/Twitter profiles and recent posts as JSON.
//
// Usage:
//
//	xscrape jack
//	xscrape -cache sqlite -ttl 10m jack elonmusk
//	xscrape -proxy-file proxies.txt -concurrency 10 @user1 @user2
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/xscrape/pkg/auth"
	"github.com/codeGROOVE-dev/xscrape/pkg/cache"
	"github.com/codeGROOVE-dev/xscrape/pkg/proxy"
	"github.com/codeGROOVE-dev/xscrape/pkg/record"
	"github.com/codeGROOVE-dev/xscrape/pkg/scrape"
)

func main() {
	cacheKind := flag.String("cache", "sqlite", "cache backend: sqlite, redis, or none")
	cachePath := flag.String("cache-path", defaultCachePath(), "sqlite cache database path")
	redisURL := flag.String("redis-url", "redis://localhost:6379/0", "redis connection URL")
	ttl := flag.Duration("ttl", 5*time.Minute, "cache time-to-live")
	proxyFile := flag.String("proxy-file", "", "file with one proxy URL per line")
	proxyMode := flag.String("proxy-mode", "round_robin", "proxy rotation: round_robin or random")
	concurrency := flag.Int("concurrency", 5, "max simultaneous fetches")
	attempts := flag.Uint("attempts", 3, "fetch attempts per target")
	timeout := flag.Duration("timeout", 30*time.Second, "per-page fetch timeout")
	minInterval := flag.Duration("min-interval", 0, "minimum gap between live fetches")
	force := flag.Bool("force", false, "bypass the cache and fetch live")
	browserCookies := flag.Bool("browser-cookies", false, "read session cookies from browser stores")
	output := flag.String("o", "", "write JSON to a file, or per-handle files if a directory")
	invalidate := flag.String("invalidate", "", "drop the cached entry for a handle and exit")
	clearCache := flag.Bool("clear-cache", false, "drop all cached entries and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := openStore(ctx, *cacheKind, *cachePath, *redisURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	maintenance := *invalidate != "" || *clearCache
	if !maintenance && flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: xscrape [options] <handle> [handle...]")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSession cookies are read from %v,\n", auth.EnvVars())
		fmt.Fprintln(os.Stderr, "or from browser stores with -browser-cookies.")
		os.Exit(1)
	}

	cookies, err := resolveCookies(ctx, logger, *browserCookies)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rotator, err := buildRotator(*proxyFile, *proxyMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scraper := scrape.New(scrape.Config{
		Concurrency:      *concurrency,
		Attempts:         *attempts,
		CacheTTL:         *ttl,
		Timeout:          *timeout,
		MinFetchInterval: *minInterval,
		ForceRefresh:     *force,
	},
		scrape.WithStore(store),
		scrape.WithRotator(rotator),
		scrape.WithCookies(cookies),
		scrape.WithLogger(logger),
	)
	defer func() {
		if err := scraper.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}()

	if maintenance {
		runMaintenance(ctx, scraper, *invalidate, *clearCache)
		return
	}

	start := time.Now()
	results := scraper.ScrapeMany(ctx, flag.Args())

	if err := writeResults(results, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	ok, cached := 0, 0
	for _, r := range results {
		if r.Success {
			ok++
		}
		if r.Cached {
			cached++
		}
	}
	fmt.Fprintf(os.Stderr, "scraped %d handles: %d ok, %d failed, %d cached (%s)\n",
		len(results), ok, len(results)-ok, cached, time.Since(start).Round(time.Millisecond))

	if ok < len(results) {
		os.Exit(2)
	}
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "xscrape.db"
	}
	return filepath.Join(dir, "xscrape", "cache.db")
}

func openStore(ctx context.Context, kind, path, redisURL string) (cache.Store, error) {
	switch kind {
	case "sqlite":
		return cache.NewSQLiteStore(path)
	case "redis":
		return cache.NewRedisStore(ctx, redisURL)
	case "none":
		return cache.NullStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want sqlite, redis, or none)", kind)
	}
}

// resolveCookies tries explicit env vars first, then browser stores when
// enabled. Running without cookies is allowed; the site just serves less.
func resolveCookies(ctx context.Context, logger *slog.Logger, browser bool) (map[string]string, error) {
	sources := []auth.Source{auth.EnvSource{}}
	if browser {
		sources = append(sources, auth.NewBrowserSource(logger))
	}
	cookies, err := auth.Chain(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}
	if len(cookies) == 0 {
		logger.Debug("no session cookies found, scraping unauthenticated")
	}
	return cookies, nil
}

func buildRotator(file, mode string) (*proxy.Rotator, error) {
	if file == "" {
		return proxy.New(nil, proxy.Mode(mode)), nil
	}
	return proxy.FromFile(file, proxy.Mode(mode))
}

func runMaintenance(ctx context.Context, scraper *scrape.Scraper, invalidate string, clear bool) {
	if invalidate != "" {
		if err := scraper.Invalidate(ctx, invalidate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
		}
	}
	if clear {
		if err := scraper.ClearCache(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// writeResults prints results as indented JSON. With -o pointing at a
// directory, each handle gets its own <handle>.json; otherwise everything
// goes to the named file or stdout.
func writeResults(results []*record.Result, path string) error {
	if path != "" {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			for _, r := range results {
				f, err := os.Create(filepath.Join(path, r.Handle+".json"))
				if err != nil {
					return err
				}
				err = encodeJSON(f, r)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
			}
			return nil
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = encodeJSON(f, collapse(results))
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}

	return encodeJSON(os.Stdout, collapse(results))
}

// collapse unwraps single-element batches so scraping one handle prints one
// object, not a one-element array.
func collapse(results []*record.Result) any {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
