package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/xscrape/pkg/record"
)

const defaultTimeout = 30 * time.Second

// maxBodySize caps how much rendered HTML we will read. Profile pages are
// well under this.
const maxBodySize = 10 << 20

// userAgents rotated across requests when no override is set.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// Client renders profile pages over plain HTTP with browser-like headers.
type Client struct {
	baseURL string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithBaseURL overrides the profile host, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// NewClient creates an HTTP renderer.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: "https://x.com",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render fetches the profile page for handle. Statuses that mean the profile
// cannot be served map to sentinel errors; other non-200 statuses become an
// HTTPError carrying the status code.
func (c *Client) Render(ctx context.Context, handle string, opts Options) (*Result, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient, err := c.buildHTTPClient(opts, timeout)
	if err != nil {
		return nil, err
	}

	pageURL := c.baseURL + "/" + url.PathEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	setBrowserHeaders(req, opts.UserAgent)

	c.logger.DebugContext(ctx, "rendering profile page",
		"url", pageURL, "proxy", opts.Proxy != "", "timeout", timeout)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", handle, record.ErrProfileNotFound)
	case http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", handle, record.ErrBlocked)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", handle, record.ErrRateLimited)
	default:
		return nil, &record.HTTPError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response failed: %w", err)
	}

	return &Result{HTML: string(body), StatusCode: resp.StatusCode}, nil
}

// buildHTTPClient assembles a per-render client: proxy, timeout, and a
// cookie jar seeded with the session cookies.
func (c *Client) buildHTTPClient(opts Options, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{Transport: transport, Timeout: timeout}

	if len(opts.Cookies) > 0 {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar creation failed: %w", err)
		}
		base, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		cookies := make([]*http.Cookie, 0, len(opts.Cookies))
		for name, value := range opts.Cookies {
			cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
		jar.SetCookies(base, cookies)
		client.Jar = jar
	}

	return client, nil
}

func setBrowserHeaders(req *http.Request, userAgent string) {
	if userAgent == "" {
		userAgent = userAgents[rand.Intn(len(userAgents))] //nolint:gosec // not cryptographic
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
}
