// Package fetcher retrieves page text for a URL through pluggable backends and
// wraps them with a fixed-attempt retry policy.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/session"
)

// Fetcher returns the raw text served at a URL. Transport failures are
// reported wrapped in domain.ErrNetwork.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Name() string
}

// Options are the per-session settings shared by all backends.
type Options struct {
	UserAgent         string
	Headers           map[string]string
	Proxy             string
	Timeout           time.Duration
	Cookies           session.Cookies
	RequestsPerSecond float64

	Headless    bool
	BrowserPath string
}

// OptionsFromConfig copies the fetch section of cfg into Options.
func OptionsFromConfig(cfg config.FetchConfig, cookies session.Cookies) Options {
	return Options{
		UserAgent:         cfg.UserAgent,
		Headers:           cfg.Headers,
		Proxy:             cfg.Proxy,
		Timeout:           cfg.Timeout,
		Cookies:           cookies,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Headless:          cfg.Headless,
		BrowserPath:       cfg.BrowserPath,
	}
}

// New returns the backend named by backend.
func New(backend string, opts Options) (Fetcher, error) {
	switch backend {
	case config.BackendHTTP:
		return NewHTTPFetcher(opts)
	case config.BackendBrowser:
		return NewBrowserFetcher(opts), nil
	case config.BackendAuto:
		primary, err := NewHTTPFetcher(opts)
		if err != nil {
			return nil, err
		}
		return NewAutoFetcher(primary, NewBrowserFetcher(opts)), nil
	default:
		return nil, fmt.Errorf("no fetch backend available for %q", backend)
	}
}

// NewPageFetcherFromConfig builds the configured backend wrapped in the
// configured retry policy.
func NewPageFetcherFromConfig(cfg config.FetchConfig, cookies session.Cookies) (*PageFetcher, error) {
	backend, err := New(cfg.Backend, OptionsFromConfig(cfg, cookies))
	if err != nil {
		return nil, err
	}
	return NewPageFetcher(backend, PolicyFromConfig(cfg), cfg.Timeout), nil
}

// defaultHeaders mirror what a desktop browser sends for a top level page.
var defaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Cache-Control":   "max-age=0",
}

func mergedHeaders(extra map[string]string) map[string]string {
	headers := make(map[string]string, len(defaultHeaders)+len(extra))
	for k, v := range defaultHeaders {
		headers[k] = v
	}
	for k, v := range extra {
		headers[k] = v
	}
	return headers
}
