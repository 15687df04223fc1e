package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gocolly/colly"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"golang.org/x/time/rate"
)

const cookieDomain = "https://open.spotify.com"

// HTTPFetcher is the lightweight backend: a plain colly request without
// script execution. A fresh collector is built per call.
type HTTPFetcher struct {
	opts     Options
	proxyURL *url.URL
	limiter  *rate.Limiter
}

// NewHTTPFetcher creates a new HTTP fetch backend
func NewHTTPFetcher(opts Options) (*HTTPFetcher, error) {
	f := &HTTPFetcher{opts: opts}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", opts.Proxy, err)
		}
		f.proxyURL = proxyURL
	}

	if opts.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return f, nil
}

func (f *HTTPFetcher) Name() string {
	return "http"
}

type visitResult struct {
	body string
	err  error
}

// Fetch downloads the page at pageURL. If ctx ends first Fetch returns
// immediately; the underlying request is only bounded by the collector's
// request timeout.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrNetwork, err)
		}
	}

	c := f.newCollector()

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var status int
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	done := make(chan visitResult, 1)
	go func() {
		err := c.Visit(pageURL)
		done <- visitResult{body: string(body), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrNetwork, ctx.Err())
	case res := <-done:
		if res.err != nil {
			if status != 0 {
				return "", statusError(pageURL, status, res.err)
			}
			return "", fmt.Errorf("%w: %v", domain.ErrNetwork, res.err)
		}
		slog.Debug("Fetched page", "url", pageURL, "bytes", len(res.body))
		return res.body, nil
	}
}

// statusError classifies a failed response. Only 429 and 5xx are
// network-class and therefore retried.
func statusError(pageURL string, status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s returned status %d: %v", domain.ErrNetwork, pageURL, status, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned status %d", domain.ErrAuthentication, pageURL, status)
	default:
		return fmt.Errorf("%w: %s returned status %d", domain.ErrContentExtraction, pageURL, status)
	}
}

func (f *HTTPFetcher) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(f.opts.UserAgent),
	)

	if f.opts.Timeout > 0 {
		c.SetRequestTimeout(f.opts.Timeout)
	}

	if f.proxyURL != nil {
		c.WithTransport(&http.Transport{
			Proxy: http.ProxyURL(f.proxyURL),
		})
	}

	if len(f.opts.Cookies) > 0 {
		if err := c.SetCookies(cookieDomain, f.opts.Cookies.HTTPCookies()); err != nil {
			slog.Warn("Failed to set cookies", "error", err)
		}
	}

	headers := mergedHeaders(f.opts.Headers)
	c.OnRequest(func(r *colly.Request) {
		for k, v := range headers {
			r.Headers.Set(k, v)
		}
	})

	return c
}
