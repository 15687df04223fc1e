package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/domain"
)

const DefaultAttempts = 3

// RetryPolicy retries network-class failures a fixed number of times.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	// Backoff doubles Delay after every failed attempt.
	Backoff bool
}

// PolicyFromConfig reads the retry settings of cfg.
func PolicyFromConfig(cfg config.FetchConfig) RetryPolicy {
	return RetryPolicy{
		Attempts: cfg.Retries,
		Delay:    cfg.RetryDelay,
		Backoff:  cfg.Backoff,
	}
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return DefaultAttempts
	}
	return p.Attempts
}

// delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	if !p.Backoff {
		return p.Delay
	}
	return p.Delay * time.Duration(1<<uint(attempt-1))
}

// Do runs op until it succeeds, returns an error that is not wrapped in
// domain.ErrNetwork, or the attempts are used up. The final error still wraps
// the last attempt's error.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	attempts := p.attempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := p.delay(attempt - 1)
			slog.Info("Retrying request", "attempt", attempt, "delay", wait.String())
			if err := sleep(ctx, wait); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
			}
		}

		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, domain.ErrNetwork) {
			return lastErr
		}
		slog.Warn("Request failed", "attempt", attempt, "error", lastErr)
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PageFetcher applies a RetryPolicy and a per-attempt timeout to a Fetcher.
type PageFetcher struct {
	fetcher Fetcher
	policy  RetryPolicy
	timeout time.Duration
}

func NewPageFetcher(f Fetcher, policy RetryPolicy, timeout time.Duration) *PageFetcher {
	return &PageFetcher{
		fetcher: f,
		policy:  policy,
		timeout: timeout,
	}
}

// Backend returns the name of the wrapped fetch capability.
func (p *PageFetcher) Backend() string {
	return p.fetcher.Name()
}

// Fetch returns the page text at url, retrying transport failures.
func (p *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := p.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		attemptCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}

		slog.Debug("Fetching page", "url", url, "backend", p.fetcher.Name(), "attempt", attempt)
		text, err := p.fetcher.Fetch(attemptCtx, url)
		if err != nil {
			return err
		}
		body = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return body, nil
}
