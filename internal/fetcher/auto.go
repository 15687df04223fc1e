package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaki95/spotify-scraper/internal/domain"
)

// AutoFetcher tries the primary backend and falls back to the second one when
// it fails. It keeps no memory of earlier outcomes.
type AutoFetcher struct {
	primary  Fetcher
	fallback Fetcher
}

func NewAutoFetcher(primary, fallback Fetcher) *AutoFetcher {
	return &AutoFetcher{
		primary:  primary,
		fallback: fallback,
	}
}

func (a *AutoFetcher) Name() string {
	return "auto"
}

func (a *AutoFetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := a.primary.Fetch(ctx, url)
	if err == nil {
		return body, nil
	}
	slog.Warn("Primary backend failed, falling back", "primary", a.primary.Name(), "fallback", a.fallback.Name(), "error", err)

	body, fallbackErr := a.fallback.Fetch(ctx, url)
	if fallbackErr != nil {
		return "", fmt.Errorf("%w: %s: %v; %s: %v", domain.ErrNetwork, a.primary.Name(), err, a.fallback.Name(), fallbackErr)
	}
	return body, nil
}
