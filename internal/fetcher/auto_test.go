package fetcher

import (
	"context"
	"testing"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoFetcherUsesPrimaryWhenItSucceeds(t *testing.T) {
	primary := &stubFetcher{name: "http", body: "primary"}
	fallback := &stubFetcher{name: "browser", body: "fallback"}

	body, err := NewAutoFetcher(primary, fallback).Fetch(context.Background(), "https://open.spotify.com/")

	require.NoError(t, err)
	assert.Equal(t, "primary", body)
	assert.Equal(t, 0, fallback.calls)
}

func TestAutoFetcherFallsBack(t *testing.T) {
	primary := &stubFetcher{name: "http", failures: 1}
	fallback := &stubFetcher{name: "browser", body: "rendered"}

	body, err := NewAutoFetcher(primary, fallback).Fetch(context.Background(), "https://open.spotify.com/")

	require.NoError(t, err)
	assert.Equal(t, "rendered", body)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestAutoFetcherReportsBothFailures(t *testing.T) {
	primary := &stubFetcher{name: "http", failures: 1}
	fallback := &stubFetcher{name: "browser", failures: 1}

	_, err := NewAutoFetcher(primary, fallback).Fetch(context.Background(), "https://open.spotify.com/")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "http")
	assert.Contains(t, err.Error(), "browser")
}

func TestNewSelectsBackendFromConfiguration(t *testing.T) {
	testCases := []struct {
		backend string
		name    string
	}{
		{config.BackendHTTP, "http"},
		{config.BackendBrowser, "browser"},
		{config.BackendAuto, "auto"},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			f, err := New(tc.backend, Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.name, f.Name())
		})
	}

	_, err := New("carrier-pigeon", Options{})
	assert.Error(t, err)
}

func TestNewPageFetcherFromConfig(t *testing.T) {
	cfg := config.Default().Fetch
	cfg.Backend = config.BackendAuto

	pf, err := NewPageFetcherFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "auto", pf.Backend())
}
