package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	f, err := NewHTTPFetcher(Options{
		UserAgent: "test-agent",
		Headers:   map[string]string{"Accept-Language": "de-DE"},
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, body, "ok")
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "de-DE", gotLang)
}

func TestHTTPFetcherWrapsStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f, err := NewHTTPFetcher(Options{Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPFetcherClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, domain.ErrContentExtraction},
		{"bad request", http.StatusBadRequest, domain.ErrContentExtraction},
		{"forbidden", http.StatusForbidden, domain.ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			f, err := NewHTTPFetcher(Options{Timeout: 5 * time.Second})
			require.NoError(t, err)
			pages := NewPageFetcher(f, RetryPolicy{Attempts: 3, Delay: time.Millisecond}, 5*time.Second)

			_, err = pages.Fetch(context.Background(), server.URL)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, domain.ErrNetwork)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestHTTPFetcherRetriesTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	f, err := NewHTTPFetcher(Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	pages := NewPageFetcher(f, RetryPolicy{Attempts: 3, Delay: time.Millisecond}, 5*time.Second)

	body, err := pages.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, body, "ok")
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetcherHonoursCancelledContext(t *testing.T) {
	f, err := NewHTTPFetcher(Options{Cookies: session.Cookies{"sp_t": "x"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Fetch(ctx, "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestNewHTTPFetcherRejectsBadProxy(t *testing.T) {
	_, err := NewHTTPFetcher(Options{Proxy: "://bad"})
	assert.Error(t, err)
}
