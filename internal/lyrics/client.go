// Package lyrics fetches time-synced lyrics for a track. It needs the sp_dc
// cookie of a logged-in web player session.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/fetcher"
	"github.com/jaki95/spotify-scraper/internal/mapper"
	"github.com/jaki95/spotify-scraper/internal/session"
	"github.com/jaki95/spotify-scraper/internal/spotifyurl"
	"github.com/tidwall/gjson"
)

const (
	DefaultTokenURL  = "https://open.spotify.com/get_access_token?reason=transport&productType=web_player"
	DefaultLyricsURL = "https://spclient.wg.spotify.com/color-lyrics/v2/track/"

	// tokens are refreshed this long before they expire
	expiryMargin = 30 * time.Second
	maxBodySize  = 4 << 20
)

type Client struct {
	httpClient *http.Client
	cookies    session.Cookies
	userAgent  string
	policy     fetcher.RetryPolicy
	timeout    time.Duration

	tokenURL  string
	lyricsURL string

	mu      sync.Mutex
	token   string
	expires time.Time
}

type Option func(*Client)

// WithEndpoints overrides the token endpoint and the lyrics base URL the
// track id is appended to.
func WithEndpoints(tokenURL, lyricsURL string) Option {
	return func(c *Client) {
		c.tokenURL = tokenURL
		c.lyricsURL = lyricsURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func New(cookies session.Cookies, cfg config.FetchConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		cookies:    cookies,
		userAgent:  cfg.UserAgent,
		policy:     fetcher.PolicyFromConfig(cfg),
		timeout:    cfg.Timeout,
		tokenURL:   DefaultTokenURL,
		lyricsURL:  DefaultLyricsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lyrics returns the synced lines of a track. A track without lyrics
// yields an empty slice.
func (c *Client) Lyrics(ctx context.Context, trackID string) ([]domain.SyncedLyric, error) {
	if !spotifyurl.IsValidID(trackID) {
		return nil, fmt.Errorf("%w: invalid track id %q", domain.ErrURL, trackID)
	}
	if !c.cookies.Authenticated() {
		return nil, fmt.Errorf("%w: lyrics require the %s cookie", domain.ErrAuthentication, session.SpDC)
	}

	var lines []domain.SyncedLyric
	err := c.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		ctx, cancel := c.withTimeout(ctx)
		defer cancel()

		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		body, status, err := c.get(ctx, c.lyricsURL+url.PathEscape(trackID)+"?format=json&vocalRemoval=false&market=from_token", token)
		if err != nil {
			return err
		}

		switch {
		case status == http.StatusNotFound:
			slog.Debug("Track has no lyrics", "track_id", trackID)
			lines = []domain.SyncedLyric{}
			return nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			c.resetToken()
			return fmt.Errorf("%w: lyrics request rejected with status %d", domain.ErrAuthentication, status)
		case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
			return fmt.Errorf("%w: lyrics request returned status %d", domain.ErrNetwork, status)
		case status != http.StatusOK:
			return fmt.Errorf("%w: lyrics request returned status %d", domain.ErrContentExtraction, status)
		}

		if !gjson.ValidBytes(body) {
			return fmt.Errorf("%w: lyrics response is not valid JSON", domain.ErrParsing)
		}
		lines = mapper.Lyrics(gjson.ParseBytes(body))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// accessToken returns a cached web player token or exchanges the session
// cookies for a new one.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(expiryMargin).Before(c.expires) {
		return c.token, nil
	}

	body, status, err := c.get(ctx, c.tokenURL, "")
	if err != nil {
		return "", err
	}
	switch {
	case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: token request returned status %d", domain.ErrNetwork, status)
	case status != http.StatusOK:
		return "", fmt.Errorf("%w: token request returned status %d", domain.ErrAuthentication, status)
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: token response is not valid JSON", domain.ErrParsing)
	}
	res := gjson.ParseBytes(body)
	token := res.Get("accessToken").String()
	if token == "" || res.Get("isAnonymous").Bool() {
		return "", fmt.Errorf("%w: session cookies were not accepted", domain.ErrAuthentication)
	}

	c.token = token
	c.expires = time.UnixMilli(res.Get("accessTokenExpirationTimestampMs").Int())
	slog.Debug("Obtained web player token", "expires", c.expires)
	return token, nil
}

func (c *Client) resetToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expires = time.Time{}
}

func (c *Client) get(ctx context.Context, target, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("App-Platform", "WebPlayer")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Cookie", c.cookies.Header())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, resp.StatusCode, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
	}
	return body, resp.StatusCode, nil
}
