package lyrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackID = "4u7EnebtmKWzUH433cf5Qv"

const lyricsPayload = `{"lyrics":{"syncType":"LINE_SYNCED","lines":[
	{"startTimeMs":"960","words":"Is this the real life?","endTimeMs":"0"},
	{"startTimeMs":"4160","words":"Is this just fantasy?","endTimeMs":"0"}
]}}`

type fakeSpotify struct {
	tokenCalls  atomic.Int32
	lyricsCalls atomic.Int32
	anonymous   bool
	lyricsCode  int
}

func (f *fakeSpotify) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_access_token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		cookie, err := r.Cookie(session.SpDC)
		if err != nil || cookie.Value != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		expires := time.Now().Add(time.Hour).UnixMilli()
		fmt.Fprintf(w, `{"clientId":"web","accessToken":"token-1","accessTokenExpirationTimestampMs":%d,"isAnonymous":%t}`, expires, f.anonymous)
	})
	mux.HandleFunc("/color-lyrics/v2/track/", func(w http.ResponseWriter, r *http.Request) {
		f.lyricsCalls.Add(1)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "WebPlayer", r.Header.Get("App-Platform"))
		if f.lyricsCode != 0 {
			w.WriteHeader(f.lyricsCode)
			return
		}
		assert.Equal(t, "/color-lyrics/v2/track/"+trackID, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(lyricsPayload))
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeSpotify, cookies session.Cookies) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	cfg := config.Default().Fetch
	cfg.RetryDelay = time.Millisecond

	return New(cookies, cfg, WithEndpoints(
		server.URL+"/get_access_token",
		server.URL+"/color-lyrics/v2/track/",
	))
}

func TestLyrics(t *testing.T) {
	fake := &fakeSpotify{}
	client := newTestClient(t, fake, session.Cookies{session.SpDC: "secret"})

	lines, err := client.Lyrics(context.Background(), trackID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Is this the real life?", lines[0].Text)
	require.NotNil(t, lines[0].EndTimeMS)
	assert.Equal(t, int64(4160), *lines[0].EndTimeMS)
	assert.Nil(t, lines[1].EndTimeMS)

	// The token is cached between calls.
	_, err = client.Lyrics(context.Background(), trackID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
	assert.Equal(t, int32(2), fake.lyricsCalls.Load())
}

func TestLyricsWithoutCookies(t *testing.T) {
	fake := &fakeSpotify{}
	client := newTestClient(t, fake, nil)

	_, err := client.Lyrics(context.Background(), trackID)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Equal(t, int32(0), fake.tokenCalls.Load())
}

func TestLyricsRejectedCookie(t *testing.T) {
	fake := &fakeSpotify{}
	client := newTestClient(t, fake, session.Cookies{session.SpDC: "expired"})

	_, err := client.Lyrics(context.Background(), trackID)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestLyricsAnonymousToken(t *testing.T) {
	fake := &fakeSpotify{anonymous: true}
	client := newTestClient(t, fake, session.Cookies{session.SpDC: "secret"})

	_, err := client.Lyrics(context.Background(), trackID)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestLyricsNotFoundIsEmpty(t *testing.T) {
	fake := &fakeSpotify{lyricsCode: http.StatusNotFound}
	client := newTestClient(t, fake, session.Cookies{session.SpDC: "secret"})

	lines, err := client.Lyrics(context.Background(), trackID)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestLyricsRetriesServerErrors(t *testing.T) {
	fake := &fakeSpotify{lyricsCode: http.StatusServiceUnavailable}
	client := newTestClient(t, fake, session.Cookies{session.SpDC: "secret"})

	_, err := client.Lyrics(context.Background(), trackID)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, int32(3), fake.lyricsCalls.Load())
}

func TestLyricsForbiddenDropsToken(t *testing.T) {
	fake := &fakeSpotify{lyricsCode: http.StatusForbidden}
	client := newTestClient(t, fake, session.Cookies{session.SpDC: "secret"})

	_, err := client.Lyrics(context.Background(), trackID)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Empty(t, client.token)
}

func TestLyricsInvalidTrackID(t *testing.T) {
	client := New(session.Cookies{session.SpDC: "secret"}, config.Default().Fetch)

	_, err := client.Lyrics(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrURL)
}
