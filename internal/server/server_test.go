package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/downloader"
	"github.com/jaki95/spotify-scraper/internal/job"
	"github.com/jaki95/spotify-scraper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const trackURL = "https://open.spotify.com/track/4u7EnebtmKWzUH433cf5Qv"

type stubExtractor struct {
	entity domain.Entity
	err    error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (domain.Entity, error) {
	return s.entity, s.err
}

type stubDownloader struct {
	mu      sync.Mutex
	urls    []string
	err     error
	block   chan struct{}
	started chan struct{}
}

func (s *stubDownloader) Download(ctx context.Context, mediaURL, name string, progressCallback downloader.ProgressCallback) (downloader.Result, error) {
	s.mu.Lock()
	s.urls = append(s.urls, mediaURL)
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return downloader.Result{}, ctx.Err()
		}
	}
	if s.err != nil {
		return downloader.Result{}, s.err
	}

	progressCallback(0, "Starting download", nil)
	progressCallback(100, "Download complete", nil)
	return downloader.Result{Path: "output/" + name + ".mp3", Extension: ".mp3", ContentType: "audio/mpeg", Size: 4096}, nil
}

func sampleTrack() domain.Track {
	preview := "https://p.scdn.co/mp3-preview/bohemian"
	return domain.Track{
		Name:       "Bohemian Rhapsody",
		ID:         "4u7EnebtmKWzUH433cf5Qv",
		URI:        "spotify:track:4u7EnebtmKWzUH433cf5Qv",
		PreviewURL: &preview,
		Artists:    []domain.Artist{{Name: "Queen"}},
		Album: domain.Album{
			Name:   "A Night At The Opera (2011 Remaster)",
			Images: []domain.Image{{URL: "https://i.scdn.co/image/cover640", Width: 640, Height: 640}},
		},
		Lyrics: []domain.SyncedLyric{},
	}
}

func newTestServer(t *testing.T, extractor Extractor, dl downloader.Downloader) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.OutputDir = t.TempDir()
	store, err := storage.NewLocalFileStorage(cfg.Storage.OutputDir)
	require.NoError(t, err)
	return New(cfg, extractor, dl, store)
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, target, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func waitForStatus(t *testing.T, s *Server, jobID, want string) job.Status {
	t.Helper()
	var status job.Status
	require.Eventually(t, func() bool {
		var err error
		status, err = s.jobManager.GetJob(jobID)
		return err == nil && status.Status == want
	}, 2*time.Second, 10*time.Millisecond, "job never reached %s", want)
	return status
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, &stubExtractor{}, &stubDownloader{})

	rr := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestExtract(t *testing.T) {
	s := newTestServer(t, &stubExtractor{entity: sampleTrack()}, &stubDownloader{})

	rr := do(t, s, http.MethodGet, "/api/v1/extract?url="+trackURL, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Kind   string       `json:"kind"`
		Entity domain.Track `json:"entity"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "track", response.Kind)
	assert.Equal(t, "A Night At The Opera (2011 Remaster)", response.Entity.Album.Name)

	rr = do(t, s, http.MethodGet, "/api/v1/extract", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExtractErrorStatus(t *testing.T) {
	tests := []struct {
		err            error
		expectedStatus int
	}{
		{domain.ErrURL, http.StatusBadRequest},
		{domain.ErrContentExtraction, http.StatusUnprocessableEntity},
		{domain.ErrExtraction, http.StatusUnprocessableEntity},
		{domain.ErrParsing, http.StatusUnprocessableEntity},
		{domain.ErrNetwork, http.StatusBadGateway},
		{domain.ErrDownload, http.StatusBadGateway},
		{domain.ErrAuthentication, http.StatusUnauthorized},
		{domain.ErrMedia, http.StatusUnsupportedMediaType},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("failed after 3 attempts: %w", tt.err)
			s := newTestServer(t, &stubExtractor{err: wrapped}, &stubDownloader{})

			rr := do(t, s, http.MethodGet, "/api/v1/extract?url="+trackURL, nil)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.err.Error())
		})
	}
}

func TestEmbed(t *testing.T) {
	s := newTestServer(t, &stubExtractor{}, &stubDownloader{})

	rr := do(t, s, http.MethodGet, "/api/v1/embed?url=https://open.spotify.com/album/1GbtB4zTqAsyfZEsm1RZfx?si=x", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response EmbedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "https://open.spotify.com/embed/album/1GbtB4zTqAsyfZEsm1RZfx", response.EmbedURL)
	assert.Equal(t, domain.KindAlbum, response.Kind)

	rr = do(t, s, http.MethodGet, "/api/v1/embed?url=https://example.com/album/1GbtB4zTqAsyfZEsm1RZfx", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateDownloadValidation(t *testing.T) {
	s := newTestServer(t, &stubExtractor{entity: sampleTrack()}, &stubDownloader{})

	tests := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{"missing fields", map[string]string{}, http.StatusBadRequest},
		{"unknown media", job.Request{URL: trackURL, Media: "video"}, http.StatusBadRequest},
		{"not a spotify url", job.Request{URL: "https://example.com/a.mp3", Media: job.MediaCover}, http.StatusBadRequest},
		{"preview of an album", job.Request{URL: "https://open.spotify.com/album/1GbtB4zTqAsyfZEsm1RZfx", Media: job.MediaPreview}, http.StatusBadRequest},
		{"valid", job.Request{URL: trackURL, Media: job.MediaPreview}, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/api/v1/downloads", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestDownloadJobCompletes(t *testing.T) {
	dl := &stubDownloader{}
	s := newTestServer(t, &stubExtractor{entity: sampleTrack()}, dl)

	rr := do(t, s, http.MethodPost, "/api/v1/downloads", job.Request{URL: trackURL, Media: job.MediaPreview})
	require.Equal(t, http.StatusAccepted, rr.Code)

	var accepted JobAcceptedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.JobID)

	status := waitForStatus(t, s, accepted.JobID, job.StatusCompleted)
	require.NotNil(t, status.Result)
	assert.Equal(t, "output/Queen - Bohemian Rhapsody.mp3", status.Result.Path)
	assert.Equal(t, 100.0, status.Progress)
	assert.NotEmpty(t, status.Events)
	assert.Equal(t, []string{"https://p.scdn.co/mp3-preview/bohemian"}, dl.urls)

	rr = do(t, s, http.MethodGet, "/api/v1/jobs/"+accepted.JobID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, s, http.MethodGet, "/api/v1/jobs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list job.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 1, list.TotalJobs)

	rr = do(t, s, http.MethodDelete, "/api/v1/jobs/"+accepted.JobID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDownloadJobCover(t *testing.T) {
	dl := &stubDownloader{}
	s := newTestServer(t, &stubExtractor{entity: sampleTrack()}, dl)

	rr := do(t, s, http.MethodPost, "/api/v1/downloads", job.Request{URL: trackURL, Media: job.MediaCover})
	require.Equal(t, http.StatusAccepted, rr.Code)

	var accepted JobAcceptedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))

	waitForStatus(t, s, accepted.JobID, job.StatusCompleted)
	assert.Equal(t, []string{"https://i.scdn.co/image/cover640"}, dl.urls)
}

func TestDownloadJobFails(t *testing.T) {
	dl := &stubDownloader{err: fmt.Errorf("%w: unsupported content type %q", domain.ErrMedia, "text/html")}
	s := newTestServer(t, &stubExtractor{entity: sampleTrack()}, dl)

	rr := do(t, s, http.MethodPost, "/api/v1/downloads", job.Request{URL: trackURL, Media: job.MediaPreview})
	require.Equal(t, http.StatusAccepted, rr.Code)

	var accepted JobAcceptedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))

	status := waitForStatus(t, s, accepted.JobID, job.StatusFailed)
	assert.Contains(t, status.Error, "unsupported content type")
}

func TestCancelRunningJob(t *testing.T) {
	dl := &stubDownloader{block: make(chan struct{}), started: make(chan struct{})}
	s := newTestServer(t, &stubExtractor{entity: sampleTrack()}, dl)

	rr := do(t, s, http.MethodPost, "/api/v1/downloads", job.Request{URL: trackURL, Media: job.MediaPreview})
	require.Equal(t, http.StatusAccepted, rr.Code)

	var accepted JobAcceptedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))

	select {
	case <-dl.started:
	case <-time.After(2 * time.Second):
		t.Fatal("download never started")
	}

	rr = do(t, s, http.MethodDelete, "/api/v1/jobs/"+accepted.JobID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	status := waitForStatus(t, s, accepted.JobID, job.StatusCancelled)
	assert.Nil(t, status.Result)

	rr = do(t, s, http.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func storeFile(t *testing.T, s *Server, name, ext string, data []byte) string {
	t.Helper()
	p := s.storage.MediaPath(name, ext)
	w, err := s.storage.GetWriter(context.Background(), p)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return p
}

func TestListFiles(t *testing.T) {
	s := newTestServer(t, &stubExtractor{}, &stubDownloader{})

	rr := do(t, s, http.MethodGet, "/api/v1/files", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"files":[]}`, rr.Body.String())

	cover := storeFile(t, s, "Queen - Bohemian Rhapsody - cover", ".jpg", []byte("jpeg"))
	storeFile(t, s, "Hot Space - cover", ".png", []byte("png"))

	rr = do(t, s, http.MethodGet, "/api/v1/files?prefix=Queen", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp FilesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{cover}, resp.Files)
}

func TestServeFile(t *testing.T) {
	s := newTestServer(t, &stubExtractor{}, &stubDownloader{})
	p := storeFile(t, s, "Queen - Bohemian Rhapsody", ".mp3", []byte("ID3 audio"))

	rr := do(t, s, http.MethodGet, "/api/v1/files/content?path="+url.QueryEscape(p), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ID3 audio", rr.Body.String())
	assert.Equal(t, "audio/mpeg", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Queen-Bohemian-Rhapsody.mp3")
}

func TestServeFileOnlyServesStoredFiles(t *testing.T) {
	s := newTestServer(t, &stubExtractor{}, &stubDownloader{})

	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	rr := do(t, s, http.MethodGet, "/api/v1/files/content?path="+url.QueryEscape(outside), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEqual(t, "secret", rr.Body.String())

	rr = do(t, s, http.MethodGet, "/api/v1/files/content", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStartUsesConfiguredPort(t *testing.T) {
	s := newTestServer(t, &stubExtractor{}, &stubDownloader{})
	s.cfg.Server.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, s.Start(ctx))
}
