package downloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jaki95/spotify-scraper/config"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/fetcher"
	"github.com/jaki95/spotify-scraper/internal/storage"
)

const sniffLength = 512

// HTTPDownloader streams media over HTTP into a Storage, retrying transport
// failures and server errors with a fetcher.RetryPolicy.
type HTTPDownloader struct {
	client    *http.Client
	storage   storage.Storage
	policy    fetcher.RetryPolicy
	timeout   time.Duration
	userAgent string
}

// NewHTTPDownloader builds a downloader that shares the fetch settings of cfg.
func NewHTTPDownloader(store storage.Storage, cfg config.FetchConfig) (*HTTPDownloader, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &HTTPDownloader{
		client:    &http.Client{Transport: transport},
		storage:   store,
		policy:    fetcher.PolicyFromConfig(cfg),
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}, nil
}

// Download stores the media at mediaURL as name plus the inferred extension.
func (d *HTTPDownloader) Download(ctx context.Context, mediaURL, name string, progressCallback ProgressCallback) (Result, error) {
	u, err := url.Parse(mediaURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{}, fmt.Errorf("%w: invalid media url %q", domain.ErrDownload, mediaURL)
	}

	report(progressCallback, 0, "Starting download")

	var result Result
	err = d.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		attemptCtx := ctx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		slog.Debug("Downloading media", "url", mediaURL, "attempt", attempt)
		r, err := d.attempt(attemptCtx, mediaURL, name, progressCallback)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			return Result{}, fmt.Errorf("%w: %w", domain.ErrDownload, err)
		}
		return Result{}, err
	}

	report(progressCallback, 100, "Download complete")
	slog.Info("Downloaded media", "path", result.Path, "size", result.Size, "content_type", result.ContentType)
	return result, nil
}

func (d *HTTPDownloader) attempt(ctx context.Context, mediaURL, name string, progressCallback ProgressCallback) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to create request: %w", domain.ErrDownload, err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to download: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
		return Result{}, fmt.Errorf("%w: download failed with status: %d", domain.ErrNetwork, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return Result{}, fmt.Errorf("%w: download failed with status: %d", domain.ErrDownload, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	ext, err := ExtensionFor(contentType)
	if err != nil {
		return Result{}, err
	}

	body := bufio.NewReaderSize(resp.Body, sniffLength)
	header, err := body.Peek(sniffLength)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Result{}, fmt.Errorf("%w: failed to read body: %w", domain.ErrNetwork, err)
	}
	if len(header) == 0 {
		return Result{}, fmt.Errorf("%w: downloaded file is empty", domain.ErrDownload)
	}
	if looksLikeHTML(header) {
		return Result{}, fmt.Errorf("%w: body is an HTML page, not %s", domain.ErrMedia, contentType)
	}

	path := d.storage.MediaPath(name, ext)
	w, err := d.storage.GetWriter(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to create output file: %w", domain.ErrDownload, err)
	}

	reader := &progressReader{
		r:        body,
		total:    resp.ContentLength,
		callback: progressCallback,
	}
	written, copyErr := io.Copy(w, reader)
	closeErr := w.Close()

	if copyErr != nil || closeErr != nil {
		if err := d.storage.Remove(ctx, path); err != nil {
			slog.Warn("Failed to remove partial download", "path", path, "error", err)
		}
		if reader.err != nil {
			return Result{}, fmt.Errorf("%w: failed to read body: %w", domain.ErrNetwork, reader.err)
		}
		return Result{}, fmt.Errorf("%w: failed to save file: %w", domain.ErrDownload, errors.Join(copyErr, closeErr))
	}

	return Result{
		Path:        path,
		ContentType: contentType,
		Extension:   ext,
		Size:        written,
	}, nil
}

// progressReader reports read progress and remembers read failures so they
// can be told apart from storage write failures.
type progressReader struct {
	r           io.Reader
	total       int64
	read        int64
	lastPercent int
	callback    ProgressCallback
	err         error
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		p.err = err
	}

	if p.total > 0 && p.callback != nil {
		percent := int(p.read * 100 / p.total)
		if percent > 99 {
			percent = 99
		}
		if percent > p.lastPercent {
			p.lastPercent = percent
			p.callback(percent, fmt.Sprintf("Downloading... %d%%", percent), nil)
		}
	}
	return n, err
}

func report(callback ProgressCallback, percent int, message string) {
	if callback != nil {
		callback(percent, message, nil)
	}
}
