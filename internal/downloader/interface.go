// Package downloader fetches preview audio and cover art into a Storage.
package downloader

import (
	"context"
)

// ProgressCallback is a function type for progress updates during download
// Parameters: progressPercent (0-100), message, optional data
type ProgressCallback func(int, string, []byte)

// Result describes a stored media file.
type Result struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
	Size        int64  `json:"size"`
}

// Downloader stores the media served at a URL under the given base name.
type Downloader interface {
	// Download returns where the media was stored. The extension comes from
	// the response Content-Type, never from the URL.
	// progressCallback can be nil if progress updates are not needed
	Download(ctx context.Context, mediaURL, name string, progressCallback ProgressCallback) (Result, error)
}
