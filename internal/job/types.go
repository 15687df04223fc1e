package job

import (
	"context"
	"time"

	"github.com/jaki95/spotify-scraper/internal/downloader"
	"github.com/jaki95/spotify-scraper/internal/progress"
)

// Constants for job status
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Media a download job can fetch.
const (
	MediaPreview = "preview"
	MediaCover   = "cover"
)

// Constants for progress percentages
const (
	ProgressExtractStart  = 0
	ProgressExtractEnd    = 20
	ProgressDownloadStart = 20
	ProgressComplete      = 100
)

// Constants for pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Status represents the current state of a download job.
type Status struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	URL       string             `json:"url"`
	Media     string             `json:"media"`
	Progress  float64            `json:"progress"`
	Message   string             `json:"message"`
	Error     string             `json:"error,omitempty"`
	Result    *downloader.Result `json:"result,omitempty"`
	Events    []progress.Event   `json:"events"`
	StartTime time.Time          `json:"start_time"`
	EndTime   *time.Time         `json:"end_time,omitempty"`

	cancelFunc context.CancelFunc
}

// Request represents the request body for a media download.
type Request struct {
	URL   string `json:"url" binding:"required"`
	Media string `json:"media" binding:"required"`
}

// Validate checks the media kind. The URL is validated by the extractor.
func (r Request) Validate() error {
	switch r.Media {
	case MediaPreview, MediaCover:
		return nil
	default:
		return ErrInvalidMedia
	}
}

// Response represents the response for job status.
type Response struct {
	Jobs       []Status `json:"jobs"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalJobs  int      `json:"total_jobs"`
	TotalPages int      `json:"total_pages"`
}

func (s *Status) finished() bool {
	switch s.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// snapshot copies the status so callers never share the event slice.
func (s *Status) snapshot() Status {
	out := *s
	out.Events = make([]progress.Event, len(s.Events))
	copy(out.Events, s.Events)
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	out.cancelFunc = nil
	return out
}
