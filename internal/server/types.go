package server

import "github.com/jaki95/spotify-scraper/internal/domain"

// ExtractResponse wraps an extracted entity with its kind.
type ExtractResponse struct {
	Kind   domain.Kind   `json:"kind"`
	Entity domain.Entity `json:"entity"`
}

// EmbedResponse carries the embed player URL for a Spotify URL.
type EmbedResponse struct {
	URL      string      `json:"url"`
	EmbedURL string      `json:"embed_url"`
	Kind     domain.Kind `json:"kind"`
	ID       string      `json:"id"`
}

// JobAcceptedResponse is returned when a download job is queued.
type JobAcceptedResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// FilesResponse lists stored media files.
type FilesResponse struct {
	Files []string `json:"files"`
}

// MessageResponse represents a generic message payload used for success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a generic error payload used for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
