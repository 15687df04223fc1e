package domain

import "errors"

// Extraction failures are reported by wrapping one of these values, so callers
// can branch with errors.Is regardless of which component raised them.
var (
	ErrURL               = errors.New("invalid spotify url")
	ErrNetwork           = errors.New("network error")
	ErrParsing           = errors.New("embedded json not found or invalid")
	ErrContentExtraction = errors.New("no candidate path resolved")
	ErrExtraction        = errors.New("required field missing")
	ErrAuthentication    = errors.New("authentication required")
	ErrDownload          = errors.New("download failed")
	ErrMedia             = errors.New("unsupported media type")
)
