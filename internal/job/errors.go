package job

import "errors"

var (
	ErrInvalidMedia = errors.New("invalid media type")
	ErrNotFound     = errors.New("job not found")
	ErrInvalidState = errors.New("invalid job state")
)
