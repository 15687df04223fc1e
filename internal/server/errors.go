package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/job"
)

var (
	ErrMissingURL   = errors.New("url query parameter is required")
	ErrMissingPath  = errors.New("path query parameter is required")
	ErrFileNotFound = errors.New("file not found")
)

// StatusFor maps the error taxonomy to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrURL), errors.Is(err, ErrMissingURL), errors.Is(err, ErrMissingPath), errors.Is(err, job.ErrInvalidMedia):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, job.ErrNotFound), errors.Is(err, ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, job.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrContentExtraction), errors.Is(err, domain.ErrExtraction), errors.Is(err, domain.ErrParsing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrDownload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), ErrorResponse{Error: err.Error()})
}
