package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/job"
	"github.com/jaki95/spotify-scraper/internal/spotifyurl"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extract handles GET /api/v1/extract?url=
func (s *Server) extract(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		writeError(c, ErrMissingURL)
		return
	}

	entity, err := s.extractor.Extract(c.Request.Context(), rawURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{Kind: entity.Kind(), Entity: entity})
}

// embed handles GET /api/v1/embed?url=
func (s *Server) embed(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		writeError(c, ErrMissingURL)
		return
	}

	ref, err := spotifyurl.Parse(rawURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, EmbedResponse{
		URL:      rawURL,
		EmbedURL: ref.EmbedURL(),
		Kind:     ref.Kind,
		ID:       ref.ID,
	})
}

// createDownload handles POST /api/v1/downloads
func (s *Server) createDownload(c *gin.Context) {
	var req job.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	ref, err := spotifyurl.Parse(req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.Media == job.MediaPreview && ref.Kind != domain.KindTrack {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "previews are only available for tracks"})
		return
	}

	status, ctx := s.jobManager.CreateJob(req)
	go s.processDownloadInBackground(ctx, status.ID, req)

	c.JSON(http.StatusAccepted, JobAcceptedResponse{
		Message: "Download started",
		JobID:   status.ID,
	})
}

func (s *Server) getJobStatus(c *gin.Context) {
	status, err := s.jobManager.GetJob(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) cancelJob(c *gin.Context) {
	if err := s.jobManager.CancelJob(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Job cancelled"})
}

func (s *Server) listJobs(c *gin.Context) {
	page := 1
	pageSize := job.DefaultPageSize

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= job.MaxPageSize {
			pageSize = parsed
		}
	}

	c.JSON(http.StatusOK, s.jobManager.ListJobs(page, pageSize))
}
