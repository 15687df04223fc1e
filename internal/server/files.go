package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/jaki95/spotify-scraper/internal/downloader"
)

// listFiles handles GET /api/v1/files?prefix=
func (s *Server) listFiles(c *gin.Context) {
	files, err := s.storage.ListFiles(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		writeError(c, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	c.JSON(http.StatusOK, FilesResponse{Files: files})
}

// serveFile handles GET /api/v1/files/content?path=
// Only paths the storage lists can be read.
func (s *Server) serveFile(c *gin.Context) {
	p := c.Query("path")
	if p == "" {
		writeError(c, ErrMissingPath)
		return
	}

	ctx := c.Request.Context()
	listed, err := s.isListed(ctx, p)
	if err != nil {
		writeError(c, err)
		return
	}
	if !listed || !s.storage.FileExists(ctx, p) {
		writeError(c, fmt.Errorf("%w: %s", ErrFileNotFound, p))
		return
	}

	reader, err := s.storage.GetReader(ctx, p)
	if err != nil {
		writeError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, downloader.ContentTypeFor(filepath.Ext(p)), reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filepath.Base(p)),
	})
}

func (s *Server) isListed(ctx context.Context, p string) (bool, error) {
	files, err := s.storage.ListFiles(ctx, "")
	if err != nil {
		return false, err
	}
	return slices.Contains(files, p), nil
}
