package downloader

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaki95/spotify-scraper/internal/domain"
)

// DownloadPreview stores the 30 second preview clip of a track.
func DownloadPreview(ctx context.Context, d Downloader, track *domain.Track, progressCallback ProgressCallback) (Result, error) {
	if track == nil || track.PreviewURL == nil || *track.PreviewURL == "" {
		return Result{}, fmt.Errorf("%w: track has no preview audio", domain.ErrMedia)
	}
	return d.Download(ctx, *track.PreviewURL, trackFileName(track), progressCallback)
}

// DownloadCover stores the largest image of an entity: the album art of a
// track or album, an artist's portrait or a playlist's cover.
func DownloadCover(ctx context.Context, d Downloader, entity domain.Entity, progressCallback ProgressCallback) (Result, error) {
	coverURL, name := CoverOf(entity)
	if coverURL == "" {
		return Result{}, fmt.Errorf("%w: %s has no cover image", domain.ErrMedia, kindOf(entity))
	}
	return d.Download(ctx, coverURL, name+" - cover", progressCallback)
}

// CoverOf returns the cover image URL of an entity and the base name to
// store it under.
func CoverOf(entity domain.Entity) (string, string) {
	switch e := entity.(type) {
	case domain.Track:
		return largest(e.Album.Images), trackFileName(&e)
	case *domain.Track:
		return largest(e.Album.Images), trackFileName(e)
	case domain.Album:
		return largest(e.Images), e.Name
	case *domain.Album:
		return largest(e.Images), e.Name
	case domain.Artist:
		return largest(e.Images), e.Name
	case *domain.Artist:
		return largest(e.Images), e.Name
	case domain.Playlist:
		return e.CoverURL, e.Title
	case *domain.Playlist:
		return e.CoverURL, e.Title
	default:
		return "", ""
	}
}

func largest(images []domain.Image) string {
	best := -1
	var url string
	for _, img := range images {
		if area := img.Width * img.Height; area > best {
			best = area
			url = img.URL
		}
	}
	return url
}

func trackFileName(track *domain.Track) string {
	if len(track.Artists) == 0 {
		return track.Name
	}
	names := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ") + " - " + track.Name
}

func kindOf(entity domain.Entity) string {
	if entity == nil {
		return "entity"
	}
	return string(entity.Kind())
}
