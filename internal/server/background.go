package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/jaki95/spotify-scraper/internal/downloader"
	"github.com/jaki95/spotify-scraper/internal/job"
	"github.com/jaki95/spotify-scraper/internal/progress"
)

const jobTimeout = 10 * time.Minute

// processDownloadInBackground extracts the entity behind the job URL and
// stores the requested media.
func (s *Server) processDownloadInBackground(ctx context.Context, jobID string, req job.Request) {
	slog.Info("Starting background download", "job_id", jobID, "url", req.URL, "media", req.Media)

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	tracker := progress.NewTracker()
	tracker.AddListener(func(event progress.Event) {
		s.jobManager.Record(jobID, event)
	})

	tracker.Update(progress.StageExtracting, job.ProgressExtractStart, "Extracting metadata")
	result, err := s.download(ctx, req, tracker)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			slog.Warn("Job cancelled", "job_id", jobID)
			return
		}
		tracker.SetError(err)
		if ferr := s.jobManager.Fail(jobID, err); ferr != nil {
			slog.Warn("Could not mark job failed", "job_id", jobID, "error", ferr)
		}
		slog.Error("Job failed", "job_id", jobID, "error", err)
		return
	}

	if err := s.jobManager.Complete(jobID, result); err != nil {
		slog.Warn("Could not mark job completed", "job_id", jobID, "error", err)
		return
	}
	slog.Info("Job completed", "job_id", jobID, "path", result.Path)
}

func (s *Server) download(ctx context.Context, req job.Request, tracker *progress.Tracker) (downloader.Result, error) {
	entity, err := s.extractor.Extract(ctx, req.URL)
	if err != nil {
		return downloader.Result{}, err
	}
	tracker.Update(progress.StageExtracting, job.ProgressExtractEnd, fmt.Sprintf("Extracted %s %s", entity.Kind(), entity.SpotifyID()))

	callback := tracker.Callback(progress.StageDownloading, job.ProgressDownloadStart, job.ProgressComplete)

	switch req.Media {
	case job.MediaPreview:
		track, ok := entity.(domain.Track)
		if !ok {
			return downloader.Result{}, fmt.Errorf("%w: previews are only available for tracks", domain.ErrMedia)
		}
		return downloader.DownloadPreview(ctx, s.downloader, &track, callback)
	case job.MediaCover:
		return downloader.DownloadCover(ctx, s.downloader, entity, callback)
	default:
		return downloader.Result{}, job.ErrInvalidMedia
	}
}
