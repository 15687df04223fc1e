package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaki95/spotify-scraper/internal/downloader"
	"github.com/jaki95/spotify-scraper/internal/progress"
)

// Manager handles job management. It is safe for concurrent use.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Status
}

// NewManager creates a new job manager
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*Status),
	}
}

// CreateJob registers a pending job and returns it with the context the
// work must run under. Cancelling the job cancels that context.
func (m *Manager) CreateJob(req Request) (Status, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())

	job := &Status{
		ID:         uuid.NewString(),
		Status:     StatusPending,
		URL:        req.URL,
		Media:      req.Media,
		Message:    "Job created",
		Events:     make([]progress.Event, 0),
		StartTime:  time.Now(),
		cancelFunc: cancel,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	return job.snapshot(), ctx
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return Status{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return job.snapshot(), nil
}

// Record applies a progress event to a running job. Events for finished
// jobs are dropped.
func (m *Manager) Record(jobID string, event progress.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.finished() {
		return
	}

	if event.Stage != progress.StageQueued {
		job.Status = StatusProcessing
	}
	job.Progress = event.Progress
	job.Message = event.Message
	job.Events = append(job.Events, event)
}

// Complete marks a job as completed with its result.
func (m *Manager) Complete(jobID string, result downloader.Result) error {
	return m.finish(jobID, func(job *Status) {
		job.Status = StatusCompleted
		job.Progress = ProgressComplete
		job.Message = "Download completed"
		job.Result = &result
	})
}

// Fail marks a job as failed.
func (m *Manager) Fail(jobID string, err error) error {
	return m.finish(jobID, func(job *Status) {
		job.Status = StatusFailed
		job.Message = "Download failed"
		job.Error = err.Error()
	})
}

// CancelJob cancels a pending or running job
func (m *Manager) CancelJob(jobID string) error {
	return m.finish(jobID, func(job *Status) {
		job.Status = StatusCancelled
		job.Message = "Job cancelled by user"
	})
}

func (m *Manager) finish(jobID string, apply func(*Status)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if job.finished() {
		return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
	}

	apply(job)
	endTime := time.Now()
	job.EndTime = &endTime
	job.cancelFunc()
	return nil
}

// ListJobs lists jobs newest first with pagination
func (m *Manager) ListJobs(page, pageSize int) Response {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	m.mu.RLock()
	jobs := make([]Status, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job.snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].StartTime.Equal(jobs[j].StartTime) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].StartTime.After(jobs[j].StartTime)
	})

	response := Response{
		Jobs:       []Status{},
		Page:       page,
		PageSize:   pageSize,
		TotalJobs:  len(jobs),
		TotalPages: (len(jobs) + pageSize - 1) / pageSize,
	}

	start := (page - 1) * pageSize
	if start >= len(jobs) {
		return response
	}
	end := start + pageSize
	if end > len(jobs) {
		end = len(jobs)
	}
	response.Jobs = jobs[start:end]
	return response
}
