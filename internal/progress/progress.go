// Package progress records the stages a background extraction or download
// passes through and fans them out to listeners.
package progress

import (
	"sync"
	"time"
)

// Stage represents the current stage of a job
type Stage string

const (
	StageQueued      Stage = "queued"
	StageExtracting  Stage = "extracting"
	StageDownloading Stage = "downloading"
	StageComplete    Stage = "complete"
	StageError       Stage = "error"
)

// Event represents a progress event
type Event struct {
	Stage     Stage     `json:"stage"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// Tracker holds the latest state and notifies listeners on every change.
type Tracker struct {
	mu        sync.RWMutex
	current   Event
	listeners []func(Event)
}

func NewTracker() *Tracker {
	return &Tracker{
		current: Event{Stage: StageQueued, Timestamp: time.Now()},
	}
}

// AddListener adds a new progress event listener
func (t *Tracker) AddListener(listener func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}

// Update sets the stage and percentage and notifies all listeners.
func (t *Tracker) Update(stage Stage, progress float64, message string) {
	t.publish(Event{
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// SetError moves the tracker to StageError, keeping the last percentage.
func (t *Tracker) SetError(err error) {
	t.mu.RLock()
	last := t.current.Progress
	t.mu.RUnlock()

	t.publish(Event{
		Stage:     StageError,
		Progress:  last,
		Message:   err.Error(),
		Timestamp: time.Now(),
		Error:     err.Error(),
	})
}

// Callback adapts the tracker to the (percent, message, data) callbacks
// used by the downloader. Percentages are scaled into [from, to].
func (t *Tracker) Callback(stage Stage, from, to float64) func(int, string, []byte) {
	return func(percent int, message string, _ []byte) {
		t.Update(stage, from+(to-from)*float64(percent)/100, message)
	}
}

// Current returns the latest event.
func (t *Tracker) Current() Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Tracker) publish(event Event) {
	t.mu.Lock()
	t.current = event
	listeners := make([]func(Event), len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}
