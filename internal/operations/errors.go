package operations

import "errors"

var (
	// ErrJobNotFound is returned for an unknown job id
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists is returned when a job id is reused
	ErrJobExists = errors.New("job already exists")
	// ErrQueueFull is returned when the queue buffer is exhausted
	ErrQueueFull = errors.New("job queue is full")
	// ErrQueueStopped is returned after Stop
	ErrQueueStopped = errors.New("job queue is stopped")
	// ErrNotCancellable is returned when a finished job is cancelled
	ErrNotCancellable = errors.New("job cannot be cancelled")
	// ErrAllInsightsFailed marks a job in which no insight succeeded
	ErrAllInsightsFailed = errors.New("all insights failed")
)
