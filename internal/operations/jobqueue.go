package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kavya1280/JK-Insights/internal/infrastructure"
)

// JobQueueConfig wires a JobQueue
type JobQueueConfig struct {
	Workers     int
	BufferSize  int
	Timeout     time.Duration
	Store       JobStore
	Runner      JobRunner
	Broadcaster Broadcaster
	Metrics     *infrastructure.BusinessMetrics
	Logger      *slog.Logger
}

// JobEvent is the payload of job:progress and job:complete events
type JobEvent struct {
	JobID         string        `json:"job_id"`
	Status        JobStatus     `json:"status"`
	Progress      int           `json:"progress"`
	Message       string        `json:"message,omitempty"`
	Insight       string        `json:"insight,omitempty"`
	InsightStatus InsightStatus `json:"insight_status,omitempty"`
	Files         []string      `json:"files,omitempty"`
	Error         string        `json:"error,omitempty"`
}

type activeJob struct {
	cancel    context.CancelFunc
	cancelled bool
}

// JobQueue manages async job execution
type JobQueue struct {
	mu          sync.RWMutex
	jobs        chan string
	workers     int
	timeout     time.Duration
	wg          sync.WaitGroup
	store       JobStore
	runner      JobRunner
	broadcaster Broadcaster
	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger
	shutdown    chan struct{}
	stopped     bool
	active      map[string]*activeJob
	done        map[string]chan struct{}
}

// NewJobQueue creates a new job queue
func NewJobQueue(cfg JobQueueConfig) *JobQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryJobStore()
	}
	if cfg.Broadcaster == nil {
		cfg.Broadcaster = nopBroadcaster{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &JobQueue{
		jobs:        make(chan string, cfg.BufferSize),
		workers:     cfg.Workers,
		timeout:     cfg.Timeout,
		store:       cfg.Store,
		runner:      cfg.Runner,
		broadcaster: cfg.Broadcaster,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger.With(slog.String("component", "jobqueue")),
		shutdown:    make(chan struct{}),
		active:      make(map[string]*activeJob),
		done:        make(map[string]chan struct{}),
	}
}

// Start begins processing jobs
func (q *JobQueue) Start(ctx context.Context) {
	q.logger.InfoContext(ctx, "starting job queue", slog.Int("workers", q.workers))
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Stop gracefully shuts down the job queue. Jobs still waiting in the
// buffer are marked cancelled. Running jobs get until timeout to finish and
// are cancelled after that.
func (q *JobQueue) Stop(timeout time.Duration) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	close(q.shutdown)
	q.mu.Unlock()

	q.logger.Info("stopping job queue")

	finished := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(finished)
	}()

	var err error
	select {
	case <-finished:
	case <-time.After(timeout):
		q.logger.Warn("job queue stop timeout exceeded, cancelling running jobs")
		q.mu.Lock()
		for _, a := range q.active {
			a.cancel()
		}
		q.mu.Unlock()
		<-finished
		err = fmt.Errorf("timeout waiting for workers to finish")
	}

	for {
		select {
		case id := <-q.jobs:
			q.cancelPending(id, "Job queue stopped")
		default:
			q.logger.Info("job queue stopped")
			return err
		}
	}
}

// Submit creates a pending job for ids and queues it. The job keeps the
// trace id of ctx, or a fresh one, for its logs.
func (q *JobQueue) Submit(ctx context.Context, ids []string) (*Job, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	job := &Job{
		ID:        uuid.NewString(),
		Insights:  append([]string(nil), ids...),
		Status:    JobStatusPending,
		Message:   "Queued",
		TraceID:   infrastructure.GetTraceID(ctx),
		CreatedAt: time.Now(),
	}
	if err := q.Enqueue(job); err != nil {
		return nil, err
	}
	return job.Clone(), nil
}

// Enqueue stores job as pending and adds it to the queue
func (q *JobQueue) Enqueue(job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return ErrQueueStopped
	}

	job.Status = JobStatusPending
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if err := q.store.CreateJob(job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case q.jobs <- job.ID:
		q.done[job.ID] = make(chan struct{})
		q.logger.Info("job enqueued",
			slog.String("job_id", job.ID),
			slog.String("insights", strings.Join(job.Insights, ",")))
		return nil
	default:
		job.Status = JobStatusFailed
		job.Error = ErrQueueFull.Error()
		now := time.Now()
		job.CompletedAt = &now
		_ = q.store.UpdateJob(job)
		return ErrQueueFull
	}
}

// GetJob retrieves a job by ID
func (q *JobQueue) GetJob(id string) (*Job, error) {
	return q.store.GetJob(id)
}

// Wait blocks until the job reaches a final state or ctx ends
func (q *JobQueue) Wait(ctx context.Context, id string) (*Job, error) {
	q.mu.RLock()
	ch, pending := q.done[id]
	q.mu.RUnlock()

	if pending {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return q.store.GetJob(id)
}

// CancelJob cancels a pending or running job
func (q *JobQueue) CancelJob(id string) error {
	q.mu.Lock()
	if a, ok := q.active[id]; ok {
		a.cancelled = true
		a.cancel()
		q.mu.Unlock()
		return nil
	}
	q.mu.Unlock()

	job, err := q.store.GetJob(id)
	if err != nil {
		return err
	}
	if job.Status != JobStatusPending {
		return fmt.Errorf("job %s (status: %s): %w", id, job.Status, ErrNotCancellable)
	}
	q.cancelPending(id, "Job cancelled")
	return nil
}

// ListJobs returns jobs matching the filter
func (q *JobQueue) ListJobs(filter JobFilter) ([]*Job, error) {
	return q.store.ListJobs(filter)
}

// GetQueueStats returns queue statistics
func (q *JobQueue) GetQueueStats() map[string]interface{} {
	q.mu.RLock()
	activeCount := len(q.active)
	q.mu.RUnlock()

	return map[string]interface{}{
		"workers":     q.workers,
		"queue_size":  len(q.jobs),
		"queue_cap":   cap(q.jobs),
		"active_jobs": activeCount,
	}
}

func (q *JobQueue) worker(ctx context.Context, workerID int) {
	defer q.wg.Done()

	logger := q.logger.With(slog.Int("worker_id", workerID))
	logger.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker stopped by context")
			return
		case <-q.shutdown:
			logger.Debug("worker stopped by shutdown")
			return
		case id := <-q.jobs:
			q.processJob(ctx, id, logger)
		}
	}
}

func (q *JobQueue) processJob(ctx context.Context, id string, logger *slog.Logger) {
	job, err := q.store.GetJob(id)
	if err != nil {
		logger.Error("queued job vanished", slog.String("job_id", id), slog.String("error", err.Error()))
		q.release(id)
		return
	}
	if job.Status != JobStatusPending {
		// cancelled while waiting in the buffer
		q.release(id)
		return
	}

	ctx = infrastructure.WithTraceID(ctx, job.TraceID)
	logger = logger.With(slog.String("job_id", job.ID))

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if q.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, q.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	q.mu.Lock()
	q.active[id] = &activeJob{cancel: cancel}
	q.mu.Unlock()

	// job is shared with the progress callback, which runners call concurrently
	var jmu sync.Mutex

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "job processing panicked", slog.Any("panic", r))
			jmu.Lock()
			q.finish(ctx, job, JobStatusFailed, "Internal error occurred",
				fmt.Errorf("job processing panicked: %v", r))
			jmu.Unlock()
		}
		q.mu.Lock()
		delete(q.active, id)
		q.mu.Unlock()
		q.metrics.JobStarted(ctx, -1)
		q.release(id)
	}()

	start := time.Now()
	job.Status = JobStatusRunning
	job.StartedAt = &start
	job.Progress = 0
	job.Message = "Job started"
	if err := q.store.UpdateJob(job); err != nil {
		logger.ErrorContext(ctx, "failed to update job status", slog.String("error", err.Error()))
	}
	q.metrics.JobStarted(ctx, 1)
	q.publish(EventJobProgress, job, nil)
	logger.InfoContext(ctx, "processing job started")

	tracker := NewProgressTracker(len(job.Insights))
	results, err := q.runner.Run(runCtx, job.Insights, func(done, total int, res InsightResult) {
		jmu.Lock()
		defer jmu.Unlock()
		tracker.SetTotal(total)
		tracker.Set(done)
		job.Progress = tracker.Percent()
		job.Message = tracker.Message()
		job.Results = append(job.Results, res)
		if err := q.store.UpdateJob(job); err != nil {
			logger.WarnContext(ctx, "failed to update job progress", slog.String("error", err.Error()))
		}
		q.publish(EventJobProgress, job, &res)
	})

	jmu.Lock()
	defer jmu.Unlock()

	if err != nil {
		q.finish(ctx, job, JobStatusFailed, "Job failed", err)
		return
	}
	job.Results = results

	q.mu.RLock()
	userCancelled := q.active[id] != nil && q.active[id].cancelled
	q.mu.RUnlock()

	switch {
	case userCancelled:
		q.finish(ctx, job, JobStatusCancelled, "Job cancelled", nil)
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		q.finish(ctx, job, JobStatusFailed, "Job timed out",
			fmt.Errorf("job exceeded %s: %w", q.timeout, context.DeadlineExceeded))
	case runCtx.Err() != nil:
		q.finish(ctx, job, JobStatusCancelled, "Job interrupted", nil)
	default:
		succeeded, failed := countResults(results)
		if succeeded == 0 {
			q.finish(ctx, job, JobStatusFailed, "Job failed",
				fmt.Errorf("%w: %s", ErrAllInsightsFailed, strings.Join(failed, "; ")))
			return
		}
		msg := fmt.Sprintf("%d/%d insights succeeded", succeeded, len(results))
		q.finish(ctx, job, JobStatusCompleted, msg, nil)
	}
}

func countResults(results []InsightResult) (succeeded int, failed []string) {
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
			continue
		}
		failed = append(failed, fmt.Sprintf("%s: %s", r.Insight, r.Error))
	}
	return succeeded, failed
}

// finish moves job to a final state, stores it and announces it
func (q *JobQueue) finish(ctx context.Context, job *Job, status JobStatus, msg string, err error) {
	now := time.Now()
	job.Status = status
	job.Message = msg
	job.CompletedAt = &now
	if status == JobStatusCompleted {
		job.Progress = 100
	}
	if err != nil {
		job.Error = err.Error()
		infrastructure.RecordError(ctx, err)
	}

	if uerr := q.store.UpdateJob(job); uerr != nil {
		q.logger.ErrorContext(ctx, "failed to update job completion", slog.String("error", uerr.Error()))
	}

	var elapsed time.Duration
	if job.StartedAt != nil {
		elapsed = now.Sub(*job.StartedAt)
	}
	q.metrics.RecordJob(ctx, string(status), elapsed)
	q.publish(EventJobComplete, job, nil)

	attrs := []any{
		slog.String("job_id", job.ID),
		slog.String("status", string(status)),
		slog.Duration("duration", elapsed),
	}
	if err != nil {
		q.logger.ErrorContext(ctx, "job failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	q.logger.InfoContext(ctx, "processing job finished", attrs...)
}

// cancelPending marks a job that never started as cancelled
func (q *JobQueue) cancelPending(id, msg string) {
	job, err := q.store.GetJob(id)
	if err == nil && job.Status == JobStatusPending {
		now := time.Now()
		job.Status = JobStatusCancelled
		job.Message = msg
		job.CompletedAt = &now
		_ = q.store.UpdateJob(job)
		q.publish(EventJobComplete, job, nil)
	}
	q.release(id)
}

// release wakes every Wait on id
func (q *JobQueue) release(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if ch, ok := q.done[id]; ok {
		close(ch)
		delete(q.done, id)
	}
}

func (q *JobQueue) publish(event string, job *Job, res *InsightResult) {
	ev := JobEvent{
		JobID:    job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Message:  job.Message,
		Error:    job.Error,
	}
	if res != nil {
		ev.Insight = res.Insight
		ev.InsightStatus = res.Status
		for _, o := range res.Outputs {
			ev.Files = append(ev.Files, o.File)
		}
	} else if event == EventJobComplete {
		ev.Files = job.Files()
	}
	q.broadcaster.Broadcast(event, ev)
}
