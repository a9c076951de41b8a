package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/operations"
)

// DefaultJobListLimit caps GET /api/jobs
const DefaultJobListLimit = 50

// JobQueue is the part of operations.JobQueue the service drives
type JobQueue interface {
	Submit(ctx context.Context, ids []string) (*operations.Job, error)
	Wait(ctx context.Context, id string) (*operations.Job, error)
	GetJob(id string) (*operations.Job, error)
	ListJobs(filter operations.JobFilter) ([]*operations.Job, error)
	CancelJob(id string) error
}

// GenerationService validates selections and hands them to the job queue
type GenerationService struct {
	queue  JobQueue
	logger *slog.Logger
}

// NewGenerationService creates the service
func NewGenerationService(queue JobQueue, logger *slog.Logger) *GenerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{
		queue:  queue,
		logger: logger.With(slog.String("service", "generation")),
	}
}

// Generate queues a job for ids. With wait it blocks until the job is
// finished or ctx ends; a context error while waiting returns the job as
// last seen, so callers can still hand out its id.
func (s *GenerationService) Generate(ctx context.Context, ids []string, wait bool) (*operations.Job, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, strings.ToUpper(id))
		}
	}
	if _, err := insights.Resolve(cleaned); err != nil {
		return nil, err
	}

	job, err := s.queue.Submit(ctx, cleaned)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to queue generation job",
			slog.String("insights", strings.Join(cleaned, ",")),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.logger.InfoContext(ctx, "generation job queued",
		slog.String("job_id", job.ID),
		slog.Bool("wait", wait))

	if !wait {
		return job, nil
	}

	done, err := s.queue.Wait(ctx, job.ID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if latest, getErr := s.queue.GetJob(job.ID); getErr == nil {
				return latest, err
			}
			return job, err
		}
		return nil, err
	}
	return done, nil
}

// Job returns one job
func (s *GenerationService) Job(ctx context.Context, id string) (*operations.Job, error) {
	return s.queue.GetJob(id)
}

// Jobs returns the most recent jobs, newest first
func (s *GenerationService) Jobs(ctx context.Context, status operations.JobStatus, limit int) ([]*operations.Job, error) {
	if limit <= 0 {
		limit = DefaultJobListLimit
	}
	return s.queue.ListJobs(operations.JobFilter{Status: status, Limit: limit})
}

// Cancel stops a pending or running job
func (s *GenerationService) Cancel(ctx context.Context, id string) error {
	if err := s.queue.CancelJob(id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "generation job cancelled", slog.String("job_id", id))
	return nil
}
