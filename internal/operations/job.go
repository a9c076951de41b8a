package operations

import (
	"time"

	"github.com/kavya1280/JK-Insights/internal/insights"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Finished reports whether the status is terminal
func (s JobStatus) Finished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// InsightStatus is the outcome of one detector
type InsightStatus string

const (
	InsightCompleted InsightStatus = "completed"
	// InsightNoExceptions means the detector ran and found nothing to write
	InsightNoExceptions InsightStatus = "no_exceptions"
	InsightFailed       InsightStatus = "failed"
	InsightSkipped      InsightStatus = "skipped"
)

// InsightResult records one detector run within a job
type InsightResult struct {
	Insight    string             `json:"insight"`
	Status     InsightStatus      `json:"status"`
	Outputs    []insights.Written `json:"outputs,omitempty"`
	Error      string             `json:"error,omitempty"`
	DurationMS int64              `json:"duration_ms"`
}

// Succeeded reports whether the detector ran to completion
func (r InsightResult) Succeeded() bool {
	return r.Status == InsightCompleted || r.Status == InsightNoExceptions
}

// Job is one generation request
type Job struct {
	ID          string          `json:"id"`
	Insights    []string        `json:"insights"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	Results     []InsightResult `json:"results,omitempty"`
	TraceID     string          `json:"trace_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Clone returns a deep copy
func (j *Job) Clone() *Job {
	c := *j
	c.Insights = append([]string(nil), j.Insights...)
	c.Results = append([]InsightResult(nil), j.Results...)
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Files lists the workbooks written by the job
func (j *Job) Files() []string {
	var files []string
	for _, r := range j.Results {
		for _, o := range r.Outputs {
			files = append(files, o.File)
		}
	}
	return files
}
