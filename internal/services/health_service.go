package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/kavya1280/JK-Insights/internal/config"
)

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// QueueStats reports job queue statistics
type QueueStats interface {
	GetQueueStats() map[string]interface{}
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	hub       ClientCounter
	queue     QueueStats
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service. hub and queue may be nil.
func NewHealthService(version string, paths *config.Paths, hub ClientCounter, queue QueueStats, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		hub:       hub,
		queue:     queue,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}
	if hs.hub != nil {
		status.Runtime["websocket_clients"] = hs.hub.ClientCount()
	}
	if hs.queue != nil {
		status.Runtime["job_queue"] = hs.queue.GetQueueStats()
	}
	return status
}

// ReadinessCheck reports whether the data, output and analytics
// directories accept writes. The bool is false when any does not.
func (hs *HealthService) ReadinessCheck(ctx context.Context) (HealthStatus, bool) {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"data_dir":      hs.checkDir(ctx, hs.paths.DataDir),
			"output_dir":    hs.checkDir(ctx, hs.paths.OutputDir),
			"analytics_dir": hs.checkDir(ctx, hs.paths.AnalyticsDir),
		},
	}

	for _, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "not_ready"
			return status, false
		}
	}
	return status, true
}

func (hs *HealthService) checkDir(ctx context.Context, dir string) ServiceHealth {
	if err := config.Writable(dir); err != nil {
		hs.logger.WarnContext(ctx, "directory not writable",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready"}
}
