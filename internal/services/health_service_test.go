package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kavya1280/JK-Insights/internal/config"
	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

type fixedClients int

func (f fixedClients) ClientCount() int { return int(f) }

func TestHealthService_Readiness(t *testing.T) {
	tests := []struct {
		name      string
		missing   string
		wantReady bool
	}{
		{name: "all directories writable", wantReady: true},
		{name: "output dir missing", missing: "output_dir"},
		{name: "data dir missing", missing: "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			gone := filepath.Join(t.TempDir(), "gone")
			paths := &config.Paths{DataDir: t.TempDir(), OutputDir: t.TempDir(), AnalyticsDir: t.TempDir()}
			switch tt.missing {
			case "output_dir":
				paths.OutputDir = gone
			case "data_dir":
				paths.DataDir = gone
			}

			svc := NewHealthService("1.2.3", paths, nil, nil, logger)
			status, ready := svc.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantReady, ready)
			assert.Equal(t, "1.2.3", status.Version)
			if tt.wantReady {
				assert.Equal(t, "ready", status.Status)
				return
			}
			assert.Equal(t, "not_ready", status.Status)
			assert.Equal(t, "not_ready", status.Services[tt.missing].Status)
			assert.NotEmpty(t, status.Services[tt.missing].Message)
		})
	}
}

func TestHealthService_Liveness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewHealthService("dev", &config.Paths{}, fixedClients(3), nil, logger)

	status := svc.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, 3, status.Runtime["websocket_clients"])
	assert.NotContains(t, status.Runtime, "job_queue")
}
