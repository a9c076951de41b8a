package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Insights.BulkThreshold)
	assert.Equal(t, float64(1000), cfg.Insights.LowValueAmount)
	assert.Equal(t, 10, cfg.Insights.LowValueFrequency)
	assert.Equal(t, float64(5), cfg.Insights.RareThresholdPct)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5000, cfg.Server.Port)
				assert.Equal(t, "Data", cfg.Paths.DataDir)
			},
		},
		{
			name: "file overrides defaults",
			yaml: "server:\n  port: 9090\ninsights:\n  workers: 8\n  bulk_threshold: 5\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 8, cfg.Insights.Workers)
				assert.Equal(t, 5, cfg.Insights.BulkThreshold)
				// untouched sections keep their defaults
				assert.Equal(t, 30*time.Minute, cfg.Insights.JobTimeout)
			},
		},
		{
			name: "env overrides file",
			yaml: "server:\n  port: 9090\n",
			env: map[string]string{
				"JK_SERVER_PORT":   "7070",
				"JK_LOGGING_LEVEL": "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid port rejected",
			env:     map[string]string{"JK_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unknown log level rejected",
			yaml:    "logging:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml rejected",
			yaml:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			t.Setenv("JK_CONFIG", "")
			if tt.yaml != "" {
				cfgPath := filepath.Join(dir, "config.yaml")
				require.NoError(t, os.WriteFile(cfgPath, []byte(tt.yaml), 0644))
				t.Setenv("JK_CONFIG", cfgPath)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("JK_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "out")

	paths, err := ResolvePaths(PathsConfig{
		Root:         root,
		DataDir:      "Data",
		OutputDir:    abs,
		AnalyticsDir: "uploads",
		LogsDir:      "logs",
		UsersFile:    "conf/users.json",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "Data"), paths.DataDir)
	assert.Equal(t, abs, paths.OutputDir)
	assert.Equal(t, filepath.Join(root, "conf", "users.json"), paths.UsersFile)
	assert.Equal(t, filepath.Join(root, "Data", "Line_Item_Data.xlsx"), paths.DataFile("Line_Item_Data.xlsx"))

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.OutputDir, paths.AnalyticsDir, paths.LogsDir, filepath.Join(root, "conf")} {
		assert.DirExists(t, dir)
		assert.NoError(t, Writable(dir))
	}
}
