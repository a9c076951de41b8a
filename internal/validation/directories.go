package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kavya1280/JK-Insights/internal/config"
	"github.com/kavya1280/JK-Insights/internal/insights"
)

// DirectoryValidator checks the offline runner's data and output
// directories before a run
type DirectoryValidator struct {
	logger *slog.Logger
}

// NewDirectoryValidator creates a new directory validator
func NewDirectoryValidator(logger *slog.Logger) *DirectoryValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryValidator{logger: logger}
}

// ValidateInputDirectory checks that dir exists and reports which master
// files it holds. Missing master files are not an error; only the insights
// needing them will fail.
func (v *DirectoryValidator) ValidateInputDirectory(dir string) ([]insights.Source, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Error("Input directory does not exist", slog.String("directory", dir))
		return nil, fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var present []insights.Source
	for _, src := range insights.Sources {
		if config.FileExists(filepath.Join(dir, src.FileName)) {
			present = append(present, src.Source)
		}
	}
	if len(present) == 0 {
		v.logger.Warn("No master files found", slog.String("directory", dir))
	} else {
		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("master_files", len(present)))
	}
	return present, nil
}

// ValidateOutputDirectory creates dir when needed and checks it is writable
func (v *DirectoryValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	if err := config.Writable(dir); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	return nil
}
