package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every resolved filesystem location used by the service.
// It is the single source of truth for file paths.
type Paths struct {
	Root         string
	DataDir      string // uploaded master data (Concur, employee master, line items)
	OutputDir    string // generated insight workbooks
	AnalyticsDir string // result workbooks uploaded for the analytics view
	LogsDir      string
	UsersFile    string
}

// ResolvePaths turns the configured locations into absolute paths.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", cfg.Root, err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(root, p)
	}

	return &Paths{
		Root:         root,
		DataDir:      resolve(cfg.DataDir),
		OutputDir:    resolve(cfg.OutputDir),
		AnalyticsDir: resolve(cfg.AnalyticsDir),
		LogsDir:      resolve(cfg.LogsDir),
		UsersFile:    resolve(cfg.UsersFile),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.OutputDir,
		p.AnalyticsDir,
		p.LogsDir,
		filepath.Dir(p.UsersFile),
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// DataFile returns the path of a master data file inside DataDir
func (p *Paths) DataFile(name string) string {
	return filepath.Join(p.DataDir, name)
}

// OutputFile returns the path of a generated workbook inside OutputDir
func (p *Paths) OutputFile(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// Writable reports whether dir accepts new files. Used by readiness checks.
func Writable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
