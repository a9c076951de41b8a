package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kavya1280/JK-Insights/internal/config"
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
	"github.com/kavya1280/JK-Insights/internal/infrastructure"
	"github.com/kavya1280/JK-Insights/internal/insights"
)

// ErrUnreadable is returned when an upload cannot be parsed as tabular data
var ErrUnreadable = errors.New("upload cannot be read")

// Stored describes a master file written by Store
type Stored struct {
	Source  insights.Source `json:"source"`
	File    string          `json:"file"`
	Rows    int             `json:"rows"`
	Columns int             `json:"columns"`
	// Entries lists the merged zip members
	Entries []string `json:"merged_entries,omitempty"`
}

// MasterFile is the state of one master file in the data directory
type MasterFile struct {
	Source    insights.Source `json:"source"`
	FormField string          `json:"form_field"`
	FileName  string          `json:"file_name"`
	Exists    bool            `json:"exists"`
	Size      int64           `json:"size,omitempty"`
	Modified  *time.Time      `json:"modified,omitempty"`
	Rows      int             `json:"rows,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Manager stores master files in the data directory
type Manager struct {
	paths   *config.Paths
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewManager creates a new file manager instance. metrics may be nil.
func NewManager(paths *config.Paths, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		paths:   paths,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "files")),
	}
}

// Store writes the upload r, named filename, as the master file for src.
// A zip bundle is merged into one workbook. Other supported formats are
// validated by loading them, and anything that is not already xlsx is
// rewritten as xlsx. The previous file is replaced only on success.
func (m *Manager) Store(ctx context.Context, src insights.SourceInfo, filename string, r io.Reader) (Stored, error) {
	out := Stored{Source: src.Source, File: src.FileName}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".zip" && !dataprocessing.SupportedExtension(filename) {
		return out, fmt.Errorf("%s: %w", filename, dataprocessing.ErrUnsupportedFormat)
	}
	if err := os.MkdirAll(m.paths.DataDir, 0755); err != nil {
		return out, fmt.Errorf("failed to create data directory: %w", err)
	}

	upload, err := m.spool(r, ext)
	if err != nil {
		return out, err
	}
	defer os.Remove(upload)

	var table *dataprocessing.Table
	if ext == ".zip" {
		table, out.Entries, err = mergeBundle(upload)
	} else {
		table, err = dataprocessing.LoadFile(upload)
	}
	if err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrUnreadable, filename, err)
	}

	dst := m.paths.DataFile(src.FileName)
	if ext == ".xlsx" {
		err = os.Rename(upload, dst)
	} else {
		err = m.writeAtomic(dst, func(tmp string) error { return exporter.WriteTable(tmp, table) })
	}
	if err != nil {
		return out, fmt.Errorf("failed to store %s: %w", src.FileName, err)
	}

	out.Rows = table.Len()
	out.Columns = len(table.Columns)
	m.metrics.RecordUpload(ctx, string(src.Source), out.Rows)
	m.logger.InfoContext(ctx, "master file stored",
		slog.String("source", string(src.Source)),
		slog.String("upload", filename),
		slog.String("file", src.FileName),
		slog.Int("rows", out.Rows),
		slog.Int("merged_entries", len(out.Entries)))
	return out, nil
}

// spool copies r to a temp file in the data directory that keeps ext
func (m *Manager) spool(r io.Reader, ext string) (string, error) {
	f, err := os.CreateTemp(m.paths.DataDir, ".upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to receive upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func mergeBundle(path string) (*dataprocessing.Table, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	return dataprocessing.MergeZip(f, info.Size())
}

// writeAtomic lets write fill a temp xlsx next to dst, then renames it
func (m *Manager) writeAtomic(dst string, write func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(dst), ".store-*.xlsx")
	if err != nil {
		return err
	}
	tmp := f.Name()
	f.Close()
	defer os.Remove(tmp)

	if err := write(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

// List reports every master file, present or not, in upload order. Row
// counts come from loading each present file.
func (m *Manager) List(ctx context.Context) []MasterFile {
	out := make([]MasterFile, 0, len(insights.Sources))
	for _, src := range insights.Sources {
		mf := MasterFile{Source: src.Source, FormField: src.FormField, FileName: src.FileName}
		path := m.paths.DataFile(src.FileName)

		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			out = append(out, mf)
			continue
		case err != nil:
			mf.Error = err.Error()
			out = append(out, mf)
			continue
		}

		mod := info.ModTime()
		mf.Exists = true
		mf.Size = info.Size()
		mf.Modified = &mod
		if t, err := dataprocessing.LoadFile(path); err != nil {
			m.logger.WarnContext(ctx, "master file unreadable",
				slog.String("file", src.FileName), slog.String("error", err.Error()))
			mf.Error = err.Error()
		} else {
			mf.Rows = t.Len()
		}
		out = append(out, mf)
	}
	return out
}
