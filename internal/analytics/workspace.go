package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileInfo describes a stored analytics upload
type FileInfo struct {
	Name    string    `json:"name"`
	Type    FileType  `json:"type"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// Summary describes the dataset that was just loaded
type Summary struct {
	Filename string   `json:"filename"`
	FileType FileType `json:"file_type"`
	Rows     int      `json:"rows"`
	Columns  int      `json:"columns"`
}

// Summary reports the dataset shape
func (d *Dataset) Summary() Summary {
	return Summary{
		Filename: d.Name,
		FileType: d.Type,
		Rows:     d.Table.Len(),
		Columns:  len(d.Table.Columns),
	}
}

// Workspace stores uploaded result workbooks and holds the dataset the
// dashboard is currently looking at. It is safe for concurrent use.
type Workspace struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	current *Dataset
}

// NewWorkspace serves uploads from dir
func NewWorkspace(dir string, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{dir: dir, logger: logger.With(slog.String("component", "analytics"))}
}

// Dir returns the upload directory
func (w *Workspace) Dir() string { return w.dir }

func workbookName(name string) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return name, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnsupportedFile)
}

// Upload stores r under name and makes it the current dataset. A file that
// cannot be parsed is not kept.
func (w *Workspace) Upload(ctx context.Context, name string, r io.Reader) (*Dataset, error) {
	name, err := workbookName(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, ".upload-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to store %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	// parse before replacing an existing upload
	ds, err := LoadDataset(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", name, err)
	}
	ds.Name = name
	ds.Type = DetectType(name)

	w.setCurrent(ctx, ds)
	return ds, nil
}

// Files lists stored uploads by name
func (w *Workspace) Files() ([]FileInfo, error) {
	entries, err := os.ReadDir(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", w.dir, err)
	}

	files := []FileInfo{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := workbookName(e.Name()); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    e.Name(),
			Type:    DetectType(e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Load makes a stored upload the current dataset
func (w *Workspace) Load(ctx context.Context, name string) (*Dataset, error) {
	name, err := workbookName(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(w.dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrFileNotFound)
	}
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	w.setCurrent(ctx, ds)
	return ds, nil
}

// Current returns the loaded dataset or ErrNoDataset
func (w *Workspace) Current() (*Dataset, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return nil, ErrNoDataset
	}
	return w.current, nil
}

func (w *Workspace) setCurrent(ctx context.Context, ds *Dataset) {
	w.mu.Lock()
	w.current = ds
	w.mu.Unlock()
	w.logger.InfoContext(ctx, "analytics dataset loaded",
		slog.String("file", ds.Name),
		slog.String("type", string(ds.Type)),
		slog.Int("rows", ds.Table.Len()))
}
