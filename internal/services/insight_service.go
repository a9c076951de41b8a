package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kavya1280/JK-Insights/internal/config"
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
	"github.com/kavya1280/JK-Insights/internal/files"
	"github.com/kavya1280/JK-Insights/internal/insights"
)

// NotAvailable replaces blank cells in insight records
const NotAvailable = "N/A"

// InsightEntry is one catalog row with its generation state
type InsightEntry struct {
	insights.Definition
	Generated   bool       `json:"generated"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// InsightData is the main sheet of a generated workbook
type InsightData struct {
	InsightID  string              `json:"insight_id"`
	Columns    []string            `json:"columns"`
	Data       []map[string]string `json:"data"`
	TotalRows  int                 `json:"total_rows"`
	Page       int                 `json:"page,omitempty"`
	PageSize   int                 `json:"page_size,omitempty"`
	TotalPages int                 `json:"total_pages,omitempty"`
}

// InsightService reads generated workbooks from the output directory
type InsightService struct {
	outputs *files.Discovery
	logger  *slog.Logger
}

// NewInsightService creates the service over paths.OutputDir
func NewInsightService(paths *config.Paths, logger *slog.Logger) *InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{
		outputs: files.NewDiscovery(paths.OutputDir),
		logger:  logger.With(slog.String("service", "insights")),
	}
}

// Catalog lists every insight in presentation order
func (s *InsightService) Catalog(ctx context.Context) []InsightEntry {
	entries := make([]InsightEntry, 0, len(insights.Catalog))
	for _, def := range insights.Catalog {
		entry := InsightEntry{Definition: def}
		if info, ok := s.outputs.Find(def.File); ok {
			mod := info.ModTime
			entry.Generated = true
			entry.GeneratedAt = &mod
		}
		entries = append(entries, entry)
	}
	return entries
}

// Path returns the workbook of id
func (s *InsightService) Path(ctx context.Context, id string) (insights.Definition, string, error) {
	def, ok := insights.Lookup(id)
	if !ok {
		return insights.Definition{}, "", fmt.Errorf("%q: %w", id, ErrInsightNotFound)
	}
	info, ok := s.outputs.Find(def.File)
	if !ok {
		return def, "", fmt.Errorf("%s: %w", def.ID, ErrNotGenerated)
	}
	return def, info.Path, nil
}

// Data reads the main sheet of id. page 0 returns every row; otherwise the
// rows of that 1-based page of pageSize are returned.
func (s *InsightService) Data(ctx context.Context, id string, page, pageSize int) (*InsightData, error) {
	def, table, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &InsightData{
		InsightID: def.ID,
		Columns:   table.Columns,
		TotalRows: table.Len(),
	}

	start, end := 0, table.Len()
	if page > 0 && pageSize > 0 {
		out.Page = page
		out.PageSize = pageSize
		out.TotalPages = (table.Len() + pageSize - 1) / pageSize
		start = min((page-1)*pageSize, table.Len())
		end = min(start+pageSize, table.Len())
	}

	out.Data = make([]map[string]string, 0, end-start)
	for _, row := range table.Rows[start:end] {
		rec := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			if v == "" {
				v = NotAvailable
			}
			rec[col] = v
		}
		out.Data = append(out.Data, rec)
	}
	return out, nil
}

// WriteCSV streams the main sheet of id as CSV with a UTF-8 BOM
func (s *InsightService) WriteCSV(ctx context.Context, id string, w io.Writer) error {
	_, table, err := s.read(ctx, id)
	if err != nil {
		return err
	}
	return exporter.WriteCSV(w, exporter.WriteOptions{
		Headers:   table.Columns,
		Records:   table.Rows,
		BOMPrefix: true,
	})
}

// CSVName is the attachment name of the CSV rendition of a workbook
func CSVName(def insights.Definition) string {
	return def.File[:len(def.File)-len(filepath.Ext(def.File))] + ".csv"
}

func (s *InsightService) read(ctx context.Context, id string) (insights.Definition, *dataprocessing.Table, error) {
	def, path, err := s.Path(ctx, id)
	if err != nil {
		return def, nil, err
	}
	table, err := exporter.ReadReport(path, def.SheetPrefix, def.SkipRows)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil, fmt.Errorf("%s: %w", def.ID, ErrNotGenerated)
		}
		s.logger.ErrorContext(ctx, "failed to read insight workbook",
			slog.String("insight", def.ID),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return def, nil, fmt.Errorf("read %s: %w", def.File, err)
	}
	return def, table, nil
}
