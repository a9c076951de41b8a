package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/kavya1280/JK-Insights/internal/analytics"
)

// AnalyticsService serves the dashboard over the current analytics dataset
type AnalyticsService struct {
	workspace *analytics.Workspace
	now       func() time.Time
	logger    *slog.Logger
}

// NewAnalyticsService creates the service over workspace
func NewAnalyticsService(workspace *analytics.Workspace, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		workspace: workspace,
		now:       time.Now,
		logger:    logger.With(slog.String("service", "analytics")),
	}
}

// Upload stores a result workbook and loads it
func (s *AnalyticsService) Upload(ctx context.Context, name string, r io.Reader) (analytics.Summary, error) {
	ds, err := s.workspace.Upload(ctx, name, r)
	if err != nil {
		s.logger.WarnContext(ctx, "analytics upload rejected",
			slog.String("filename", name),
			slog.String("error", err.Error()))
		return analytics.Summary{}, err
	}
	return ds.Summary(), nil
}

// Files lists stored result workbooks
func (s *AnalyticsService) Files(ctx context.Context) ([]analytics.FileInfo, error) {
	return s.workspace.Files()
}

// Load makes a stored workbook the current dataset
func (s *AnalyticsService) Load(ctx context.Context, name string) (analytics.Summary, error) {
	ds, err := s.workspace.Load(ctx, name)
	if err != nil {
		return analytics.Summary{}, err
	}
	return ds.Summary(), nil
}

// Dashboard computes KPIs and charts for the filtered dataset
func (s *AnalyticsService) Dashboard(ctx context.Context, f *analytics.Filters) (analytics.Dashboard, error) {
	ds, err := s.workspace.Current()
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return ds.Dashboard(f, s.now()), nil
}

// Table returns one page of the filtered, searched and sorted dataset
func (s *AnalyticsService) Table(ctx context.Context, req analytics.TableRequest) (analytics.TablePage, error) {
	ds, err := s.workspace.Current()
	if err != nil {
		return analytics.TablePage{}, err
	}
	return ds.Query(req), nil
}

// FilterOptions lists the distinct values per filter. Without a dataset the
// lists are empty.
func (s *AnalyticsService) FilterOptions(ctx context.Context) (map[string][]string, error) {
	ds, err := s.workspace.Current()
	if errors.Is(err, analytics.ErrNoDataset) {
		return analytics.EmptyFilterOptions(), nil
	}
	if err != nil {
		return nil, err
	}
	return analytics.FilterOptions(ds.Table), nil
}
