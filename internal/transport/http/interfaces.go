package http

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/kavya1280/JK-Insights/internal/analytics"
	"github.com/kavya1280/JK-Insights/internal/auth"
	"github.com/kavya1280/JK-Insights/internal/files"
	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/operations"
	"github.com/kavya1280/JK-Insights/internal/services"
)

// UserService is implemented by services.UserService
type UserService interface {
	Login(ctx context.Context, username, password string) (auth.User, error)
	List(ctx context.Context) []auth.User
	Add(ctx context.Context, in auth.NewUser) (auth.User, error)
	Update(ctx context.Context, id string, patch auth.UserPatch) (auth.User, error)
	Delete(ctx context.Context, id string) (auth.User, error)
}

// UploadService is implemented by services.UploadService
type UploadService interface {
	Upload(ctx context.Context, form map[string][]*multipart.FileHeader) ([]files.Stored, error)
	Uploads(ctx context.Context) []files.MasterFile
}

// GenerationService is implemented by services.GenerationService
type GenerationService interface {
	Generate(ctx context.Context, ids []string, wait bool) (*operations.Job, error)
	Job(ctx context.Context, id string) (*operations.Job, error)
	Jobs(ctx context.Context, status operations.JobStatus, limit int) ([]*operations.Job, error)
	Cancel(ctx context.Context, id string) error
}

// InsightService is implemented by services.InsightService
type InsightService interface {
	Catalog(ctx context.Context) []services.InsightEntry
	Path(ctx context.Context, id string) (insights.Definition, string, error)
	Data(ctx context.Context, id string, page, pageSize int) (*services.InsightData, error)
	WriteCSV(ctx context.Context, id string, w io.Writer) error
}

// AnalyticsService is implemented by services.AnalyticsService
type AnalyticsService interface {
	Upload(ctx context.Context, name string, r io.Reader) (analytics.Summary, error)
	Files(ctx context.Context) ([]analytics.FileInfo, error)
	Load(ctx context.Context, name string) (analytics.Summary, error)
	Dashboard(ctx context.Context, f *analytics.Filters) (analytics.Dashboard, error)
	Table(ctx context.Context, req analytics.TableRequest) (analytics.TablePage, error)
	FilterOptions(ctx context.Context) (map[string][]string, error)
}

// HealthService is implemented by services.HealthService
type HealthService interface {
	LivenessCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) (services.HealthStatus, bool)
}
