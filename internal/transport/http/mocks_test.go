package http

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/analytics"
	"github.com/kavya1280/JK-Insights/internal/auth"
	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/files"
	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/operations"
	"github.com/kavya1280/JK-Insights/internal/services"
	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Login(ctx context.Context, username, password string) (auth.User, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(auth.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) []auth.User {
	return m.Called(ctx).Get(0).([]auth.User)
}

func (m *MockUserService) Add(ctx context.Context, in auth.NewUser) (auth.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(auth.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, patch auth.UserPatch) (auth.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(auth.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) (auth.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(auth.User), args.Error(1)
}

type MockUploadService struct{ mock.Mock }

func (m *MockUploadService) Upload(ctx context.Context, form map[string][]*multipart.FileHeader) ([]files.Stored, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]files.Stored), args.Error(1)
}

func (m *MockUploadService) Uploads(ctx context.Context) []files.MasterFile {
	return m.Called(ctx).Get(0).([]files.MasterFile)
}

type MockGenerationService struct{ mock.Mock }

func (m *MockGenerationService) Generate(ctx context.Context, ids []string, wait bool) (*operations.Job, error) {
	args := m.Called(ctx, ids, wait)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operations.Job), args.Error(1)
}

func (m *MockGenerationService) Job(ctx context.Context, id string) (*operations.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operations.Job), args.Error(1)
}

func (m *MockGenerationService) Jobs(ctx context.Context, status operations.JobStatus, limit int) ([]*operations.Job, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*operations.Job), args.Error(1)
}

func (m *MockGenerationService) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockInsightService struct{ mock.Mock }

func (m *MockInsightService) Catalog(ctx context.Context) []services.InsightEntry {
	return m.Called(ctx).Get(0).([]services.InsightEntry)
}

func (m *MockInsightService) Path(ctx context.Context, id string) (insights.Definition, string, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(insights.Definition), args.String(1), args.Error(2)
}

func (m *MockInsightService) Data(ctx context.Context, id string, page, pageSize int) (*services.InsightData, error) {
	args := m.Called(ctx, id, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InsightData), args.Error(1)
}

func (m *MockInsightService) WriteCSV(ctx context.Context, id string, w io.Writer) error {
	return m.Called(ctx, id, w).Error(0)
}

type MockAnalyticsService struct{ mock.Mock }

func (m *MockAnalyticsService) Upload(ctx context.Context, name string, r io.Reader) (analytics.Summary, error) {
	args := m.Called(ctx, name, r)
	return args.Get(0).(analytics.Summary), args.Error(1)
}

func (m *MockAnalyticsService) Files(ctx context.Context) ([]analytics.FileInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.FileInfo), args.Error(1)
}

func (m *MockAnalyticsService) Load(ctx context.Context, name string) (analytics.Summary, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(analytics.Summary), args.Error(1)
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context, f *analytics.Filters) (analytics.Dashboard, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(analytics.Dashboard), args.Error(1)
}

func (m *MockAnalyticsService) Table(ctx context.Context, req analytics.TableRequest) (analytics.TablePage, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(analytics.TablePage), args.Error(1)
}

func (m *MockAnalyticsService) FilterOptions(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

type MockHealthService struct{ mock.Mock }

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) (services.HealthStatus, bool) {
	args := m.Called(ctx)
	return args.Get(0).(services.HealthStatus), args.Bool(1)
}

func testErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	logger, _ := testutil.NewTestLogger(t)
	return NewErrorHandler(logger, false)
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
