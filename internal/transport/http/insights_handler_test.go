package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/services"
	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func newInsightsRouter(t *testing.T, svc *MockInsightService) http.Handler {
	logger, _ := testutil.NewTestLogger(t)
	h := NewInsightsHandler(svc, testErrorHandler(t), logger)
	r := chi.NewRouter()
	r.Get("/api/insights", h.Catalog)
	r.Get("/api/insight/{id}/data", h.Data)
	r.Get("/api/insight/{id}/download", h.Download)
	return r
}

func TestInsightsHandler_Catalog(t *testing.T) {
	def, _ := insights.Lookup("PJPA33")
	svc := new(MockInsightService)
	svc.On("Catalog", mock.Anything).Return([]services.InsightEntry{{Definition: def, Generated: true}})

	rec := httptest.NewRecorder()
	newInsightsRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insights", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"generated":true`)
	assert.Contains(t, rec.Body.String(), def.File)
}

func TestInsightsHandler_Data(t *testing.T) {
	data := &services.InsightData{
		InsightID: "PJPA27",
		Columns:   []string{"Employee ID", "Amount"},
		Data:      []map[string]string{{"Employee ID": "E1", "Amount": services.NotAvailable}},
		TotalRows: 1,
	}

	tests := []struct {
		name       string
		target     string
		setup      func(*MockInsightService)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "all rows",
			target: "/api/insight/PJPA27/data",
			setup: func(m *MockInsightService) {
				m.On("Data", mock.Anything, "PJPA27", 0, 0).Return(data, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"success"`,
		},
		{
			name:   "page defaults its size",
			target: "/api/insight/PJPA27/data?page=2",
			setup: func(m *MockInsightService) {
				m.On("Data", mock.Anything, "PJPA27", 2, defaultInsightPageSize).Return(data, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"N/A"`,
		},
		{
			name:   "page size alone starts at page one",
			target: "/api/insight/PJPA27/data?page_size=10",
			setup: func(m *MockInsightService) {
				m.On("Data", mock.Anything, "PJPA27", 1, 10).Return(data, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"insight_id":"PJPA27"`,
		},
		{
			name:       "page size too large",
			target:     "/api/insight/PJPA27/data?page_size=501",
			setup:      func(*MockInsightService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "page_size must be between 1 and 500",
		},
		{
			name:   "unknown insight",
			target: "/api/insight/PJPA99/data",
			setup: func(m *MockInsightService) {
				m.On("Data", mock.Anything, "PJPA99", 0, 0).Return(nil, services.ErrInsightNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   apierrors.TypeInsightNotFound,
		},
		{
			name:   "not generated",
			target: "/api/insight/PJPA28/data",
			setup: func(m *MockInsightService) {
				m.On("Data", mock.Anything, "PJPA28", 0, 0).Return(nil, services.ErrNotGenerated)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   apierrors.TypeNotGenerated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockInsightService)
			tt.setup(svc)

			rec := httptest.NewRecorder()
			newInsightsRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestInsightsHandler_Download(t *testing.T) {
	def, ok := insights.Lookup("PJPA35")
	require.True(t, ok)
	path := filepath.Join(t.TempDir(), def.File)
	require.NoError(t, os.WriteFile(path, []byte("PK-fake-workbook"), 0644))

	svc := new(MockInsightService)
	svc.On("Path", mock.Anything, "PJPA35").Return(def, path, nil)
	svc.On("Path", mock.Anything, "PJPA36").Return(insights.Definition{}, "", services.ErrNotGenerated)
	svc.On("WriteCSV", mock.Anything, def.ID, mock.Anything).Run(func(args mock.Arguments) {
		_, _ = io.WriteString(args.Get(2).(io.Writer), "\ufeffA,B\n1,2\n")
	}).Return(nil)
	router := newInsightsRouter(t, svc)

	t.Run("xlsx", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/PJPA35/download", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), def.File)
		assert.Equal(t, "PK-fake-workbook", rec.Body.String())
	})

	t.Run("csv", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/PJPA35/download?format=CSV", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), services.CSVName(def))
		assert.Equal(t, "\ufeffA,B\n1,2\n", rec.Body.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/PJPA35/download?format=pdf", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/PJPA36/download", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})
}
