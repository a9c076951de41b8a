package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/analytics"
	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func newAnalyticsService(t *testing.T) *AnalyticsService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := NewAnalyticsService(analytics.NewWorkspace(filepath.Join(t.TempDir(), "uploads"), logger), logger)
	svc.now = func() time.Time { return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC) }
	return svc
}

func uploadPJPA37(t *testing.T, svc *AnalyticsService) analytics.Summary {
	t.Helper()
	src := testutil.WriteWorkbook(t, t.TempDir(), "src.xlsx",
		[]string{"Employee ID", "Employee Name", "Report ID", "Cluster_ID", "Total Claims", "Total Spend Amount", "Is_Anomaly", "Policy"},
		[][]any{
			{"E1", "Asha", "R1", 0, 3, 100, "No", "Travel"},
			{"E1", "Asha", "R2", 1, 2, 300, "Yes", "Meals"},
			{"E2", "Ravi", "R3", 0, 5, 100, "no", "Travel"},
		})
	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()

	summary, err := svc.Upload(context.Background(), "PJPA37_Clusters.xlsx", f)
	require.NoError(t, err)
	return summary
}

func TestAnalyticsService_NoDataset(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, nil)
	assert.ErrorIs(t, err, ErrNoDatasetLoaded)

	_, err = svc.Table(ctx, analytics.NewTableRequest())
	assert.ErrorIs(t, err, ErrNoDatasetLoaded)

	opts, err := svc.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, analytics.EmptyFilterOptions(), opts)

	files, err := svc.Files(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestAnalyticsService_UploadAndQuery(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()

	summary := uploadPJPA37(t, svc)
	assert.Equal(t, analytics.TypePJPA37, summary.FileType)
	assert.Equal(t, 3, summary.Rows)

	dash, err := svc.Dashboard(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.KPIs["total_employees"].Value)
	assert.Equal(t, float64(500), dash.KPIs["total_spend"].Value)
	assert.Equal(t, float64(300), dash.KPIs["anomaly_spend"].Value)

	filtered, err := svc.Dashboard(ctx, &analytics.Filters{Policy: []string{"Travel"}})
	require.NoError(t, err)
	assert.Equal(t, float64(200), filtered.KPIs["total_spend"].Value)

	req := analytics.NewTableRequest()
	req.SortColumn = analytics.ColTotalSpend
	req.SortDirection = "desc"
	page, err := svc.Table(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalRows)
	assert.Equal(t, "R2", page.Data[0][analytics.ColReportID])

	opts, err := svc.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Travel", "Meals"}, opts["policy"])
}

func TestAnalyticsService_Load(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()
	uploadPJPA37(t, svc)

	summary, err := svc.Load(ctx, "PJPA37_Clusters.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "PJPA37_Clusters.xlsx", summary.Filename)

	_, err = svc.Load(ctx, "missing.xlsx")
	assert.ErrorIs(t, err, analytics.ErrFileNotFound)

	_, err = svc.Load(ctx, "notes.txt")
	assert.ErrorIs(t, err, analytics.ErrUnsupportedFile)
}
