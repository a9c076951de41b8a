package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/config"
	"github.com/kavya1280/JK-Insights/internal/exporter"
	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func newInsightService(t *testing.T) (*InsightService, *config.Paths) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	paths := &config.Paths{OutputDir: t.TempDir()}
	return NewInsightService(paths, logger), paths
}

// writePJPA30 writes a three-row short trip report
func writePJPA30(t *testing.T, paths *config.Paths) {
	t.Helper()
	require.NoError(t, exporter.WriteReport(paths.OutputFile("PJPA30_Generated.xlsx"), exporter.Sheet{
		Name: "Sheet1",
		Meta: &exporter.Meta{
			InsightID:     "PJPA30",
			ExceptionNo:   "3",
			ExceptionType: "Short Trip Frequency Abuse",
			BlankRows:     1,
		},
		Header: []string{"Employee ID", "Employee Name", "Short Trip Count"},
		Rows: [][]string{
			{"E1", "Asha", "7"},
			{"E2", "", "6"},
			{"E3", "Ravi", "5"},
		},
	}))
}

func TestInsightService_Catalog(t *testing.T) {
	svc, paths := newInsightService(t)
	writePJPA30(t, paths)

	entries := svc.Catalog(context.Background())
	require.Len(t, entries, len(insights.Catalog))

	for _, e := range entries {
		if e.ID == "PJPA30" {
			assert.True(t, e.Generated)
			require.NotNil(t, e.GeneratedAt)
			continue
		}
		assert.False(t, e.Generated, e.ID)
		assert.Nil(t, e.GeneratedAt, e.ID)
	}
	assert.Equal(t, "PJPA27", entries[0].ID)
	assert.Equal(t, "PJPA27_Generated.xlsx", entries[0].File)
}

func TestInsightService_Data(t *testing.T) {
	svc, paths := newInsightService(t)
	writePJPA30(t, paths)
	ctx := context.Background()

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantIDs   []string
		wantPages int
	}{
		{name: "all rows without paging", wantIDs: []string{"E1", "E2", "E3"}},
		{name: "first page", page: 1, pageSize: 2, wantIDs: []string{"E1", "E2"}, wantPages: 2},
		{name: "last page", page: 2, pageSize: 2, wantIDs: []string{"E3"}, wantPages: 2},
		{name: "page past the end", page: 5, pageSize: 2, wantIDs: []string{}, wantPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := svc.Data(ctx, "pjpa30", tt.page, tt.pageSize)
			require.NoError(t, err)

			assert.Equal(t, "PJPA30", data.InsightID)
			assert.Equal(t, []string{"Employee ID", "Employee Name", "Short Trip Count"}, data.Columns)
			assert.Equal(t, 3, data.TotalRows)
			assert.Equal(t, tt.wantPages, data.TotalPages)

			ids := make([]string, 0, len(data.Data))
			for _, rec := range data.Data {
				ids = append(ids, rec["Employee ID"])
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	data, err := svc.Data(ctx, "PJPA30", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, NotAvailable, data.Data[1]["Employee Name"])
}

func TestInsightService_Errors(t *testing.T) {
	svc, _ := newInsightService(t)
	ctx := context.Background()

	_, err := svc.Data(ctx, "PJPA99", 0, 0)
	assert.ErrorIs(t, err, ErrInsightNotFound)

	_, err = svc.Data(ctx, "PJPA27", 0, 0)
	assert.ErrorIs(t, err, ErrNotGenerated)

	_, _, err = svc.Path(ctx, "PJPA32_WE")
	assert.ErrorIs(t, err, ErrNotGenerated)
}

func TestInsightService_WriteCSV(t *testing.T) {
	svc, paths := newInsightService(t)
	writePJPA30(t, paths)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), "PJPA30", &buf))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Employee ID", "Employee Name", "Short Trip Count"},
		{"E1", "Asha", "7"},
		{"E2", "", "6"},
		{"E3", "Ravi", "5"},
	}, records)
}

func TestInsightService_PathAndCSVName(t *testing.T) {
	svc, paths := newInsightService(t)
	writePJPA30(t, paths)

	def, path, err := svc.Path(context.Background(), "PJPA30")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.OutputDir, "PJPA30_Generated.xlsx"), path)
	assert.Equal(t, "PJPA30_Generated.csv", CSVName(def))
}
