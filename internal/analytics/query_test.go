package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	tests := []struct {
		name       string
		req        TableRequest
		wantTotal  int
		wantPages  int
		wantReport []string
	}{
		{
			name:       "first page",
			req:        TableRequest{Page: 1, PageSize: 3},
			wantTotal:  4,
			wantPages:  2,
			wantReport: []string{"R1", "R2", "R3"},
		},
		{
			name:       "second page",
			req:        TableRequest{Page: 2, PageSize: 3},
			wantTotal:  4,
			wantPages:  2,
			wantReport: []string{"R4"},
		},
		{
			name:       "past the end",
			req:        TableRequest{Page: 5, PageSize: 3},
			wantTotal:  4,
			wantPages:  2,
			wantReport: nil,
		},
		{
			name:       "search ignores case",
			req:        TableRequest{Page: 1, PageSize: 10, Search: "bOB"},
			wantTotal:  1,
			wantPages:  1,
			wantReport: []string{"R2"},
		},
		{
			name:       "numeric sort descending",
			req:        TableRequest{Page: 1, PageSize: 10, SortColumn: ColTotalSpend, SortDirection: "desc"},
			wantTotal:  4,
			wantPages:  1,
			wantReport: []string{"R2", "R4", "R1", "R3"},
		},
		{
			name:       "text sort ascending",
			req:        TableRequest{Page: 1, PageSize: 10, SortColumn: ColEmployeeName, SortDirection: "asc"},
			wantTotal:  4,
			wantPages:  1,
			wantReport: []string{"R1", "R4", "R2", "R3"},
		},
		{
			name:       "unknown sort column ignored",
			req:        TableRequest{Page: 1, PageSize: 10, SortColumn: "Nope"},
			wantTotal:  4,
			wantPages:  1,
			wantReport: []string{"R1", "R2", "R3", "R4"},
		},
		{
			name:       "filters then search",
			req:        TableRequest{Page: 1, PageSize: 10, Search: "travel", Filters: &Filters{Cluster: []string{"C2"}}},
			wantTotal:  1,
			wantPages:  1,
			wantReport: []string{"R3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := pjpa37Dataset()
			page := ds.Query(tt.req)

			assert.Equal(t, tt.wantTotal, page.TotalRows)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.req.Page, page.Page)
			require.NotNil(t, page.Data)

			var reports []string
			for _, rec := range page.Data {
				reports = append(reports, rec[ColReportID].(string))
			}
			assert.Equal(t, tt.wantReport, reports)

			// the dataset itself keeps its order
			assert.Equal(t, "R1", ds.Table.Get(0, ColReportID))
		})
	}
}

func TestQuery_RecordsAndColumns(t *testing.T) {
	page := pjpa37Dataset().Query(NewTableRequest())

	assert.Equal(t, DefaultPageSize, page.PageSize)
	require.Len(t, page.Columns, 9)
	assert.Equal(t, Column{Field: ColEmployeeID, Header: ColEmployeeID}, page.Columns[0])
	assert.Equal(t, 100.0, page.Data[0][ColTotalSpend])
	assert.Equal(t, 2.0, page.Data[0][ColTotalClaims])
	assert.Equal(t, "Yes", page.Data[0][ColIsAnomaly])
}

func TestQuery_MissingSortValuesLast(t *testing.T) {
	ds := pjpa39Dataset()
	for _, dir := range []string{"asc", "desc"} {
		page := ds.Query(TableRequest{Page: 1, PageSize: 10, SortColumn: ColSeparationDate, SortDirection: dir})
		last := page.Data[len(page.Data)-1]
		assert.Equal(t, "4", last[ColEmployeeID], dir)
	}
}

func TestQuery_PageSizeClamped(t *testing.T) {
	page := pjpa37Dataset().Query(TableRequest{Page: 0, PageSize: 10000})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, MaxPageSize, page.PageSize)
}
