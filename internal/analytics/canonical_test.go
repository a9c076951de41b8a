package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

func table(cols []string, rows ...[]string) *dataprocessing.Table {
	t := dataprocessing.NewTable(cols)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		want FileType
	}{
		{"PJPA37_Claims.xlsx", TypePJPA37},
		{"pjpa38 rare travel.xlsx", TypePJPA38},
		{"/tmp/uploads/PJPA39_Exits.xls", TypePJPA39},
		{"report.xlsx", TypePJPA37},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.name))
		})
	}
}

func TestCanonicalize_PJPA37(t *testing.T) {
	raw := table(
		[]string{"employee_id", "Report Id", "Cluster", "Total Claims", "Total Spend Amount", "Total Spend Amount_1", "Anomaly Flag", "Policy Name", "Dept", " Employee Name "},
		[]string{"E1", "R1", "C1", "3", "1,500.50", "9", "yes", "Travel", "x", "Ann"},
		[]string{"E2", "R2", "C1", "", "abc", "9", "no", "Meals", "y", "Bob"},
	)

	got := Canonicalize(raw, TypePJPA37)

	wantCols := []string{ColEmployeeID, ColReportID, ColClusterID, ColTotalClaims, ColTotalSpend, ColIsAnomaly, ColPolicy, "Dept", ColEmployeeName}
	if diff := cmp.Diff(wantCols, got.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "1500.5", got.Get(0, ColTotalSpend))
	assert.Equal(t, "Yes", got.Get(0, ColIsAnomaly))
	assert.Equal(t, "0", got.Get(1, ColTotalClaims))
	assert.Equal(t, "0", got.Get(1, ColTotalSpend))
	assert.Equal(t, "No", got.Get(1, ColIsAnomaly))
}

func TestCanonicalize_PJPA38Flags(t *testing.T) {
	raw := table(
		[]string{"Emp ID", "Flag Status", "Mode Count", "Approved Amount (INR)", "Expense Type"},
		[]string{"1", "odd", "2", "100", "Flight"},
		[]string{"2", "RARE", "1", "50", "Train"},
		[]string{"3", "normal", "", "", "Bus"},
		[]string{"4", "", "4", "10", "Bus"},
	)

	got := Canonicalize(raw, TypePJPA38)

	assert.Equal(t, []string{"Rare", "Rare", "Normal", "Normal"}, got.Values(ColFlag))
	assert.Equal(t, []string{"2", "1", "0", "4"}, got.Values(ColModeCount))
	assert.True(t, got.Has(ColApprovedAmount))
	assert.True(t, got.Has(ColExpenseType))
	// "Emp ID" does not mention employee
	assert.True(t, got.Has("Emp ID"))
}

func TestCanonicalize_PJPA39Dates(t *testing.T) {
	raw := table(
		[]string{"Employee ID", "Work Location", "Exit Reason", "Separation Date", "FY Year"},
		[]string{"1", "KA", "x", "45292", "2024"},
		[]string{"2", "TN", "x", "03/15/2024", "2024"},
		[]string{"3", "TN", "x", "", "2023"},
	)

	got := Canonicalize(raw, TypePJPA39)

	assert.Equal(t, []string{"2024-01-01", "2024-03-15", ""}, got.Values(ColSeparationDate))
	assert.Equal(t, []string{"KA", "TN", "TN"}, got.Values(ColState))
	assert.True(t, got.Has(ColYear))
}
