package analytics

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// Canonical column names used by filters and dashboards
const (
	ColEmployeeID     = "Employee ID"
	ColEmployeeName   = "Employee Name"
	ColReportID       = "Report ID"
	ColClusterID      = "Cluster_ID"
	ColTotalClaims    = "Total Claims"
	ColTotalSpend     = "Total Spend Amount"
	ColIsAnomaly      = "Is_Anomaly"
	ColPolicy         = "Policy"
	ColDepartment     = "Department"
	ColFlag           = "Flag"
	ColModeCount      = "Mode_Count"
	ColApprovedAmount = "Approved Amount"
	ColExpenseType    = "Expense Type"
	ColState          = "State"
	ColSeparationDate = "Separation Date"
	ColYear           = "Year"
)

type renameRule struct {
	match  func(lower string) bool
	target string
}

func allOf(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if !strings.Contains(s, w) {
				return false
			}
		}
		return true
	}
}

func anyOf(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}

// rules are tried in order; the first match renames the column
var rules = map[FileType][]renameRule{
	TypePJPA37: {
		{allOf("employee", "id"), ColEmployeeID},
		{allOf("report", "id"), ColReportID},
		{allOf("cluster"), ColClusterID},
		{allOf("total", "claim"), ColTotalClaims},
		{allOf("total", "spend"), ColTotalSpend},
		{allOf("anomaly"), ColIsAnomaly},
		{allOf("policy"), ColPolicy},
		{allOf("department"), ColDepartment},
		{allOf("employee", "name"), ColEmployeeName},
	},
	TypePJPA38: {
		{allOf("employee", "id"), ColEmployeeID},
		{allOf("flag"), ColFlag},
		{allOf("mode", "count"), ColModeCount},
		{allOf("approved", "amount"), ColApprovedAmount},
		{allOf("expense", "type"), ColExpenseType},
		{allOf("department"), ColDepartment},
		{allOf("employee", "name"), ColEmployeeName},
	},
	TypePJPA39: {
		{allOf("employee", "id"), ColEmployeeID},
		{allOf("department"), ColDepartment},
		{anyOf("state", "location"), ColState},
		{allOf("separation", "date"), ColSeparationDate},
		{allOf("employee", "name"), ColEmployeeName},
		{allOf("year"), ColYear},
	},
}

var numericColumns = map[FileType][]string{
	TypePJPA37: {ColTotalClaims, ColTotalSpend},
	TypePJPA38: {ColModeCount, ColApprovedAmount},
}

// Canonicalize renames recognised columns to their canonical names, keeps
// only the first of any duplicate columns and normalizes the value domains:
// numeric columns become numbers with 0 for blanks, Is_Anomaly becomes
// Yes/No, Flag becomes Rare/Normal and Separation Date becomes YYYY-MM-DD.
func Canonicalize(t *dataprocessing.Table, typ FileType) *dataprocessing.Table {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		col = strings.TrimSpace(col)
		names[i] = col
		lower := strings.ToLower(col)
		for _, r := range rules[typ] {
			if r.match(lower) {
				names[i] = r.target
				break
			}
		}
	}

	var keep []int
	var cols []string
	seen := make(map[string]bool)
	for i, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		keep = append(keep, i)
		cols = append(cols, n)
	}

	out := dataprocessing.NewTable(cols)
	for _, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, i := range keep {
			cells[j] = strings.TrimSpace(row[i])
		}
		out.Rows = append(out.Rows, cells)
	}

	for _, col := range numericColumns[typ] {
		out.Map(col, func(v string) string {
			return dataprocessing.FormatNumber(dataprocessing.AmountOrZero(v))
		})
	}
	out.Map(ColIsAnomaly, func(v string) string {
		switch strings.ToLower(v) {
		case "yes", "true", "1", "y":
			return "Yes"
		}
		return "No"
	})
	out.Map(ColFlag, normalizeFlag)
	if typ == TypePJPA39 {
		out.Map(ColSeparationDate, func(v string) string {
			return dataprocessing.FormatDate(dataprocessing.ParseDate(v))
		})
	}
	return out
}

func normalizeFlag(v string) string {
	switch strings.ToLower(v) {
	case "rare", "odd", "anomaly":
		return "Rare"
	}
	return "Normal"
}

// isNumeric reports whether col holds numbers for typ
func isNumeric(typ FileType, col string) bool {
	for _, c := range numericColumns[typ] {
		if c == col {
			return true
		}
	}
	return false
}
