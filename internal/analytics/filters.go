package analytics

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// DateRange bounds a date column inclusively. Both ends are required.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AmountRange bounds an amount column inclusively. Both ends are required.
type AmountRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Filters narrows a dataset before it is tabulated or summarized. Empty
// lists are ignored.
type Filters struct {
	EmployeeID   []string     `json:"employee_id,omitempty"`
	EmployeeName []string     `json:"employee_name,omitempty"`
	Department   []string     `json:"department,omitempty"`
	Policy       []string     `json:"policy,omitempty"`
	ReportID     []string     `json:"report_id,omitempty"`
	Cluster      []string     `json:"cluster,omitempty"`
	ExpenseType  []string     `json:"expense_type,omitempty"`
	State        []string     `json:"state,omitempty"`
	DateRange    *DateRange   `json:"date_range,omitempty"`
	AmountRange  *AmountRange `json:"amount_range,omitempty"`
}

var amountColumns = []string{ColTotalSpend, ColApprovedAmount, "Amount"}

// columnContaining returns the first column whose lower-cased name holds
// every word
func columnContaining(t *dataprocessing.Table, words ...string) string {
	match := allOf(words...)
	for _, c := range t.Columns {
		if match(strings.ToLower(c)) {
			return c
		}
	}
	return ""
}

// filterColumns resolves the column each list filter applies to
func filterColumns(t *dataprocessing.Table) map[string]string {
	return map[string]string{
		"employee_id":   t.FindColumn(ColEmployeeID, "Employee_ID"),
		"employee_name": columnContaining(t, "employee", "name"),
		"department":    t.FindColumn(ColDepartment),
		"policy":        columnContaining(t, "policy"),
		"report_id":     t.FindColumn(ColReportID, "Report_ID"),
		"cluster":       t.FindColumn(ColClusterID),
		"expense_type":  columnContaining(t, "expense", "type"),
		"state":         t.FindColumn(ColState),
	}
}

func (f *Filters) lists() map[string][]string {
	return map[string][]string{
		"employee_id":   f.EmployeeID,
		"employee_name": f.EmployeeName,
		"department":    f.Department,
		"policy":        f.Policy,
		"report_id":     f.ReportID,
		"cluster":       f.Cluster,
		"expense_type":  f.ExpenseType,
		"state":         f.State,
	}
}

// idFilters compare after stripping a float suffix
var idFilters = map[string]bool{"employee_id": true, "report_id": true, "cluster": true}

// Apply returns the rows of t that pass every applicable filter. A nil
// receiver returns t unchanged. A filter whose column is absent is skipped.
func (f *Filters) Apply(t *dataprocessing.Table) *dataprocessing.Table {
	if f == nil {
		return t
	}

	type check func(row []string) bool
	var checks []check

	cols := filterColumns(t)
	for key, values := range f.lists() {
		col := cols[key]
		if len(values) == 0 || col == "" {
			continue
		}
		pos := t.Col(col)
		norm := strings.TrimSpace
		if idFilters[key] {
			norm = dataprocessing.NormalizeID
		}
		allowed := make(map[string]bool, len(values))
		for _, v := range values {
			allowed[norm(v)] = true
		}
		checks = append(checks, func(row []string) bool {
			return allowed[norm(row[pos])]
		})
	}

	if dr := f.DateRange; dr != nil && dr.Start != "" && dr.End != "" {
		start, okStart := dataprocessing.ParseDate(dr.Start)
		end, okEnd := dataprocessing.ParseDate(dr.End)
		if col := columnContaining(t, "date"); col != "" && okStart && okEnd {
			pos := t.Col(col)
			checks = append(checks, func(row []string) bool {
				d, ok := dataprocessing.ParseDate(row[pos])
				return ok && !d.Before(start) && !d.After(end)
			})
		}
	}

	if ar := f.AmountRange; ar != nil && ar.Min != nil && ar.Max != nil {
		if col := t.FindColumn(amountColumns...); col != "" {
			pos := t.Col(col)
			lo, hi := *ar.Min, *ar.Max
			checks = append(checks, func(row []string) bool {
				v, ok := dataprocessing.ParseAmount(row[pos])
				return ok && v >= lo && v <= hi
			})
		}
	}

	if len(checks) == 0 {
		return t
	}
	return t.Filter(func(r int) bool {
		for _, c := range checks {
			if !c(t.Rows[r]) {
				return false
			}
		}
		return true
	})
}
