package analytics

import "github.com/kavya1280/JK-Insights/internal/dataprocessing"

const optionCap = 100

// cappedOptions lists filters whose option lists are truncated
var cappedOptions = map[string]bool{
	"employee_id":   true,
	"employee_name": true,
	"report_id":     true,
	"cluster":       true,
}

// FilterOptions lists the distinct non-blank values for every filter in
// first-seen order. Filters without a column get an empty list.
func FilterOptions(t *dataprocessing.Table) map[string][]string {
	cols := filterColumns(t)
	out := make(map[string][]string, len(cols))
	for key, col := range cols {
		values := []string{}
		if col != "" {
			seen := make(map[string]bool)
			for _, v := range t.Values(col) {
				if v == "" || seen[v] {
					continue
				}
				seen[v] = true
				values = append(values, v)
				if cappedOptions[key] && len(values) == optionCap {
					break
				}
			}
		}
		out[key] = values
	}
	return out
}

// EmptyFilterOptions is returned while no dataset is loaded
func EmptyFilterOptions() map[string][]string {
	return FilterOptions(dataprocessing.NewTable(nil))
}
