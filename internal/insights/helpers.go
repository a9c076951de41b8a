package insights

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
)

// exceptionSheet projects t onto cols under the standard metadata block
func exceptionSheet(name, insightID, exceptionNo, exceptionType string, blankRows int, cols []string, t *dataprocessing.Table) exporter.Sheet {
	return exporter.Sheet{
		Name: name,
		Meta: &exporter.Meta{
			InsightID:     insightID,
			ExceptionNo:   exceptionNo,
			ExceptionType: exceptionType,
			BlankRows:     blankRows,
		},
		Header: cols,
		Rows:   t.Select(cols),
	}
}

func singleOutput(id string, sheets ...exporter.Sheet) []Output {
	return []Output{{ID: id, File: outputFile(id), Sheets: sheets}}
}

// firstNonEmpty returns the first non-blank value of col over rows
func firstNonEmpty(t *dataprocessing.Table, rows []int, col string) string {
	for _, r := range rows {
		if v := t.Get(r, col); v != "" {
			return v
		}
	}
	return ""
}

// distinctCount counts distinct non-blank values of col over rows
func distinctCount(t *dataprocessing.Table, rows []int, col string) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if v := t.Get(r, col); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// nonEmptyCount counts rows with a non-blank value in col
func nonEmptyCount(t *dataprocessing.Table, rows []int, col string) int {
	n := 0
	for _, r := range rows {
		if t.Get(r, col) != "" {
			n++
		}
	}
	return n
}

// sumAmounts adds col over rows with a zero fill
func sumAmounts(t *dataprocessing.Table, rows []int, col string) float64 {
	var total float64
	for _, r := range rows {
		total += dataprocessing.AmountOrZero(t.Get(r, col))
	}
	return total
}

// normalizeIDs rewrites an id column in place
func normalizeIDs(t *dataprocessing.Table, col string) {
	t.Map(col, dataprocessing.NormalizeID)
}

// trimColumn trims every value of col
func trimColumn(t *dataprocessing.Table, col string) {
	t.Map(col, strings.TrimSpace)
}

// formatDateColumn re-renders a date column as YYYY-MM-DD; unparseable
// values become blank
func formatDateColumn(t *dataprocessing.Table, col string) {
	t.Map(col, func(v string) string {
		return dataprocessing.FormatDate(dataprocessing.ParseDate(v))
	})
}

// groupedRows flattens the rows of the kept groups, group by group
func groupedRows(groups []dataprocessing.Group, keep func(g dataprocessing.Group) bool) []int {
	var rows []int
	for _, g := range groups {
		if keep(g) {
			rows = append(rows, g.Rows...)
		}
	}
	return rows
}

// subset copies the given rows into a new table
func subset(t *dataprocessing.Table, rows []int) *dataprocessing.Table {
	out := dataprocessing.NewTable(t.Columns)
	for _, r := range rows {
		out.Rows = append(out.Rows, append([]string(nil), t.Rows[r]...))
	}
	return out
}

// expandGroups copies the rows of every group accepted by summarize into a
// new table and stamps the returned aggregate cells onto each of them.
// Groups for which summarize returns nil are dropped.
func expandGroups(t *dataprocessing.Table, groups []dataprocessing.Group, summarize func(g dataprocessing.Group) map[string]string) *dataprocessing.Table {
	out := dataprocessing.NewTable(t.Columns)
	for _, g := range groups {
		cells := summarize(g)
		if cells == nil {
			continue
		}
		for _, r := range g.Rows {
			out.Append(t.Rows[r])
			for col, v := range cells {
				out.Set(out.Len()-1, col, v)
			}
		}
	}
	return out
}
