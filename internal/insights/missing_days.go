package insights

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// MissingDays lists calendar days between the first and last submission on
// which no report was submitted (PJPA36). When there is no gap the output
// carries no sheets and nothing is written.
func MissingDays(in Inputs, _ Options) ([]Output, error) {
	concur := in.Concur
	if err := requireColumns(concur, SourceConcur, "Submit Date"); err != nil {
		return nil, err
	}

	gaps := MissingDates(concur.Values("Submit Date"))
	if len(gaps) == 0 {
		return []Output{{ID: "PJPA36", File: outputFile("PJPA36")}}, nil
	}

	t := dataprocessing.NewTable([]string{"Missing Submit Date"})
	for _, d := range gaps {
		t.Append([]string{d})
	}
	sheet := exceptionSheet("PJPA36", "PJPA36", "1", "EDA Check - Missing Submit Date (Date Gaps)",
		2, []string{"Missing Submit Date"}, t)
	sheet.Meta.IDLabel = "Insight ID"
	return singleOutput("PJPA36", sheet), nil
}

// MissingDates returns, in ascending YYYY-MM-DD form, the days between the
// earliest and latest parseable value that do not occur in values. Only the
// part before a "T" is considered.
func MissingDates(values []string) []string {
	present := make(map[string]bool)
	var first, last string
	for _, v := range values {
		v, _, _ = strings.Cut(v, "T")
		d, ok := dataprocessing.ParseDate(v)
		if !ok {
			continue
		}
		day := dataprocessing.FormatDate(d, true)
		present[day] = true
		if first == "" || day < first {
			first = day
		}
		if last == "" || day > last {
			last = day
		}
	}
	if first == "" {
		return nil
	}

	start, _ := dataprocessing.ParseDate(first)
	end, _ := dataprocessing.ParseDate(last)
	var missing []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if day := dataprocessing.FormatDate(d, true); !present[day] {
			missing = append(missing, day)
		}
	}
	return missing
}
