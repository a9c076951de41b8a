package insights

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var shortTripColumns = []string{
	"Employee Name", "Employee ID", "Count(Report Id)", "Concatenate*(Amount Approved)",
	"Sum(Amount Approved)", "Report Name", "Report Id", "Report Number", "Submit Date",
	"Employee Name (Right)", "Approval Status", "Report Start Date", "Report End Date",
	"Report Date", "Policy", "Amount Approved",
}

// carried over from the first row of each group that has a value
var shortTripCarried = []string{
	"Report Name", "Report Id", "Report Number", "Submit Date", "Approval Status",
	"Report Start Date", "Report End Date", "Report Date", "Policy", "Amount Approved",
}

const shortTripMinReports = 5

// ShortTrip summarises employees with five or more short-trip claims
// (PJPA30). One row per employee.
func ShortTrip(in Inputs, _ Options) ([]Output, error) {
	concur := in.Concur
	if err := requireColumns(concur, SourceConcur, "Policy", "Employee Name", "Employee ID", "Amount Approved"); err != nil {
		return nil, err
	}

	trips := concur.Filter(func(r int) bool {
		return strings.ToLower(strings.TrimSpace(concur.Get(r, "Policy"))) == "short trip"
	})

	out := dataprocessing.NewTable(shortTripColumns)
	for _, g := range dataprocessing.GroupBy(trips, "Employee Name", "Employee ID") {
		count := nonEmptyCount(trips, g.Rows, "Report Id")
		if count < shortTripMinReports {
			continue
		}

		var amounts []string
		var total float64
		for _, r := range g.Rows {
			v := dataprocessing.AmountOrZero(trips.Get(r, "Amount Approved"))
			amounts = append(amounts, dataprocessing.FormatFloatRepr(v))
			total += v
		}

		row := map[string]string{
			"Employee Name":                 g.Key[0],
			"Employee ID":                   g.Key[1],
			"Count(Report Id)":              dataprocessing.FormatInt(count),
			"Concatenate*(Amount Approved)": strings.Join(amounts, ", "),
			"Sum(Amount Approved)":          dataprocessing.FormatNumber(total),
			"Employee Name (Right)":         g.Key[0],
		}
		for _, c := range shortTripCarried {
			row[c] = firstNonEmpty(trips, g.Rows, c)
		}

		cells := make([]string, len(shortTripColumns))
		for i, c := range shortTripColumns {
			cells[i] = row[c]
		}
		out.Append(cells)
	}

	dataprocessing.SortTable(out, dataprocessing.SortKey{Column: "Count(Report Id)", Desc: true, Kind: dataprocessing.SortNumber})

	return singleOutput("PJPA30", exceptionSheet("Sheet1", "PJPA30", "1",
		"Short Trip Frequency Abuse", 1, shortTripColumns, out)), nil
}
