package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var lowValueColumns = []string{
	"Employee ID", "Employee Name", "Year", "Month (Name)", "Total Amount Approved",
	"Count(Report Id)", "Average of Amount Approved", "Report Id", "Report Number",
	"Report Start Date", "Report End Date", "Currency", "Payment Status", "Policy",
	"Amount Approved", "Submit_Date2", "Month (Name) (Right)",
}

// LowValue flags employees with many small claims in one calendar month
// (PJPA34).
func LowValue(in Inputs, opts Options) ([]Output, error) {
	concur := in.Concur.Clone()
	if err := requireColumns(concur, SourceConcur, "Employee ID", "Employee Name", "Amount Approved", "Submit Date"); err != nil {
		return nil, err
	}
	defaults := DefaultOptions()
	limit, freq := opts.LowValueAmount, opts.LowValueFrequency
	if limit <= 0 {
		limit = defaults.LowValueAmount
	}
	if freq <= 0 {
		freq = defaults.LowValueFrequency
	}

	normalizeIDs(concur, "Employee ID")
	for r := range concur.Rows {
		submit, ok := dataprocessing.ParseDate(concur.Get(r, "Submit Date"))
		year, month := "", ""
		if ok {
			year = dataprocessing.FormatInt(submit.Year())
			month = submit.Month().String()
		}
		concur.Set(r, "Submit_Date2", dataprocessing.FormatDate(submit, ok))
		concur.Set(r, "Year", year)
		concur.Set(r, "Month (Name)", month)
		concur.Set(r, "Month (Name) (Right)", month)
	}

	small := concur.Filter(func(r int) bool {
		v := dataprocessing.AmountOrZero(concur.Get(r, "Amount Approved"))
		return v > 0 && v < limit
	})

	out := expandGroups(small, dataprocessing.GroupBy(small, "Employee ID", "Employee Name", "Year", "Month (Name)"),
		func(g dataprocessing.Group) map[string]string {
			count := nonEmptyCount(small, g.Rows, "Report Id")
			if count < freq {
				return nil
			}
			total := sumAmounts(small, g.Rows, "Amount Approved")
			return map[string]string{
				"Total Amount Approved":      dataprocessing.FormatNumber(total),
				"Count(Report Id)":           dataprocessing.FormatInt(count),
				"Average of Amount Approved": dataprocessing.FormatNumber(total / float64(len(g.Rows))),
			}
		})

	dataprocessing.SortTable(out,
		dataprocessing.SortKey{Column: "Count(Report Id)", Desc: true, Kind: dataprocessing.SortNumber},
		dataprocessing.SortKey{Column: "Employee ID"},
		dataprocessing.SortKey{Column: "Year"},
		dataprocessing.SortKey{Column: "Month (Name)"},
	)

	return singleOutput("PJPA34", exceptionSheet("Sheet1", "PJPA34", "1",
		`High-Frequency "Low Value" Claims`, 2, lowValueColumns, out)), nil
}
