package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var bulkBookerColumns = []string{
	"Employee ID", "Submit_Date_2", "Count(Report Id)", "Sum(Report Total)",
	"Report Name", "Report Id", "Report Number", "Submit Date", "Employee Name",
	"Approval Status", "Report Start Date", "Report End Date", "Currency",
	"Report Total", "Payment Status", "Amount Due Employee", "Report Date",
	"Policy", "Amount Approved", "Employee ID (Right)", "Submit_Date_2 (Right)",
}

// BulkBooker flags days on which one employee submitted at least
// opts.BulkThreshold distinct reports (PJPA33).
func BulkBooker(in Inputs, opts Options) ([]Output, error) {
	concur := in.Concur.Clone()
	if err := requireColumns(concur, SourceConcur, "Employee ID", "Report Id", "Submit Date"); err != nil {
		return nil, err
	}
	threshold := opts.BulkThreshold
	if threshold <= 0 {
		threshold = DefaultOptions().BulkThreshold
	}

	normalizeIDs(concur, "Employee ID")
	trimColumn(concur, "Report Id")
	for r := range concur.Rows {
		concur.Set(r, "Submit_Date_2", dataprocessing.FormatDate(dataprocessing.ParseDate(concur.Get(r, "Submit Date"))))
	}

	out := expandGroups(concur, dataprocessing.GroupBy(concur, "Employee ID", "Submit_Date_2"),
		func(g dataprocessing.Group) map[string]string {
			count := distinctCount(concur, g.Rows, "Report Id")
			if count < threshold {
				return nil
			}
			return map[string]string{
				"Count(Report Id)":      dataprocessing.FormatInt(count),
				"Sum(Report Total)":     dataprocessing.FormatNumber(sumAmounts(concur, g.Rows, "Report Total")),
				"Employee ID (Right)":   g.Key[0],
				"Submit_Date_2 (Right)": g.Key[1],
			}
		})

	dataprocessing.SortTable(out,
		dataprocessing.SortKey{Column: "Count(Report Id)", Desc: true, Kind: dataprocessing.SortNumber},
		dataprocessing.SortKey{Column: "Employee ID"},
		dataprocessing.SortKey{Column: "Submit_Date_2"},
	)

	return singleOutput("PJPA33", exceptionSheet("Sheet1", "PJPA33", "1",
		" Employees who hoard their receipts and submit them all on a single day (often Mondays) , could have error in amounts due to many receipts",
		1, bulkBookerColumns, out)), nil
}
