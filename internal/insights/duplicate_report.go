package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var duplicateReportColumns = []string{
	"Employee ID", "Report Id", "Count_Report", "Count_Employee", "Report Name",
	"Report Number", "Submit Date", "Employee Name", "Approval Status",
	"Report Start Date", "Report End Date", "Currency", "Report Total",
	"Payment Status", "Amount Due Employee", "Report Date", "Policy", "Amount Approved",
}

// DuplicateReport flags report ids that appear more than once for the same
// employee (PJPA35).
func DuplicateReport(in Inputs, _ Options) ([]Output, error) {
	concur := in.Concur.Clone()
	if err := requireColumns(concur, SourceConcur, "Employee ID", "Report Id"); err != nil {
		return nil, err
	}
	trimColumn(concur, "Report Id")
	normalizeIDs(concur, "Employee ID")

	out := expandGroups(concur, dataprocessing.GroupBy(concur, "Report Id", "Employee ID"),
		func(g dataprocessing.Group) map[string]string {
			if len(g.Rows) < 2 {
				return nil
			}
			n := dataprocessing.FormatInt(len(g.Rows))
			return map[string]string{"Count_Report": n, "Count_Employee": n}
		})

	dataprocessing.SortTable(out,
		dataprocessing.SortKey{Column: "Count_Report", Desc: true, Kind: dataprocessing.SortNumber},
		dataprocessing.SortKey{Column: "Report Id"},
		dataprocessing.SortKey{Column: "Employee ID"},
	)

	return singleOutput("PJPA35", exceptionSheet("Sheet1", "PJPA35", "1",
		"Duplicate Report ID", 1, duplicateReportColumns, out)), nil
}
