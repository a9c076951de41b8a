package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var structuralSplitColumns = []string{
	"Employee ID", "Submit_Date2", "Sum(Report Total)", "Count(Report Id)", "Report Name",
	"Report Id", "Report Number", "Submit Date", "Employee Name", "Approval Status",
	"Report Start Date", "Report End Date", "Currency", "Report Total", "Payment Status",
	"Amount Due Employee", "Report Date", "Policy", "Amount Approved", "Employee",
	"Report Name (Right)", "Expense Type", "Report ID", "Approval Status (Right)",
	"Payment Status (Right)", "Report Date (Right)", "Transaction Date", "Total Approved Amount",
	"City/Location", "Payment Type", "Approved Amount", "Employee ID (Right)",
	"Person Band before PMS", "Predicted_Range",
}

// StructuralSplit flags employees who submitted two or more distinct
// reports on the same day and expands them into their line items (PJPA31).
func StructuralSplit(in Inputs, _ Options) ([]Output, error) {
	concur := in.Concur.Clone()
	lines := in.LineItems.Clone()
	if err := requireColumns(concur, SourceConcur, "Employee ID", "Report Id", "Submit Date"); err != nil {
		return nil, err
	}
	if lines.Has("Employee ID") && !lines.Has("Employee ID (Right)") {
		if err := lines.Rename("Employee ID", "Employee ID (Right)"); err != nil {
			return nil, err
		}
	}
	if err := requireColumns(lines, SourceLineItems, "Report ID"); err != nil {
		return nil, err
	}

	normalizeIDs(concur, "Employee ID")
	trimColumn(concur, "Report Id")
	normalizeIDs(lines, "Employee ID (Right)")
	trimColumn(lines, "Report ID")

	for r := range concur.Rows {
		concur.Set(r, "Submit_Date2", dataprocessing.FormatDate(dataprocessing.ParseDate(concur.Get(r, "Submit Date"))))
	}

	splits := expandGroups(concur, dataprocessing.GroupBy(concur, "Employee ID", "Submit_Date2"),
		func(g dataprocessing.Group) map[string]string {
			count := distinctCount(concur, g.Rows, "Report Id")
			if count < 2 {
				return nil
			}
			return map[string]string{
				"Count(Report Id)":  dataprocessing.FormatInt(count),
				"Sum(Report Total)": dataprocessing.FormatNumber(sumAmounts(concur, g.Rows, "Report Total")),
			}
		})

	out := dataprocessing.InnerJoin(splits, lines, dataprocessing.JoinSpec{
		LeftKeys:    []string{"Report Id"},
		RightKeys:   []string{"Report ID"},
		RightSuffix: " (Right)",
	})

	dataprocessing.SortTable(out,
		dataprocessing.SortKey{Column: "Count(Report Id)", Desc: true, Kind: dataprocessing.SortNumber},
		dataprocessing.SortKey{Column: "Employee ID"},
		dataprocessing.SortKey{Column: "Submit_Date2"},
	)

	return singleOutput("PJPA31", exceptionSheet("Sheet1", "PJPA31", "1",
		"Structural Splitting (Structuring) - Detect multiple claims submitted by the same employee on the same day (or adjacent days) that sum up to a large amount.",
		1, structuralSplitColumns, out)), nil
}
