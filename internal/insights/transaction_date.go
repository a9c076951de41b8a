package insights

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
)

var transactionDateColumns = []string{
	"Employee", "Report Name", "Expense Type", "Report ID", "Approval Status", "Payment Status",
	"Report Date", "Transaction Date", "Total Approved Amount", "City/Location", "Payment Type",
	"Approved Amount", "Employee ID", "Report Number", "Submit Date", "Report Start Date",
	"Report End Date", "Currency", "Report Total", "Amount Due Employee", "Policy",
}

const (
	reportJoinKey   = "Report ID_Join"
	employeeJoinKey = "Employee ID_Join"
)

// TransactionDate flags line items dated outside the start and end dates of
// their report (PJPA40).
func TransactionDate(in Inputs, _ Options) ([]Output, error) {
	lines := in.LineItems.Clone()
	concur := in.Concur.Clone()
	for _, side := range []struct {
		t   *dataprocessing.Table
		src Source
	}{{lines, SourceLineItems}, {concur, SourceConcur}} {
		if err := addJoinKeys(side.t, side.src); err != nil {
			return nil, err
		}
	}
	if err := requireColumns(lines, SourceLineItems, "Transaction Date"); err != nil {
		return nil, err
	}
	if err := requireColumns(concur, SourceConcur, "Report Start Date"); err != nil {
		return nil, err
	}

	merged := dataprocessing.InnerJoin(lines, concur, dataprocessing.JoinSpec{
		LeftKeys:    []string{reportJoinKey, employeeJoinKey},
		RightKeys:   []string{reportJoinKey, employeeJoinKey},
		RightSuffix: "_header",
	})

	var after, before []int
	for r := range merged.Rows {
		txn, ok1 := dataprocessing.ParseDate(merged.Get(r, "Transaction Date"))
		start, ok2 := dataprocessing.ParseDate(merged.Get(r, "Report Start Date"))
		if !ok1 || !ok2 {
			continue
		}
		end, ok := dataprocessing.ParseDate(merged.Get(r, "Report End Date"))
		if !ok {
			end = start
		}
		if txn.After(end) {
			after = append(after, r)
		}
		if txn.Before(start) {
			before = append(before, r)
		}
	}

	return []Output{{ID: "PJPA40", File: outputFile("PJPA40"), Sheets: []exporter.Sheet{
		exceptionSheet("After End Date", "PJPA40", "1", "Cases where transaction date is after Report End Date",
			1, transactionDateColumns, sortByTransaction(subset(merged, after))),
		exceptionSheet("Before Start Date", "PJPA40", "2", "Cases where transaction date is before Report Start Date",
			1, transactionDateColumns, sortByTransaction(subset(merged, before))),
	}}}, nil
}

func addJoinKeys(t *dataprocessing.Table, src Source) error {
	reportCol := t.FindColumn("Report Id", "Report ID")
	if reportCol == "" {
		return requireColumns(t, src, "Report Id")
	}
	if err := requireColumns(t, src, "Employee ID"); err != nil {
		return err
	}
	t.AddColumn(reportJoinKey)
	t.AddColumn(employeeJoinKey)
	for r := range t.Rows {
		t.Set(r, reportJoinKey, strings.TrimSpace(t.Get(r, reportCol)))
		t.Set(r, employeeJoinKey, dataprocessing.NormalizeID(t.Get(r, "Employee ID")))
	}
	return nil
}

func sortByTransaction(t *dataprocessing.Table) *dataprocessing.Table {
	dataprocessing.SortTable(t,
		dataprocessing.SortKey{Column: "Transaction Date", Desc: true, Kind: dataprocessing.SortDate},
		dataprocessing.SortKey{Column: "Employee ID"},
	)
	return t
}
