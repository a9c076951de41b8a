package insights

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// ActiveSeparated flags employees whose every master row is ACTIVE yet
// carry a separation date (PJPA39). The output keeps the master columns.
func ActiveSeparated(in Inputs, _ Options) ([]Output, error) {
	master := in.EmployeeMaster
	idCol := master.FindColumn("Employee ID(Only ALPHA NUM)", "Supplier")
	if idCol == "" {
		if len(master.Columns) < 2 {
			return nil, requireColumns(master, SourceEmployeeMaster, "Supplier")
		}
		idCol = master.Columns[1]
	}
	cols := append([]string(nil), master.Columns...)

	inactive := make(map[string]bool)
	for r := range master.Rows {
		status := strings.ToUpper(strings.TrimSpace(master.Get(r, "Employee Status")))
		if status != "ACTIVE" {
			inactive[dataprocessing.NormalizeID(master.Get(r, idCol))] = true
		}
	}

	out := master.Filter(func(r int) bool {
		if inactive[dataprocessing.NormalizeID(master.Get(r, idCol))] {
			return false
		}
		_, ok := dataprocessing.ParseDate(master.Get(r, "Employee Separation Date"))
		return ok
	})

	dataprocessing.SortTable(out,
		dataprocessing.SortKey{Column: "Employee Separation Date", Desc: true, Kind: dataprocessing.SortDate},
		dataprocessing.SortKey{Column: idCol},
	)

	return singleOutput("PJPA39", exceptionSheet("Sheet1", "PJPA39", "1",
		"Active Employees with Separation Date", 1, cols, out)), nil
}
