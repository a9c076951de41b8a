package insights

import (
	"time"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
)

var holidayWeekendColumns = []string{
	"Employee", "Report Name", "Expense Type", "Report ID", "Approval Status",
	"Payment Status", "Report Date", "Transaction Date", "Total Approved Amount",
	"City/Location", "Payment Type", "Approved Amount", "Person Band before PMS",
	"Employee ID", "Day of Week (Name)", "Date", "Holiday Name", "Year",
}

// HolidayWeekend splits line items dated on a public holiday or a weekend
// into two workbooks (PJPA32).
func HolidayWeekend(in Inputs, opts Options) ([]Output, error) {
	lines := in.LineItems.Clone()
	if err := requireColumns(lines, SourceLineItems, "Transaction Date"); err != nil {
		return nil, err
	}
	if lines.Has("Employee ID (Right)") && !lines.Has("Employee ID") {
		if err := lines.Rename("Employee ID (Right)", "Employee ID"); err != nil {
			return nil, err
		}
	}
	calendar := opts.Holidays
	if calendar == nil {
		calendar = DefaultHolidays()
	}

	weekend := make([]bool, lines.Len())
	for r := range lines.Rows {
		txn, ok := dataprocessing.ParseDate(lines.Get(r, "Transaction Date"))
		if !ok {
			for _, c := range []string{"Day of Week (Name)", "Date", "Holiday Name", "Year"} {
				lines.Set(r, c, "")
			}
			continue
		}
		day := dataprocessing.FormatDate(txn, true)
		holiday, _ := calendar.Name(day)
		lines.Set(r, "Day of Week (Name)", txn.Weekday().String())
		lines.Set(r, "Date", day)
		lines.Set(r, "Holiday Name", holiday)
		lines.Set(r, "Year", dataprocessing.FormatInt(txn.Year()))
		weekend[r] = txn.Weekday() == time.Saturday || txn.Weekday() == time.Sunday
	}

	holidays := lines.Filter(func(r int) bool { return lines.Get(r, "Holiday Name") != "" })
	weekends := lines.Filter(func(r int) bool { return weekend[r] && lines.Get(r, "Holiday Name") == "" })
	for r := range weekends.Rows {
		weekends.Set(r, "Date", "")
		weekends.Set(r, "Year", "")
	}

	byTxn := dataprocessing.SortKey{Column: "Transaction Date", Desc: true, Kind: dataprocessing.SortDate}
	dataprocessing.SortTable(holidays, byTxn)
	dataprocessing.SortTable(weekends, byTxn)

	return []Output{
		{ID: "PJPA32_HOL", File: outputFile("PJPA32_HOL"), Sheets: []exporter.Sheet{
			exceptionSheet("Sheet1", "PJPA32", "1", "Holiday Travel", 2, holidayWeekendColumns, holidays),
		}},
		{ID: "PJPA32_WE", File: outputFile("PJPA32_WE"), Sheets: []exporter.Sheet{
			exceptionSheet("Sheet1", "PJPA32", "2", "Weekend Travel", 2, holidayWeekendColumns, weekends),
		}},
	}, nil
}
