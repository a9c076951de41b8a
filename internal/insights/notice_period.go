package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var noticePeriodColumns = []string{
	"Designation Name", "Job Level", "DOJ", "Separation Reason", "Date of Resignation",
	"Employee Last Working Date", "Employee ID", "Report Name", "Report Id", "Report Number",
	"Submit Date", "Employee Name", "Approval Status", "Report Start Date", "Report End Date",
	"Currency", "Report Total", "Payment Status", "Amount Due Employee", "Report Date",
	"Policy", "Amount Approved", "Employee Separation Date", "Submit_Date_2",
	"Notice Period Days", "Risk Category",
}

// NoticePeriod flags claims submitted on or after the resignation date of
// employees who have since left (PJPA27).
func NoticePeriod(in Inputs, _ Options) ([]Output, error) {
	left := in.LeftEmployees.Clone()
	concur := in.Concur.Clone()
	if err := requireColumns(left, SourceLeftEmployees, "Emp_CODE", "Date of Resignation", "Employee Last Working Date"); err != nil {
		return nil, err
	}
	if err := requireColumns(concur, SourceConcur, "Employee ID", "Submit Date", "Amount Approved"); err != nil {
		return nil, err
	}
	trimColumn(left, "Emp_CODE")
	trimColumn(concur, "Employee ID")

	merged := dataprocessing.InnerJoin(left, concur, dataprocessing.JoinSpec{
		LeftKeys:    []string{"Emp_CODE"},
		RightKeys:   []string{"Employee ID"},
		RightSuffix: " (Right)",
	})

	out := merged.Filter(func(r int) bool {
		submit, ok1 := dataprocessing.ParseDate(merged.Get(r, "Submit Date"))
		resigned, ok2 := dataprocessing.ParseDate(merged.Get(r, "Date of Resignation"))
		return ok1 && ok2 && !submit.Before(resigned)
	})

	for r := range out.Rows {
		resigned, _ := dataprocessing.ParseDate(out.Get(r, "Date of Resignation"))
		lwd, hasLWD := dataprocessing.ParseDate(out.Get(r, "Employee Last Working Date"))
		submit, _ := dataprocessing.ParseDate(out.Get(r, "Submit Date"))
		amount := dataprocessing.AmountOrZero(out.Get(r, "Amount Approved"))

		days := ""
		if hasLWD {
			days = dataprocessing.FormatInt(dataprocessing.ElapsedDays(resigned, lwd))
		}

		out.Set(r, "Employee Separation Date", dataprocessing.FormatDate(lwd, hasLWD))
		out.Set(r, "Submit_Date_2", dataprocessing.FormatDate(submit, true))
		out.Set(r, "Notice Period Days", days)
		out.Set(r, "Amount Approved", dataprocessing.FormatNumber(amount))
		out.Set(r, "Risk Category", noticeRisk(hasLWD, dataprocessing.ElapsedDays(resigned, lwd), amount))
		out.Set(r, "Date of Resignation", dataprocessing.FormatDate(resigned, true))
		out.Set(r, "Employee Last Working Date", dataprocessing.FormatDate(lwd, hasLWD))
	}

	dataprocessing.SortTable(out, dataprocessing.SortKey{Column: "Submit Date", Desc: true, Kind: dataprocessing.SortDate})

	return singleOutput("PJPA27", exceptionSheet("Sheet1", "PJPA27", "1",
		"Notice Period Spending Spree - Employees spending money during the last 30-90 days ",
		2, noticePeriodColumns, out)), nil
}

func noticeRisk(hasLWD bool, notice int, amount float64) string {
	switch {
	case !hasLWD:
		return "UNKNOWN"
	case notice <= 0:
		return "Critical"
	case amount >= 7000:
		return "HIGH"
	case amount >= 3750:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
