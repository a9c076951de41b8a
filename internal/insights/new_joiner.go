package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var newJoinerColumns = []string{
	"Report Name", "Report Id", "Report Number", "Submit Date", "Employee Name",
	"Approval Status", "Report Start Date", "Report End Date", "Currency",
	"Report Total", "Payment Status", "Amount Due Employee", "Report Date",
	"Policy", "Employee ID", "Position Code", "Personnel Number",
	"Employee ID(Only ALPHA NUM)", "Employee Status", "Supplier",
	"Position Code Name", "Full Name", "Title", "Employee Email Id",
	"Phone Number", "Employee Location", "Department", "Company name",
	"Change Date", "Joining Date", "Employee Separation Date", "Rep. Manager",
	"HOD Names", "HOD TMS Names", "Cost Center", "Gender", "Date Of Birth",
	"Blood Group", "Country/Region Key", "Bank Account", "Bank Country/Region",
	"Bank Number", "Postal Code", "Region", "Company Code", "IFSC Code",
	"Account holder", "Nationality text", "State", "Date",
	"Employee Location (#1)", "Submit_Date", "Claim duration", "Amount Approved",
	"Risk Category",
}

const (
	newJoinerWindowDays = 60
	newJoinerRushDays   = 5
	newJoinerRushAmount = 5000
)

// NewJoiner flags claims submitted within the first 60 days after joining
// (PJPA29).
func NewJoiner(in Inputs, _ Options) ([]Output, error) {
	concur := in.Concur.Clone()
	master := in.EmployeeMaster.Clone()
	if err := requireColumns(concur, SourceConcur, "Employee ID", "Submit Date"); err != nil {
		return nil, err
	}
	if err := requireColumns(master, SourceEmployeeMaster, "Supplier", "Joining Date"); err != nil {
		return nil, err
	}
	if master.Has("Employee Location_1") && !master.Has("Employee Location (#1)") {
		if err := master.Rename("Employee Location_1", "Employee Location (#1)"); err != nil {
			return nil, err
		}
	}
	normalizeIDs(master, "Supplier")
	normalizeIDs(concur, "Employee ID")

	merged := dataprocessing.InnerJoin(concur, master, dataprocessing.JoinSpec{
		LeftKeys:    []string{"Employee ID"},
		RightKeys:   []string{"Supplier"},
		RightSuffix: " (Right)",
	})

	durations := make([]int, merged.Len())
	valid := make([]bool, merged.Len())
	for r := range merged.Rows {
		submit, ok1 := dataprocessing.ParseDate(merged.Get(r, "Submit Date"))
		joined, ok2 := dataprocessing.ParseDate(merged.Get(r, "Joining Date"))
		if !ok1 || !ok2 {
			continue
		}
		d := dataprocessing.ElapsedDays(joined, submit)
		durations[r] = d
		valid[r] = d >= 0 && d <= newJoinerWindowDays
	}

	var kept []int
	for r, ok := range valid {
		if ok {
			kept = append(kept, r)
		}
	}
	out := subset(merged, kept)

	for i, r := range kept {
		amount := dataprocessing.AmountOrZero(out.Get(i, "Amount Approved"))
		risk := "LOW"
		if durations[r] <= newJoinerRushDays && amount > newJoinerRushAmount {
			risk = "HIGH"
		}
		out.Set(i, "Submit_Date", dataprocessing.FormatDate(dataprocessing.ParseDate(out.Get(i, "Submit Date"))))
		out.Set(i, "Claim duration", dataprocessing.FormatInt(durations[r]))
		out.Set(i, "Amount Approved", dataprocessing.FormatNumber(amount))
		out.Set(i, "Risk Category", risk)
	}
	formatDateColumn(out, "Joining Date")
	formatDateColumn(out, "Employee Separation Date")

	dataprocessing.SortTable(out, dataprocessing.SortKey{Column: "Submit Date", Desc: true, Kind: dataprocessing.SortDate})

	return singleOutput("PJPA29", exceptionSheet("Sheet1", "PJPA29", "1",
		"New Joiner Early Claims", 2, newJoinerColumns, out)), nil
}
