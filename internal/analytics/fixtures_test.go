package analytics

import "time"

func pjpa37Dataset() *Dataset {
	return &Dataset{
		Name: "PJPA37_Claims.xlsx",
		Type: TypePJPA37,
		Table: table(
			[]string{ColEmployeeID, ColReportID, ColClusterID, ColTotalClaims, ColTotalSpend, ColIsAnomaly, ColPolicy, ColDepartment, ColEmployeeName},
			[]string{"E1", "R1", "C1", "2", "100", "Yes", "Travel", "Sales", "Ann"},
			[]string{"E2", "R2", "C1", "5", "300", "No", "Meals", "Sales", "Bob"},
			[]string{"E3", "R3", "C2", "1", "50", "Yes", "Travel", "Ops", "Cat"},
			[]string{"E1", "R4", "C2", "4", "200", "No", "Meals", "Sales", "Ann"},
		),
	}
}

func pjpa38Dataset() *Dataset {
	return &Dataset{
		Name: "PJPA38_Rare.xlsx",
		Type: TypePJPA38,
		Table: table(
			[]string{ColEmployeeID, ColExpenseType, ColModeCount, ColApprovedAmount, ColFlag},
			[]string{"A", "Flight", "1", "1000", "Rare"},
			[]string{"A", "Train", "10", "200", "Normal"},
			[]string{"B", "Flight", "2", "800", "Rare"},
			[]string{"C", "Train", "7", "100", "Normal"},
		),
	}
}

var pjpa39Now = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func pjpa39Dataset() *Dataset {
	return &Dataset{
		Name: "PJPA39_Exits.xlsx",
		Type: TypePJPA39,
		Table: table(
			[]string{ColEmployeeID, ColDepartment, ColState, ColSeparationDate, ColYear},
			[]string{"1", "HR", "KA", "2024-06-20", "2024"},
			[]string{"2", "HR", "TN", "2024-05-01", "2024"},
			[]string{"3", "IT", "KA", "2024-03-01", "2024"},
			[]string{"3", "IT", "KA", "2024-03-01", "2024"},
			[]string{"4", "IT", "", "", "2023"},
			[]string{"5", "Ops", "MH", "2024-07-10", "2024"},
		),
	}
}

func ptr(v float64) *float64 { return &v }
