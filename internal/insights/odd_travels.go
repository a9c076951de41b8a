package insights

import (
	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
)

var oddTravelColumns = []string{
	"Expense Type", "Employee ID", "Mode_Count", "Total_Trips",
	"Employee", "Report Name", "Report ID", "Report Date",
	"Transaction Date", "Approved Amount", "Usage_Pct", "Flag",
}

// OddTravels measures how often each employee uses each expense type and
// flags the rarely used ones (PJPA38).
func OddTravels(in Inputs, opts Options) ([]Output, error) {
	lines := in.LineItems.Clone()
	threshold := opts.RareThresholdPct
	if threshold <= 0 {
		threshold = DefaultOptions().RareThresholdPct
	}

	lines.AddColumn("Employee ID")
	lines.AddColumn("Expense Type")
	lines.Map("Employee ID", func(v string) string {
		if v = dataprocessing.NormalizeID(v); v == "" {
			return "UNKNOWN"
		}
		return v
	})
	lines.Map("Expense Type", func(v string) string {
		if v == "" {
			return "Unknown"
		}
		return v
	})
	if !lines.Has("Approved Amount") {
		lines.AddColumn("Approved Amount")
		lines.Map("Approved Amount", func(string) string { return "0" })
	}

	totals := make(map[string]int)
	for _, g := range dataprocessing.GroupBy(lines, "Employee ID") {
		totals[g.Key[0]] = len(g.Rows)
	}
	for _, g := range dataprocessing.GroupBy(lines, "Employee ID", "Expense Type") {
		total := totals[g.Key[0]]
		pct := float64(len(g.Rows)) / float64(total) * 100
		flag := "Dominant"
		if pct <= threshold {
			flag = "Rare"
		}
		for _, r := range g.Rows {
			lines.Set(r, "Mode_Count", dataprocessing.FormatInt(len(g.Rows)))
			lines.Set(r, "Total_Trips", dataprocessing.FormatInt(total))
			lines.Set(r, "Usage_Pct", dataprocessing.FormatNumber(pct))
			lines.Set(r, "Flag", flag)
		}
	}

	dataprocessing.SortTable(lines,
		dataprocessing.SortKey{Column: "Employee ID"},
		dataprocessing.SortKey{Column: "Usage_Pct", Desc: true, Kind: dataprocessing.SortNumber},
		dataprocessing.SortKey{Column: "Transaction Date", Desc: true, Kind: dataprocessing.SortDate},
	)
	rare := lines.Filter(func(r int) bool { return lines.Get(r, "Flag") == "Rare" })

	return []Output{{ID: "PJPA38", File: outputFile("PJPA38"), Sheets: []exporter.Sheet{
		exceptionSheet("Context and Anomaly", "PJPA38", "1", "Odd_Travels", 1, oddTravelColumns, lines),
		exceptionSheet("Anomaly Only", "PJPA38", "1", "Odd_Travels (Anomalies Only)", 1, oddTravelColumns, rare),
	}}}, nil
}
