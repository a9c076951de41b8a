package insights

import (
	"fmt"
	"strings"
)

// Definition describes one selectable output
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	File        string `json:"file"`
	// SkipRows is the number of rows above the column header
	SkipRows int `json:"-"`
	// SheetPrefix picks the sheet to read back; empty means the first
	SheetPrefix string `json:"-"`
	Generator   string `json:"-"`
}

// Catalog lists the outputs in presentation order
var Catalog = []Definition{
	{ID: "PJPA27", Name: "Notice Period Spending Spree", Description: "Claims submitted between resignation and the last working day", File: "PJPA27_Generated.xlsx", SkipRows: 5, Generator: "PJPA27"},
	{ID: "PJPA28", Name: "Benford's Law Analysis", Description: "Digit frequency test on approved amounts", File: "PJPA28_Generated.xlsx", SkipRows: 5, SheetPrefix: "Anomalies", Generator: "PJPA28"},
	{ID: "PJPA29", Name: "New Joiner Early Claims", Description: "Claims within 60 days of joining", File: "PJPA29_Generated.xlsx", SkipRows: 5, Generator: "PJPA29"},
	{ID: "PJPA30", Name: "Short Trip Frequency Abuse", Description: "Employees with five or more short trip reports", File: "PJPA30_Generated.xlsx", SkipRows: 4, Generator: "PJPA30"},
	{ID: "PJPA31", Name: "Structural Splitting", Description: "Several reports submitted by one employee on one day", File: "PJPA31_Generated.xlsx", SkipRows: 4, Generator: "PJPA31"},
	{ID: "PJPA32_HOL", Name: "Holiday Travel", Description: "Transactions dated on a public holiday", File: "PJPA32_Holiday_Generated.xlsx", SkipRows: 5, Generator: "PJPA32"},
	{ID: "PJPA32_WE", Name: "Weekend Travel", Description: "Transactions dated on a weekend", File: "PJPA32_Weekend_Generated.xlsx", SkipRows: 5, Generator: "PJPA32"},
	{ID: "PJPA33", Name: "Bulk Booker", Description: "Employees submitting many reports on a single day", File: "PJPA33_Generated.xlsx", SkipRows: 4, Generator: "PJPA33"},
	{ID: "PJPA34", Name: "High-Frequency Low Value Claims", Description: "Many small claims within one month", File: "PJPA34_Generated.xlsx", SkipRows: 5, Generator: "PJPA34"},
	{ID: "PJPA35", Name: "Duplicate Report ID", Description: "Report ids appearing more than once for an employee", File: "PJPA35_Generated.xlsx", SkipRows: 4, Generator: "PJPA35"},
	{ID: "PJPA36", Name: "Missing Submit Days", Description: "Calendar days without any submitted report", File: "PJPA36_Generated.xlsx", SkipRows: 5, Generator: "PJPA36"},
	{ID: "PJPA38", Name: "Odd Travels", Description: "Rarely used expense types per employee", File: "PJPA38_Generated.xlsx", SkipRows: 5, Generator: "PJPA38"},
	{ID: "PJPA39", Name: "Active Employees with Separation Date", Description: "Active employees carrying a separation date", File: "PJPA39_Generated.xlsx", SkipRows: 4, Generator: "PJPA39"},
	{ID: "PJPA40", Name: "Transaction Date Anomaly", Description: "Transactions outside the report date range", File: "PJPA40_Generated.xlsx", SkipRows: 4, Generator: "PJPA40"},
}

// Lookup finds a catalog entry by id, ignoring case
func Lookup(id string) (Definition, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for _, d := range Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Generators maps generator keys to detectors
var Generators = map[string]Generator{
	"PJPA27": {Key: "PJPA27", Inputs: []Source{SourceLeftEmployees, SourceConcur}, Run: NoticePeriod},
	"PJPA28": {Key: "PJPA28", Inputs: []Source{SourceConcur}, Run: Benford},
	"PJPA29": {Key: "PJPA29", Inputs: []Source{SourceConcur, SourceEmployeeMaster}, Run: NewJoiner},
	"PJPA30": {Key: "PJPA30", Inputs: []Source{SourceConcur}, Run: ShortTrip},
	"PJPA31": {Key: "PJPA31", Inputs: []Source{SourceConcur, SourceLineItems}, Run: StructuralSplit},
	"PJPA32": {Key: "PJPA32", Inputs: []Source{SourceLineItems}, Run: HolidayWeekend},
	"PJPA33": {Key: "PJPA33", Inputs: []Source{SourceConcur}, Run: BulkBooker},
	"PJPA34": {Key: "PJPA34", Inputs: []Source{SourceConcur}, Run: LowValue},
	"PJPA35": {Key: "PJPA35", Inputs: []Source{SourceConcur}, Run: DuplicateReport},
	"PJPA36": {Key: "PJPA36", Inputs: []Source{SourceConcur}, Run: MissingDays},
	"PJPA38": {Key: "PJPA38", Inputs: []Source{SourceLineItems}, Run: OddTravels},
	"PJPA39": {Key: "PJPA39", Inputs: []Source{SourceEmployeeMaster}, Run: ActiveSeparated},
	"PJPA40": {Key: "PJPA40", Inputs: []Source{SourceLineItems, SourceConcur}, Run: TransactionDate},
}

// Resolve validates a selection and returns the generators to run in
// catalog order, each once. An empty selection is an error.
func Resolve(ids []string) ([]Generator, error) {
	if len(ids) == 0 {
		return nil, ErrNoSelection
	}
	want := make(map[string]bool)
	for _, id := range ids {
		def, ok := Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%q: %w", id, ErrUnknownInsight)
		}
		want[def.Generator] = true
	}

	var out []Generator
	seen := make(map[string]bool)
	for _, def := range Catalog {
		if want[def.Generator] && !seen[def.Generator] {
			seen[def.Generator] = true
			out = append(out, Generators[def.Generator])
		}
	}
	return out, nil
}

// RequiredSources returns the union of inputs needed by gens
func RequiredSources(gens []Generator) []Source {
	need := make(map[Source]bool)
	for _, g := range gens {
		for _, s := range g.Inputs {
			need[s] = true
		}
	}
	var out []Source
	for _, info := range Sources {
		if need[info.Source] {
			out = append(out, info.Source)
		}
	}
	return out
}

func outputFile(id string) string {
	d, _ := Lookup(id)
	return d.File
}
