package insights

import (
	"errors"
	"fmt"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
	"github.com/kavya1280/JK-Insights/internal/exporter"
)

var (
	// ErrUnknownInsight is returned for an id that is not in the catalog
	ErrUnknownInsight = errors.New("unknown insight")
	// ErrNoSelection is returned when a run selects nothing
	ErrNoSelection = errors.New("no insights selected")
	// ErrMissingInput is returned when a required master file is not loaded
	ErrMissingInput = errors.New("required input not available")
	// ErrNoPositiveAmounts is returned by PJPA28 when nothing can be tested
	ErrNoPositiveAmounts = errors.New("no positive amounts")
)

// Inputs holds the master tables. Generators treat them as read-only and
// clone before mutating, so one Inputs value can feed concurrent runs.
type Inputs struct {
	Concur         *dataprocessing.Table
	LeftEmployees  *dataprocessing.Table
	EmployeeMaster *dataprocessing.Table
	LineItems      *dataprocessing.Table
}

// Table returns the table loaded for src, or nil
func (in Inputs) Table(src Source) *dataprocessing.Table {
	switch src {
	case SourceConcur:
		return in.Concur
	case SourceLeftEmployees:
		return in.LeftEmployees
	case SourceEmployeeMaster:
		return in.EmployeeMaster
	case SourceLineItems:
		return in.LineItems
	}
	return nil
}

// Set stores t under src
func (in *Inputs) Set(src Source, t *dataprocessing.Table) {
	switch src {
	case SourceConcur:
		in.Concur = t
	case SourceLeftEmployees:
		in.LeftEmployees = t
	case SourceEmployeeMaster:
		in.EmployeeMaster = t
	case SourceLineItems:
		in.LineItems = t
	}
}

// Options tunes thresholds
type Options struct {
	BulkThreshold     int
	LowValueAmount    float64
	LowValueFrequency int
	RareThresholdPct  float64
	Holidays          HolidayCalendar
}

// DefaultOptions returns the detector defaults. The service configuration
// raises BulkThreshold to 6.
func DefaultOptions() Options {
	return Options{
		BulkThreshold:     5,
		LowValueAmount:    1000,
		LowValueFrequency: 10,
		RareThresholdPct:  5,
		Holidays:          DefaultHolidays(),
	}
}

// Output is one workbook produced by a generator. An Output without sheets
// means the run found nothing worth writing.
type Output struct {
	ID     string
	File   string
	Sheets []exporter.Sheet
}

// RowCounts returns the number of data rows per sheet
func (o Output) RowCounts() map[string]int {
	counts := make(map[string]int, len(o.Sheets))
	for _, s := range o.Sheets {
		counts[s.Name] = len(s.Rows)
	}
	return counts
}

// Generator is one detector
type Generator struct {
	Key    string
	Inputs []Source
	Run    func(in Inputs, opts Options) ([]Output, error)
}

// Check verifies that every input the generator needs is loaded
func (g Generator) Check(in Inputs) error {
	for _, src := range g.Inputs {
		if in.Table(src) == nil {
			return fmt.Errorf("%s needs %s: %w", g.Key, src, ErrMissingInput)
		}
	}
	return nil
}

func requireColumns(t *dataprocessing.Table, src Source, cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("%s: column %q: %w", src, c, dataprocessing.ErrColumnNotFound)
		}
	}
	return nil
}
