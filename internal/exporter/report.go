package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultIDLabel is the label of the first metadata row. The trailing space
// is part of the established layout.
const DefaultIDLabel = "Insight ID "

// Meta is the three-row metadata block above an exception table
type Meta struct {
	InsightID     string
	ExceptionNo   string
	ExceptionType string
	// IDLabel overrides DefaultIDLabel
	IDLabel string
	// BlankRows between the metadata and the header, 1 or 2
	BlankRows int
}

// Sheet is one worksheet of a report. Exactly one of Meta or Description
// is used for the block above the header.
type Sheet struct {
	Name        string
	Meta        *Meta
	Description string
	Header      []string
	Rows        [][]string
}

// StartRow is the 0-based row index of the first data row
func (s Sheet) StartRow() int {
	if s.Meta == nil {
		return 4
	}
	return 3 + s.Meta.BlankRows + 1
}

// HeaderRows is the number of rows before the header row, the value readers
// pass as skip
func (s Sheet) HeaderRows() int { return s.StartRow() - 1 }

// WriteReport writes sheets, in order, to a new workbook at path
func WriteReport(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write %s: no sheets", filepath.Base(path))
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, s Sheet) error {
	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return err
	}

	row := 1
	put := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		if len(values) == 0 {
			return nil
		}
		return sw.SetRow(cell, values)
	}

	for _, block := range preamble(s) {
		if err := put(block); err != nil {
			return err
		}
	}
	if err := put(textRow(s.Header)); err != nil {
		return err
	}
	for _, r := range s.Rows {
		if err := put(typedRow(r)); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func preamble(s Sheet) [][]interface{} {
	if s.Meta == nil {
		return [][]interface{}{{s.Description}, nil, nil}
	}
	label := s.Meta.IDLabel
	if label == "" {
		label = DefaultIDLabel
	}
	rows := [][]interface{}{
		{label, s.Meta.InsightID},
		{"Exception No", s.Meta.ExceptionNo},
		{"Exception Type", s.Meta.ExceptionType},
	}
	blanks := s.Meta.BlankRows
	if blanks < 1 {
		blanks = 1
	}
	for i := 0; i < blanks; i++ {
		rows = append(rows, nil)
	}
	return rows
}

func textRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

// typedRow writes numeric cells as numbers and blanks as empty cells
func typedRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		switch {
		case c == "":
			out[i] = nil
		case looksNumeric(c):
			v, _ := strconv.ParseFloat(c, 64)
			out[i] = v
		default:
			out[i] = c
		}
	}
	return out
}

// looksNumeric accepts plain decimal numbers. Values with leading zeros or
// more than 15 digits stay text so identifiers survive the round trip.
func looksNumeric(s string) bool {
	if s != strings.TrimSpace(s) {
		return false
	}
	digits := strings.TrimLeft(s, "-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	n := 0
	seenDot := false
	for i, r := range digits {
		switch {
		case r >= '0' && r <= '9':
			n++
		case r == '.' && !seenDot && i > 0:
			seenDot = true
		default:
			return false
		}
	}
	return n > 0 && n <= 15 && !strings.HasSuffix(digits, ".")
}
