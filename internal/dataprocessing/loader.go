package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SupportedExtension reports whether name has a loadable extension
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls", ".csv":
		return true
	}
	return false
}

// LoadFile reads the first sheet of a workbook, or a CSV file
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(filepath.Base(path), f)
}

// LoadReader reads a workbook or CSV from r. name decides the format.
func LoadReader(name string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return loadWorkbook(r, "")
	case ".csv":
		return loadCSV(r)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// LoadSheet reads one sheet of a workbook. An empty sheet name picks the
// first sheet.
func LoadSheet(path, sheet string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loadWorkbook(f, sheet)
}

func loadWorkbook(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	t, err := fromRecords(rows)
	if err != nil {
		return nil, err
	}
	serialDatesToText(t)
	return t, nil
}

func loadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("decode latin-1: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return fromRecords(records)
}

// fromRecords builds a table from raw rows. The first row is the header.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	t := NewTable(NormalizeHeaders(records[0]))
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.Append(rec)
	}
	return t, nil
}

// NormalizeHeaders trims header names and renames repeats to name_1, name_2
// and so on. Blank headers become Unnamed: <position>.
func NormalizeHeaders(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		if used[name] {
			n := suffix[h]
			for used[name] {
				n++
				name = h + "_" + strconv.Itoa(n)
			}
			suffix[h] = n
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// serialDatesToText rewrites Excel serial numbers in date columns as ISO text.
// A column counts as a date column when its name mentions "date" or is DOJ.
func serialDatesToText(t *Table) {
	for i, col := range t.Columns {
		lc := strings.ToLower(col)
		if !strings.Contains(lc, "date") && lc != "doj" {
			continue
		}
		for _, row := range t.Rows {
			row[i] = serialToText(row[i])
		}
	}
}

func serialToText(cell string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || v < minExcelSerial || v > maxExcelSerial {
		return cell
	}
	ts, err := excelize.ExcelDateToTime(v, false)
	if err != nil {
		return cell
	}
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
		return ts.Format(DateLayout)
	}
	return ts.Format("2006-01-02 15:04:05")
}
