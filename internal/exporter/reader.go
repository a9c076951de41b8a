package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// ReadReport reads a report sheet back into a table. skip leading rows are
// dropped and the next row becomes the header. sheetPrefix picks the first
// sheet whose name starts with it; empty picks the first sheet.
func ReadReport(path, sheetPrefix string, skip int) (*dataprocessing.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	sheet, err := findSheet(f, sheetPrefix)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= skip {
		return nil, fmt.Errorf("sheet %q: %w", sheet, dataprocessing.ErrEmptyFile)
	}

	t := dataprocessing.NewTable(dataprocessing.NormalizeHeaders(rows[skip]))
	for _, r := range rows[skip+1:] {
		if isBlank(r) {
			continue
		}
		t.Append(r)
	}
	return t, nil
}

// SheetNames lists the sheets of a workbook
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func findSheet(f *excelize.File, prefix string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", dataprocessing.ErrEmptyFile
	}
	if prefix == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.HasPrefix(s, prefix) {
			return s, nil
		}
	}
	return "", fmt.Errorf("no sheet starting with %q", prefix)
}

func isBlank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
