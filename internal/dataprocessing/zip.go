package dataprocessing

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// MergeZip loads every data file in a zip bundle and concatenates them. The
// result has the union of the entry columns in first-seen order. Entries
// under __MACOSX and directories are skipped.
func MergeZip(r io.ReaderAt, size int64) (*Table, []string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip: %w", err)
	}

	var parts []*Table
	var used []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || isMacMetadata(entry.Name) || !SupportedExtension(entry.Name) {
			continue
		}
		t, err := loadZipEntry(entry)
		if err != nil {
			return nil, nil, fmt.Errorf("zip entry %s: %w", entry.Name, err)
		}
		parts = append(parts, t)
		used = append(used, entry.Name)
	}
	if len(parts) == 0 {
		return nil, nil, ErrNoUsableEntries
	}
	return Concat(parts...), used, nil
}

func loadZipEntry(entry *zip.File) (*Table, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// excelize needs the whole workbook in memory anyway
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return LoadReader(path.Base(entry.Name), bytes.NewReader(data))
}

func isMacMetadata(name string) bool {
	return strings.HasPrefix(name, "__MACOSX") || strings.Contains(name, "/__MACOSX/") ||
		strings.HasPrefix(path.Base(name), "._")
}

// Concat stacks tables vertically over the union of their columns
func Concat(tables ...*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := NewTable(columns)
	for _, t := range tables {
		pos := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			pos[i] = out.Col(c)
		}
		for _, row := range t.Rows {
			cells := make([]string, len(columns))
			for i, p := range pos {
				cells[p] = row[i]
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}
