package dataprocessing

import (
	"fmt"
	"strings"
)

// Table is a header plus string cells. An empty string is a missing value.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates an empty table with the given header
func NewTable(columns []string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the column exists
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Col returns the column position or -1
func (t *Table) Col(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Get returns the cell at row r in column col, or "" when the column is absent
func (t *Table) Get(r int, col string) string {
	i, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[r][i]
}

// Set writes a cell, adding the column when needed
func (t *Table) Set(r int, col, value string) {
	t.Rows[r][t.AddColumn(col)] = value
}

// AddColumn appends an empty column and returns its position. An existing
// column is left as is.
func (t *Table) AddColumn(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	t.Columns = append(t.Columns, col)
	t.index[col] = len(t.Columns) - 1
	for r := range t.Rows {
		t.Rows[r] = append(t.Rows[r], "")
	}
	return len(t.Columns) - 1
}

// Rename changes a column name. It fails when the target name is taken.
func (t *Table) Rename(from, to string) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("column %q: %w", from, ErrColumnNotFound)
	}
	if _, taken := t.index[to]; taken {
		return fmt.Errorf("cannot rename %q: column %q already exists", from, to)
	}
	t.Columns[i] = to
	t.reindex()
	return nil
}

// Append adds a row, padding or truncating it to the header width
func (t *Table) Append(row []string) {
	out := make([]string, len(t.Columns))
	copy(out, row)
	t.Rows = append(t.Rows, out)
}

// Filter returns a new table holding the rows for which keep returns true
func (t *Table) Filter(keep func(r int) bool) *Table {
	out := NewTable(t.Columns)
	for r, row := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// Clone deep-copies the table
func (t *Table) Clone() *Table {
	return t.Filter(func(int) bool { return true })
}

// Select projects the table onto cols. Absent columns come out blank.
func (t *Table) Select(cols []string) [][]string {
	pos := make([]int, len(cols))
	for i, c := range cols {
		pos[i] = t.Col(c)
	}
	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(cols))
		for i, p := range pos {
			if p >= 0 {
				cells[i] = row[p]
			}
		}
		out[r] = cells
	}
	return out
}

// Values returns a column as a slice. Nil when the column is absent.
func (t *Table) Values(col string) []string {
	i, ok := t.index[col]
	if !ok {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Map rewrites every cell of col in place
func (t *Table) Map(col string, fn func(string) string) {
	i, ok := t.index[col]
	if !ok {
		return
	}
	for _, row := range t.Rows {
		row[i] = fn(row[i])
	}
}

// FindColumn returns the first of candidates present in the table, or ""
func (t *Table) FindColumn(candidates ...string) string {
	for _, c := range candidates {
		if t.Has(c) {
			return c
		}
	}
	return ""
}

// FindColumnFold matches candidates case-insensitively after trimming
func (t *Table) FindColumnFold(candidates ...string) string {
	for _, c := range candidates {
		want := strings.ToLower(strings.TrimSpace(c))
		for _, col := range t.Columns {
			if strings.ToLower(strings.TrimSpace(col)) == want {
				return col
			}
		}
	}
	return ""
}
