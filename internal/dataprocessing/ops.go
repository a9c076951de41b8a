package dataprocessing

import (
	"sort"
	"strings"
	"time"
)

const keySep = "\x1f"

// Group is one distinct key combination and the rows carrying it
type Group struct {
	Key  []string
	Rows []int
}

// GroupBy partitions rows by the values of keys in first-seen order. Rows
// with a blank key value are left out, like a null group key.
func GroupBy(t *Table, keys ...string) []Group {
	pos := make([]int, len(keys))
	for i, k := range keys {
		pos[i] = t.Col(k)
	}

	var groups []Group
	lookup := make(map[string]int)
	for r, row := range t.Rows {
		key := make([]string, len(keys))
		skip := false
		for i, p := range pos {
			if p < 0 || row[p] == "" {
				skip = true
				break
			}
			key[i] = row[p]
		}
		if skip {
			continue
		}
		k := GroupKey(key...)
		g, ok := lookup[k]
		if !ok {
			g = len(groups)
			lookup[k] = g
			groups = append(groups, Group{Key: key})
		}
		groups[g].Rows = append(groups[g].Rows, r)
	}
	return groups
}

// GroupKey joins key values into a map key
func GroupKey(values ...string) string {
	return strings.Join(values, keySep)
}

// JoinSpec describes an inner join
type JoinSpec struct {
	LeftKeys  []string
	RightKeys []string
	// RightSuffix is appended to right columns whose name already exists on
	// the left. Right key columns named like their left key are dropped.
	RightSuffix string
}

// InnerJoin returns left rows paired with every matching right row, in left
// order then right order. Key values are compared verbatim; blanks never
// match.
func InnerJoin(left, right *Table, spec JoinSpec) *Table {
	dropRight := make(map[int]bool)
	for i, rk := range spec.RightKeys {
		if i < len(spec.LeftKeys) && spec.LeftKeys[i] == rk {
			dropRight[right.Col(rk)] = true
		}
	}

	columns := append([]string(nil), left.Columns...)
	var rightPos []int
	for i, c := range right.Columns {
		if dropRight[i] {
			continue
		}
		name := c
		if left.Has(c) {
			name = c + spec.RightSuffix
		}
		columns = append(columns, name)
		rightPos = append(rightPos, i)
	}
	out := NewTable(columns)

	index := make(map[string][]int)
	for r := range right.Rows {
		if k, ok := rowKey(right, r, spec.RightKeys); ok {
			index[k] = append(index[k], r)
		}
	}

	for l, lrow := range left.Rows {
		k, ok := rowKey(left, l, spec.LeftKeys)
		if !ok {
			continue
		}
		for _, r := range index[k] {
			cells := make([]string, 0, len(columns))
			cells = append(cells, lrow...)
			for _, p := range rightPos {
				cells = append(cells, right.Rows[r][p])
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

func rowKey(t *Table, r int, keys []string) (string, bool) {
	vals := make([]string, len(keys))
	for i, k := range keys {
		v := t.Get(r, k)
		if v == "" {
			return "", false
		}
		vals[i] = v
	}
	return strings.Join(vals, keySep), true
}

// SortKind selects how a column is compared
type SortKind int

const (
	SortText SortKind = iota
	SortNumber
	SortDate
)

// SortKey is one column of a multi-column sort
type SortKey struct {
	Column string
	Desc   bool
	Kind   SortKind
}

type sortCell struct {
	missing bool
	text    string
	num     float64
	date    time.Time
}

// SortTable stably sorts rows in place. Missing or unparseable values go
// last in either direction.
func SortTable(t *Table, keys ...SortKey) {
	cells := make([][]sortCell, len(t.Rows))
	for r := range t.Rows {
		cells[r] = make([]sortCell, len(keys))
		for i, k := range keys {
			cells[r][i] = makeSortCell(t.Get(r, k.Column), k.Kind)
		}
	}

	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := cells[order[a]], cells[order[b]]
		for i, k := range keys {
			if c := compareCells(ca[i], cb[i], k); c != 0 {
				return c < 0
			}
		}
		return false
	})

	sorted := make([][]string, len(order))
	for i, r := range order {
		sorted[i] = t.Rows[r]
	}
	t.Rows = sorted
}

func makeSortCell(v string, kind SortKind) sortCell {
	switch kind {
	case SortNumber:
		n, ok := ParseAmount(v)
		return sortCell{missing: !ok, num: n}
	case SortDate:
		d, ok := ParseDate(v)
		return sortCell{missing: !ok, date: d}
	default:
		return sortCell{missing: v == "", text: v}
	}
}

func compareCells(a, b sortCell, k SortKey) int {
	switch {
	case a.missing && b.missing:
		return 0
	case a.missing:
		return 1
	case b.missing:
		return -1
	}

	var c int
	switch k.Kind {
	case SortNumber:
		switch {
		case a.num < b.num:
			c = -1
		case a.num > b.num:
			c = 1
		}
	case SortDate:
		c = a.date.Compare(b.date)
	default:
		c = strings.Compare(a.text, b.text)
	}
	if k.Desc {
		c = -c
	}
	return c
}
