package dataprocessing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(cols []string, rows ...[]string) *Table {
	t := NewTable(cols)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestGroupBy(t *testing.T) {
	tbl := table([]string{"emp", "day"},
		[]string{"E2", "d1"},
		[]string{"E1", "d1"},
		[]string{"E2", "d1"},
		[]string{"", "d1"},
		[]string{"E1", "d2"},
	)

	groups := GroupBy(tbl, "emp", "day")
	want := []Group{
		{Key: []string{"E2", "d1"}, Rows: []int{0, 2}},
		{Key: []string{"E1", "d1"}, Rows: []int{1}},
		{Key: []string{"E1", "d2"}, Rows: []int{4}},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("GroupBy mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerJoin(t *testing.T) {
	left := table([]string{"Employee ID", "Report Name", "Total"},
		[]string{"E1", "Trip A", "10"},
		[]string{"E2", "Trip B", "20"},
		[]string{"", "Orphan", "30"},
	)
	right := table([]string{"Employee ID", "Report Name", "Line"},
		[]string{"E2", "Line B1", "1"},
		[]string{"E1", "Line A1", "2"},
		[]string{"E2", "Line B2", "3"},
		[]string{"", "Blank", "4"},
	)

	got := InnerJoin(left, right, JoinSpec{
		LeftKeys:    []string{"Employee ID"},
		RightKeys:   []string{"Employee ID"},
		RightSuffix: " (Right)",
	})

	assert.Equal(t, []string{"Employee ID", "Report Name", "Total", "Report Name (Right)", "Line"}, got.Columns)
	want := [][]string{
		{"E1", "Trip A", "10", "Line A1", "2"},
		{"E2", "Trip B", "20", "Line B1", "1"},
		{"E2", "Trip B", "20", "Line B2", "3"},
	}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("InnerJoin rows mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerJoin_DifferentKeyNames(t *testing.T) {
	left := table([]string{"Emp_CODE"}, []string{"7"})
	right := table([]string{"Employee ID", "Amount"}, []string{"7", "5"})

	got := InnerJoin(left, right, JoinSpec{LeftKeys: []string{"Emp_CODE"}, RightKeys: []string{"Employee ID"}})
	assert.Equal(t, []string{"Emp_CODE", "Employee ID", "Amount"}, got.Columns)
	assert.Equal(t, [][]string{{"7", "7", "5"}}, got.Rows)
}

func TestSortTable(t *testing.T) {
	tbl := table([]string{"id", "count", "date"},
		[]string{"b", "2", "2025-01-02"},
		[]string{"a", "5", "garbage"},
		[]string{"c", "5", "2025-03-01"},
		[]string{"a", "", "2025-02-01"},
		[]string{"d", "2", "2025-01-02"},
	)

	SortTable(tbl,
		SortKey{Column: "count", Desc: true, Kind: SortNumber},
		SortKey{Column: "date", Desc: true, Kind: SortDate},
	)

	var ids []string
	for r := range tbl.Rows {
		ids = append(ids, tbl.Get(r, "id"))
	}
	// missing count sorts last, unparseable date sorts last inside its count
	assert.Equal(t, []string{"c", "a", "b", "d", "a"}, ids)
}

func TestTableHelpers(t *testing.T) {
	tbl := table([]string{"A", "B"}, []string{"1", "2"}, []string{"3"})

	tbl.Set(1, "C", "x")
	assert.Equal(t, []string{"A", "B", "C"}, tbl.Columns)
	assert.Equal(t, []string{"3", "", "x"}, tbl.Rows[1])

	require.NoError(t, tbl.Rename("C", "D"))
	assert.ErrorIs(t, tbl.Rename("Z", "Y"), ErrColumnNotFound)
	assert.Error(t, tbl.Rename("A", "B"))

	assert.Equal(t, [][]string{{"", "1"}, {"x", "3"}}, tbl.Select([]string{"D", "A"}))
	assert.Equal(t, "B", tbl.FindColumnFold(" b "))
	assert.Equal(t, "", tbl.FindColumn("nope"))

	filtered := tbl.Filter(func(r int) bool { return tbl.Get(r, "A") == "3" })
	filtered.Set(0, "A", "changed")
	assert.Equal(t, "3", tbl.Get(1, "A"))
}
