package dataprocessing

import (
	"archive/zip"
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func buildZip(t *testing.T, entries map[string][]byte, order []string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestMergeZip(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := testutil.WriteWorkbook(t, dir, "part2.xlsx",
		[]string{"Report ID", "Approved Amount", "Expense Type"},
		[][]any{{"R3", 10, "Taxi"}})
	xlsx, err := os.ReadFile(xlsxPath)
	require.NoError(t, err)

	entries := map[string][]byte{
		"bundle/part1.csv":          []byte("Report ID,Approved Amount\nR1,5\nR2,6\n"),
		"bundle/part2.xlsx":         xlsx,
		"__MACOSX/bundle/._part1.csv": []byte("junk"),
		"bundle/readme.txt":         []byte("ignored"),
	}
	r := buildZip(t, entries, []string{"bundle/part1.csv", "__MACOSX/bundle/._part1.csv", "bundle/readme.txt", "bundle/part2.xlsx"})

	tbl, used, err := MergeZip(r, r.Size())
	require.NoError(t, err)
	assert.Equal(t, []string{"bundle/part1.csv", "bundle/part2.xlsx"}, used)
	assert.Equal(t, []string{"Report ID", "Approved Amount", "Expense Type"}, tbl.Columns)
	assert.Equal(t, [][]string{
		{"R1", "5", ""},
		{"R2", "6", ""},
		{"R3", "10", "Taxi"},
	}, tbl.Rows)
}

func TestMergeZip_NoUsableEntries(t *testing.T) {
	r := buildZip(t, map[string][]byte{"notes.txt": []byte("x")}, []string{"notes.txt"})
	_, _, err := MergeZip(r, r.Size())
	assert.ErrorIs(t, err, ErrNoUsableEntries)

	_, _, err = MergeZip(bytes.NewReader([]byte("not a zip")), 9)
	assert.Error(t, err)
}
