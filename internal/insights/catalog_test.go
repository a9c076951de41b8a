package insights

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/exporter"
	"github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func TestCatalogConsistency(t *testing.T) {
	ids := make(map[string]bool)
	for _, d := range Catalog {
		assert.False(t, ids[d.ID], "duplicate id %s", d.ID)
		ids[d.ID] = true
		_, ok := Generators[d.Generator]
		assert.True(t, ok, "%s has no generator", d.ID)
		assert.NotEmpty(t, d.File)
		assert.Positive(t, d.SkipRows)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		want    []string
		wantErr error
	}{
		{name: "empty", wantErr: ErrNoSelection},
		{name: "unknown", ids: []string{"PJPA27", "PJPA99"}, wantErr: ErrUnknownInsight},
		{name: "catalog order", ids: []string{"pjpa40", "PJPA27"}, want: []string{"PJPA27", "PJPA40"}},
		{name: "holiday pair runs once", ids: []string{"PJPA32_WE", "PJPA32_HOL"}, want: []string{"PJPA32"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gens, err := Resolve(tt.ids)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var keys []string
			for _, g := range gens {
				keys = append(keys, g.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestRequiredSources(t *testing.T) {
	gens, err := Resolve([]string{"PJPA40", "PJPA39"})
	require.NoError(t, err)
	assert.Equal(t, []Source{SourceConcur, SourceEmployeeMaster, SourceLineItems}, RequiredSources(gens))
}

func TestGeneratorCheck(t *testing.T) {
	g := Generators["PJPA27"]
	err := g.Check(Inputs{Concur: table([]string{"Employee ID"})})
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Contains(t, err.Error(), "left_employees")
}

func TestWriteOutputs_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	concur := table([]string{"Employee ID", "Report Id", "Report Name"},
		[]string{"E1", "R9", "a"},
		[]string{"E1", "R9", "b"},
	)
	outs, err := DuplicateReport(Inputs{Concur: concur}, DefaultOptions())
	require.NoError(t, err)
	outs = append(outs, Output{ID: "PJPA36", File: "PJPA36_Generated.xlsx"})

	written, err := WriteOutputs(dir, outs)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, map[string]int{"Sheet1": 2}, written[0].Rows)
	assert.NoFileExists(t, filepath.Join(dir, "PJPA36_Generated.xlsx"))

	def, _ := Lookup("PJPA35")
	back, err := exporter.ReadReport(written[0].Path, def.SheetPrefix, def.SkipRows)
	require.NoError(t, err)
	assert.Equal(t, duplicateReportColumns, back.Columns)
	assert.Equal(t, []string{"a", "b"}, back.Values("Report Name"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not remain")
}

func TestLoadHolidays(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("holidays:\n  - date: 2026-01-26\n    name: Republic Day\n  - date: 03/04/2026\n    name: Holi\n"), 0644))

	cal, err := LoadHolidays(path)
	require.NoError(t, err)
	assert.Equal(t, HolidayCalendar{"2026-01-26": "Republic Day", "2026-03-04": "Holi"}, cal)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("holidays:\n  - date: someday\n    name: X\n"), 0644))
	_, err = LoadHolidays(bad)
	assert.Error(t, err)

	_, err = LoadHolidays(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultHolidays(t *testing.T) {
	cal := DefaultHolidays()
	assert.Len(t, cal, 15)
	name, ok := cal.Name("2025-10-20")
	assert.True(t, ok)
	assert.Equal(t, "Diwali", name)
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWorkbook(t, dir, "Concur_Header_Data.xlsx",
		[]string{"Employee ID", "Report Id"},
		[][]any{{"E1", "R1"}, {"E2", "R2"}})

	logger, handler := testutil.NewTestLogger(t)
	in, errs := LoadInputs(context.Background(), dir, []Source{SourceConcur, SourceLineItems}, logger)
	handler.AssertLogContains(t, slog.LevelWarn, "master file unavailable")
	handler.AssertNoErrors(t)

	require.NotNil(t, in.Concur)
	assert.Equal(t, 2, in.Concur.Len())
	assert.Nil(t, in.LineItems)
	assert.ErrorIs(t, errs[SourceLineItems], ErrMissingInput)
	assert.NotContains(t, errs, SourceConcur)
}
