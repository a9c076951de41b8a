package analytics

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedtest "github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func TestWorkspace_UploadAndLoad(t *testing.T) {
	logger, logs := sharedtest.NewTestLogger(t)
	ws := NewWorkspace(filepath.Join(t.TempDir(), "uploads"), logger)
	ctx := context.Background()

	_, err := ws.Current()
	require.ErrorIs(t, err, ErrNoDataset)

	src := sharedtest.WriteWorkbook(t, t.TempDir(), "source.xlsx",
		[]string{"Employee ID", "Expense Type", "Mode Count", "Approved Amount", "Flag"},
		[][]any{
			{"A", "Flight", 1, 1000, "odd"},
			{"B", "Train", 3, 250.5, "normal"},
		})
	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()

	ds, err := ws.Upload(ctx, "PJPA38_Travel.xlsx", f)
	require.NoError(t, err)
	assert.Equal(t, TypePJPA38, ds.Type)
	assert.Equal(t, Summary{Filename: "PJPA38_Travel.xlsx", FileType: TypePJPA38, Rows: 2, Columns: 5}, ds.Summary())
	assert.Equal(t, []string{"Rare", "Normal"}, ds.Table.Values(ColFlag))
	logs.AssertLogContains(t, slog.LevelInfo, "analytics dataset loaded")

	current, err := ws.Current()
	require.NoError(t, err)
	assert.Same(t, ds, current)

	files, err := ws.Files()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "PJPA38_Travel.xlsx", files[0].Name)
	assert.Equal(t, TypePJPA38, files[0].Type)
	assert.Positive(t, files[0].Size)

	reloaded, err := ws.Load(ctx, "PJPA38_Travel.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Table.Len())
	assert.Equal(t, TypePJPA38, reloaded.Type)
}

func TestWorkspace_Errors(t *testing.T) {
	ws := NewWorkspace(t.TempDir(), nil)
	ctx := context.Background()

	_, err := ws.Load(ctx, "missing.xlsx")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = ws.Load(ctx, "data.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ws.Upload(ctx, "notes.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ws.Upload(ctx, "PJPA37.xlsx", strings.NewReader("not a workbook"))
	assert.Error(t, err)

	// neither the broken upload nor its temp file is left behind
	entries, err := os.ReadDir(ws.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = ws.Current()
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestWorkspace_FilesMissingDir(t *testing.T) {
	ws := NewWorkspace(filepath.Join(t.TempDir(), "nope"), nil)
	files, err := ws.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWorkspace_UploadStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	ws := NewWorkspace(dir, nil)
	src := sharedtest.WriteWorkbook(t, t.TempDir(), "s.xlsx", []string{"Employee ID"}, [][]any{{"1"}})
	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()

	ds, err := ws.Upload(context.Background(), "../../PJPA39.xlsx", f)
	require.NoError(t, err)
	assert.Equal(t, "PJPA39.xlsx", ds.Name)
	assert.FileExists(t, filepath.Join(dir, "PJPA39.xlsx"))
}
