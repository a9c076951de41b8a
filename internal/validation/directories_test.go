package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya1280/JK-Insights/internal/insights"
	sharedtest "github.com/kavya1280/JK-Insights/internal/shared/testutil"
)

func TestValidateInputDirectory(t *testing.T) {
	logger, logs := sharedtest.NewTestLogger(t)
	v := NewDirectoryValidator(logger)
	dir := t.TempDir()

	present, err := v.ValidateInputDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, present)
	logs.AssertLogContains(t, slog.LevelWarn, "No master files found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Line_Item_Data.xlsx"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Concur_Header_Data.xlsx"), []byte("x"), 0644))
	present, err = v.ValidateInputDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []insights.Source{insights.SourceConcur, insights.SourceLineItems}, present)

	_, err = v.ValidateInputDirectory(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = v.ValidateInputDirectory(filepath.Join(dir, "Line_Item_Data.xlsx"))
	assert.Error(t, err)
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewDirectoryValidator(nil)
	dir := filepath.Join(t.TempDir(), "out", "nested")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, v.ValidateOutputDirectory(filepath.Join(file, "sub")))
}
