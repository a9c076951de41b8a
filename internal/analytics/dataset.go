package analytics

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

var (
	// ErrNoDataset is returned when nothing has been loaded yet
	ErrNoDataset = errors.New("no analytics file loaded")
	// ErrFileNotFound is returned for an unknown upload
	ErrFileNotFound = errors.New("analytics file not found")
	// ErrUnsupportedFile is returned for uploads that are not workbooks
	ErrUnsupportedFile = errors.New("analytics files must be .xlsx or .xls")
	// ErrUnreadable is returned for an upload that cannot be parsed
	ErrUnreadable = errors.New("analytics file cannot be read")
)

// FileType identifies which result layout a workbook follows
type FileType string

const (
	TypePJPA37 FileType = "PJPA37"
	TypePJPA38 FileType = "PJPA38"
	TypePJPA39 FileType = "PJPA39"
)

// DetectType guesses the layout from a file name. Names mentioning none of
// 37, 38 or 39 are treated as PJPA37.
func DetectType(name string) FileType {
	upper := strings.ToUpper(filepath.Base(name))
	switch {
	case strings.Contains(upper, "37"):
		return TypePJPA37
	case strings.Contains(upper, "38"):
		return TypePJPA38
	case strings.Contains(upper, "39"):
		return TypePJPA39
	}
	return TypePJPA37
}

// Dataset is one canonicalized result workbook
type Dataset struct {
	Name     string
	Type     FileType
	Table    *dataprocessing.Table
	LoadedAt time.Time
}

// LoadDataset reads the first sheet of path and canonicalizes it
func LoadDataset(path string) (*Dataset, error) {
	t, err := dataprocessing.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	typ := DetectType(path)
	return &Dataset{
		Name:     filepath.Base(path),
		Type:     typ,
		Table:    Canonicalize(t, typ),
		LoadedAt: time.Now(),
	}, nil
}
