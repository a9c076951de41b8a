package insights

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kavya1280/JK-Insights/internal/exporter"
)

// Written describes a workbook saved by WriteOutputs
type Written struct {
	ID   string         `json:"id"`
	File string         `json:"file"`
	Path string         `json:"-"`
	Rows map[string]int `json:"rows"`
}

// WriteOutputs saves every output that has sheets into dir. Outputs without
// sheets are skipped. Each workbook is written to a temporary name first and
// renamed into place so readers never see a partial file.
func WriteOutputs(dir string, outs []Output) ([]Written, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []Written
	for _, o := range outs {
		if len(o.Sheets) == 0 {
			continue
		}
		final := filepath.Join(dir, o.File)
		tmp := filepath.Join(dir, ".tmp-"+o.File)
		if err := exporter.WriteReport(tmp, o.Sheets...); err != nil {
			os.Remove(tmp)
			return written, fmt.Errorf("%s: %w", o.ID, err)
		}
		if err := os.Rename(tmp, final); err != nil {
			os.Remove(tmp)
			return written, fmt.Errorf("%s: %w", o.ID, err)
		}
		written = append(written, Written{ID: o.ID, File: o.File, Path: final, Rows: o.RowCounts()})
	}
	return written, nil
}
