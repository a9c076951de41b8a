package insights

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// Source names one master data file
type Source string

const (
	SourceConcur         Source = "concur"
	SourceLeftEmployees  Source = "left_employees"
	SourceEmployeeMaster Source = "employee_master"
	SourceLineItems      Source = "line_items"
)

// SourceInfo ties a source to its upload field and stored file name
type SourceInfo struct {
	Source    Source `json:"source"`
	FormField string `json:"form_field"`
	FileName  string `json:"file_name"`
}

// Sources lists every master file in upload order
var Sources = []SourceInfo{
	{Source: SourceConcur, FormField: "concurFile", FileName: "Concur_Header_Data.xlsx"},
	{Source: SourceLeftEmployees, FormField: "leftEmpFile", FileName: "Left_Employees.xlsx"},
	{Source: SourceEmployeeMaster, FormField: "empMasterFile", FileName: "Employee_Master.xlsx"},
	{Source: SourceLineItems, FormField: "lineItemFile", FileName: "Line_Item_Data.xlsx"},
}

// LookupSource returns the info for src
func LookupSource(src Source) (SourceInfo, bool) {
	for _, s := range Sources {
		if s.Source == src {
			return s, true
		}
	}
	return SourceInfo{}, false
}

// LoadInputs reads the requested master files from dataDir concurrently. A
// file that is missing or unreadable is reported in the returned map and
// left nil in Inputs; only the generators that need it will fail.
func LoadInputs(ctx context.Context, dataDir string, sources []Source, logger *slog.Logger) (Inputs, map[Source]error) {
	var (
		in   Inputs
		mu   sync.Mutex
		errs = make(map[Source]error)
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		info, ok := LookupSource(src)
		if !ok {
			errs[src] = fmt.Errorf("%s: %w", src, ErrMissingInput)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dataDir, info.FileName)
			t, err := loadSource(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[info.Source] = err
				logger.WarnContext(ctx, "master file unavailable",
					slog.String("source", string(info.Source)),
					slog.String("error", err.Error()))
				return nil
			}
			in.Set(info.Source, t)
			logger.DebugContext(ctx, "master file loaded",
				slog.String("source", string(info.Source)),
				slog.Int("rows", t.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, src := range sources {
			if in.Table(src) == nil && errs[src] == nil {
				errs[src] = err
			}
		}
	}
	return in, errs
}

func loadSource(path string) (*dataprocessing.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrMissingInput)
		}
		return nil, err
	}
	return dataprocessing.LoadFile(path)
}
