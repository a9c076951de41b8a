package analytics

import (
	"strings"

	"github.com/kavya1280/JK-Insights/internal/dataprocessing"
)

// Page size bounds for table queries
const (
	DefaultPageSize = 25
	MaxPageSize     = 500
)

// TableRequest selects one page of the filtered, searched and sorted rows
type TableRequest struct {
	Page          int      `json:"page" validate:"min=1"`
	PageSize      int      `json:"page_size" validate:"min=1,max=500"`
	Search        string   `json:"search,omitempty"`
	SortColumn    string   `json:"sort_column,omitempty"`
	SortDirection string   `json:"sort_direction,omitempty" validate:"omitempty,oneof=asc desc"`
	Filters       *Filters `json:"filters,omitempty"`
}

// NewTableRequest returns a request for the first page
func NewTableRequest() TableRequest {
	return TableRequest{Page: 1, PageSize: DefaultPageSize, SortDirection: "asc"}
}

// Column describes one table column for display
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

// TablePage is one page of rows. Numeric columns carry numbers and every
// other cell a string.
type TablePage struct {
	Data       []map[string]any `json:"data"`
	Columns    []Column         `json:"columns"`
	TotalRows  int              `json:"total_rows"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Query applies req to the dataset
func (d *Dataset) Query(req TableRequest) TablePage {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}

	t := req.Filters.Apply(d.Table)
	if req.Search != "" {
		t = search(t, req.Search)
	}
	if req.SortColumn != "" && t.Has(req.SortColumn) {
		if t == d.Table {
			t = t.Clone()
		}
		dataprocessing.SortTable(t, dataprocessing.SortKey{
			Column: req.SortColumn,
			Desc:   req.SortDirection == "desc",
			Kind:   d.sortKind(t, req.SortColumn),
		})
	}

	total := t.Len()
	page := TablePage{
		Data:       []map[string]any{},
		Columns:    make([]Column, len(t.Columns)),
		TotalRows:  total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}
	for i, c := range t.Columns {
		page.Columns[i] = Column{Field: c, Header: c}
	}

	start := (req.Page - 1) * req.PageSize
	if start >= total {
		return page
	}
	end := min(start+req.PageSize, total)
	for _, row := range t.Rows[start:end] {
		page.Data = append(page.Data, d.record(t.Columns, row))
	}
	return page
}

func (d *Dataset) record(cols, row []string) map[string]any {
	rec := make(map[string]any, len(cols))
	for i, c := range cols {
		if isNumeric(d.Type, c) {
			rec[c] = dataprocessing.AmountOrZero(row[i])
			continue
		}
		rec[c] = row[i]
	}
	return rec
}

// sortKind picks numeric order for numeric columns or columns whose values
// all parse as numbers, date order for date columns and text otherwise
func (d *Dataset) sortKind(t *dataprocessing.Table, col string) dataprocessing.SortKind {
	if isNumeric(d.Type, col) {
		return dataprocessing.SortNumber
	}
	if strings.Contains(strings.ToLower(col), "date") {
		return dataprocessing.SortDate
	}
	seen := false
	for _, v := range t.Values(col) {
		if v == "" {
			continue
		}
		if _, ok := dataprocessing.ParseAmount(v); !ok {
			return dataprocessing.SortText
		}
		seen = true
	}
	if seen {
		return dataprocessing.SortNumber
	}
	return dataprocessing.SortText
}

// search keeps rows where any cell contains term, ignoring case
func search(t *dataprocessing.Table, term string) *dataprocessing.Table {
	term = strings.ToLower(term)
	return t.Filter(func(r int) bool {
		for _, cell := range t.Rows[r] {
			if strings.Contains(strings.ToLower(cell), term) {
				return true
			}
		}
		return false
	})
}
