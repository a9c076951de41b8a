// Package dataprocessing loads the tabular master data the insights run on
// and provides the small relational toolkit they share.
//
// Files are read into a Table: a header plus string cells, where an empty
// cell is a missing value. Workbooks are read through excelize with raw cell
// values; Excel serial numbers in date columns are rewritten as ISO text so
// every consumer sees the same representation. CSV files are decoded as
// UTF-8 with a Latin-1 fallback.
//
// Values are coerced on demand:
//
//	d, ok := dataprocessing.ParseDate(t.Get(r, "Submit Date"))
//	amt := dataprocessing.AmountOrZero(t.Get(r, "Amount Approved"))
//	id := dataprocessing.NormalizeID(t.Get(r, "Employee ID"))
//
// GroupBy, InnerJoin and SortTable keep first-seen order and stable ties so
// report rows come out deterministic.
package dataprocessing
