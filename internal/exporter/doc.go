// Package exporter writes and reads the insight workbooks.
//
// A report sheet starts with three metadata rows (insight id, exception
// number, exception type), one or two blank rows, the column header and then
// the data. Statistics sheets carry a single description row and two blank
// rows above the header instead. WriteReport streams rows through excelize
// so large exception sets never sit in a cell map.
//
// ReadReport reverses the layout given the number of leading rows to skip,
// and WriteCSV re-emits any sheet as a UTF-8 CSV with a BOM so spreadsheet
// tools pick the right encoding.
package exporter
