package dataprocessing

import "errors"

var (
	// ErrColumnNotFound is returned when a required column is absent
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedFormat is returned for files that are not xlsx, xls or csv
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile is returned when a file has no header row
	ErrEmptyFile = errors.New("file has no header row")
	// ErrNoUsableEntries is returned for a zip bundle without data files
	ErrNoUsableEntries = errors.New("zip contains no csv, xlsx or xls files")
)
