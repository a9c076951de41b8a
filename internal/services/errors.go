package services

import (
	"errors"

	"github.com/kavya1280/JK-Insights/internal/analytics"
)

var (
	// ErrInsightNotFound is returned for an id outside the catalog
	ErrInsightNotFound = errors.New("insight not found")
	// ErrNotGenerated is returned when the insight workbook does not exist yet
	ErrNotGenerated = errors.New("data not generated yet, upload master data and run generation first")
	// ErrNoFilesProvided is returned when an upload carries no known file field
	ErrNoFilesProvided = errors.New("no files provided")
	// ErrNoDatasetLoaded is returned by analytics calls before a dataset is loaded
	ErrNoDatasetLoaded = analytics.ErrNoDataset
	// ErrInvalidFormat is returned for an unsupported download format
	ErrInvalidFormat = errors.New("invalid format")
)
