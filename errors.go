package heatmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDatasetNotFound is returned when the dataset path does not resolve to a file.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDatasetUnreadable is returned when the dataset exists but is not a valid table.
	ErrDatasetUnreadable = errors.New("dataset unreadable")
)

// SchemaError reports the required columns absent from a dataset header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ConfigurationError reports every inconsistency found in the reference data.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid reference configuration: %s", strings.Join(e.Problems, "; "))
}

// Warning is a non fatal condition found while loading a dataset.
// Computations degrade gracefully (zeros, exclusions) instead of failing.
type Warning interface {
	Warning() string
}

// EmptyDatasetWarning is raised when the dataset has a valid header but no rows.
type EmptyDatasetWarning struct{}

func (EmptyDatasetWarning) Warning() string { return "dataset contains no merchant records" }

// UnmappedRegionWarning is raised for a region label that is not one of the
// configured regions. Such records count in totals but are left out of the
// regional and country aggregates.
type UnmappedRegionWarning struct {
	Region  string
	Records int
}

func (w UnmappedRegionWarning) Warning() string {
	return fmt.Sprintf("region %q is not a known region, %d records excluded from regional aggregates", w.Region, w.Records)
}
