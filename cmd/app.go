// Package cmd implements the tmh command line application, a terminal and
// web front end to the merchant heatmap dashboard.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// EnvDataset is the environment variable holding the default dataset path.
const EnvDataset = "TMH_CSV"

// DefaultDataset is the dataset path used when neither -csv nor $TMH_CSV is set.
const DefaultDataset = "output/identified_merchants.csv"

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(summary(), "dashboard")
	c.Register(regions(), "dashboard")
	c.Register(countries(), "dashboard")
	c.Register(hours(), "dashboard")
	c.Register(payments(), "dashboard")
	c.Register(activity(), "dashboard")
	c.Register(&queryCmd{}, "dashboard")

	c.Register(&exportCmd{}, "publishing")
	c.Register(&reportCmd{}, "publishing")
	c.Register(&serveCmd{}, "publishing")

	c.Register(&checkCmd{}, "maintenance")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var datasetFile = flag.String("csv", datasetDefault(), "Path to the merchant dataset (CSV). Defaults to $"+EnvDataset+" if set.")

// Verbose enables debug logging.
var Verbose = flag.Bool("v", false, "Verbose logging")

func datasetDefault() string {
	if p := os.Getenv(EnvDataset); p != "" {
		return p
	}
	return DefaultDataset
}

// newLogger returns the application logger: human readable at debug level in
// verbose mode, JSON at info level otherwise.
func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if *Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// logWarnings reports the dataset warnings to the log.
func logWarnings(logger *zap.Logger, warnings []heatmap.Warning) {
	for _, w := range warnings {
		switch w := w.(type) {
		case heatmap.UnmappedRegionWarning:
			logger.Warn("unmapped region", zap.String("region", w.Region), zap.Int("records", w.Records))
		default:
			logger.Warn(w.Warning())
		}
	}
}

// loadDashboard loads the dataset and computes its dashboard as of today.
func loadDashboard(logger *zap.Logger) (*heatmap.Dashboard, error) {
	ref, err := heatmap.DefaultReference()
	if err != nil {
		return nil, err
	}
	logger.Debug("loading dataset", zap.String("path", *datasetFile))
	table, err := heatmap.Load(*datasetFile)
	if err != nil {
		return nil, err
	}
	logWarnings(logger, table.Check(ref))
	logger.Debug("dataset loaded", zap.Int("records", table.Len()))
	return heatmap.NewDashboard(date.Today(), table, ref), nil
}

// describe returns a user friendly message for the dataset loading errors.
func describe(err error) string {
	var schema *heatmap.SchemaError
	switch {
	case errors.Is(err, heatmap.ErrDatasetNotFound):
		return fmt.Sprintf("%v\nRun the merchant analysis first, or point -csv (or $%s) to its output.", err, EnvDataset)
	case errors.As(err, &schema):
		return fmt.Sprintf("%v\nThe dataset must contain the columns: %v", err, heatmap.RequiredColumns)
	default:
		return err.Error()
	}
}
