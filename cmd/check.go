package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/heatmap"
	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check the dataset and the reference data" }
func (*checkCmd) Usage() string {
	return `tmh check

  Validates the reference data compiled into tmh, then loads the dataset and
  reports every problem found: missing columns, unreadable values, regions
  that are not configured, empty dataset.
  It exits with a failure status if the dashboard cannot be computed.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, ok := check(*datasetFile)
	printMarkdown(report)
	if !ok {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// check returns a markdown report on the reference data and the dataset at
// path, and whether a dashboard can be computed from them.
func check(path string) (string, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Check\n\n## Reference\n\n")

	ref, err := heatmap.DefaultReference()
	var cfg *heatmap.ConfigurationError
	switch {
	case errors.As(err, &cfg):
		for _, p := range cfg.Problems {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		return b.String(), false
	case err != nil:
		fmt.Fprintf(&b, "- %v\n", err)
		return b.String(), false
	}
	fmt.Fprintf(&b, "- %d countries in the adoption table\n", len(ref.Countries()))
	for _, reg := range ref.Regions() {
		fmt.Fprintf(&b, "- region %s: %d countries\n", reg.Name, len(reg.Countries))
	}
	fmt.Fprintf(&b, "- multiplier: %s\n", ref.Multiplier())

	fmt.Fprintf(&b, "\n## Dataset `%s`\n\n", path)
	table, err := heatmap.Load(path)
	var schema *heatmap.SchemaError
	switch {
	case errors.As(err, &schema):
		for _, col := range schema.Missing {
			fmt.Fprintf(&b, "- missing column `%s`\n", col)
		}
		return b.String(), false
	case err != nil:
		fmt.Fprintf(&b, "- %v\n", err)
		return b.String(), false
	}
	fmt.Fprintf(&b, "- %d records\n", table.Len())
	fmt.Fprintf(&b, "- about %d distinct addresses\n", table.DistinctAddresses())

	warnings := table.Check(ref)
	if len(warnings) == 0 {
		fmt.Fprintf(&b, "\nNo problem found.\n")
		return b.String(), true
	}
	fmt.Fprintf(&b, "\n## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %s\n", w.Warning())
	}
	return b.String(), true
}
