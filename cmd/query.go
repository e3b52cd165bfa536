package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/heatmap"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression against the dashboard" }
func (*queryCmd) Usage() string {
	return `tmh query <jsonpath>

  Evaluates a JSONPath expression against the JSON form of the dashboard and
  prints the result as JSON. For instance:

    tmh query '$.headline.merchants_identified'
    tmh query '$.merchant_leaders[*].country'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: query requires exactly one JSONPath expression")
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()
	d, err := loadDashboard(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dashboard: %s\n", describe(err))
		return subcommands.ExitFailure
	}

	result, err := heatmap.Query(d, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
