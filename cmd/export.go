package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the merchant addresses and regions" }
func (*exportCmd) Usage() string {
	return `tmh export [-o <file>] [-format csv|xlsx]

  Writes the address and region of every merchant, one row per record.
  The file defaults to tron_merchant_addresses_YYYYMMDD.<format> in the
  current directory. Use -o - to write to the standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, defaults to the dated export file name")
	f.StringVar(&c.format, "format", "csv", "Export format: csv or xlsx")
}

// exporter returns the export function of a format.
func exporter(format string) (func(io.Writer, *heatmap.MerchantTable) error, error) {
	switch format {
	case "csv":
		return heatmap.ExportAddresses, nil
	case "xlsx":
		return heatmap.ExportAddressesXLSX, nil
	default:
		return nil, fmt.Errorf("unknown export format %q, want csv or xlsx", format)
	}
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	export, err := exporter(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()
	d, err := loadDashboard(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dashboard: %s\n", describe(err))
		return subcommands.ExitFailure
	}

	if c.output == "-" {
		if err := export(os.Stdout, d.Table()); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting addresses: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	filename := c.output
	if filename == "" {
		filename = heatmap.ExportFileName(date.Today(), c.format)
	}
	if err := exportFile(filename, d.Table(), export); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting addresses: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully exported %d addresses to %s\n", d.Table().Len(), filename)
	return subcommands.ExitSuccess
}

func exportFile(filename string, t *heatmap.MerchantTable, export func(io.Writer, *heatmap.MerchantTable) error) error {
	w, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := export(w, t); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
