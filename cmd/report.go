package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type reportCmd struct {
	outputDir string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generates the dashboard as a static web page" }
func (*reportCmd) Usage() string {
	return `tmh report [-o <dir>]

  Generates the dashboard as a standalone HTML page, index.html, with its
  charts as PNG images in the charts/ subdirectory, and the address export
  next to it.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "report", "Root directory for the generated report")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	d, err := loadDashboard(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dashboard: %s\n", describe(err))
		return subcommands.ExitFailure
	}
	if err := writeReport(c.outputDir, d, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Report written to %s\n", filepath.Join(c.outputDir, "index.html"))
	return subcommands.ExitSuccess
}

// writeReport writes the html page, its charts and the csv export of d into dir.
func writeReport(dir string, d *heatmap.Dashboard, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Join(dir, "charts"), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var figures []renderer.Figure
	for _, chart := range renderer.Charts {
		src := path.Join("charts", chart.Name+".png")
		w, err := os.Create(filepath.Join(dir, filepath.FromSlash(src)))
		if err != nil {
			return err
		}
		if err := chart.WritePNG(w, d); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		figures = append(figures, renderer.Figure{Title: chart.Title, Src: src})
		logger.Debug("chart written", zap.String("chart", chart.Name))
	}

	export := heatmap.ExportFileName(d.On, "csv")
	if err := exportFile(filepath.Join(dir, export), d.Table(), heatmap.ExportAddresses); err != nil {
		return err
	}

	w, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	if err := renderer.HTML(w, d, figures); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
