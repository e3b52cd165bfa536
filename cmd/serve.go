package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/heatmap"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type serveCmd struct {
	addr     string
	interval time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the live dashboard over http" }
func (*serveCmd) Usage() string {
	return `tmh serve [-addr <addr>] [-interval <duration>]

  Serves the dashboard of the dataset:

    /                  the dashboard page
    /api/dashboard     the dashboard as JSON
    /api/export        the address export (?format=csv|xlsx)
    /charts/<name>.png the dashboard charts
    /ws                a websocket receiving the dashboard each time the dataset changes
    /metrics           prometheus metrics

  The dataset is parsed again only when its file changes.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "Address to listen on")
	f.DurationVar(&c.interval, "interval", 5*time.Second, "How often the dataset file is checked for changes")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	ref, err := heatmap.DefaultReference()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	s := newServer(*datasetFile, ref, logger, prometheus.NewRegistry())
	srv := &http.Server{Addr: c.addr, Handler: s.routes()}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.refresh()
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refresh()
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("shutting down")
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
		s.closeAll()
	}()

	logger.Info("serving dashboard", zap.String("addr", c.addr), zap.String("dataset", *datasetFile))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	<-done
	return subcommands.ExitSuccess
}
