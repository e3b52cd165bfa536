package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
)

const csvHeader = "address,transaction_count,unique_customers,total_received_usdt,avg_payment_size,estimated_region,peak_hour_utc,days_active"

// writeDataset is a helper for test to write a dataset made of rows in a temp dir.
func writeDataset(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merchants.csv")
	rewrite(t, path, rows...)
	return path
}

// rewrite is a helper for test to replace the content of a dataset.
func rewrite(t *testing.T, path string, rows ...string) {
	t.Helper()
	content := csvHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

var sampleRows = []string{
	"TXa,12,8,350.5,29.2,Asia-Pacific,3,7",
	"TXb,40,22,1200,30,Europe-Africa,11,6",
	"TXc,6,5,100,20,Americas,17,2",
	"TXd,6,5,,,Oceania,17,2",
}

// sampleDashboard is a helper for test returning the dashboard of sampleRows.
func sampleDashboard(t *testing.T) *heatmap.Dashboard {
	t.Helper()
	table, err := heatmap.Load(writeDataset(t, sampleRows...))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	ref, err := heatmap.DefaultReference()
	if err != nil {
		t.Fatal(err)
	}
	return heatmap.NewDashboard(date.New(2025, 6, 10), table, ref)
}
