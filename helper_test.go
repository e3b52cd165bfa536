package heatmap

import (
	"fmt"
	"strings"
	"testing"
)

// csvHeader is the header of a dataset with exactly the required columns.
const csvHeader = "address,transaction_count,unique_customers,total_received_usdt,avg_payment_size,estimated_region,peak_hour_utc,days_active"

// decode is a helper for test to decode a dataset made of csvHeader and rows.
func decode(t *testing.T, rows ...string) *MerchantTable {
	t.Helper()
	table, err := DecodeMerchants(strings.NewReader(csvHeader + "\n" + strings.Join(rows, "\n")))
	if err != nil {
		t.Fatalf("DecodeMerchants() unexpected error: %v", err)
	}
	return table
}

// reference is a helper for test returning the compiled in reference.
func reference(t *testing.T) *Reference {
	t.Helper()
	ref, err := DefaultReference()
	if err != nil {
		t.Fatalf("DefaultReference() unexpected error: %v", err)
	}
	return ref
}

// merchants is a helper for test to create n merchants in a region, with
// increasing transaction counts.
func merchants(region string, n int) []Merchant {
	var ms []Merchant
	for i := 0; i < n; i++ {
		ms = append(ms, Merchant{
			Address:          fmt.Sprintf("T%s%03d", strings.ReplaceAll(region, "-", ""), i),
			TransactionCount: 10 + i,
			UniqueCustomers:  5 + i,
			TotalReceived:    Float(100 + float64(i)),
			AvgPaymentSize:   Float(float64(5 * i)),
			Region:           region,
			PeakHourUTC:      i % 24,
			DaysActive:       7,
		})
	}
	return ms
}
