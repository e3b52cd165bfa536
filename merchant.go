package heatmap

import (
	"encoding/json"
	"iter"
	"math"
	"slices"

	"github.com/axiomhq/hyperloglog"
)

// NullFloat is a real value that may be missing from the dataset.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// orNaN returns the value, or NaN if it is missing.
func (n NullFloat) orNaN() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Merchant is one analysed wallet address with its aggregated transaction statistics.
type Merchant struct {
	Address          string    `json:"address"`
	TransactionCount int       `json:"transaction_count"`
	UniqueCustomers  int       `json:"unique_customers"`
	TotalReceived    NullFloat `json:"total_received_usdt"`
	AvgPaymentSize   NullFloat `json:"avg_payment_size"`
	Region           string    `json:"estimated_region"`
	PeakHourUTC      int       `json:"peak_hour_utc"`
	DaysActive       int       `json:"days_active"`

	// Derived when the table is built.
	ActivityPercentile NullFloat `json:"activity_percentile"`
	VolumePercentile   NullFloat `json:"volume_percentile"`
}

// MerchantTable is the enriched, immutable merchant dataset.
type MerchantTable struct {
	merchants []Merchant
	distinct  uint64
}

// NewMerchantTable builds the enriched table from raw records.
//
// The records are copied, then every merchant is given its activity and volume
// percentiles computed over the whole table. The input slice is not modified.
func NewMerchantTable(records []Merchant) *MerchantTable {
	merchants := slices.Clone(records)

	activity := make([]float64, len(merchants))
	volume := make([]float64, len(merchants))
	sketch := hyperloglog.New14()
	for i, m := range merchants {
		activity[i] = float64(m.TransactionCount)
		volume[i] = m.TotalReceived.orNaN()
		sketch.Insert([]byte(m.Address))
	}
	activity = percentileRanks(activity)
	volume = percentileRanks(volume)
	for i := range merchants {
		merchants[i].ActivityPercentile = nullIfNaN(activity[i])
		merchants[i].VolumePercentile = nullIfNaN(volume[i])
	}

	t := &MerchantTable{merchants: merchants}
	if len(merchants) > 0 {
		t.distinct = sketch.Estimate()
	}
	return t
}

func nullIfNaN(v float64) NullFloat {
	if math.IsNaN(v) {
		return NullFloat{}
	}
	return Float(v)
}

// Len returns the number of merchant records.
func (t *MerchantTable) Len() int { return len(t.merchants) }

// At returns the i-th merchant record.
func (t *MerchantTable) At(i int) Merchant { return t.merchants[i] }

// Merchants iterates over all the merchant records in file order.
func (t *MerchantTable) Merchants() iter.Seq[Merchant] {
	return func(yield func(Merchant) bool) {
		for _, m := range t.merchants {
			if !yield(m) {
				return
			}
		}
	}
}

// DistinctAddresses returns an estimate of the number of distinct addresses.
// Addresses are not required to be unique in the dataset.
func (t *MerchantTable) DistinctAddresses() uint64 { return t.distinct }

// RegionCounts returns the number of records per region label, including
// labels that are not configured regions.
func (t *MerchantTable) RegionCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range t.merchants {
		counts[m.Region]++
	}
	return counts
}

// Check returns the non fatal conditions of the table against the reference.
// Unmapped regions are reported in order of first appearance.
func (t *MerchantTable) Check(ref *Reference) []Warning {
	if len(t.merchants) == 0 {
		return []Warning{EmptyDatasetWarning{}}
	}
	var warnings []Warning
	unmapped := make(map[string]int)
	var order []string
	for _, m := range t.merchants {
		if _, known := ref.Region(m.Region); known {
			continue
		}
		if _, seen := unmapped[m.Region]; !seen {
			order = append(order, m.Region)
		}
		unmapped[m.Region]++
	}
	for _, region := range order {
		warnings = append(warnings, UnmappedRegionWarning{Region: region, Records: unmapped[region]})
	}
	return warnings
}
