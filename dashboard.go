package heatmap

import (
	"github.com/etnz/heatmap/date"
)

// Number of countries in the ranking lists.
const RankingSize = 10

// Headline holds the key metrics shown on top of the dashboard.
type Headline struct {
	Records             int     `json:"records"`
	DistinctAddresses   uint64  `json:"distinct_addresses"` // estimate
	MerchantsIdentified int     `json:"merchants_identified"`
	TotalVolume         Amount  `json:"total_volume_usdt"`
	EmergingShare       Percent `json:"emerging_share"`
}

// Dashboard bundles every aggregate computed from a merchant table. It is the
// read-only structure handed over to the renderers.
type Dashboard struct {
	On              date.Date       `json:"date"`
	Headline        Headline        `json:"headline"`
	Regions         []RegionSummary `json:"regions"`
	Countries       []CountryEntry  `json:"countries"`
	TopAdoption     []CountryEntry  `json:"top_adoption"`
	MerchantLeaders []CountryEntry  `json:"merchant_leaders"`
	PeakHours       []RegionHours   `json:"peak_hours"`
	PaymentSizes    []PaymentBin    `json:"payment_sizes"`
	ActivityLevels  []ActivityBand  `json:"activity_levels"`
	Warnings        []string        `json:"warnings,omitempty"`

	table *MerchantTable
}

// NewDashboard computes all the aggregates of t against ref.
// Scaled values (merchants identified, total volume) use the reference multiplier.
func NewDashboard(on date.Date, t *MerchantTable, ref *Reference) *Dashboard {
	countries := Distribute(t.RegionCounts(), ref)
	d := &Dashboard{
		On: on,
		Headline: Headline{
			Records:             t.Len(),
			DistinctAddresses:   t.DistinctAddresses(),
			MerchantsIdentified: ref.scale(t.Len()),
			TotalVolume:         TotalVolume(t).Mul(ref.Multiplier()),
			EmergingShare:       EmergingShare(t, ref),
		},
		Regions:         SummarizeRegions(t, ref),
		Countries:       countries,
		TopAdoption:     TopAdoption(countries, RankingSize),
		MerchantLeaders: MerchantLeaders(countries, RankingSize),
		PeakHours:       PeakHours(t, ref),
		PaymentSizes:    PaymentHistogram(t),
		ActivityLevels:  ActivityLevels(t),
		table:           t,
	}
	for _, w := range t.Check(ref) {
		d.Warnings = append(d.Warnings, w.Warning())
	}
	return d
}

// Table returns the enriched merchant table the dashboard was computed from.
func (d *Dashboard) Table() *MerchantTable { return d.table }
