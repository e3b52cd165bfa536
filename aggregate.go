package heatmap

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// RegionSummary is the merchant count of a configured region.
type RegionSummary struct {
	Region  string  `json:"region"`
	Color   string  `json:"color"`
	Count   int     `json:"count"`
	Percent Percent `json:"percent"` // share of all records, unmapped included
	Scaled  int     `json:"scaled"`  // network-wide estimate
}

// SummarizeRegions returns, for every configured region in configured order,
// its record count, its share of the whole table and the scaled estimate.
func SummarizeRegions(t *MerchantTable, ref *Reference) []RegionSummary {
	counts := t.RegionCounts()
	var summaries []RegionSummary
	for _, reg := range ref.regions {
		n := counts[reg.Name]
		summaries = append(summaries, RegionSummary{
			Region:  reg.Name,
			Color:   reg.Color,
			Count:   n,
			Percent: percentOf(n, t.Len()),
			Scaled:  ref.scale(n),
		})
	}
	return summaries
}

// CountryEntry is the estimated merchant presence in one reference country.
type CountryEntry struct {
	Country      string  `json:"country"`
	Region       string  `json:"region,omitempty"` // empty for reference-only countries
	AdoptionRate Percent `json:"adoption_rate"`
	GlobalRank   int     `json:"global_rank"`
	HasMerchants bool    `json:"has_merchants"`
	// RawMerchantCount is the share of the region's records attributed to the country.
	RawMerchantCount int `json:"raw_merchant_count"`
	// ScaledMerchantCount is RawMerchantCount projected to the whole network.
	ScaledMerchantCount int `json:"scaled_merchant_count"`
}

// Distribute attributes the records of each region to the region's countries
// weighted by adoption rate, and returns one entry per reference country in
// reference order.
//
// For a country c of region R:
//
//	raw(c)    = floor(count(R) * rate(c) / sum(rate over R))
//	scaled(c) = floor(raw(c) * multiplier)
//
// Both truncations are applied, so the raw counts of a region may sum to less
// than the region count, never more. regionCounts labels that are not
// configured regions are ignored.
func Distribute(regionCounts map[string]int, ref *Reference) []CountryEntry {
	raw := make(map[string]int)
	regionOf := make(map[string]string)
	for _, reg := range ref.regions {
		for country, n := range distributeRegion(regionCounts[reg.Name], reg.Countries, ref) {
			raw[country] = n
		}
		for _, country := range reg.Countries {
			regionOf[country] = reg.Name
		}
	}

	entries := make([]CountryEntry, 0, len(ref.countries))
	for _, c := range ref.countries {
		n := raw[c.Name]
		entries = append(entries, CountryEntry{
			Country:             c.Name,
			Region:              regionOf[c.Name],
			AdoptionRate:        Percent(c.AdoptionRate.InexactFloat64()),
			GlobalRank:          c.Rank,
			HasMerchants:        n > 0,
			RawMerchantCount:    n,
			ScaledMerchantCount: ref.scale(n),
		})
	}
	return entries
}

// distributeRegion splits count among countries proportionally to their
// adoption rate. Countries without a known rate get nothing, and so does
// every country when the rates sum to zero.
func distributeRegion(count int, countries []string, ref *Reference) map[string]int {
	shares := make(map[string]int, len(countries))
	rates := make(map[string]decimal.Decimal, len(countries))
	total := decimal.Zero
	for _, name := range countries {
		shares[name] = 0
		c, ok := ref.Country(name)
		if !ok {
			continue
		}
		rates[name] = c.AdoptionRate
		total = total.Add(c.AdoptionRate)
	}
	if count == 0 || !total.IsPositive() {
		return shares
	}

	n := decimal.NewFromInt(int64(count))
	for name, rate := range rates {
		// multiply first so that exact ratios do not lose a unit to rounding
		shares[name] = int(n.Mul(rate).Div(total).Floor().IntPart())
	}
	return shares
}

// TopAdoption returns the n countries with the highest adoption rate, ties
// broken by global rank. Reference-only countries are included.
func TopAdoption(entries []CountryEntry, n int) []CountryEntry {
	top := slices.Clone(entries)
	slices.SortStableFunc(top, func(a, b CountryEntry) int {
		if c := cmp.Compare(b.AdoptionRate, a.AdoptionRate); c != 0 {
			return c
		}
		return cmp.Compare(a.GlobalRank, b.GlobalRank)
	})
	return top[:min(n, len(top))]
}

// MerchantLeaders returns the n countries with merchants having the highest
// scaled merchant count, ties broken by global rank.
func MerchantLeaders(entries []CountryEntry, n int) []CountryEntry {
	var leaders []CountryEntry
	for _, e := range entries {
		if e.HasMerchants {
			leaders = append(leaders, e)
		}
	}
	slices.SortStableFunc(leaders, func(a, b CountryEntry) int {
		if c := cmp.Compare(b.ScaledMerchantCount, a.ScaledMerchantCount); c != 0 {
			return c
		}
		return cmp.Compare(a.GlobalRank, b.GlobalRank)
	})
	return leaders[:min(n, len(leaders))]
}
