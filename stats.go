package heatmap

import (
	"fmt"
	"math"
)

// Payment size histogram layout.
const (
	PaymentBinWidth = 5
	PaymentMax      = 100
)

// PaymentBin counts the merchants whose average payment size falls in (Lower, Upper].
// The first bin also includes its lower bound.
type PaymentBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Label returns the bin as displayed on the chart axis, e.g. "$5-$10".
func (b PaymentBin) Label() string { return fmt.Sprintf("$%g-$%g", b.Lower, b.Upper) }

// PaymentHistogram buckets the average payment sizes in bins of width 5 over
// [0,100], ordered by lower bound. Values out of range are counted in the
// nearest boundary bin; missing values are not counted.
func PaymentHistogram(t *MerchantTable) []PaymentBin {
	const n = PaymentMax / PaymentBinWidth
	bins := make([]PaymentBin, n)
	for i := range bins {
		bins[i] = PaymentBin{Lower: float64(i * PaymentBinWidth), Upper: float64((i + 1) * PaymentBinWidth)}
	}
	for m := range t.Merchants() {
		if !m.AvgPaymentSize.Valid {
			continue
		}
		bins[paymentBin(m.AvgPaymentSize.Value, n)].Count++
	}
	return bins
}

// paymentBin returns the index of the right-closed bin holding v.
func paymentBin(v float64, n int) int {
	switch {
	case v <= PaymentBinWidth:
		return 0
	case v > PaymentMax:
		return n - 1
	}
	return min(int(math.Ceil(v/PaymentBinWidth))-1, n-1)
}

// Activity levels, by activity percentile.
const (
	ActivityLow      = "Low"
	ActivityMedium   = "Medium"
	ActivityHigh     = "High"
	ActivityVeryHigh = "Very High"
)

// ActivityBand counts the merchants of an activity level.
type ActivityBand struct {
	Level   string  `json:"level"`
	Count   int     `json:"count"`
	Percent Percent `json:"percent"` // share of classified merchants
}

// ActivityLevels classifies the merchants by activity percentile into
// Low [0,25], Medium (25,50], High (50,75] and Very High (75,100].
func ActivityLevels(t *MerchantTable) []ActivityBand {
	bands := []ActivityBand{{Level: ActivityLow}, {Level: ActivityMedium}, {Level: ActivityHigh}, {Level: ActivityVeryHigh}}
	total := 0
	for m := range t.Merchants() {
		if !m.ActivityPercentile.Valid {
			continue
		}
		bands[activityBand(m.ActivityPercentile.Value)].Count++
		total++
	}
	for i := range bands {
		bands[i].Percent = percentOf(bands[i].Count, total)
	}
	return bands
}

func activityBand(p float64) int {
	switch {
	case p <= 25:
		return 0
	case p <= 50:
		return 1
	case p <= 75:
		return 2
	default:
		return 3
	}
}

// HourShare is the number of a region's merchants peaking at a given UTC hour.
type HourShare struct {
	Hour    int     `json:"hour"`
	Count   int     `json:"count"`
	Percent Percent `json:"percent"` // share of the region's merchants
}

// RegionHours is the peak hour distribution of one region.
type RegionHours struct {
	Region string      `json:"region"`
	Color  string      `json:"color"`
	Hours  []HourShare `json:"hours"` // indexed by hour, 0 to 23
}

// PeakHours returns, for every configured region, how many of its merchants
// peak at each UTC hour. Percentages use the region's own record count.
func PeakHours(t *MerchantTable, ref *Reference) []RegionHours {
	var dist []RegionHours
	for _, reg := range ref.regions {
		hours := make([]HourShare, 24)
		for h := range hours {
			hours[h].Hour = h
		}
		total := 0
		for m := range t.Merchants() {
			if m.Region != reg.Name {
				continue
			}
			total++
			if m.PeakHourUTC >= 0 && m.PeakHourUTC < 24 {
				hours[m.PeakHourUTC].Count++
			}
		}
		for h := range hours {
			hours[h].Percent = percentOf(hours[h].Count, total)
		}
		dist = append(dist, RegionHours{Region: reg.Name, Color: reg.Color, Hours: hours})
	}
	return dist
}

// EmergingShare returns the share of all records located in an emerging region.
func EmergingShare(t *MerchantTable, ref *Reference) Percent {
	n := 0
	for m := range t.Merchants() {
		if ref.IsEmerging(m.Region) {
			n++
		}
	}
	return percentOf(n, t.Len())
}

// TotalVolume returns the USDT received by all merchants, missing values ignored.
func TotalVolume(t *MerchantTable) Amount {
	var total Amount
	for m := range t.Merchants() {
		if m.TotalReceived.Valid {
			total = total.Add(NewAmount(m.TotalReceived.Value))
		}
	}
	return total
}
