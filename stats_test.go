package heatmap

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaymentBin(t *testing.T) {
	testCases := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{-3, 0},
		{5, 0},
		{5.01, 1},
		{10, 1},
		{12.5, 2},
		{95, 18},
		{99.9, 19},
		{100, 19},
		{1500, 19},
	}
	for _, tc := range testCases {
		if got := paymentBin(tc.v, 20); got != tc.want {
			t.Errorf("paymentBin(%v) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestPaymentHistogram(t *testing.T) {
	table := decode(t,
		"TXa,1,1,10,2.5,Asia-Pacific,0,1",
		"TXb,1,1,10,7,Asia-Pacific,0,1",
		"TXc,1,1,10,,Asia-Pacific,0,1",
		"TXd,1,1,10,250,Americas,0,1",
		"TXe,1,1,10,9.99,Americas,0,1",
	)
	bins := PaymentHistogram(table)
	if len(bins) != 20 {
		t.Fatalf("PaymentHistogram() returned %d bins, want 20", len(bins))
	}
	if b := bins[0]; b.Lower != 0 || b.Upper != 5 || b.Count != 1 {
		t.Errorf("bins[0] = %+v, want [0,5] with 1 merchant", b)
	}
	if b := bins[1]; b.Count != 2 || b.Label() != "$5-$10" {
		t.Errorf("bins[1] = %+v (%s), want 2 merchants labelled $5-$10", b, b.Label())
	}
	if b := bins[19]; b.Lower != 95 || b.Upper != 100 || b.Count != 1 {
		t.Errorf("bins[19] = %+v, want [95,100] with 1 merchant", b)
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 4 {
		t.Errorf("histogram counts %d merchants, want the 4 with a payment size", total)
	}
}

func TestActivityLevels(t *testing.T) {
	testCases := []struct {
		p    float64
		want string
	}{
		{0, ActivityLow},
		{25, ActivityLow},
		{25.01, ActivityMedium},
		{50, ActivityMedium},
		{75, ActivityHigh},
		{75.5, ActivityVeryHigh},
		{100, ActivityVeryHigh},
	}
	levels := []string{ActivityLow, ActivityMedium, ActivityHigh, ActivityVeryHigh}
	for _, tc := range testCases {
		if got := levels[activityBand(tc.p)]; got != tc.want {
			t.Errorf("activityBand(%v) = %s, want %s", tc.p, got, tc.want)
		}
	}

	// 8 distinct transaction counts, percentiles 12.5, 25, ... 100
	table := NewMerchantTable(merchants("Americas", 8))
	bands := ActivityLevels(table)
	if len(bands) != 4 {
		t.Fatalf("ActivityLevels() returned %d bands, want 4", len(bands))
	}
	for i, b := range bands {
		if b.Level != levels[i] || b.Count != 2 || !b.Percent.Equal(25) {
			t.Errorf("bands[%d] = %+v, want %s with 2 merchants and 25%%", i, b, levels[i])
		}
	}

	for _, b := range ActivityLevels(NewMerchantTable(nil)) {
		if b.Count != 0 || b.Percent != 0 {
			t.Errorf("empty table band = %+v, want zero", b)
		}
	}
}

func TestPeakHours(t *testing.T) {
	ref := reference(t)
	table := decode(t,
		"TXa,1,1,10,1,Asia-Pacific,3,1",
		"TXb,1,1,10,1,Asia-Pacific,3,1",
		"TXc,1,1,10,1,Asia-Pacific,14,1",
		"TXd,1,1,10,1,Asia-Pacific,31,1",
		"TXe,1,1,10,1,Americas,23,1",
		"TXf,1,1,10,1,Oceania,3,1",
	)
	dist := PeakHours(table, ref)
	if len(dist) != 3 {
		t.Fatalf("PeakHours() returned %d regions, want 3", len(dist))
	}

	ap := dist[0]
	if ap.Region != "Asia-Pacific" || ap.Color != "#00ff88" || len(ap.Hours) != 24 {
		t.Fatalf("PeakHours()[0] = %s %s with %d hours", ap.Region, ap.Color, len(ap.Hours))
	}
	// out of range hours count in the region total only
	if h := ap.Hours[3]; h.Hour != 3 || h.Count != 2 || !h.Percent.Equal(50) {
		t.Errorf("Asia-Pacific hour 3 = %+v, want 2 merchants and 50%%", h)
	}
	if h := ap.Hours[14]; h.Count != 1 || !h.Percent.Equal(25) {
		t.Errorf("Asia-Pacific hour 14 = %+v, want 1 merchant and 25%%", h)
	}

	for _, h := range dist[1].Hours {
		if h.Count != 0 || h.Percent != 0 {
			t.Errorf("Europe-Africa hour %d = %+v, want zero", h.Hour, h)
		}
	}
	if h := dist[2].Hours[23]; h.Count != 1 || !h.Percent.Equal(100) {
		t.Errorf("Americas hour 23 = %+v, want 1 merchant and 100%%", h)
	}
}

func TestEmergingShare(t *testing.T) {
	ref := reference(t)
	var records []Merchant
	records = append(records, merchants("Asia-Pacific", 3)...)
	records = append(records, merchants("Europe-Africa", 2)...)
	records = append(records, merchants("Americas", 4)...)
	records = append(records, merchants("Oceania", 1)...)

	if got := EmergingShare(NewMerchantTable(records), ref); !got.Equal(50) {
		t.Errorf("EmergingShare() = %v, want 50%%", got)
	}
	if got := EmergingShare(NewMerchantTable(nil), ref); got != 0 {
		t.Errorf("EmergingShare() of an empty table = %v, want 0", got)
	}
}

func TestTotalVolume(t *testing.T) {
	table := decode(t,
		"TXa,1,1,0.1,1,Asia-Pacific,3,1",
		"TXb,1,1,0.2,1,Asia-Pacific,3,1",
		"TXc,1,1,,1,Asia-Pacific,3,1",
		"TXd,1,1,1000,1,Americas,3,1",
	)
	got := TotalVolume(table)
	if want := decimal.RequireFromString("1000.3"); !got.Decimal().Equal(want) {
		t.Errorf("TotalVolume() = %s, want %s", got.Decimal(), want)
	}
	if got.String() != "1,000.30 ₮" {
		t.Errorf("TotalVolume().String() = %q, want %q", got.String(), "1,000.30 ₮")
	}
}
