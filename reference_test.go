package heatmap

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultReference(t *testing.T) {
	ref := reference(t)
	if got := ref.Multiplier().String(); got != "2.5" {
		t.Errorf("Multiplier() = %s, want 2.5", got)
	}
	if n := len(ref.Countries()); n != 40 {
		t.Errorf("Countries() has %d entries, want 40", n)
	}

	var names []string
	total := 0
	for _, reg := range ref.Regions() {
		names = append(names, reg.Name)
		total += len(reg.Countries)
	}
	if got := strings.Join(names, ","); got != "Asia-Pacific,Europe-Africa,Americas" {
		t.Errorf("Regions() = %s", got)
	}
	if total != 36 {
		t.Errorf("regions list %d countries, want 36", total)
	}

	if !ref.IsEmerging("Asia-Pacific") || !ref.IsEmerging("Europe-Africa") || ref.IsEmerging("Americas") {
		t.Errorf("EmergingRegions() = %v", ref.EmergingRegions())
	}

	c, ok := ref.Country("Nigeria")
	if !ok || c.Rank != 2 || c.AdoptionRate.String() != "22" {
		t.Errorf("Country(Nigeria) = %+v, %v", c, ok)
	}
	if _, ok := ref.Country("Atlantis"); ok {
		t.Error("Country(Atlantis) should not exist")
	}
}

func TestReferenceIsImmutable(t *testing.T) {
	ref := reference(t)
	reg, _ := ref.Region("Americas")
	reg.Countries[0] = "Atlantis"
	ref.Regions()[0].Countries[0] = "Atlantis"
	ref.Countries()[0].Name = "Atlantis"

	if reg, _ := ref.Region("Americas"); reg.Countries[0] != "United States" {
		t.Errorf("Region() exposes internal state, got %v", reg.Countries)
	}
	if reg := ref.Regions()[0]; reg.Countries[0] != "India" {
		t.Errorf("Regions() exposes internal state, got %v", reg.Countries)
	}
	if c := ref.Countries()[0]; c.Name != "India" {
		t.Errorf("Countries() exposes internal state, got %v", c.Name)
	}
}

func TestParseReferenceErrors(t *testing.T) {
	testCases := []struct {
		name    string
		doc     string
		problem string
	}{
		{
			name: "region country not in adoption table",
			doc: `
multiplier: 2.5
regions:
  - {name: East, countries: [A, Atlantis]}
adoption:
  - {country: A, rank: 1, rate: 5}
`,
			problem: `region "East" lists "Atlantis" which is not in the adoption table`,
		},
		{
			name: "country in two regions",
			doc: `
multiplier: 2.5
regions:
  - {name: East, countries: [A]}
  - {name: West, countries: [A]}
adoption:
  - {country: A, rank: 1, rate: 5}
`,
			problem: `country "A" belongs to both "East" and "West"`,
		},
		{
			name: "shared rank",
			doc: `
multiplier: 2.5
adoption:
  - {country: A, rank: 1, rate: 5}
  - {country: B, rank: 1, rate: 5}
`,
			problem: `countries "A" and "B" share rank 1`,
		},
		{
			name: "rank out of range",
			doc: `
multiplier: 2.5
adoption:
  - {country: A, rank: 3, rate: 5}
`,
			problem: `country "A" has rank 3 out of 1..1`,
		},
		{
			name: "negative rate",
			doc: `
multiplier: 2.5
adoption:
  - {country: A, rank: 1, rate: -1}
`,
			problem: `country "A" has a negative adoption rate`,
		},
		{
			name: "duplicate country",
			doc: `
multiplier: 2.5
adoption:
  - {country: A, rank: 1, rate: 1}
  - {country: A, rank: 2, rate: 1}
`,
			problem: `country "A" is listed twice in the adoption table`,
		},
		{
			name: "missing multiplier",
			doc: `
adoption:
  - {country: A, rank: 1, rate: 1}
`,
			problem: "multiplier must be positive, got 0",
		},
		{
			name: "unknown emerging region",
			doc: `
multiplier: 1
emerging_regions: [Mars]
`,
			problem: `emerging region "Mars" is not a defined region`,
		},
		{
			name:    "not yaml",
			doc:     "multiplier: [",
			problem: "cannot decode reference",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReference([]byte(tc.doc))
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("ParseReference() error = %v, want a *ConfigurationError", err)
			}
			found := false
			for _, p := range cfgErr.Problems {
				if strings.HasPrefix(p, tc.problem) {
					found = true
				}
			}
			if !found {
				t.Errorf("ParseReference() problems = %q, want %q", cfgErr.Problems, tc.problem)
			}
		})
	}
}

func TestScale(t *testing.T) {
	ref := reference(t)
	for n, want := range map[int]int{0: 0, 1: 2, 2: 5, 3: 7, 1999: 4997} {
		if got := ref.scale(n); got != want {
			t.Errorf("scale(%d) = %d, want %d", n, got, want)
		}
	}
}
