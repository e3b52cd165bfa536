package heatmap

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var referenceYAML []byte

// Country is an entry of the adoption reference table.
type Country struct {
	Name         string
	Rank         int             // global adoption rank, 1 is the highest
	AdoptionRate decimal.Decimal // percent of the population using crypto
}

// Region is one of the coarse geographic buckets assigned to merchants, with
// the countries its merchants are distributed to.
type Region struct {
	Name      string
	Color     string // display color, presentation only
	Countries []string
}

// Reference holds the static data the aggregates are computed against: the
// adoption table, the region partition, the emerging regions and the
// multiplier projecting the analysed sample to the whole network.
//
// A Reference is immutable, all accessors return copies.
type Reference struct {
	multiplier decimal.Decimal
	emerging   []string
	regions    []Region
	countries  []Country
	index      map[string]int // country name -> position in countries
}

var defaultReference = sync.OnceValues(func() (*Reference, error) {
	return ParseReference(referenceYAML)
})

// DefaultReference returns the reference data compiled into the program.
// It is decoded and validated once per process.
func DefaultReference() (*Reference, error) { return defaultReference() }

// ParseReference decodes and validates a YAML reference document.
// Any inconsistency is reported as a *ConfigurationError.
func ParseReference(data []byte) (*Reference, error) {
	type jregion struct {
		Name      string   `yaml:"name"`
		Color     string   `yaml:"color"`
		Countries []string `yaml:"countries"`
	}
	type jcountry struct {
		Country string  `yaml:"country"`
		Rank    int     `yaml:"rank"`
		Rate    float64 `yaml:"rate"`
	}
	var doc struct {
		Multiplier float64    `yaml:"multiplier"`
		Emerging   []string   `yaml:"emerging_regions"`
		Regions    []jregion  `yaml:"regions"`
		Adoption   []jcountry `yaml:"adoption"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{Problems: []string{fmt.Sprintf("cannot decode reference: %v", err)}}
	}

	ref := &Reference{
		multiplier: decimal.NewFromFloat(doc.Multiplier),
		emerging:   doc.Emerging,
		index:      make(map[string]int),
	}
	for _, c := range doc.Adoption {
		ref.countries = append(ref.countries, Country{Name: c.Country, Rank: c.Rank, AdoptionRate: decimal.NewFromFloat(c.Rate)})
	}
	for _, r := range doc.Regions {
		ref.regions = append(ref.regions, Region{Name: r.Name, Color: r.Color, Countries: r.Countries})
	}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

// validate checks the reference consistency and builds the country index.
func (r *Reference) validate() error {
	var problems []string
	if !r.multiplier.IsPositive() {
		problems = append(problems, fmt.Sprintf("multiplier must be positive, got %s", r.multiplier))
	}

	ranks := make(map[int]string)
	for i, c := range r.countries {
		if c.Name == "" {
			problems = append(problems, fmt.Sprintf("adoption entry #%d has no country name", i+1))
			continue
		}
		if _, exists := r.index[c.Name]; exists {
			problems = append(problems, fmt.Sprintf("country %q is listed twice in the adoption table", c.Name))
			continue
		}
		r.index[c.Name] = i
		if c.Rank < 1 || c.Rank > len(r.countries) {
			problems = append(problems, fmt.Sprintf("country %q has rank %d out of 1..%d", c.Name, c.Rank, len(r.countries)))
		} else if other, exists := ranks[c.Rank]; exists {
			problems = append(problems, fmt.Sprintf("countries %q and %q share rank %d", other, c.Name, c.Rank))
		} else {
			ranks[c.Rank] = c.Name
		}
		if c.AdoptionRate.IsNegative() {
			problems = append(problems, fmt.Sprintf("country %q has a negative adoption rate", c.Name))
		}
	}

	regions := make(map[string]bool)
	assigned := make(map[string]string)
	for _, reg := range r.regions {
		if regions[reg.Name] {
			problems = append(problems, fmt.Sprintf("region %q is defined twice", reg.Name))
			continue
		}
		regions[reg.Name] = true
		for _, name := range reg.Countries {
			if _, known := r.index[name]; !known {
				problems = append(problems, fmt.Sprintf("region %q lists %q which is not in the adoption table", reg.Name, name))
			}
			if other, exists := assigned[name]; exists {
				problems = append(problems, fmt.Sprintf("country %q belongs to both %q and %q", name, other, reg.Name))
				continue
			}
			assigned[name] = reg.Name
		}
	}
	for _, name := range r.emerging {
		if !regions[name] {
			problems = append(problems, fmt.Sprintf("emerging region %q is not a defined region", name))
		}
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// Multiplier returns the factor projecting the analysed sample to the network.
func (r *Reference) Multiplier() decimal.Decimal { return r.multiplier }

// Countries returns the adoption table in authored order.
func (r *Reference) Countries() []Country { return slices.Clone(r.countries) }

// Country returns the adoption entry of a country.
func (r *Reference) Country(name string) (Country, bool) {
	i, ok := r.index[name]
	if !ok {
		return Country{}, false
	}
	return r.countries[i], true
}

// Regions returns the region partition in authored order.
func (r *Reference) Regions() []Region {
	regions := make([]Region, len(r.regions))
	for i, reg := range r.regions {
		reg.Countries = slices.Clone(reg.Countries)
		regions[i] = reg
	}
	return regions
}

// Region returns the definition of a region by name.
func (r *Reference) Region(name string) (Region, bool) {
	for _, reg := range r.regions {
		if reg.Name == name {
			reg.Countries = slices.Clone(reg.Countries)
			return reg, true
		}
	}
	return Region{}, false
}

// IsEmerging reports whether the region counts as an emerging market.
func (r *Reference) IsEmerging(region string) bool { return slices.Contains(r.emerging, region) }

// EmergingRegions returns the names of the emerging regions.
func (r *Reference) EmergingRegions() []string { return slices.Clone(r.emerging) }

// scale applies the multiplier to a count, truncating the result.
func (r *Reference) scale(n int) int {
	return int(decimal.NewFromInt(int64(n)).Mul(r.multiplier).Floor().IntPart())
}
