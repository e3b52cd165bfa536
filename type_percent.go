package heatmap

import "fmt"

// Percent is a percentage value, 12.5 means 12.5%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// Short formats the percent with a single decimal, as displayed on cards.
func (p Percent) Short() string {
	return fmt.Sprintf("%.1f%%", float64(p))
}

// percentOf returns part/whole as a Percent, and 0 for an empty whole.
func percentOf(part, whole int) Percent {
	if whole == 0 {
		return 0
	}
	return Percent(float64(part) / float64(whole) * 100)
}
