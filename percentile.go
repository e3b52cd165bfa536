package heatmap

import (
	"math"
	"slices"
)

// percentileRanks returns, for each value, its fractional rank among the
// non-NaN values expressed as a percentage: tied values share the average of
// their ranks, and the rank is divided by the number of non-NaN values.
// NaN values get a NaN rank.
func percentileRanks(values []float64) []float64 {
	ranks := make([]float64, len(values))
	order := make([]int, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			ranks[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case values[a] < values[b]:
			return -1
		case values[a] > values[b]:
			return 1
		}
		return 0
	})

	n := float64(len(order))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && values[order[end]] == values[order[start]] {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		avg := float64(start+1+end) / 2
		for _, i := range order[start:end] {
			ranks[i] = avg / n * 100
		}
		start = end
	}
	return ranks
}
