package forecast

import (
	"math"
	"sort"
)

// Trim returns a sorted copy of sample without int(fraction × n) values from each end
func Trim(sample []float64, fraction float64) []float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	if fraction <= 0 {
		return sorted
	}

	cut := int(fraction * float64(len(sorted)))
	if 2*cut >= len(sorted) {
		return []float64{}
	}
	return sorted[cut : len(sorted)-cut]
}

// FitNormal returns the maximum-likelihood normal parameters:
// sample mean and population standard deviation
func FitNormal(sample []float64) (mu, sigma float64) {
	n := len(sample)
	if n == 0 {
		return 0, 0
	}

	for _, v := range sample {
		mu += v
	}
	mu /= float64(n)

	var ss float64
	for _, v := range sample {
		d := v - mu
		ss += d * d
	}
	sigma = math.Sqrt(ss / float64(n))

	return mu, sigma
}
