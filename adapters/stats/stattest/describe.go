package stattest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MeanStdDev returns the mean and the sample standard deviation (n-1).
// Empty input yields NaN for both.
func MeanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return x[0], math.NaN()
	}
	return stat.MeanStdDev(x, nil)
}

// Quantile returns the q-th quantile using linear interpolation between the
// closest ranks (the default of most dataframe libraries, Hyndman-Fan type 7).
func Quantile(x []float64, q float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	h := float64(n-1) * q
	lo := math.Floor(h)
	loIdx := int(lo)
	if loIdx >= n-1 {
		return sorted[n-1]
	}
	return sorted[loIdx] + (h-lo)*(sorted[loIdx+1]-sorted[loIdx])
}
