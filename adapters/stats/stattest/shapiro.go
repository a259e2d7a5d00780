package stattest

import (
	"math"
	"sort"

	"gocompare/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Polynomial coefficients from Royston (1995), algorithm AS R94.
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0.0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0.0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

const swSmall = 1e-19

// ShapiroWilk runs the Shapiro-Wilk W test for normality on x.
// NaN values must already be removed. It needs at least 3 observations
// and a non-zero range.
func ShapiroWilk(x []float64) (w, pValue float64, err error) {
	n := len(x)
	if n < 3 {
		return math.NaN(), math.NaN(), core.ErrInsufficientData
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	rng := sorted[n-1] - sorted[0]
	if rng < swSmall {
		return math.NaN(), math.NaN(), core.ErrZeroRange
	}

	a := shapiroCoefficients(n)

	// Scale by the range to keep the sums well conditioned.
	mean := 0.0
	for _, v := range sorted {
		mean += v / rng
	}
	mean /= float64(n)

	ssq := 0.0
	for _, v := range sorted {
		d := v/rng - mean
		ssq += d * d
	}

	num := 0.0
	for i := 0; i < n/2; i++ {
		num += a[i] * (sorted[n-1-i] - sorted[i]) / rng
	}

	w = num * num / ssq
	if w > 1 {
		w = 1
	}
	return w, shapiroPValue(w, n), nil
}

// shapiroCoefficients returns the first n/2 antisymmetric weights a_i.
func shapiroCoefficients(n int) []float64 {
	n2 := n / 2
	a := make([]float64, n2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	an25 := an + 0.25
	m := make([]float64, n2)
	summ2 := 0.0
	for i := 0; i < n2; i++ {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	a[0] = a1

	var first int
	var fac float64
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		first = 1
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	for i := first; i < n2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

// shapiroPValue maps W to a p-value with Royston's normalising transformation.
func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		const pi6 = 6 / math.Pi
		const stqr = math.Pi / 3
		p := pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return swSmall
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return distuv.UnitNormal.Survival((y - m) / s)
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}
