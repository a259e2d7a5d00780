package stattest

import (
	"math"
	"sort"

	"gocompare/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ExactKSLimit is the largest sample size for which the Kolmogorov-Smirnov tests
// use the exact null distribution instead of the asymptotic one.
const ExactKSLimit = 10000

// KolmogorovSmirnovNormal compares x with the standard normal distribution N(0, 1).
// The sample is not standardised first.
func KolmogorovSmirnovNormal(x []float64) (d, pValue float64, err error) {
	n := len(x)
	if n == 0 {
		return math.NaN(), math.NaN(), core.ErrInsufficientData
	}
	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	nf := float64(n)
	for i, v := range sorted {
		cdf := distuv.UnitNormal.CDF(v)
		dPlus := float64(i+1)/nf - cdf
		dMinus := cdf - float64(i)/nf
		d = math.Max(d, math.Max(dPlus, dMinus))
	}
	return d, KolmogorovOneSampleSurvival(n, d), nil
}

// KolmogorovOneSampleSurvival returns P(D_n >= d) for the two-sided one-sample
// statistic. Samples up to ExactKSLimit use the finite-n distribution, larger
// ones the limiting distribution with Stephens' small-sample correction.
func KolmogorovOneSampleSurvival(n int, d float64) float64 {
	switch {
	case n <= 0 || math.IsNaN(d):
		return math.NaN()
	case d <= 0:
		return 1
	case d >= 1:
		return 0
	}
	if n > ExactKSLimit {
		sn := math.Sqrt(float64(n))
		return KolmogorovSurvival((sn + 0.12 + 0.11/sn) * d)
	}
	return clampProbability(1 - kolmogorovCDF(n, d))
}

// kolmogorovCDF returns P(D_n < d) with the Marsaglia-Tsang-Wang matrix method.
// Deep in the upper tail their closed-form approximation is used instead.
func kolmogorovCDF(n int, d float64) float64 {
	nf := float64(n)
	s := d * d * nf
	if s > 7.24 || (s > 3.76 && n > 99) {
		return 1 - 2*math.Exp(-(2.000071+0.331/math.Sqrt(nf)+1.409/nf)*s)
	}

	k := int(nf*d) + 1
	m := 2*k - 1
	h := float64(k) - nf*d

	H := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j <= i+1 && j < m; j++ {
			H.Set(i, j, 1)
		}
	}
	for i := 0; i < m; i++ {
		H.Set(i, 0, H.At(i, 0)-math.Pow(h, float64(i+1)))
		H.Set(m-1, i, H.At(m-1, i)-math.Pow(h, float64(m-i)))
	}
	if 2*h-1 > 0 {
		H.Set(m-1, 0, H.At(m-1, 0)+math.Pow(2*h-1, float64(m)))
	}
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			fact := 1.0
			for g := 2; g <= i-j+1; g++ {
				fact *= float64(g)
			}
			H.Set(i, j, H.At(i, j)/fact)
		}
	}

	Q, exp10 := scaledPower(H, n)
	p := Q.At(k-1, k-1)
	for i := 1; i <= n; i++ {
		p = p * float64(i) / nf
		if p < 1e-140 {
			p *= 1e140
			exp10 -= 140
		}
	}
	return p * math.Pow(10, float64(exp10))
}

// scaledPower returns A^n as a matrix and a power-of-ten exponent, rescaling
// intermediate products so they stay representable.
func scaledPower(a *mat.Dense, n int) (*mat.Dense, int) {
	if n == 1 {
		return mat.DenseCopyOf(a), 0
	}
	half, exp10 := scaledPower(a, n/2)
	var sq mat.Dense
	sq.Mul(half, half)
	exp10 *= 2

	result := &sq
	if n%2 == 1 {
		var odd mat.Dense
		odd.Mul(a, &sq)
		result = &odd
	}
	m, _ := result.Dims()
	if result.At(m/2, m/2) > 1e140 {
		result.Scale(1e-140, result)
		exp10 += 140
	}
	return result, exp10
}

// KolmogorovSmirnov2 runs the two-sided two-sample Kolmogorov-Smirnov test.
func KolmogorovSmirnov2(a, b []float64) (d, pValue float64, err error) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return math.NaN(), math.NaN(), core.ErrInsufficientData
	}
	x := make([]float64, n1)
	y := make([]float64, n2)
	copy(x, a)
	copy(y, b)
	sort.Float64s(x)
	sort.Float64s(y)

	i, j := 0, 0
	for i < n1 && j < n2 {
		v := math.Min(x[i], y[j])
		for i < n1 && x[i] <= v {
			i++
		}
		for j < n2 && y[j] <= v {
			j++
		}
		diff := math.Abs(float64(i)/float64(n1) - float64(j)/float64(n2))
		d = math.Max(d, diff)
	}

	if n1 <= ExactKSLimit && n2 <= ExactKSLimit {
		pValue = 1 - smirnovCDF(d, n1, n2)
	} else {
		en := math.Sqrt(float64(n1) * float64(n2) / float64(n1+n2))
		pValue = KolmogorovSurvival(en * d)
	}
	return d, clampProbability(pValue), nil
}

// smirnovCDF returns P(D < d) under H0 for sample sizes m and n by counting
// lattice paths that stay inside the band |i/m - j/n| < d.
func smirnovCDF(d float64, m, n int) float64 {
	if m > n {
		m, n = n, m
	}
	md := float64(m)
	nd := float64(n)
	q := (0.5 + math.Floor(d*md*nd-1e-7)) / (md * nd)

	u := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		if float64(j)/nd > q {
			u[j] = 0
		} else {
			u[j] = 1
		}
	}
	for i := 1; i <= m; i++ {
		w := float64(i) / float64(i+n)
		if float64(i)/md > q {
			u[0] = 0
		} else {
			u[0] = w * u[0]
		}
		for j := 1; j <= n; j++ {
			if math.Abs(float64(i)/md-float64(j)/nd) > q {
				u[j] = 0
			} else {
				u[j] = w*u[j] + u[j-1]
			}
		}
	}
	return u[n]
}

// KolmogorovSurvival returns P(K > x) for the limiting Kolmogorov distribution.
func KolmogorovSurvival(x float64) float64 {
	if x <= 0 {
		return 1
	}
	if x < 1.18 {
		// The alternating series converges slowly near zero; use the theta form of the CDF.
		t := -math.Pi * math.Pi / (8 * x * x)
		sum := 0.0
		for k := 1; k <= 20; k++ {
			odd := float64(2*k - 1)
			sum += math.Exp(odd * odd * t)
		}
		return clampProbability(1 - math.Sqrt(2*math.Pi)/x*sum)
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := math.Exp(-2 * float64(k*k) * x * x)
		sum += sign * term
		if term < 1e-16 {
			break
		}
		sign = -sign
	}
	return clampProbability(2 * sum)
}

func clampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Max(0, math.Min(1, p))
}
