package stattest

import (
	"math"

	"gocompare/domain/core"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTest runs the two-sided two-sample t-test without assuming equal
// variances. Each group needs at least two observations.
func WelchTTest(a, b []float64) (t, df, pValue float64, err error) {
	n1 := float64(len(a))
	n2 := float64(len(b))
	if n1 < 2 || n2 < 2 {
		return math.NaN(), math.NaN(), math.NaN(), core.ErrInsufficientData
	}

	mean1, var1 := stat.MeanVariance(a, nil)
	mean2, var2 := stat.MeanVariance(b, nil)

	se1 := var1 / n1
	se2 := var2 / n2
	se := math.Sqrt(se1 + se2)
	t = (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom
	df = (se1 + se2) * (se1 + se2) / (se1*se1/(n1-1) + se2*se2/(n2-1))
	if math.IsNaN(t) || math.IsNaN(df) {
		return t, df, math.NaN(), nil
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * dist.Survival(math.Abs(t))
	return t, df, clampProbability(pValue), nil
}
