package stattest

import (
	"math"

	"gocompare/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OneWayANOVA tests whether k groups share the same mean.
func OneWayANOVA(groups [][]float64) (f, pValue float64, err error) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN(), core.ErrInsufficientData
	}

	total := 0
	grand := 0.0
	for _, g := range groups {
		if len(g) == 0 {
			return math.NaN(), math.NaN(), core.ErrInsufficientData
		}
		total += len(g)
		grand += floats.Sum(g)
	}
	if total <= k {
		return math.NaN(), math.NaN(), core.ErrInsufficientData
	}
	grand /= float64(total)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range groups {
		mean := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (mean - grand) * (mean - grand)
		for _, v := range g {
			ssWithin += (v - mean) * (v - mean)
		}
	}

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	f = (ssBetween / dfBetween) / (ssWithin / dfWithin)
	if math.IsNaN(f) {
		return f, math.NaN(), nil
	}
	if math.IsInf(f, 1) {
		return f, 0, nil
	}

	dist := distuv.F{D1: dfBetween, D2: dfWithin}
	return f, clampProbability(dist.Survival(f)), nil
}
