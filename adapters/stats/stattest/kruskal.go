package stattest

import (
	"math"
	"sort"

	"gocompare/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// KruskalWallis runs the Kruskal-Wallis H test with the tie correction.
func KruskalWallis(groups [][]float64) (h, pValue float64, err error) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN(), core.ErrInsufficientData
	}

	type obs struct {
		value float64
		group int
	}
	var all []obs
	for gi, g := range groups {
		if len(g) == 0 {
			return math.NaN(), math.NaN(), core.ErrInsufficientData
		}
		for _, v := range g {
			all = append(all, obs{value: v, group: gi})
		}
	}
	n := len(all)
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	rankSums := make([]float64, k)
	tieSum := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && all[j].value == all[i].value {
			j++
		}
		// Tied block [i, j) shares the average of ranks i+1 .. j.
		avgRank := float64(i+1+j) / 2
		for t := i; t < j; t++ {
			rankSums[all[t].group] += avgRank
		}
		ties := float64(j - i)
		tieSum += ties*ties*ties - ties
		i = j
	}

	nf := float64(n)
	correction := 1 - tieSum/(nf*nf*nf-nf)
	if correction == 0 {
		return math.NaN(), math.NaN(), core.ErrIdenticalValues
	}

	h = 0
	for gi, g := range groups {
		h += rankSums[gi] * rankSums[gi] / float64(len(g))
	}
	h = 12/(nf*(nf+1))*h - 3*(nf+1)
	h /= correction

	dist := distuv.ChiSquared{K: float64(k - 1)}
	return h, clampProbability(dist.Survival(h)), nil
}
