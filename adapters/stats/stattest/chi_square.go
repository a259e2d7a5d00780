package stattest

import (
	"math"

	"gocompare/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareIndependence runs Pearson's chi-square test of independence on an
// r x c table of observed counts. Yates' continuity correction is applied when
// the table has one degree of freedom.
func ChiSquareIndependence(observed [][]float64) (chi2, pValue float64, dof int, err error) {
	rows := len(observed)
	if rows == 0 || len(observed[0]) == 0 {
		return math.NaN(), math.NaN(), 0, core.ErrInsufficientData
	}
	cols := len(observed[0])

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	total := 0.0
	for i, row := range observed {
		for j, v := range row {
			rowTotals[i] += v
			colTotals[j] += v
			total += v
		}
	}

	expected := make([][]float64, rows)
	for i := range expected {
		expected[i] = make([]float64, cols)
		for j := range expected[i] {
			e := rowTotals[i] * colTotals[j] / total
			if e == 0 || math.IsNaN(e) {
				return math.NaN(), math.NaN(), 0, core.ErrZeroExpected
			}
			expected[i][j] = e
		}
	}

	dof = (rows - 1) * (cols - 1)
	if dof == 0 {
		return 0, 1, 0, nil
	}

	for i := range observed {
		for j, o := range observed[i] {
			e := expected[i][j]
			if dof == 1 {
				diff := e - o
				step := math.Min(0.5, math.Abs(diff))
				if diff < 0 {
					step = -step
				}
				o += step
			}
			chi2 += (o - e) * (o - e) / e
		}
	}

	dist := distuv.ChiSquared{K: float64(dof)}
	return chi2, clampProbability(dist.Survival(chi2)), dof, nil
}
