package app

import (
	"fmt"
	"math"

	"gocompare/adapters/stats/stattest"
	"gocompare/domain/core"
	"gocompare/domain/dataset"
	"gocompare/domain/stats"
	"gocompare/domain/table"
	"gocompare/internal/errors"
)

// grouping indexes the rows of a dataset by the label of the grouping column
type grouping struct {
	labels []string
	// rows[i] holds the row indexes of group labels[i]
	rows [][]int
}

func newGrouping(col *dataset.Column) *grouping {
	levels := col.Levels()
	g := &grouping{labels: make([]string, len(levels)), rows: make([][]int, len(levels))}
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		g.labels[i] = l.Label
		index[l.Label] = i
	}
	for row := 0; row < col.Len(); row++ {
		if col.IsNull(row) {
			continue
		}
		gi := index[col.Key(row)]
		g.rows[gi] = append(g.rows[gi], row)
	}
	return g
}

// BuildTable builds the three-line table for a validated grouping column.
func (s *AnalysisService) BuildTable(ds *dataset.Dataset, prep *Preparation, group string) (*table.Table, error) {
	groupCol, err := ds.Column(group)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	g := newGrouping(groupCol)
	tbl := &table.Table{Groups: g.labels}

	for _, name := range prep.Quantitative {
		if name == group {
			continue
		}
		normality, ok := prep.NormalityFor(name)
		if !ok {
			return nil, errors.InternalError(fmt.Sprintf("no normality result for %s", name))
		}
		col, _ := ds.Column(name)
		row, err := quantitativeRow(col, g, normality.IsNormal())
		if err != nil {
			return nil, err
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	for _, name := range prep.Categorical {
		if name == group {
			continue
		}
		col, _ := ds.Column(name)
		rows, err := categoricalRows(col, g)
		if err != nil {
			return nil, err
		}
		tbl.Rows = append(tbl.Rows, rows...)
	}
	return tbl, nil
}

// groupValues returns the non-null values of col within each group.
func groupValues(col *dataset.Column, g *grouping) ([][]float64, error) {
	values, err := col.Floats()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	out := make([][]float64, len(g.rows))
	for gi, rows := range g.rows {
		for _, r := range rows {
			if !math.IsNaN(values[r]) {
				out[gi] = append(out[gi], values[r])
			}
		}
	}
	return out, nil
}

func quantitativeRow(col *dataset.Column, g *grouping, normal bool) (table.Row, error) {
	samples, err := groupValues(col, g)
	if err != nil {
		return table.Row{}, err
	}

	row := table.Row{Variable: col.Name, Kind: table.KindQuantitative, Cells: make([]string, len(samples))}
	for i, x := range samples {
		row.Cells[i] = describe(x, normal)
	}

	method := stats.SelectGroupTest(len(samples), normal)
	var p float64
	switch method {
	case stats.TestTTest:
		_, _, p, err = stattest.WelchTTest(samples[0], samples[1])
	case stats.TestKolmogorovSmirnov:
		_, p, err = stattest.KolmogorovSmirnov2(samples[0], samples[1])
	case stats.TestANOVA:
		_, p, err = stattest.OneWayANOVA(samples)
	case stats.TestKruskalWallis:
		_, p, err = stattest.KruskalWallis(samples)
	}
	if err != nil {
		return table.Row{}, errors.AnalysisFailed(core.NewTestError(method.String(), col.Name, err))
	}
	row.PValue = table.FormatPValue(p)
	row.Method = method.String()
	return row, nil
}

// describe summarises one group: mean ± sd for normal columns, (Q1, Q3) otherwise.
func describe(x []float64, normal bool) string {
	if normal {
		mean, sd := stattest.MeanStdDev(x)
		return table.FormatFixed(mean, 2) + " ± " + table.FormatFixed(sd, 2)
	}
	q1 := stattest.Quantile(x, 0.25)
	q3 := stattest.Quantile(x, 0.75)
	return "(" + table.FormatFixed(q1, 2) + ", " + table.FormatFixed(q3, 2) + ")"
}

func categoricalRows(col *dataset.Column, g *grouping) ([]table.Row, error) {
	levels := col.Levels()
	levelIndex := make(map[string]int, len(levels))
	for i, l := range levels {
		levelIndex[l.Label] = i
	}

	// counts[group][level]; totals[group] counts the non-null cells of col
	counts := make([][]float64, len(g.rows))
	totals := make([]int, len(g.rows))
	for gi, rows := range g.rows {
		counts[gi] = make([]float64, len(levels))
		for _, r := range rows {
			if col.IsNull(r) {
				continue
			}
			counts[gi][levelIndex[col.Key(r)]]++
			totals[gi]++
		}
	}

	total := table.Row{
		Variable: col.Name + " (Total)",
		Kind:     table.KindCategoryTotal,
		Cells:    make([]string, len(g.rows)),
		Method:   stats.TestChiSquare.String(),
	}
	for gi := range g.rows {
		total.Cells[gi] = fmt.Sprintf("%d (100.0%%)", totals[gi])
	}

	_, p, _, err := stattest.ChiSquareIndependence(crosstab(counts))
	if err != nil {
		return nil, errors.AnalysisFailed(core.NewTestError(stats.TestChiSquare.String(), col.Name, err))
	}
	total.PValue = table.FormatPValue(p)

	rows := make([]table.Row, 0, len(levels)+1)
	rows = append(rows, total)
	for li, level := range levels {
		row := table.Row{
			Variable: col.Name + " = " + level.Label,
			Kind:     table.KindCategoryLevel,
			Cells:    make([]string, len(g.rows)),
		}
		for gi, groupRows := range g.rows {
			count := int(counts[gi][li])
			pct := 0.0
			if len(groupRows) > 0 {
				pct = float64(count) / float64(len(groupRows)) * 100
			}
			row.Cells[gi] = fmt.Sprintf("%d (%.2f%%)", count, pct)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// crosstab drops the all-zero rows and columns of a count matrix, leaving only the
// group and category combinations that were observed.
func crosstab(counts [][]float64) [][]float64 {
	if len(counts) == 0 {
		return nil
	}
	keepCol := make([]bool, len(counts[0]))
	for _, row := range counts {
		for j, v := range row {
			if v > 0 {
				keepCol[j] = true
			}
		}
	}

	var out [][]float64
	for _, row := range counts {
		var kept []float64
		nonZero := false
		for j, v := range row {
			if !keepCol[j] {
				continue
			}
			kept = append(kept, v)
			if v > 0 {
				nonZero = true
			}
		}
		if nonZero {
			out = append(out, kept)
		}
	}
	return out
}
