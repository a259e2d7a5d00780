package dataset

import (
	"math"
	"testing"

	"gocompare/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(levels []Level) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = l.Label
	}
	return out
}

func TestNumericLevelsSortNumerically(t *testing.T) {
	col := NewColumn("Education", []string{"3", "10", "2", "3", "1"})
	require.True(t, col.IsNumeric())

	levels := col.Levels()
	assert.Equal(t, []string{"1", "2", "3", "10"}, labels(levels))
	assert.Equal(t, 2, levels[2].Count)
	assert.Equal(t, 4, col.DistinctCount())
}

func TestIntegralColumnWithNullsUsesFloatLabels(t *testing.T) {
	col := NewColumn("Gender", []string{"0", "1", "", "1"})
	assert.Equal(t, []string{"0.0", "1.0"}, labels(col.Levels()))
	assert.Equal(t, "", col.Key(2))
	assert.Equal(t, "1.0", col.Key(3))
}

func TestDecimalSpellingMakesFloatColumn(t *testing.T) {
	col := NewColumn("Dose", []string{"1.0", "2", "2.00"})
	assert.Equal(t, []string{"1.0", "2.0"}, labels(col.Levels()))
	assert.Equal(t, 2, col.Levels()[1].Count, "2 and 2.00 are the same value")
}

func TestTextLevelsSortLexicographically(t *testing.T) {
	col := NewColumn("Arm", []string{"placebo", "drug", "NA", "drug", "Control"})
	assert.False(t, col.IsNumeric())
	assert.Equal(t, []string{"Control", "drug", "placebo"}, labels(col.Levels()))
	assert.Equal(t, 4, col.NonNullCount())
}

func TestNullTokens(t *testing.T) {
	for _, cell := range []string{"", " ", "NA", "N/A", "nan", "NaN", "NULL", "None", "#N/A", "<NA>"} {
		assert.True(t, IsNullCell(cell), "cell %q", cell)
	}
	for _, cell := range []string{"0", "na", "none", "-", "missing"} {
		assert.False(t, IsNullCell(cell), "cell %q", cell)
	}
}

func TestFloats(t *testing.T) {
	col := NewColumn("Weight", []string{"60.5", "", "71"})
	values, err := col.Floats()
	require.NoError(t, err)
	assert.Equal(t, 60.5, values[0])
	assert.True(t, math.IsNaN(values[1]))

	nonNull, err := col.NonNullFloats()
	require.NoError(t, err)
	assert.Equal(t, []float64{60.5, 71}, nonNull)

	text := NewColumn("Arm", []string{"1", "drug"})
	_, err = text.Floats()
	assert.ErrorIs(t, err, core.ErrNotNumeric)
	assert.Contains(t, err.Error(), "drug")
}

func TestFormatPythonFloat(t *testing.T) {
	cases := map[float64]string{
		1:       "1.0",
		-2:      "-2.0",
		0.5:     "0.5",
		170.25:  "170.25",
		1e16:    "1e+16",
		0.00001: "1e-05",
		0.0001:  "0.0001",
		0:       "0.0",
	}
	for v, want := range cases {
		assert.Equal(t, want, FormatPythonFloat(v))
	}
	assert.Equal(t, "nan", FormatPythonFloat(math.NaN()))
	assert.Equal(t, "-inf", FormatPythonFloat(math.Inf(-1)))
}

func TestUniqueHeaders(t *testing.T) {
	got := UniqueHeaders([]string{"x", "x", " ", "y", "x", "x.1"})
	assert.Equal(t, []string{"x", "x.1", "Unnamed: 2", "y", "x.2", "x.1.1"}, got)
}

func TestFromRecords(t *testing.T) {
	ds := FromRecords("trial.csv", []string{"id", "arm", "score"}, [][]string{
		{"1", " drug ", "3.5"},
		{"2", "placebo"},
	})

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"id", "arm", "score"}, ds.ColumnNames())
	assert.Equal(t, [][]string{{"1", "drug", "3.5"}, {"2", "placebo", ""}}, ds.Records())
	assert.Equal(t, [][]string{{"1", "drug", "3.5"}}, ds.Head(1))

	col, err := ds.Column("score")
	require.NoError(t, err)
	assert.Equal(t, 1, col.NonNullCount())

	_, err = ds.Column("missing")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
}
