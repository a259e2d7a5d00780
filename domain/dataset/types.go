package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gocompare/domain/core"
)

// ColumnRole is the role a column plays in the difference analysis
type ColumnRole string

const (
	RoleQuantitative ColumnRole = "quantitative"
	RoleCategorical  ColumnRole = "categorical"
	// RoleGroupCandidate marks categorical columns with at least two distinct values.
	RoleGroupCandidate ColumnRole = "grouping-candidate"
)

// naTokens mirrors the default missing-value markers of common CSV tooling.
var naTokens = map[string]struct{}{
	"":         {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"null":     {},
	"NULL":     {},
	"None":     {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"<NA>":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
}

// IsNullCell reports whether a raw cell counts as a missing value.
func IsNullCell(cell string) bool {
	_, ok := naTokens[strings.TrimSpace(cell)]
	return ok
}

// Level is one distinct non-null value of a column.
type Level struct {
	Label string
	Count int
	value float64 // numeric columns only
}

// Column is a named column of raw cells.
type Column struct {
	Name  string
	Cells []string

	analysed bool
	numeric  bool
	integral bool
	hasNull  bool
	values   []float64
}

// NewColumn builds a column from raw cells.
func NewColumn(name string, cells []string) *Column {
	c := &Column{Name: name, Cells: cells}
	c.analyse()
	return c
}

func (c *Column) analyse() {
	if c.analysed {
		return
	}
	c.analysed = true
	c.numeric = true
	c.integral = true
	c.values = make([]float64, len(c.Cells))

	nonNull := 0
	for i, cell := range c.Cells {
		if IsNullCell(cell) {
			c.hasNull = true
			c.values[i] = math.NaN()
			continue
		}
		nonNull++
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) {
			c.numeric = false
			continue
		}
		c.values[i] = v
		// "1.0" reads as a float column even though the value is integral.
		if _, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64); err != nil {
			c.integral = false
		}
	}
	if nonNull == 0 {
		// An all-missing column reads as a float column of NaNs.
		c.integral = false
	}
	if !c.numeric {
		c.values = nil
	}
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Cells)
}

// IsNumeric reports whether every non-null cell parses as a number.
func (c *Column) IsNumeric() bool {
	c.analyse()
	return c.numeric
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	return IsNullCell(c.Cells[i])
}

// Floats returns the numeric values with NaN for missing cells.
func (c *Column) Floats() ([]float64, error) {
	c.analyse()
	if !c.numeric {
		for _, cell := range c.Cells {
			if IsNullCell(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
				return nil, core.NewNotNumericError(c.Name, cell)
			}
		}
		return nil, core.NewNotNumericError(c.Name, "")
	}
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out, nil
}

// NonNullFloats returns the numeric values with missing cells dropped.
func (c *Column) NonNullFloats() ([]float64, error) {
	values, err := c.Floats()
	if err != nil {
		return nil, err
	}
	out := values[:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// NonNullCount returns the number of non-missing cells.
func (c *Column) NonNullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !IsNullCell(cell) {
			n++
		}
	}
	return n
}

// Key returns the canonical label of row i, or "" when the cell is missing.
// Numeric cells that spell the same number share a key.
func (c *Column) Key(i int) string {
	if IsNullCell(c.Cells[i]) {
		return ""
	}
	c.analyse()
	if c.numeric {
		return c.numericLabel(c.values[i])
	}
	return c.Cells[i]
}

// numericLabel prints a value the way the dataframe library prints the column dtype:
// integer columns without gaps print as ints, everything else as floats.
func (c *Column) numericLabel(v float64) string {
	if c.integral && !c.hasNull {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return FormatPythonFloat(v)
}

// Levels returns the distinct non-null values sorted numerically for numeric
// columns and lexicographically otherwise.
func (c *Column) Levels() []Level {
	c.analyse()
	index := make(map[string]int)
	var levels []Level
	for i := range c.Cells {
		if c.IsNull(i) {
			continue
		}
		key := c.Key(i)
		if idx, ok := index[key]; ok {
			levels[idx].Count++
			continue
		}
		lvl := Level{Label: key, Count: 1}
		if c.numeric {
			lvl.value = c.values[i]
		}
		index[key] = len(levels)
		levels = append(levels, lvl)
	}

	if c.numeric {
		sort.Slice(levels, func(i, j int) bool { return levels[i].value < levels[j].value })
	} else {
		sort.Slice(levels, func(i, j int) bool { return levels[i].Label < levels[j].Label })
	}
	return levels
}

// DistinctCount returns the number of distinct non-null values.
func (c *Column) DistinctCount() int {
	return len(c.Levels())
}

// FormatPythonFloat renders a float the way Python's repr does for common values:
// shortest round-trip digits with a trailing ".0" for integral numbers.
func FormatPythonFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Python pads the exponent to two digits: 1e+16, 1e-05.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := exp[1:]
		if len(digits) < 2 {
			digits = "0" + digits
		}
		return mant + "e" + sign + digits
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Dataset is a rectangular table of named columns.
type Dataset struct {
	Name    string
	Columns []*Column
	rows    int
}

// New builds a dataset from columns of equal length.
func New(name string, columns []*Column) *Dataset {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	return &Dataset{Name: name, Columns: columns, rows: rows}
}

// FromRecords builds a dataset from a header row and row-major records.
// Short records are padded with missing cells.
func FromRecords(name string, header []string, records [][]string) *Dataset {
	names := UniqueHeaders(header)
	columns := make([]*Column, len(names))
	for j, colName := range names {
		cells := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = strings.TrimSpace(rec[j])
			}
		}
		columns[j] = NewColumn(colName, cells)
	}
	return New(name, columns)
}

// UniqueHeaders fills blank header names and de-duplicates repeated ones
// ("x", "x" becomes "x", "x.1").
func UniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool)
	suffix := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			base := name
			for {
				suffix[base]++
				candidate := base + "." + strconv.Itoa(suffix[base])
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnNames returns the column names in dataset order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column
func (d *Dataset) Column(name string) (*Column, error) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, core.NewColumnNotFoundError(name)
}

// Head returns the first n rows in row-major order.
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(d.Columns))
		for j, c := range d.Columns {
			row[j] = c.Cells[i]
		}
		rows[i] = row
	}
	return rows
}

// Records returns every row in row-major order.
func (d *Dataset) Records() [][]string {
	return d.Head(d.rows)
}
