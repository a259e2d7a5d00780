package table

import (
	"math"
	"strconv"
	"strings"

	"gocompare/domain/stats"
)

// Fixed header cells of the result table. "p-vaule" keeps the spelling users already import.
const (
	HeaderVariable = "variable"
	HeaderPValue   = "p-vaule"
	HeaderMethods  = "methods"
)

// SignificantStyle is the inline style applied to significant p-value cells.
const SignificantStyle = "color: red; font-weight: bold"

// RowKind tells quantitative rows apart from the two kinds of categorical rows
type RowKind string

const (
	KindQuantitative  RowKind = "quantitative"
	KindCategoryTotal RowKind = "categorical-total"
	KindCategoryLevel RowKind = "categorical-level"
)

// Row is one line of the three-line table.
type Row struct {
	Variable string   `json:"variable"`
	Cells    []string `json:"cells"`
	PValue   string   `json:"p_value"`
	Method   string   `json:"method"`
	Kind     RowKind  `json:"kind"`
}

// Table is the result of a group comparison: one cell column per group label.
type Table struct {
	Groups []string `json:"groups"`
	Rows   []Row    `json:"rows"`
}

// Header returns the exported column names.
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.Groups)+3)
	header = append(header, HeaderVariable)
	header = append(header, t.Groups...)
	return append(header, HeaderPValue, HeaderMethods)
}

// Records returns every row as exported cells, in header order.
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, 0, len(t.Groups)+3)
		rec = append(rec, row.Variable)
		for j := range t.Groups {
			cell := ""
			if j < len(row.Cells) {
				cell = row.Cells[j]
			}
			rec = append(rec, cell)
		}
		records[i] = append(rec, row.PValue, row.Method)
	}
	return records
}

// FromRecords rebuilds a table from exported cells. Row kinds are inferred from the labels.
func FromRecords(header []string, records [][]string) (*Table, error) {
	if len(header) < 3 || header[0] != HeaderVariable ||
		header[len(header)-2] != HeaderPValue || header[len(header)-1] != HeaderMethods {
		return nil, ErrMalformedHeader
	}
	groups := append([]string(nil), header[1:len(header)-2]...)
	t := &Table{Groups: groups, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		if len(rec) != len(header) {
			return nil, ErrMalformedRecord
		}
		row := Row{
			Variable: rec[0],
			Cells:    append([]string(nil), rec[1:len(rec)-2]...),
			PValue:   rec[len(rec)-2],
			Method:   rec[len(rec)-1],
		}
		switch {
		case row.Method == stats.TestChiSquare.String():
			row.Kind = KindCategoryTotal
		case row.Method == "":
			row.Kind = KindCategoryLevel
		default:
			row.Kind = KindQuantitative
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// FormatPValue prints a p-value with four decimals.
func FormatPValue(p float64) string {
	return FormatFixed(p, 4)
}

// FormatFixed prints v with prec decimals; non-finite values print as nan, inf and -inf.
func FormatFixed(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// ParsePValue reads a formatted p-value cell. Blank cells, "<"-prefixed bounds and
// anything that is not a number are reported as not parsable.
func ParsePValue(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.Contains(s, "<") {
		return 0, false
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

// IsSignificant reports whether a p-value cell parses below the significance level.
func IsSignificant(cell string) bool {
	p, ok := ParsePValue(cell)
	return ok && p < stats.SignificanceAlpha
}

// PValueStyle returns the inline style for a p-value cell, or "" when it is passed through.
func PValueStyle(cell string) string {
	if IsSignificant(cell) {
		return SignificantStyle
	}
	return ""
}
