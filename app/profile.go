package app

import (
	"gocompare/domain/dataset"

	"github.com/montanaflynn/stats"
)

// PreviewRows is the number of rows shown in the dataset preview.
const PreviewRows = 5

// ColumnProfile summarises one column for the dataset preview
type ColumnProfile struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	NonNull  int     `json:"non_null"`
	Distinct int     `json:"distinct"`
	Min      float64 `json:"min,omitempty"`
	Median   float64 `json:"median,omitempty"`
	Max      float64 `json:"max,omitempty"`
	// HasRange is set for numeric columns with at least one value.
	HasRange bool `json:"has_range"`
}

// DatasetPreview is the head of the dataset plus a profile per column
type DatasetPreview struct {
	Name     string          `json:"name"`
	Rows     int             `json:"rows"`
	Columns  []string        `json:"columns"`
	Head     [][]string      `json:"head"`
	Profiles []ColumnProfile `json:"profiles"`
}

// Preview builds the dataset preview shown above the column selection.
func Preview(ds *dataset.Dataset) *DatasetPreview {
	preview := &DatasetPreview{
		Name:    ds.Name,
		Rows:    ds.RowCount(),
		Columns: ds.ColumnNames(),
		Head:    ds.Head(PreviewRows),
	}
	for _, col := range ds.Columns {
		preview.Profiles = append(preview.Profiles, ProfileColumn(col))
	}
	return preview
}

// ProfileColumn computes the column kind, counts and the min, median and max of numeric columns.
func ProfileColumn(col *dataset.Column) ColumnProfile {
	profile := ColumnProfile{
		Name:     col.Name,
		Kind:     "text",
		NonNull:  col.NonNullCount(),
		Distinct: col.DistinctCount(),
	}
	if !col.IsNumeric() {
		return profile
	}
	profile.Kind = "numeric"

	values, err := col.NonNullFloats()
	if err != nil || len(values) == 0 {
		return profile
	}
	data := stats.LoadRawData(values)
	min, errMin := stats.Min(data)
	median, errMedian := stats.Median(data)
	max, errMax := stats.Max(data)
	if errMin != nil || errMedian != nil || errMax != nil {
		return profile
	}
	profile.Min, profile.Median, profile.Max = min, median, max
	profile.HasRange = true
	return profile
}
