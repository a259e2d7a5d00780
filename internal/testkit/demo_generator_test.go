package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoDataGenerator_Shape(t *testing.T) {
	ds := NewDemoDataGenerator(DefaultDemoConfig()).Generate()

	assert.Equal(t, []string{"Age", "Weight", "Height", "Gender", "Education", "GPA"}, ds.ColumnNames())
	assert.Equal(t, 100, ds.RowCount())

	for _, name := range ds.ColumnNames() {
		col, err := ds.Column(name)
		require.NoError(t, err)
		assert.True(t, col.IsNumeric(), "%s should be numeric", name)
		assert.Equal(t, 100, col.NonNullCount(), "%s should have no missing values", name)
	}
}

func TestDemoDataGenerator_Ranges(t *testing.T) {
	ds := GenerateDemoDataset(42, 500)

	age, err := ds.Column("Age")
	require.NoError(t, err)
	values, err := age.NonNullFloats()
	require.NoError(t, err)
	for _, v := range values {
		if v < 18 || v > 64 {
			t.Fatalf("age %v outside [18, 64]", v)
		}
	}

	levels := map[string][]string{
		"Gender":    {"0", "1"},
		"Education": {"1", "2", "3"},
		"GPA":       {"1", "2"},
	}
	for name, want := range levels {
		col, err := ds.Column(name)
		require.NoError(t, err)
		var got []string
		for _, l := range col.Levels() {
			got = append(got, l.Label)
		}
		assert.Equal(t, want, got, name)
	}
}

func TestDemoDataGenerator_Deterministic(t *testing.T) {
	a := GenerateDemoDataset(42, 100)
	b := GenerateDemoDataset(42, 100)
	c := GenerateDemoDataset(7, 100)

	assert.Equal(t, a.Records(), b.Records())
	assert.NotEqual(t, a.Records(), c.Records())
}

func TestDemoDataGenerator_DefaultsRows(t *testing.T) {
	ds := GenerateDemoDataset(1, 0)
	assert.Equal(t, 100, ds.RowCount())
}
