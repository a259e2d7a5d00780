package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectNormalityTest(t *testing.T) {
	cases := []struct {
		n      int
		cutoff int
		want   TestType
	}{
		{n: 3, cutoff: 5000, want: TestShapiroWilk},
		{n: 4999, cutoff: 5000, want: TestShapiroWilk},
		{n: 5000, cutoff: 5000, want: TestKolmogorovSmirnov},
		{n: 12000, cutoff: 5000, want: TestKolmogorovSmirnov},
		{n: 4999, cutoff: 0, want: TestShapiroWilk},
		{n: 5000, cutoff: 0, want: TestKolmogorovSmirnov},
		{n: 10, cutoff: 10, want: TestKolmogorovSmirnov},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SelectNormalityTest(tc.n, tc.cutoff), "n=%d cutoff=%d", tc.n, tc.cutoff)
	}
}

func TestSelectGroupTest(t *testing.T) {
	assert.Equal(t, TestTTest, SelectGroupTest(2, true))
	assert.Equal(t, TestKolmogorovSmirnov, SelectGroupTest(2, false))
	assert.Equal(t, TestANOVA, SelectGroupTest(3, true))
	assert.Equal(t, TestKruskalWallis, SelectGroupTest(5, false))
}

func TestNormalityResult_IsNormal(t *testing.T) {
	assert.True(t, NormalityResult{PValue: 0.051}.IsNormal())
	assert.False(t, NormalityResult{PValue: 0.05}.IsNormal())
	assert.False(t, NormalityResult{PValue: 0.001}.IsNormal())
}
