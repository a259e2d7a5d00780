package stats

// TestType names a statistical test the way it is printed in the result table
type TestType string

const (
	TestShapiroWilk       TestType = "Shapiro-Wilk"       // Normality, n below threshold
	TestKolmogorovSmirnov TestType = "Kolmogorov-Smirnov" // Normality at scale, or 2-group non-normal
	TestTTest             TestType = "T-test"             // Welch's unequal-variance t-test
	TestANOVA             TestType = "ANOVA"              // One-way analysis of variance
	TestKruskalWallis     TestType = "Kruskal-Wallis"     // Rank-based k-group test
	TestChiSquare         TestType = "Chi-square"         // Independence on a contingency table
)

const (
	// DefaultNormalityCutoff is the sample size from which Kolmogorov-Smirnov replaces Shapiro-Wilk.
	DefaultNormalityCutoff = 5000
	// NormalityAlpha is the p-value above which a column is treated as normal.
	NormalityAlpha = 0.05
	// SignificanceAlpha is the p-value below which a result cell is flagged.
	SignificanceAlpha = 0.05
)

// String returns the display name
func (t TestType) String() string {
	return string(t)
}

// NormalityResult is the outcome of the normality pre-check for one column
type NormalityResult struct {
	Column     string   `json:"column"`
	Method     TestType `json:"method"`
	Statistic  float64  `json:"statistic"`
	PValue     float64  `json:"p_value"`
	SampleSize int      `json:"sample_size"`
}

// IsNormal reports whether the column passed the normality check
func (r NormalityResult) IsNormal() bool {
	return r.PValue > NormalityAlpha
}

// SelectNormalityTest picks the normality test for a column with n non-null values.
func SelectNormalityTest(n, cutoff int) TestType {
	if cutoff <= 0 {
		cutoff = DefaultNormalityCutoff
	}
	if n < cutoff {
		return TestShapiroWilk
	}
	return TestKolmogorovSmirnov
}

// SelectGroupTest picks the quantitative comparison test for k groups.
func SelectGroupTest(groups int, normal bool) TestType {
	if groups == 2 {
		if normal {
			return TestTTest
		}
		return TestKolmogorovSmirnov
	}
	if normal {
		return TestANOVA
	}
	return TestKruskalWallis
}
