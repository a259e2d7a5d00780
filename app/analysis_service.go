package app

import (
	"context"
	"fmt"
	"time"

	"gocompare/adapters/stats/stattest"
	"gocompare/domain/core"
	"gocompare/domain/dataset"
	"gocompare/domain/stats"
	"gocompare/domain/table"
	"gocompare/internal"
	"gocompare/internal/errors"
)

// AnalysisService runs the group difference analysis on an in-memory dataset
type AnalysisService struct {
	normalityThreshold int
	logger             *internal.Logger
}

// Selection is what the user picked on the page
type Selection struct {
	Quantitative []string `json:"quantitative"`
	// Group defaults to the first grouping candidate when empty.
	Group string `json:"group"`
}

// Preparation holds everything known before a grouping column is chosen
type Preparation struct {
	Columns         []string                `json:"columns"`
	Quantitative    []string                `json:"quantitative"`
	Categorical     []string                `json:"categorical"`
	GroupCandidates []string                `json:"group_candidates"`
	Normality       []stats.NormalityResult `json:"normality"`
}

// Roles maps every column to its role in the analysis.
func (p *Preparation) Roles() map[string]dataset.ColumnRole {
	roles := make(map[string]dataset.ColumnRole, len(p.Columns))
	for _, name := range p.Quantitative {
		roles[name] = dataset.RoleQuantitative
	}
	for _, name := range p.Categorical {
		roles[name] = dataset.RoleCategorical
	}
	for _, name := range p.GroupCandidates {
		roles[name] = dataset.RoleGroupCandidate
	}
	return roles
}

// NormalityFor returns the normality result of a quantitative column
func (p *Preparation) NormalityFor(column string) (stats.NormalityResult, bool) {
	for _, r := range p.Normality {
		if r.Column == column {
			return r, true
		}
	}
	return stats.NormalityResult{}, false
}

// AnalysisResult is the outcome of one full analysis
type AnalysisResult struct {
	ID          core.AnalysisID `json:"analysis_id"`
	Preparation *Preparation    `json:"preparation"`
	Group       string          `json:"group"`
	Table       *table.Table    `json:"table"`
}

// NewAnalysisService creates an analysis service. A threshold <= 0 uses the default of 5000.
func NewAnalysisService(normalityThreshold int) *AnalysisService {
	if normalityThreshold <= 0 {
		normalityThreshold = stats.DefaultNormalityCutoff
	}
	return &AnalysisService{
		normalityThreshold: normalityThreshold,
		logger:             internal.DefaultLogger.Component("Analysis"),
	}
}

// Classify splits the columns into quantitative and categorical and finds the grouping candidates.
func (s *AnalysisService) Classify(ds *dataset.Dataset, quantitative []string) (*Preparation, error) {
	if ds == nil || len(ds.Columns) == 0 {
		return nil, errors.InvalidInput(core.ErrEmptyDataset.Error())
	}

	selected := make(map[string]bool, len(quantitative))
	prep := &Preparation{Columns: ds.ColumnNames()}
	for _, name := range quantitative {
		if selected[name] {
			continue
		}
		if _, err := ds.Column(name); err != nil {
			return nil, errors.WithCode(errors.CodeValidationError, err)
		}
		selected[name] = true
		prep.Quantitative = append(prep.Quantitative, name)
	}

	for _, col := range ds.Columns {
		if selected[col.Name] {
			continue
		}
		prep.Categorical = append(prep.Categorical, col.Name)
		if col.DistinctCount() >= 2 {
			prep.GroupCandidates = append(prep.GroupCandidates, col.Name)
		}
	}
	return prep, nil
}

// Normality runs the normality pre-check on one column with nulls dropped.
func (s *AnalysisService) Normality(col *dataset.Column) (stats.NormalityResult, error) {
	values, err := col.NonNullFloats()
	if err != nil {
		return stats.NormalityResult{}, errors.WithCode(errors.CodeInvalidInput, err)
	}

	method := stats.SelectNormalityTest(len(values), s.normalityThreshold)
	result := stats.NormalityResult{Column: col.Name, Method: method, SampleSize: len(values)}
	switch method {
	case stats.TestShapiroWilk:
		result.Statistic, result.PValue, err = stattest.ShapiroWilk(values)
	default:
		result.Statistic, result.PValue, err = stattest.KolmogorovSmirnovNormal(values)
	}
	if err != nil {
		return stats.NormalityResult{}, errors.AnalysisFailed(core.NewTestError(method.String(), col.Name, err))
	}
	return result, nil
}

// Prepare classifies the columns and runs the normality pre-check on every quantitative column.
func (s *AnalysisService) Prepare(ds *dataset.Dataset, quantitative []string) (*Preparation, error) {
	prep, err := s.Classify(ds, quantitative)
	if err != nil {
		return nil, err
	}
	for _, name := range prep.Quantitative {
		col, _ := ds.Column(name)
		result, err := s.Normality(col)
		if err != nil {
			return prep, err
		}
		s.logger.Debug("%s: %s W/D=%.4f p=%.4f n=%d", name, result.Method, result.Statistic, result.PValue, result.SampleSize)
		prep.Normality = append(prep.Normality, result)
	}
	return prep, nil
}

// ResolveGroup validates the grouping column, defaulting to the first candidate.
func (s *AnalysisService) ResolveGroup(prep *Preparation, group string) (string, error) {
	if group == "" {
		if len(prep.GroupCandidates) == 0 {
			return "", errors.ValidationError(core.ErrNoGroupCandidate.Error())
		}
		return prep.GroupCandidates[0], nil
	}
	for _, q := range prep.Quantitative {
		if q == group {
			return "", errors.ValidationError(core.ErrGroupIsQuantitative.Error())
		}
	}
	for _, c := range prep.GroupCandidates {
		if c == group {
			return group, nil
		}
	}
	for _, c := range prep.Columns {
		if c == group {
			return "", errors.ValidationError(fmt.Sprintf("%s: %s", core.ErrNotGroupCandidate.Error(), group))
		}
	}
	return "", errors.WithCode(errors.CodeValidationError, core.NewColumnNotFoundError(group))
}

// Run prepares the dataset, validates the grouping column and builds the result table.
// A validation failure still returns the preparation so callers can show the normality results.
func (s *AnalysisService) Run(ctx context.Context, ds *dataset.Dataset, sel Selection) (*AnalysisResult, error) {
	start := time.Now()
	result := &AnalysisResult{ID: core.NewAnalysisID()}

	prep, err := s.Prepare(ds, sel.Quantitative)
	result.Preparation = prep
	if err != nil {
		s.logger.Warn("%s: preparation failed: %v", result.ID, err)
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	group, err := s.ResolveGroup(prep, sel.Group)
	if err != nil {
		s.logger.Warn("%s: invalid grouping column %q: %v", result.ID, sel.Group, err)
		return result, err
	}
	result.Group = group

	tbl, err := s.BuildTable(ds, prep, group)
	if err != nil {
		s.logger.Error("%s: table failed: %v", result.ID, err)
		return result, err
	}
	result.Table = tbl

	s.logger.Info("%s: %s grouped by %s, %d rows in %.2fms", result.ID, ds.Name, group, len(tbl.Rows),
		float64(time.Since(start).Nanoseconds())/1e6)
	return result, nil
}
