package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Validation errors
	ErrGroupIsQuantitative = errors.New("grouping variable cannot be a quantitative variable")
	ErrNoGroupCandidate    = errors.New("no categorical column with at least two distinct values is available for grouping")
	ErrNotGroupCandidate   = errors.New("grouping variable needs at least two distinct values")
	ErrNotNumeric          = errors.New("column is not numeric")
	ErrEmptyDataset        = errors.New("dataset has no columns")

	// Statistical failures
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrZeroRange        = errors.New("input data has range zero")
	ErrIdenticalValues  = errors.New("all numbers are identical")
	ErrZeroExpected     = errors.New("contingency table has a zero expected frequency")
)

// NewColumnNotFoundError reports a column name missing from the dataset.
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, name)
}

// NewNotNumericError reports a quantitative column holding non-numeric cells.
func NewNotNumericError(column, cell string) error {
	return fmt.Errorf("%w: %s contains %q", ErrNotNumeric, column, cell)
}

// NewTestError wraps a statistical failure with the test and column it came from.
func NewTestError(test, column string, err error) error {
	return fmt.Errorf("%s on %s: %w", test, column, err)
}
