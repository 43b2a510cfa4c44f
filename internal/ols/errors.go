package ols

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates X and Y disagree on the number of rows, or are empty.
	ErrDimensionMismatch = errors.New("ols: dimension mismatch between X and Y")

	// ErrUnderdetermined indicates fewer observations than coefficients.
	ErrUnderdetermined = errors.New("ols: fewer observations than coefficients")

	// ErrSingular indicates a singular or numerically singular system, e.g. a constant marker.
	ErrSingular = errors.New("ols: matrix is singular")

	// ErrNotSquare indicates an inversion was requested for a non-square matrix.
	ErrNotSquare = errors.New("ols: matrix is not square")
)

// LapackError reports the routine that rejected the system. Cond is the
// estimated condition number when known.
type LapackError struct {
	Routine string
	Cond    float64
	Err     error
}

func (e *LapackError) Error() string {
	if e.Cond != 0 {
		return fmt.Sprintf("ols: %s failed (cond=%.3g): %v", e.Routine, e.Cond, e.Err)
	}
	return fmt.Sprintf("ols: %s failed: %v", e.Routine, e.Err)
}

func (e *LapackError) Unwrap() error {
	return e.Err
}
