package stats

import "errors"

var (
	// ErrDegenerateFit is returned when the F-test is undefined: no model or
	// residual degrees of freedom, or a response with zero total variation.
	ErrDegenerateFit = errors.New("stats: degenerate fit")

	// ErrEmptyInput is returned when a routine receives no observations.
	ErrEmptyInput = errors.New("stats: empty input")

	// ErrNoConvergence is returned when the eigendecomposition of XᵀX fails.
	ErrNoConvergence = errors.New("stats: eigendecomposition did not converge")
)
