// Package matrix provides the dense linear-algebra primitives used by the
// statistics, cross-validation and network packages of labutils.
//
// What & Why:
//
//	A small, deterministic row-major Dense type behind a Matrix interface,
//	plus the handful of kernels a research workflow actually needs:
//	products, transposes, Householder least-squares solves, column means,
//	centring and row sums. Every public entry point validates its inputs and
//	returns package sentinels (ErrDimensionMismatch, ErrSingular, ...)
//	instead of panicking.
//
// Determinism:
//
//	Loop orders are fixed; no map iteration and no randomness, so repeated
//	calls on the same input produce bitwise-identical output.
//
// Quick example:
//
//	X, _ := matrix.NewIndicator([]int{0, 0, 1, 1}, 2)
//	fit, err := matrix.LeastSquares(X, []float64{1, 3, 5, 7})
//	// fit.Coef == [2 6]
package matrix
