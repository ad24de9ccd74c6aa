// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for numeric kernels.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that resolves setters against defaults.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//   - Options fields are unexported; public kernels consume ...Option.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultRankTolerance is the relative threshold below which a diagonal
	// entry of R (scaled by the largest |R_ii|) is treated as zero.
	DefaultRankTolerance = 1e-10

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true
)

const panicRankToleranceInvalid = "matrix: WithRankTolerance: tol must be finite and in [0,1)"

// Option mutates internal options. Safe to apply repeatedly (last writer wins).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	rankTol        float64 // relative pivot threshold; DefaultRankTolerance
	validateNaNInf bool    // reject NaN/Inf in inputs; DefaultValidateNaNInf
}

// WithRankTolerance sets the relative pivot threshold used by LeastSquares.
// Panics when tol is NaN/Inf or outside [0,1).
func WithRankTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 || tol >= 1 {
		panic(panicRankToleranceInvalid)
	}

	return func(o *Options) { o.rankTol = tol }
}

// WithNoValidateNaNInf disables the finite-input check in kernels.
// NaN then propagates through arithmetic instead of failing fast.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions applies user-provided setters on top of defaults.
// Complexity: O(k) for k=len(user).
func gatherOptions(user ...Option) Options {
	o := Options{
		rankTol:        DefaultRankTolerance,
		validateNaNInf: DefaultValidateNaNInf,
	}
	for _, set := range user {
		set(&o) // apply in order; last-writer-wins semantics
	}

	return o
}
