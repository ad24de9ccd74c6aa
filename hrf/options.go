// SPDX-License-Identifier: MIT
// Package: labutils/hrf
//
// options.go — functional options for SPM.
//
// Contract:
//   • Option constructors only record values; SPM validates them and
//     reports ErrInvalidParams. SPM itself never panics.
//   • Defaults reproduce spm_hrf.m exactly.

package hrf

// Params holds the seven double-gamma parameters (see package doc).
type Params [7]float64

// DefaultParams are SPM's canonical values.
var DefaultParams = Params{6, 16, 1, 1, 6, 0, 32}

// DefaultFMRIT is the microtime resolution (steps per scan).
const DefaultFMRIT = 16.0

type config struct {
	p     Params
	fmriT float64
}

// Option customizes SPM.
type Option func(*config)

// WithParams overrides the double-gamma parameters.
func WithParams(p Params) Option {
	return func(c *config) { c.p = p }
}

// WithMicrotime sets the number of microtime steps per scan.
func WithMicrotime(steps float64) Option {
	return func(c *config) { c.fmriT = steps }
}

func gatherOptions(opts ...Option) config {
	c := config{p: DefaultParams, fmriT: DefaultFMRIT}
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}

	return c
}
