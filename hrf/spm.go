// SPDX-License-Identifier: MIT
// Package: labutils/hrf
//
// spm.go — SPM canonical HRF and causal convolution.
//
// Contract:
//   • SPM(tr, opts...) returns ⌊P6/TR⌋ samples summing to 1.
//   • Convolve(signal, kernel) returns len(signal) samples (causal, truncated).
//   • O(L) and O(N·L) time respectively. No global state.

package hrf

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidTR indicates a non-positive or non-finite repetition time.
	ErrInvalidTR = errors.New("hrf: repetition time must be positive and finite")

	// ErrInvalidParams indicates unusable kernel parameters.
	ErrInvalidParams = errors.New("hrf: invalid kernel parameters")

	// ErrZeroSum indicates the sampled kernel sums to zero and cannot be normalised.
	ErrZeroSum = errors.New("hrf: kernel sums to zero")

	// ErrEmptyKernel indicates Convolve was given no kernel samples.
	ErrEmptyKernel = errors.New("hrf: empty kernel")
)

// SPM returns the canonical double-gamma HRF sampled every tr seconds.
//
// With dt = tr/FMRIT the microtime grid is u_j = j − P5/dt and
//
//	h(u) = Γpdf(u; P0/P2, rate dt/P2) − Γpdf(u; P1/P3, rate dt/P3)/P4
//
// The kernel keeps h at j = ⌊k·FMRIT⌋ for k = 0..⌊P6/tr⌋−1, then divides by its sum.
func SPM(tr float64, opts ...Option) ([]float64, error) {
	if !(tr > 0) || math.IsInf(tr, 0) {
		return nil, fmt.Errorf("SPM: tr=%g: %w", tr, ErrInvalidTR)
	}
	c := gatherOptions(opts...)
	if err := validate(c, tr); err != nil {
		return nil, err
	}

	p := c.p
	dt := tr / c.fmriT
	response := distuv.Gamma{Alpha: p[0] / p[2], Beta: dt / p[2]}
	undershoot := distuv.Gamma{Alpha: p[1] / p[3], Beta: dt / p[3]}
	offset := p[5] / dt

	n := int(p[6] / tr)
	h := make([]float64, n)
	var sum float64
	for k := range h {
		u := math.Floor(float64(k)*c.fmriT) - offset
		h[k] = response.Prob(u) - undershoot.Prob(u)/p[4]
		sum += h[k]
	}
	if sum == 0 || math.IsNaN(sum) {
		return nil, fmt.Errorf("SPM: %w", ErrZeroSum)
	}
	for k := range h {
		h[k] /= sum
	}

	return h, nil
}

func validate(c config, tr float64) error {
	p := c.p
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("SPM: P[%d]=%g: %w", i, v, ErrInvalidParams)
		}
	}
	switch {
	case p[0] <= 0 || p[1] <= 0:
		return fmt.Errorf("SPM: delays must be positive: %w", ErrInvalidParams)
	case p[2] <= 0 || p[3] <= 0:
		return fmt.Errorf("SPM: dispersions must be positive: %w", ErrInvalidParams)
	case p[4] == 0:
		return fmt.Errorf("SPM: response/undershoot ratio is zero: %w", ErrInvalidParams)
	case !(c.fmriT > 0) || math.IsInf(c.fmriT, 0):
		return fmt.Errorf("SPM: FMRIT=%g: %w", c.fmriT, ErrInvalidParams)
	case p[6] < tr:
		return fmt.Errorf("SPM: kernel length %g shorter than TR %g: %w", p[6], tr, ErrInvalidParams)
	}

	return nil
}

// Convolve returns the causal convolution of signal with kernel, truncated to
// len(signal): out[t] = Σ_{j≤t} signal[t−j]·kernel[j].
func Convolve(signal, kernel []float64) ([]float64, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	out := make([]float64, len(signal))
	for t := range out {
		var acc float64
		for j := 0; j < len(kernel) && j <= t; j++ {
			acc += signal[t-j] * kernel[j]
		}
		out[t] = acc
	}

	return out, nil
}
