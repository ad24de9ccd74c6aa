// Package hrf generates the canonical haemodynamic response function used in
// fMRI modelling and convolves stimulus trains with it.
//
// The kernel is the SPM double gamma: a response gamma density minus a scaled
// undershoot gamma density, evaluated on a microtime grid of FMRIT steps per
// scan and sampled back at the repetition time (TR). The result is normalised
// to unit sum.
//
// Parameters (seconds unless noted), as in SPM's spm_hrf:
//
//	P[0] response delay        6
//	P[1] undershoot delay     16
//	P[2] response dispersion   1
//	P[3] undershoot dispersion 1
//	P[4] response/undershoot   6  (ratio)
//	P[5] onset                 0
//	P[6] kernel length        32
//
// Usage:
//
//	h, err := hrf.SPM(2.0)                       // 16 samples
//	bold, err := hrf.Convolve(stimulus, h)       // predicted regressor
package hrf
