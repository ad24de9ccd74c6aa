package stats

import "math"

// RToZ applies the Fisher transform z = ½·ln((1+r)/(1−r)).
// |r| = 1 maps to NaN rather than ±Inf; |r| > 1 is NaN as well.
func RToZ(r float64) float64 {
	z := math.Atanh(r)
	if math.IsInf(z, 0) {
		return math.NaN()
	}

	return z
}

// ZToR inverts RToZ: r = (e^{2z}−1)/(e^{2z}+1), i.e. tanh(z).
// Large |z| saturates to ±1 instead of overflowing.
func ZToR(z float64) float64 {
	return math.Tanh(z)
}

// RToZSlice returns RToZ applied to every element of rs in a new slice.
func RToZSlice(rs []float64) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = RToZ(r)
	}

	return out
}

// ZToRSlice returns ZToR applied to every element of zs in a new slice.
func ZToRSlice(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = ZToR(z)
	}

	return out
}
