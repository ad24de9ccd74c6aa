// SPDX-License-Identifier: MIT

package hrf_test

import (
	"math"
	"testing"

	"github.com/poldracklab/labutils/hrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}

func TestSPM_Defaults(t *testing.T) {
	h, err := hrf.SPM(2.0)
	require.NoError(t, err)
	require.Len(t, h, 16)
	assert.InDelta(t, 1.0, sum(h), 1e-12)
	assert.Equal(t, 0.0, h[0], "gamma density vanishes at onset")

	peak := 0
	for i, v := range h {
		if v > h[peak] {
			peak = i
		}
	}
	assert.Contains(t, []int{2, 3}, peak, "response peaks around 5s")

	minV := math.Inf(1)
	for _, v := range h[5:] {
		minV = math.Min(minV, v)
	}
	assert.Less(t, minV, 0.0, "undershoot dips below baseline")
}

// Reference kernels of spm_hrf.m with the default parameters.
func TestSPM_ReferenceValues(t *testing.T) {
	for _, tc := range []struct {
		tr   float64
		want []float64
	}{
		{2.0, []float64{
			0, 0.0865534219, 0.3748334143, 0.3848670920, 0.2160857115,
			0.0768583241, 0.0016199403, -0.0306033358, -0.0373006226, -0.0308328621,
			-0.0205131332, -0.0116424610, -0.0058197803, -0.0026181596, -0.0010771662,
			-0.0004103835,
		}},
		{0.72, []float64{
			0, 0.0006779879, 0.0105603887, 0.0390340988, 0.0800655271,
			0.1189327436, 0.1440466068, 0.1515269003, 0.1437343598, 0.1259013323,
			0.1033950552, 0.0803094459, 0.0591342014, 0.0410131399, 0.0261954049,
			0.0144523847,
		}},
	} {
		h, err := hrf.SPM(tc.tr)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(h), len(tc.want))
		assert.InDeltaSlice(t, tc.want, h[:len(tc.want)], 1e-6, "tr=%g", tc.tr)
	}
}

func TestSPM_ExplicitDefaultsMatch(t *testing.T) {
	def, err := hrf.SPM(2.0)
	require.NoError(t, err)
	explicit, err := hrf.SPM(2.0, hrf.WithParams(hrf.Params{6, 16, 1, 1, 6, 0, 32}), hrf.WithMicrotime(16))
	require.NoError(t, err)
	assert.InDeltaSlice(t, def, explicit, 1e-15)
}

func TestSPM_LengthFollowsTR(t *testing.T) {
	for _, tc := range []struct {
		tr   float64
		want int
	}{{1, 32}, {0.72, 44}, {2.5, 12}, {3, 10}} {
		h, err := hrf.SPM(tc.tr)
		require.NoError(t, err)
		assert.Len(t, h, tc.want, "tr=%g", tc.tr)
		assert.InDelta(t, 1.0, sum(h), 1e-9)
	}
}

func TestSPM_OnsetShiftsKernel(t *testing.T) {
	p := hrf.DefaultParams
	p[5] = 2 // two seconds
	shifted, err := hrf.SPM(1, hrf.WithParams(p))
	require.NoError(t, err)
	assert.Equal(t, 0.0, shifted[0])
	assert.Equal(t, 0.0, shifted[1])
	assert.Equal(t, 0.0, shifted[2])
	assert.Greater(t, shifted[3], 0.0)
}

func TestSPM_Errors(t *testing.T) {
	_, err := hrf.SPM(0)
	assert.ErrorIs(t, err, hrf.ErrInvalidTR)
	_, err = hrf.SPM(math.NaN())
	assert.ErrorIs(t, err, hrf.ErrInvalidTR)
	_, err = hrf.SPM(40)
	assert.ErrorIs(t, err, hrf.ErrInvalidParams)

	bad := hrf.DefaultParams
	bad[2] = 0
	_, err = hrf.SPM(2, hrf.WithParams(bad))
	assert.ErrorIs(t, err, hrf.ErrInvalidParams)

	_, err = hrf.SPM(2, hrf.WithMicrotime(0))
	assert.ErrorIs(t, err, hrf.ErrInvalidParams)
}

func TestConvolve(t *testing.T) {
	k := []float64{0.5, 0.3, 0.2}
	out, err := hrf.Convolve([]float64{0, 1, 0, 0, 0}, k)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.3, 0.2, 0}, out, 1e-15)

	out, err = hrf.Convolve([]float64{1, 1}, k)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.8}, out, 1e-15)

	_, err = hrf.Convolve([]float64{1}, nil)
	assert.ErrorIs(t, err, hrf.ErrEmptyKernel)
}
