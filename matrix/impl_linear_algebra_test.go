// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/poldracklab/labutils/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsTight = 1e-12

func TestMul_FastAndFallbackAgree(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	want := NewFilledDense(t, 2, 2, []float64{58, 64, 139, 154})

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)

	CompareClose(t, fast, want, 0, 0)
	CompareClose(t, slow, want, 0, 0)

	_, err = matrix.Mul(a, a)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, a)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestTranspose(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	want := NewFilledDense(t, 3, 2, []float64{1, 4, 2, 5, 3, 6})

	got, err := matrix.Transpose(a)
	require.NoError(t, err)
	CompareClose(t, got, want, 0, 0)

	got, err = matrix.Transpose(hide{a})
	require.NoError(t, err)
	CompareClose(t, got, want, 0, 0)
}

func TestMatVec(t *testing.T) {
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	y, err := matrix.MatVec(a, []float64{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)

	y, err = matrix.MatVec(hide{a}, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, y)

	_, err = matrix.MatVec(a, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(a, nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestLeastSquares_IndicatorDesign(t *testing.T) {
	X, err := matrix.NewIndicator([]int{0, 0, 1, 1}, 2)
	require.NoError(t, err)
	y := []float64{1, 3, 5, 7}

	fit, err := matrix.LeastSquares(X, y)
	require.NoError(t, err)
	sliceClose(t, fit.Coef, []float64{2, 6}, 0, 1e-12)
	sliceClose(t, fit.Fitted, []float64{2, 2, 6, 6}, 0, 1e-12)
	sliceClose(t, fit.Residuals, []float64{-1, 1, -1, 1}, 0, 1e-12)
	assert.Equal(t, 2, fit.Rank)

	slow, err := matrix.LeastSquares(hide{X}, y)
	require.NoError(t, err)
	sliceClose(t, slow.Coef, fit.Coef, 0, 1e-12)
}

func TestLeastSquares_ExactLine(t *testing.T) {
	// y = 1 + 2x fits exactly.
	X := NewFilledDense(t, 4, 2, []float64{1, 0, 1, 1, 1, 2, 1, 3})
	fit, err := matrix.LeastSquares(X, []float64{1, 3, 5, 7})
	require.NoError(t, err)
	sliceClose(t, fit.Coef, []float64{1, 2}, 0, 1e-12)
	for _, r := range fit.Residuals {
		assert.InDelta(t, 0, r, 1e-12)
	}
}

func TestLeastSquares_Errors(t *testing.T) {
	// Duplicate columns: rank 1.
	X := NewFilledDense(t, 3, 2, []float64{1, 1, 2, 2, 3, 3})
	_, err := matrix.LeastSquares(X, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.LeastSquares(X, []float64{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.LeastSquares(NewFilledDense(t, 1, 2, []float64{1, 2}), []float64{1})
	assert.ErrorIs(t, err, matrix.ErrUnderdetermined)

	_, err = matrix.LeastSquares(NewFilledDense(t, 2, 1, []float64{1, 2}), []float64{1, math.NaN()})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestWithRankTolerance_PanicsOnNonsense(t *testing.T) {
	assert.Panics(t, func() { matrix.WithRankTolerance(-1) })
	assert.Panics(t, func() { matrix.WithRankTolerance(math.NaN()) })
	assert.NotPanics(t, func() { matrix.WithRankTolerance(1e-8) })
}
