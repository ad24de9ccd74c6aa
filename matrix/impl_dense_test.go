// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/poldracklab/labutils/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense_InvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestNewDenseFrom_CopiesAndValidates(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	m, err := matrix.NewDenseFrom(2, 2, src)
	require.NoError(t, err)
	src[0] = 99 // must not leak into m
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDense_AtSetBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 7.5))
	assert.Equal(t, 7.5, MustAt(t, m, 1, 2))

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 3, 1), matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

func TestDense_RowColClone(t *testing.T) {
	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)

	col, err := m.Col(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, col)

	_, err = m.Row(5)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, -1))
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0), "clone must be independent")
}

func TestDense_String(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

func TestNewIndicator(t *testing.T) {
	X, err := matrix.NewIndicator([]int{0, 2, 1, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, "[1, 0, 0]\n[0, 0, 1]\n[0, 1, 0]\n[0, 0, 1]\n", X.String())

	_, err = matrix.NewIndicator([]int{0, 3}, 3)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.NewIndicator(nil, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}
