// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the column/row reductions needed by regression and network code
//     (means, centering, row sums) as deterministic loops over any Matrix.
//
// Exposed API:
//   - Mean(x)            -> arithmetic mean of a vector (NaN for empty input)
//   - ColumnMeans(X)     -> per-column means
//   - CenterColumns(X)   -> (Xc, means)   // subtract per-column mean
//   - RowSums(X)         -> per-row sums  // out-degree / strength of an adjacency
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

import "math"

const (
	opColumnMeans   = "ColumnMeans"
	opCenterColumns = "CenterColumns"
	opRowSums       = "RowSums"
)

// Mean returns the arithmetic mean of x, or NaN when x is empty.
// Complexity: O(n).
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sum := ZeroSum
	for _, v := range x {
		sum += v
	}

	return sum / float64(len(x))
}

// ColumnMeans returns Σ_i X[i,j] / r for every column j.
//
// Errors:
//   - ErrNilMatrix; wrapped At errors from the fallback path.
//
// Complexity:
//   - Time O(r*c), Space O(c).
func ColumnMeans(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)
	if r == 0 || c == 0 {
		return means, nil
	}

	var i, j int
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base := i * c
			for j = 0; j < c; j++ {
				means[j] += d.data[base+j]
			}
		}
	} else {
		var v float64
		var err error
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, matrixErrorf(opColumnMeans, err)
				}
				means[j] += v
			}
		}
	}

	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	return means, nil
}

// CenterColumns subtracts the per-column mean from every element.
//
// Implementation:
//   - Stage 1: compute column means (ColumnMeans).
//   - Stage 2: materialize a centered *Dense copy; X is not mutated.
//
// Returns:
//   - *Dense: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func CenterColumns(X Matrix) (*Dense, []float64, error) {
	means, err := ColumnMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	out, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	var i, j int
	for i = 0; i < out.r; i++ {
		base := i * out.c
		for j = 0; j < out.c; j++ {
			out.data[base+j] -= means[j]
		}
	}

	return out, means, nil
}

// RowSums returns Σ_j X[i,j] for every row i.
// For an adjacency matrix this is the (out-)strength of each vertex.
// Complexity: O(r*c).
func RowSums(X Matrix) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	r, c := X.Rows(), X.Cols()
	sums := make([]float64, r)

	var i, j int
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base := i * c
			for j = 0; j < c; j++ {
				sums[i] += d.data[base+j]
			}
		}

		return sums, nil
	}
	var v float64
	var err error
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(opRowSums, err)
			}
			sums[i] += v
		}
	}

	return sums, nil
}
