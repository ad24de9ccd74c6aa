// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, matrix-vector product and Householder
// least-squares solves. All functions perform strict fail-fast validation and
// return sentinel errors (wrapped with an operation tag) on misuse.
//
// Notes:
//   - Kernels accept the Matrix interface; *Dense operands take a flat-slice fast path.
//   - Loop orders are fixed (i→j, k→i→j) so results are bitwise reproducible.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for dot products and substitutions.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul          = "Mul"
	opTranspose    = "Transpose"
	opMatVec       = "MatVec"
	opLeastSquares = "LeastSquares"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Call only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns a private *Dense copy of m (fast copy for *Dense, At-walk otherwise).
// Complexity: O(r*c).
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d.Clone().(*Dense), nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < out.r; i++ {
		for j = 0; j < out.c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// Mul computes the matrix product a×b.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b); allocate result (a.Rows × b.Cols).
//   - Stage 2: Dense fast path uses i→k→j order over flat buffers;
//     otherwise fall back to At with the same order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "Mul").
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	rows, inner, cols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		var i, k, j int
		var aik float64
		for i = 0; i < rows; i++ {
			for k = 0; k < inner; k++ {
				aik = da.data[i*inner+k]
				if aik == 0 {
					continue
				}
				for j = 0; j < cols; j++ {
					res.data[i*cols+j] += aik * db.data[k*cols+j]
				}
			}
		}

		return res, nil
	}

	var i, k, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for k = 0; k < inner; k++ {
			if av, err = a.At(i, k); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
			for j = 0; j < cols; j++ {
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				res.data[i*cols+j] += av * bv
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a fresh *Dense.
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	if d, ok := m.(*Dense); ok {
		var i, j int
		for i = 0; i < rows; i++ {
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = d.data[i*cols+j]
			}
		}

		return res, nil
	}
	var i, j int
	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; x non-nil; len(x) == m.Cols().
// Fast-path: *Dense performs one pass per row with flat indexing.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var acc, xv float64
		for i = 0; i < d.r; i++ {
			acc = ZeroSum
			base = i * d.c
			for j = 0; j < d.c; j++ {
				xv = x[j]
				if xv != 0 { // skip zero multiplications; indicator designs are mostly zeros
					acc += d.data[base+j] * xv
				}
			}
			y[i] = acc
		}

		return y, nil
	}

	var i, j int
	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		y[i] = ZeroSum
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// householder reduces a (m×n, m≥n) in place to upper-trapezoidal R and applies
// every reflector H_k = I − τ v vᵀ to all columns of each target (m rows).
// After the call: H_{n-1}…H_0 · A = R and each target t becomes H_{n-1}…H_0 · t.
//
// Implementation (per column k):
//   - Stage 1: norm of A[k:m, k]; skip zero columns.
//   - Stage 2: α = −sign(A[k,k])·norm; v = A[k:m, k] − α e_k.
//   - Stage 3: τ = 2/(vᵀv); reflect columns k..n-1 of A and every target column.
//   - Stage 4: store the exact zeros below the diagonal of column k.
//
// Complexity: O(m·n² + m·n·Σcols(targets)).
func householder(a *Dense, targets ...*Dense) {
	m, n := a.r, a.c
	v := make([]float64, m)
	var (
		i, k      int
		norm, aik float64
		alpha     float64
		beta, tau float64
	)
	for k = 0; k < n && k < m; k++ {
		norm = ZeroSum
		for i = k; i < m; i++ {
			aik = a.data[i*n+k]
			norm += aik * aik
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // zero column: nothing to annihilate
		}

		alpha = -math.Copysign(norm, a.data[k*n+k])
		for i = 0; i < k; i++ {
			v[i] = 0
		}
		for i = k; i < m; i++ {
			v[i] = a.data[i*n+k]
		}
		v[k] -= alpha

		beta = ZeroSum
		for i = k; i < m; i++ {
			beta += v[i] * v[i]
		}
		if beta == 0 {
			continue
		}
		tau = 2.0 / beta

		applyReflector(a, v, k, tau, k)
		for _, t := range targets {
			applyReflector(t, v, k, tau, 0)
		}

		a.data[k*n+k] = alpha
		for i = k + 1; i < m; i++ {
			a.data[i*n+k] = 0
		}
	}
}

// applyReflector applies H = I − τ v vᵀ (v zero above row k) to columns
// fromCol..c-1 of d. Complexity: O((m−k)·(c−fromCol)).
func applyReflector(d *Dense, v []float64, k int, tau float64, fromCol int) {
	var i, j int
	var sum, s float64
	for j = fromCol; j < d.c; j++ {
		sum = ZeroSum
		for i = k; i < d.r; i++ {
			sum += v[i] * d.data[i*d.c+j]
		}
		if sum == 0 {
			continue
		}
		s = tau * sum
		for i = k; i < d.r; i++ {
			d.data[i*d.c+j] -= s * v[i]
		}
	}
}

// LeastSquaresResult holds the solution of min ‖A·β − y‖₂.
type LeastSquaresResult struct {
	Coef      []float64 // β, len = A.Cols()
	Fitted    []float64 // A·β, len = A.Rows()
	Residuals []float64 // y − A·β
	Rank      int       // numerical column rank of A
}

// LeastSquares solves min ‖A·β − y‖₂ via Householder QR and back substitution.
//
// Implementation:
//   - Stage 1: validate A (non-nil, rows ≥ cols) and len(y) == rows; optionally finite inputs.
//   - Stage 2: reduce a private copy of A to R while reflecting y alongside.
//   - Stage 3: numerical rank = #{i : |R_ii| > tol·max|R_jj|}; rank < cols ⇒ ErrSingular.
//   - Stage 4: back-substitute R[:n,:n]·β = (Qy)[:n]; form fitted values and residuals.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrUnderdetermined, ErrNaNInf, ErrSingular.
//
// Complexity:
//   - Time O(m·n²), Space O(m·n).
func LeastSquares(a Matrix, y []float64, opts ...Option) (*LeastSquaresResult, error) {
	o := gatherOptions(opts...)
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	if err := ValidateVecLen(y, a.Rows()); err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	m, n := a.Rows(), a.Cols()
	if m < n {
		return nil, matrixErrorf(opLeastSquares, ErrUnderdetermined)
	}

	r, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	if o.validateNaNInf {
		if err = ValidateFinite(y); err != nil {
			return nil, matrixErrorf(opLeastSquares, err)
		}
		if err = ValidateFinite(r.data); err != nil {
			return nil, matrixErrorf(opLeastSquares, err)
		}
	}
	rhs, err := NewDense(m, 1)
	if err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	copy(rhs.data, y)

	householder(r, rhs)

	// Numerical rank relative to the largest pivot.
	var i, j int
	maxDiag := 0.0
	for i = 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.data[i*n+i]))
	}
	rank := 0
	cut := o.rankTol * maxDiag
	for i = 0; i < n; i++ {
		if maxDiag > 0 && math.Abs(r.data[i*n+i]) > cut {
			rank++
		}
	}
	if rank < n {
		return nil, matrixErrorf(opLeastSquares, fmt.Errorf("rank %d < %d columns: %w", rank, n, ErrSingular))
	}

	// Back substitution on the leading n×n triangle.
	coef := make([]float64, n)
	var sum float64
	for i = n - 1; i >= 0; i-- {
		sum = rhs.data[i]
		for j = i + 1; j < n; j++ {
			sum -= r.data[i*n+j] * coef[j]
		}
		coef[i] = sum / r.data[i*n+i]
	}

	fitted, err := MatVec(a, coef)
	if err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	resid := make([]float64, m)
	for i = 0; i < m; i++ {
		resid[i] = y[i] - fitted[i]
	}

	return &LeastSquaresResult{Coef: coef, Fitted: fitted, Residuals: resid, Rank: rank}, nil
}
