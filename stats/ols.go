package stats

import (
	"fmt"
	"math"

	"github.com/poldracklab/labutils/matrix"
	"gonum.org/v1/gonum/stat/distuv"
)

// constantTol bounds the residual sum of squares (per observation) of the
// ones vector regressed on X below which X is taken to span a constant.
const constantTol = 1e-10

// OLSResult is the outcome of an ordinary-least-squares fit.
type OLSResult struct {
	Params    []float64 // coefficient per design column
	Fitted    []float64
	Residuals []float64

	NObs        int
	Rank        int
	HasConstant bool // design spans the constant vector (explicitly or implicitly)

	SSR float64 // residual sum of squares
	ESS float64 // explained sum of squares, TSS − SSR
	TSS float64 // centred when HasConstant, uncentred otherwise

	DFModel float64
	DFResid float64

	FValue   float64
	FPValue  float64 // P(F(DFModel, DFResid) ≥ FValue)
	RSquared float64

	design matrix.Matrix
}

// OLS regresses y on the columns of X and computes the overall F-test.
// opts are forwarded to every least-squares solve; callers that have
// already checked X and y for NaN/Inf may pass matrix.WithNoValidateNaNInf.
//
// Errors:
//   - matrix sentinels from the least-squares solve (ErrSingular,
//     ErrDimensionMismatch, ErrUnderdetermined, ErrNaNInf), wrapped.
//   - ErrDegenerateFit when DFModel ≤ 0, DFResid ≤ 0 or TSS == 0.
func OLS(X matrix.Matrix, y []float64, opts ...matrix.Option) (*OLSResult, error) {
	if len(y) == 0 {
		return nil, fmt.Errorf("OLS: %w", ErrEmptyInput)
	}
	fit, err := matrix.LeastSquares(X, y, opts...)
	if err != nil {
		return nil, fmt.Errorf("OLS: %w", err)
	}
	hasConst, err := spansConstant(X, opts...)
	if err != nil {
		return nil, fmt.Errorf("OLS: %w", err)
	}

	n := len(y)
	res := &OLSResult{
		Params:      fit.Coef,
		Fitted:      fit.Fitted,
		Residuals:   fit.Residuals,
		NObs:        n,
		Rank:        fit.Rank,
		HasConstant: hasConst,
		SSR:         sumSquares(fit.Residuals, 0),
		design:      X,
	}
	if hasConst {
		res.TSS = sumSquares(y, matrix.Mean(y))
		res.DFModel = float64(fit.Rank - 1)
	} else {
		res.TSS = sumSquares(y, 0)
		res.DFModel = float64(fit.Rank)
	}
	res.DFResid = float64(n - fit.Rank)

	if res.DFModel <= 0 || res.DFResid <= 0 {
		return nil, fmt.Errorf("OLS: df_model=%g df_resid=%g: %w", res.DFModel, res.DFResid, ErrDegenerateFit)
	}
	if res.TSS == 0 {
		return nil, fmt.Errorf("OLS: response has no variation: %w", ErrDegenerateFit)
	}

	res.ESS = math.Max(res.TSS-res.SSR, 0)
	res.RSquared = 1 - res.SSR/res.TSS
	if res.SSR == 0 {
		// Perfect fit: F is unbounded and the tail probability vanishes.
		res.FValue = math.Inf(1)
		res.FPValue = 0
		return res, nil
	}
	res.FValue = (res.ESS / res.DFModel) / (res.SSR / res.DFResid)
	res.FPValue = distuv.F{D1: res.DFModel, D2: res.DFResid}.Survival(res.FValue)

	return res, nil
}

// spansConstant reports whether the ones vector lies in the column space of X.
func spansConstant(X matrix.Matrix, opts ...matrix.Option) (bool, error) {
	n := X.Rows()
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	fit, err := matrix.LeastSquares(X, ones, opts...)
	if err != nil {
		return false, err
	}

	return sumSquares(fit.Residuals, 0) <= constantTol*float64(n), nil
}

// sumSquares returns Σ (x_i − center)².
func sumSquares(x []float64, center float64) float64 {
	var s float64
	for _, v := range x {
		d := v - center
		s += d * d
	}

	return s
}
