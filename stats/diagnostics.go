package stats

import (
	"fmt"
	"math"

	"github.com/poldracklab/labutils/matrix"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Diagnostics describes the design of a fit and the per-coefficient
// t-tests. Computed on demand from the design retained by OLS.
type Diagnostics struct {
	ColumnMeans []float64
	ColumnSDs   []float64 // sample standard deviation (n−1); 0 for a constant column

	StdErr  []float64 // sqrt(σ² · diag((XᵀX)⁻¹)), σ² = SSR/DFResid
	TValues []float64
	PValues []float64 // two-sided, Student's t with DFResid degrees of freedom

	CondNumber float64 // sqrt(λmax/λmin) of XᵀX; +Inf when XᵀX is singular
}

// Diagnostics computes design and coefficient diagnostics for r.
//
// Errors: matrix.ErrNilMatrix for a result not produced by OLS,
// ErrNoConvergence, wrapped matrix errors.
func (r *OLSResult) Diagnostics() (*Diagnostics, error) {
	if r.design == nil {
		return nil, fmt.Errorf("Diagnostics: %w", matrix.ErrNilMatrix)
	}
	d := &Diagnostics{}

	xc, means, err := matrix.CenterColumns(r.design)
	if err != nil {
		return nil, fmt.Errorf("Diagnostics: %w", err)
	}
	p := len(means)
	d.ColumnMeans = means
	d.ColumnSDs = make([]float64, p)
	for i := 0; i < xc.Rows(); i++ {
		row, err := xc.Row(i)
		if err != nil {
			return nil, fmt.Errorf("Diagnostics: %w", err)
		}
		for j, v := range row {
			d.ColumnSDs[j] += v * v
		}
	}
	for j := range d.ColumnSDs {
		d.ColumnSDs[j] = math.Sqrt(d.ColumnSDs[j] / float64(r.NObs-1))
	}

	xt, err := matrix.Transpose(r.design)
	if err != nil {
		return nil, fmt.Errorf("Diagnostics: %w", err)
	}
	gram, err := matrix.Mul(xt, r.design)
	if err != nil {
		return nil, fmt.Errorf("Diagnostics: %w", err)
	}
	sym := mat.NewSymDense(p, nil)
	for j := 0; j < p; j++ {
		col, err := gram.Col(j)
		if err != nil {
			return nil, fmt.Errorf("Diagnostics: %w", err)
		}
		for i := 0; i <= j; i++ {
			sym.SetSym(i, j, col[i])
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, fmt.Errorf("Diagnostics: %w", ErrNoConvergence)
	}
	vals := eig.Values(nil) // ascending
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	if vals[0] > 0 {
		d.CondNumber = math.Sqrt(vals[p-1] / vals[0])
	} else {
		d.CondNumber = math.Inf(1)
	}

	// diag((XᵀX)⁻¹)_j = Σ_k V[j,k]² / λ_k
	sigma2 := r.SSR / r.DFResid
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: r.DFResid}
	d.StdErr = make([]float64, p)
	d.TValues = make([]float64, p)
	d.PValues = make([]float64, p)
	for j := 0; j < p; j++ {
		var inv float64
		for k := 0; k < p; k++ {
			v := vecs.At(j, k)
			inv += v * v / vals[k]
		}
		if vals[0] <= 0 {
			inv = math.Inf(1)
		}
		se := math.Sqrt(sigma2 * inv)
		b := r.Params[j]
		d.StdErr[j] = se
		switch {
		case se > 0:
			d.TValues[j] = b / se
			d.PValues[j] = 2 * tdist.Survival(math.Abs(d.TValues[j]))
		case b == 0:
			d.TValues[j], d.PValues[j] = math.NaN(), math.NaN()
		default:
			d.TValues[j], d.PValues[j] = math.Copysign(math.Inf(1), b), 0
		}
	}

	return d, nil
}
