package kfold

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/poldracklab/labutils/matrix"
	"github.com/poldracklab/labutils/stats"
	"go.uber.org/zap"
)

// Defaults for Options.
const (
	DefaultNFolds    = 5
	DefaultPThresh   = 0.8
	DefaultMaxSplits = 1000
)

// FTest is the outcome of one balance check.
//   - PValue — overall F-test p-value of fold membership on the response.
//   - Report — optional human-readable fit report; rendered only when logged.
type FTest struct {
	PValue float64
	Report fmt.Stringer
}

// FTester scores a candidate split: design is the N×K fold indicator and y
// the mean-centred response.
type FTester interface {
	FTest(design matrix.Matrix, y []float64) (FTest, error)
}

// FTesterFunc adapts a plain function to FTester.
type FTesterFunc func(design matrix.Matrix, y []float64) (FTest, error)

// FTest calls f.
func (f FTesterFunc) FTest(design matrix.Matrix, y []float64) (FTest, error) { return f(design, y) }

// OLSTester is the default FTester: an OLS fit with its overall F-test.
type OLSTester struct{}

// FTest fits y on design and reports the F-test p-value. Split has already
// rejected non-finite responses and the indicator design is finite, so the
// per-candidate finite check is skipped.
func (OLSTester) FTest(design matrix.Matrix, y []float64) (FTest, error) {
	fit, err := stats.OLS(design, y, matrix.WithNoValidateNaNInf())
	if err != nil {
		return FTest{}, err
	}

	return FTest{PValue: fit.FPValue, Report: fit}, nil
}

// Options configures BalancedKFold.
//
// Fields:
//   - NFolds      — number of folds K (≥ 2, ≤ len(y)).
//   - PThresh     — accept the first split whose p-value exceeds this (0 < PThresh < 1).
//   - MaxSplits   — attempt budget (≥ 1); after it the best split seen is returned.
//   - Verbose     — log the fit report of the accepted split at info level.
//   - Rand        — random source; nil means a freshly seeded PCG.
//   - Tester      — balance test; nil means OLSTester.
//   - Logger      — zap logger; nil means a console logger on stderr at warn
//     level (info when Verbose), so the fallback warning and the verbose
//     report are always visible. Pass zap.NewNop() to silence it.
//   - OnCandidate — optional hook called after every scored candidate.
type Options struct {
	NFolds      int
	PThresh     float64
	MaxSplits   int
	Verbose     bool
	Rand        *rand.Rand
	Tester      FTester
	Logger      *zap.Logger
	OnCandidate func(attempt int, pValue float64)
}

// DefaultOptions returns Options with NFolds=5, PThresh=0.8, MaxSplits=1000.
func DefaultOptions() Options {
	return Options{
		NFolds:    DefaultNFolds,
		PThresh:   DefaultPThresh,
		MaxSplits: DefaultMaxSplits,
	}
}

// Fold is one (train, test) pair. Both index slices are ascending.
type Fold struct {
	Train []int
	Test  []int
}

// Split is the partition returned by BalancedKFold.
//
// Fields:
//   - Folds      — exactly NFolds folds; test sets partition 0..N-1.
//   - Assignment — Assignment[i] is the test fold of sample i.
//   - PValue     — F-test p-value of this partition.
//   - Attempts   — candidates drawn before returning.
//   - Accepted   — false when the attempt budget ran out and the best split was returned.
type Split struct {
	Folds      []Fold
	Assignment []int
	PValue     float64
	Attempts   int
	Accepted   bool
}

// All yields the (train, test) pairs in fold order.
func (s *Split) All() iter.Seq2[[]int, []int] {
	return func(yield func([]int, []int) bool) {
		for _, f := range s.Folds {
			if !yield(f.Train, f.Test) {
				return
			}
		}
	}
}
