package kfold

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/poldracklab/labutils/matrix"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrInvalidFolds indicates NFolds < 2.
	ErrInvalidFolds = errors.New("kfold: NFolds must be at least 2")

	// ErrTooFewSamples indicates NFolds exceeds the number of samples.
	ErrTooFewSamples = errors.New("kfold: NFolds exceeds number of samples")

	// ErrInvalidThreshold indicates PThresh outside (0,1).
	ErrInvalidThreshold = errors.New("kfold: PThresh must lie in (0,1)")

	// ErrInvalidMaxSplits indicates MaxSplits < 1.
	ErrInvalidMaxSplits = errors.New("kfold: MaxSplits must be at least 1")

	// ErrEmptyResponse indicates an empty response vector.
	ErrEmptyResponse = errors.New("kfold: response vector is empty")

	// ErrNaNPValue indicates the balance test produced a NaN p-value.
	ErrNaNPValue = errors.New("kfold: balance test returned NaN p-value")
)

// stderr receives the output of splitters built without a Logger.
var stderr zapcore.WriteSyncer = os.Stderr

func consoleLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.InfoLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	return zap.New(zapcore.NewCore(enc, zapcore.Lock(stderr), level))
}

// BalancedKFold draws shuffled K-fold partitions until one is balanced on Y.
// It holds configuration only; every Split call is independent.
type BalancedKFold struct {
	opts   Options
	rng    *rand.Rand
	tester FTester
	log    *zap.Logger
}

// New validates opts and returns a splitter.
// Errors: ErrInvalidFolds, ErrInvalidThreshold, ErrInvalidMaxSplits.
func New(opts Options) (*BalancedKFold, error) {
	if opts.NFolds < 2 {
		return nil, ErrInvalidFolds
	}
	if !(opts.PThresh > 0 && opts.PThresh < 1) { // also rejects NaN
		return nil, ErrInvalidThreshold
	}
	if opts.MaxSplits < 1 {
		return nil, ErrInvalidMaxSplits
	}

	b := &BalancedKFold{opts: opts, rng: opts.Rand, tester: opts.Tester, log: opts.Logger}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if b.tester == nil {
		b.tester = OLSTester{}
	}
	if b.log == nil {
		b.log = consoleLogger(opts.Verbose)
	}

	return b, nil
}

// Split partitions the indices of y into NFolds balanced folds.
//
// Algorithm:
//  1. Draw a shuffled K-fold assignment (first N mod K folds get one extra sample).
//  2. Score it: F-test of the mean-centred y on the N×K fold indicator.
//  3. Return the first candidate with p > PThresh.
//  4. After MaxSplits candidates, warn and return the best one seen.
//
// Errors:
//   - ErrEmptyResponse, ErrTooFewSamples, matrix.ErrNaNInf — before any draw.
//   - fit errors from the tester (e.g. stats.ErrDegenerateFit for constant y), wrapped.
func (b *BalancedKFold) Split(y []float64) (*Split, error) {
	n, k := len(y), b.opts.NFolds
	if n == 0 {
		return nil, ErrEmptyResponse
	}
	if k > n {
		return nil, fmt.Errorf("%w: NFolds=%d, samples=%d", ErrTooFewSamples, k, n)
	}
	if err := matrix.ValidateFinite(y); err != nil {
		return nil, fmt.Errorf("kfold: response: %w", err)
	}

	mu := matrix.Mean(y)
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - mu
	}

	var best []int
	bestP := math.Inf(-1)
	for attempt := 1; attempt <= b.opts.MaxSplits; attempt++ {
		labels := b.draw(n, k)
		design, err := matrix.NewIndicator(labels, k)
		if err != nil {
			return nil, fmt.Errorf("kfold: attempt %d: %w", attempt, err)
		}
		res, err := b.tester.FTest(design, yc)
		if err != nil {
			return nil, fmt.Errorf("kfold: attempt %d: %w", attempt, err)
		}
		if math.IsNaN(res.PValue) {
			return nil, fmt.Errorf("kfold: attempt %d: %w", attempt, ErrNaNPValue)
		}
		if b.opts.OnCandidate != nil {
			b.opts.OnCandidate(attempt, res.PValue)
		}
		b.log.Debug("candidate split", zap.Int("attempt", attempt), zap.Float64("p", res.PValue))

		if res.PValue > bestP {
			bestP, best = res.PValue, labels
		}
		if res.PValue > b.opts.PThresh {
			if b.opts.Verbose {
				fields := []zap.Field{zap.Int("attempt", attempt), zap.Float64("p", res.PValue)}
				if res.Report != nil {
					fields = append(fields, zap.Stringer("fit", res.Report))
				}
				b.log.Info("balanced split accepted", fields...)
			}

			return newSplit(labels, k, res.PValue, attempt, true), nil
		}
	}

	b.log.Warn("no sufficient split found, returning best",
		zap.Float64("p", bestP), zap.Int("attempts", b.opts.MaxSplits), zap.Float64("pthresh", b.opts.PThresh))

	return newSplit(best, k, bestP, b.opts.MaxSplits, false), nil
}

// BalancedSplit is a one-shot helper: New(*opts) followed by Split(y).
// A nil opts means DefaultOptions().
func BalancedSplit(y []float64, opts *Options) (*Split, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	b, err := New(o)
	if err != nil {
		return nil, err
	}

	return b.Split(y)
}

// draw returns a shuffled K-fold assignment: labels[i] is the test fold of i.
// Fold sizes follow the usual convention: the first n%k folds hold n/k+1 samples.
func (b *BalancedKFold) draw(n, k int) []int {
	perm := b.rng.Perm(n)
	labels := make([]int, n)
	base, extra := n/k, n%k
	start := 0
	for f := 0; f < k; f++ {
		size := base
		if f < extra {
			size++
		}
		for _, idx := range perm[start : start+size] {
			labels[idx] = f
		}
		start += size
	}

	return labels
}

// newSplit expands a fold assignment into ascending train/test index lists.
func newSplit(labels []int, k int, p float64, attempts int, accepted bool) *Split {
	folds := make([]Fold, k)
	for i, f := range labels {
		folds[f].Test = append(folds[f].Test, i)
	}
	for f := range folds {
		train := make([]int, 0, len(labels)-len(folds[f].Test))
		for i, l := range labels {
			if l != f {
				train = append(train, i)
			}
		}
		folds[f].Train = train
	}

	return &Split{
		Folds:      folds,
		Assignment: slices.Clone(labels),
		PValue:     p,
		Attempts:   attempts,
		Accepted:   accepted,
	}
}
