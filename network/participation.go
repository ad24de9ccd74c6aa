// SPDX-License-Identifier: MIT
// Package: labutils/network
//
// participation.go — participation coefficient and node strengths.
//
// Contract:
//   • W is square, non-negative; ci has one label per node.
//   • Every distinct label is a community, including the smallest one.
//   • O(n²) time, O(n + C) space.

package network

import (
	"errors"
	"fmt"
	"math"

	"github.com/poldracklab/labutils/matrix"
)

var (
	// ErrLabelLength indicates len(ci) differs from the number of nodes.
	ErrLabelLength = errors.New("network: community labels do not match node count")

	// ErrNegativeWeight indicates a negative connection weight.
	ErrNegativeWeight = errors.New("network: negative weight")
)

// Degrees returns the row sums (out-strengths) of a square W.
func Degrees(W matrix.Matrix) ([]float64, error) {
	if err := matrix.ValidateSquare(W); err != nil {
		return nil, fmt.Errorf("Degrees: %w", err)
	}

	return matrix.RowSums(W)
}

// Participation returns the participation coefficient of every node.
//
// Errors: matrix.ErrNilMatrix / ErrNonSquare (wrapped), ErrLabelLength,
// ErrNegativeWeight, matrix.ErrNaNInf.
func Participation(W matrix.Matrix, ci []int) ([]float64, error) {
	if err := matrix.ValidateSquare(W); err != nil {
		return nil, fmt.Errorf("Participation: %w", err)
	}
	n := W.Rows()
	if len(ci) != n {
		return nil, fmt.Errorf("Participation: %d labels for %d nodes: %w", len(ci), n, ErrLabelLength)
	}

	// dense community index per node
	idx := make(map[int]int)
	comm := make([]int, n)
	for i, c := range ci {
		if _, ok := idx[c]; !ok {
			idx[c] = len(idx)
		}
		comm[i] = idx[c]
	}

	p := make([]float64, n)
	kc := make([]float64, len(idx))
	for i := 0; i < n; i++ {
		clear(kc)
		var k float64
		for j := 0; j < n; j++ {
			w, err := W.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("Participation: %w", err)
			}
			switch {
			case math.IsNaN(w) || math.IsInf(w, 0):
				return nil, fmt.Errorf("Participation: W[%d,%d]: %w", i, j, matrix.ErrNaNInf)
			case w < 0:
				return nil, fmt.Errorf("Participation: W[%d,%d]=%g: %w", i, j, w, ErrNegativeWeight)
			}
			k += w
			kc[comm[j]] += w
		}
		if k == 0 {
			continue
		}
		var s float64
		for _, v := range kc {
			r := v / k
			s += r * r
		}
		p[i] = 1 - s
	}

	return p, nil
}
