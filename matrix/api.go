// SPDX-License-Identifier: MIT
// Package matrix: constructors for design matrices built from labels.

package matrix

// NewIndicator returns the n×k membership matrix of a labelling:
// entry (i, labels[i]) is 1, everything else 0. Labels must lie in [0,k).
//
// Errors:
//   - ErrInvalidDimensions (n == 0 or k <= 0), ErrOutOfRange (label outside [0,k)).
//
// Complexity: O(n*k) zeroing + O(n) writes.
func NewIndicator(labels []int, k int) (*Dense, error) {
	d, err := NewDense(len(labels), k)
	if err != nil {
		return nil, err
	}
	for i, l := range labels {
		if err = d.Set(i, l, 1); err != nil {
			return nil, err
		}
	}

	return d, nil
}
