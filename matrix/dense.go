// SPDX-License-Identifier: MIT

// Package matrix: conversions between CSR and gonum's dense representation.
// Dense form is used by the spectral and estimator layers, which hand the
// matrices to gonum's eigendecomposition and linear solvers.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FromDense builds a CSR from a gonum dense matrix, skipping exact zeros.
// Returns ErrNilMatrix for a nil input and ErrNaNInf on non-finite entries.
// O(r*c).
func FromDense(d mat.Matrix) (*CSR, error) {
	if d == nil {
		return nil, ErrNilMatrix
	}
	r, c := d.Dims()
	if r <= 0 || c <= 0 {
		return nil, ErrBadShape
	}
	out := &CSR{rows: r, cols: c, indptr: make([]int, r+1)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := d.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNaNInf
			}
			if v == 0 {
				continue
			}
			out.indices = append(out.indices, j)
			out.data = append(out.data, v)
		}
		out.indptr[i+1] = len(out.data)
	}

	return out, nil
}

// ToDense materialises the CSR as a gonum dense matrix. O(r*c).
func (c *CSR) ToDense() (*mat.Dense, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	d := mat.NewDense(c.rows, c.cols, nil)
	for i := 0; i < c.rows; i++ {
		for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
			d.Set(i, c.indices[k], c.data[k])
		}
	}

	return d, nil
}

// Submatrix extracts the dense block c[rowIdx, colIdx] in the given index
// order. Used by the fate-probability solver to build the transient (Q) and
// absorbing (R) blocks. Returns ErrOutOfRange on any invalid index and
// ErrBadShape on empty index sets. O(len(rowIdx) * nnz-per-row).
func (c *CSR) Submatrix(rowIdx, colIdx []int) (*mat.Dense, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	if len(rowIdx) == 0 || len(colIdx) == 0 {
		return nil, ErrBadShape
	}
	// Inverse column map: original column -> position in colIdx, or -1.
	colPos := make([]int, c.cols)
	for j := range colPos {
		colPos[j] = -1
	}
	for p, j := range colIdx {
		if j < 0 || j >= c.cols {
			return nil, ErrOutOfRange
		}
		colPos[j] = p
	}

	d := mat.NewDense(len(rowIdx), len(colIdx), nil)
	for p, i := range rowIdx {
		if i < 0 || i >= c.rows {
			return nil, ErrOutOfRange
		}
		for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
			if q := colPos[c.indices[k]]; q >= 0 {
				d.Set(p, q, c.data[k])
			}
		}
	}

	return d, nil
}
