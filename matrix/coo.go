// SPDX-License-Identifier: MIT

// Package matrix: triplet (COO) builder for CSR assembly.
// Appends are O(1); ToCSR performs a deterministic counting-sort by row,
// an in-row sort by column, and duplicate coalescing by summation.

package matrix

import (
	"math"
	"sort"
)

// Coo accumulates (row, col, value) triplets prior to CSR assembly.
// The builder is single-goroutine; parallel producers should fill disjoint
// per-row slices and append them in row order to keep assembly deterministic.
type Coo struct {
	rows, cols int
	ri, ci     []int
	vals       []float64
}

// NewCoo returns an empty builder for an r×c matrix.
// Returns ErrBadShape when r <= 0 or c <= 0.
func NewCoo(r, c int) (*Coo, error) {
	if r <= 0 || c <= 0 {
		return nil, ErrBadShape
	}

	return &Coo{rows: r, cols: c}, nil
}

// Rows returns the target row count. O(1).
func (b *Coo) Rows() int { return b.rows }

// Cols returns the target column count. O(1).
func (b *Coo) Cols() int { return b.cols }

// Append records a triplet. Zero values are skipped (CSR stores no explicit
// zeros). Returns ErrOutOfRange on invalid indices and ErrNaNInf on
// non-finite values.
func (b *Coo) Append(i, j int, v float64) error {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return ErrOutOfRange
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNaNInf
	}
	if v == 0 {
		return nil
	}
	b.ri = append(b.ri, i)
	b.ci = append(b.ci, j)
	b.vals = append(b.vals, v)

	return nil
}

// AppendRow records a whole row at once; cols need not be sorted.
// Lengths of cols and vals must match (ErrDimensionMismatch otherwise).
func (b *Coo) AppendRow(i int, cols []int, vals []float64) error {
	if len(cols) != len(vals) {
		return ErrDimensionMismatch
	}
	for k := range cols {
		if err := b.Append(i, cols[k], vals[k]); err != nil {
			return err
		}
	}

	return nil
}

// ToCSR assembles the accumulated triplets into a CSR matrix.
//
// Triplets sharing (i, j) are summed. Entries that coalesce to exactly zero
// are kept out of the structure. Assembly order is fixed (row-major, columns
// ascending), so the result is independent of append order.
// O(nnz log nnz) time, O(nnz) space.
func (b *Coo) ToCSR() (*CSR, error) {
	if b == nil {
		return nil, ErrNilMatrix
	}
	nnz := len(b.vals)
	order := make([]int, nnz)
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(p, q int) bool {
		kp, kq := order[p], order[q]
		if b.ri[kp] != b.ri[kq] {
			return b.ri[kp] < b.ri[kq]
		}

		return b.ci[kp] < b.ci[kq]
	})

	out := &CSR{
		rows:    b.rows,
		cols:    b.cols,
		indptr:  make([]int, b.rows+1),
		indices: make([]int, 0, nnz),
		data:    make([]float64, 0, nnz),
	}
	// Merge sorted triplets, summing duplicates.
	prevRow, prevCol := -1, -1
	for _, k := range order {
		r, c, v := b.ri[k], b.ci[k], b.vals[k]
		if r == prevRow && c == prevCol {
			out.data[len(out.data)-1] += v
			continue
		}
		out.indices = append(out.indices, c)
		out.data = append(out.data, v)
		prevRow, prevCol = r, c
		out.indptr[r+1]++
	}
	// Drop entries that coalesced to zero, then prefix-sum row counts.
	if err := out.compact(); err != nil {
		return nil, err
	}

	return out, nil
}

// compact removes exact-zero entries produced by duplicate coalescing and
// converts per-row counts in indptr[1:] into cumulative offsets.
func (c *CSR) compact() error {
	w := 0
	row := 0
	counts := make([]int, c.rows)
	pos := 0
	for row = 0; row < c.rows; row++ {
		n := c.indptr[row+1]
		for k := 0; k < n; k++ {
			v := c.data[pos]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ErrNaNInf
			}
			if v != 0 {
				c.indices[w] = c.indices[pos]
				c.data[w] = v
				counts[row]++
				w++
			}
			pos++
		}
	}
	c.indices = c.indices[:w]
	c.data = c.data[:w]
	c.indptr[0] = 0
	for row = 0; row < c.rows; row++ {
		c.indptr[row+1] = c.indptr[row] + counts[row]
	}

	return nil
}
