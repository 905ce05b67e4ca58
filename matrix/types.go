// SPDX-License-Identifier: MIT

// Package matrix: CSR storage type and its accessors.
// The CSR layout is the classic three-array form (indptr/indices/data) with
// column-sorted rows and no explicit zeros. Construction goes through the
// Coo builder (coo.go) or FromDense (dense.go); once built, a CSR value is
// treated as read-only by every kernel in this package.

package matrix

// CSR is a compressed-sparse-row matrix of float64 values.
//
// Invariants (established by the builders, relied upon by all kernels):
//   - len(indptr) == rows+1, indptr[0] == 0, indptr[rows] == len(data).
//   - indices within each row are strictly increasing.
//   - len(indices) == len(data); no NaN/Inf entries.
//
// The zero value is not usable; construct via Coo, FromDense or Identity.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

// Rows returns the number of rows. O(1).
func (c *CSR) Rows() int { return c.rows }

// Cols returns the number of columns. O(1).
func (c *CSR) Cols() int { return c.cols }

// NNZ returns the number of stored (structurally non-zero) entries. O(1).
func (c *CSR) NNZ() int { return len(c.data) }

// Row returns the column indices and values of row i as sub-slice views into
// the CSR storage. The views MUST NOT be mutated by the caller; copy first if
// a scratch buffer is needed. Returns ErrOutOfRange for an invalid index.
// O(1).
func (c *CSR) Row(i int) (cols []int, vals []float64, err error) {
	if c == nil {
		return nil, nil, ErrNilMatrix
	}
	if i < 0 || i >= c.rows {
		return nil, nil, ErrOutOfRange
	}
	lo, hi := c.indptr[i], c.indptr[i+1]

	return c.indices[lo:hi], c.data[lo:hi], nil
}

// At returns the value at (i, j), or 0 if no entry is stored there.
// Returns ErrOutOfRange for invalid indices. O(log nnz(row i)).
func (c *CSR) At(i, j int) (float64, error) {
	if c == nil {
		return 0, ErrNilMatrix
	}
	if i < 0 || i >= c.rows || j < 0 || j >= c.cols {
		return 0, ErrOutOfRange
	}
	lo, hi := c.indptr[i], c.indptr[i+1]
	// Binary search over the sorted column indices of row i.
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case c.indices[mid] == j:
			return c.data[mid], nil
		case c.indices[mid] < j:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	return 0, nil
}

// Clone returns a deep copy sharing no memory with the receiver.
// O(nnz).
func (c *CSR) Clone() *CSR {
	if c == nil {
		return nil
	}
	out := &CSR{
		rows:    c.rows,
		cols:    c.cols,
		indptr:  make([]int, len(c.indptr)),
		indices: make([]int, len(c.indices)),
		data:    make([]float64, len(c.data)),
	}
	copy(out.indptr, c.indptr)
	copy(out.indices, c.indices)
	copy(out.data, c.data)

	return out
}

// Identity returns the n×n identity matrix in CSR form.
// Returns ErrBadShape when n <= 0.
func Identity(n int) (*CSR, error) {
	if n <= 0 {
		return nil, ErrBadShape
	}
	c := &CSR{
		rows:    n,
		cols:    n,
		indptr:  make([]int, n+1),
		indices: make([]int, n),
		data:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c.indptr[i+1] = i + 1
		c.indices[i] = i
		c.data[i] = 1.0
	}

	return c, nil
}
