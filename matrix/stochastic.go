// SPDX-License-Identifier: MIT

// Package matrix: row-stochastic kernels.
// NormalizeRows is the single place a weight graph becomes a Markov-chain
// transition matrix; AddScaled is the arithmetic behind kernel combination.
// Both allocate fresh results and leave operands untouched.

package matrix

import (
	"fmt"
	"math"
)

// DefaultStochasticRTol is the relative tolerance used by ValidateStochastic
// when callers pass a non-positive tolerance.
const DefaultStochasticRTol = 1e-6

// RowSums returns the per-row sums of c. O(nnz).
func RowSums(c *CSR) ([]float64, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	sums := make([]float64, c.rows)
	for i := 0; i < c.rows; i++ {
		s := 0.0
		for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
			s += c.data[k]
		}
		sums[i] = s
	}

	return sums, nil
}

// NormalizeRows divides every row of c by its sum, producing a row-stochastic
// matrix. Requirements and fix-ups:
//
//   - c must be square (ErrNonSquare) with non-negative entries
//     (ErrNegativeWeight): weights are connectivities, not signed values.
//   - An all-zero row describes a node with no outgoing edges; it is fixed up
//     to an absorbing self-loop (probability 1 on the diagonal) so that the
//     result is stochastic everywhere.
//
// O(nnz + rows) time; operand is not mutated.
func NormalizeRows(c *CSR) (*CSR, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	if c.rows != c.cols {
		return nil, ErrNonSquare
	}
	sums, err := RowSums(c)
	if err != nil {
		return nil, err
	}

	zeroRows := 0
	for i := range sums {
		if sums[i] < 0 || sums[i] == 0 {
			if sums[i] < 0 {
				return nil, ErrNegativeWeight
			}
			zeroRows++
		}
	}

	out := &CSR{
		rows:    c.rows,
		cols:    c.cols,
		indptr:  make([]int, c.rows+1),
		indices: make([]int, 0, len(c.indices)+zeroRows),
		data:    make([]float64, 0, len(c.data)+zeroRows),
	}
	for i := 0; i < c.rows; i++ {
		lo, hi := c.indptr[i], c.indptr[i+1]
		if sums[i] == 0 {
			// Isolated node: absorbing self-loop keeps the chain stochastic.
			out.indices = append(out.indices, i)
			out.data = append(out.data, 1.0)
			out.indptr[i+1] = len(out.data)
			continue
		}
		inv := 1.0 / sums[i]
		for k := lo; k < hi; k++ {
			if c.data[k] < 0 {
				return nil, ErrNegativeWeight
			}
			out.indices = append(out.indices, c.indices[k])
			out.data = append(out.data, c.data[k]*inv)
		}
		out.indptr[i+1] = len(out.data)
	}

	return out, nil
}

// AddScaled computes wa*a + wb*b for equally shaped matrices a and b.
// Weights must be finite (ErrNaNInf); shape mismatch yields
// ErrDimensionMismatch. Rows are merged with a two-pointer walk over the
// sorted column indices, so the output stays canonical CSR.
// O(nnz(a) + nnz(b)).
func AddScaled(a *CSR, wa float64, b *CSR, wb float64) (*CSR, error) {
	if a == nil || b == nil {
		return nil, ErrNilMatrix
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, ErrDimensionMismatch
	}
	if math.IsNaN(wa) || math.IsInf(wa, 0) || math.IsNaN(wb) || math.IsInf(wb, 0) {
		return nil, ErrNaNInf
	}

	out := &CSR{
		rows:   a.rows,
		cols:   a.cols,
		indptr: make([]int, a.rows+1),
	}
	for i := 0; i < a.rows; i++ {
		ka, kaEnd := a.indptr[i], a.indptr[i+1]
		kb, kbEnd := b.indptr[i], b.indptr[i+1]
		for ka < kaEnd || kb < kbEnd {
			var col int
			var v float64
			switch {
			case kb >= kbEnd || (ka < kaEnd && a.indices[ka] < b.indices[kb]):
				col, v = a.indices[ka], wa*a.data[ka]
				ka++
			case ka >= kaEnd || b.indices[kb] < a.indices[ka]:
				col, v = b.indices[kb], wb*b.data[kb]
				kb++
			default: // equal columns
				col, v = a.indices[ka], wa*a.data[ka]+wb*b.data[kb]
				ka++
				kb++
			}
			if v != 0 {
				out.indices = append(out.indices, col)
				out.data = append(out.data, v)
			}
		}
		out.indptr[i+1] = len(out.data)
	}

	return out, nil
}

// ValidateStochastic checks that every row of c sums to 1 within the given
// relative tolerance (DefaultStochasticRTol when rtol <= 0). On failure it
// returns ErrNotStochastic wrapped with the exact count of violating rows.
// O(nnz).
func ValidateStochastic(c *CSR, rtol float64) error {
	if c == nil {
		return ErrNilMatrix
	}
	if c.rows != c.cols {
		return ErrNonSquare
	}
	if rtol <= 0 {
		rtol = DefaultStochasticRTol
	}
	sums, err := RowSums(c)
	if err != nil {
		return err
	}
	bad := 0
	for _, s := range sums {
		if math.Abs(s-1.0) > rtol {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("`%d` row(s) do not sum to 1 (rtol=%.0e): %w", bad, rtol, ErrNotStochastic)
	}

	return nil
}
