// SPDX-License-Identifier: MIT

package scheme

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lineagelab/fateflow/matrix"
)

// RowFunc re-weights one cell's neighborhood. It receives the cell's own
// pseudotime, the pseudotimes of its neighbors and the matching connectivity
// weights, and returns a slice of the same length holding the biased
// weights. Entries set to 0 drop the edge. The function must not mutate its
// inputs and must be safe for concurrent calls on distinct rows.
type RowFunc func(cellPseudotime float64, neighPseudotime, weights []float64) []float64

// Scheme is the closed set of edge-biasing policies: Hard, Soft, or Custom.
type Scheme interface {
	// Bias maps the connectivity graph and pseudotime vector to the biased
	// directed graph. The result has the same shape and a (possibly strict)
	// subset of the input's edges.
	Bias(conn *matrix.CSR, pseudotime []float64, opts ...Option) (*matrix.CSR, error)

	// CacheKey canonically encodes the scheme's identity and parameters,
	// for parameter-cache comparison by callers.
	CacheKey() string
}

// biasRows runs fn over every row of conn, honoring the worker and progress
// options. Rows are assembled into the output in index order, so the result
// is byte-identical no matter how many workers ran.
func biasRows(conn *matrix.CSR, pseudotime []float64, fn RowFunc, o options) (*matrix.CSR, error) {
	if err := matrix.ValidateSquare(conn); err != nil {
		return nil, err
	}
	n := conn.Rows()
	if err := matrix.ValidateVecLen(pseudotime, n); err != nil {
		return nil, err
	}

	biased := make([][]float64, n)
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			cols, vals, err := conn.Row(i)
			if err != nil {
				return err
			}
			neighPT := make([]float64, len(cols))
			for k, j := range cols {
				neighPT[k] = pseudotime[j]
			}

			out := fn(pseudotime[i], neighPT, vals)
			if len(out) != len(vals) {
				return ErrRowShape
			}
			biased[i] = out

			if o.progress != nil {
				o.progress(int(done.Add(1)), n)
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	coo, err := matrix.NewCoo(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		cols, _, err := conn.Row(i)
		if err != nil {
			return nil, err
		}
		if err := coo.AppendRow(i, cols, biased[i]); err != nil {
			return nil, err
		}
	}

	return coo.ToCSR()
}
