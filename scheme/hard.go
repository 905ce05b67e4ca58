// SPDX-License-Identifier: MIT

// Package scheme: hard threshold — prune past edges outside a per-cell quota.

package scheme

import (
	"fmt"
	"math"
	"sort"

	"github.com/lineagelab/fateflow/matrix"
)

// Hard drops every edge to the pseudotemporal past except the
// ceil(FracToKeep·nNeighbors) heaviest edges of each cell, which survive
// regardless of direction so the graph does not fragment around local
// pseudotime noise.
type Hard struct {
	fracToKeep float64
}

// NewHard builds a hard scheme. fracToKeep must lie in (0, 1].
func NewHard(fracToKeep float64) (Hard, error) {
	if math.IsNaN(fracToKeep) || fracToKeep <= 0 || fracToKeep > 1 {
		return Hard{}, fmt.Errorf("%w: got %g", ErrFracToKeep, fracToKeep)
	}

	return Hard{fracToKeep: fracToKeep}, nil
}

// DefaultHard returns a hard scheme with FracToKeep = DefaultFracToKeep.
func DefaultHard() Hard {
	h, _ := NewHard(DefaultFracToKeep)

	return h
}

// FracToKeep reports the configured retention fraction.
func (h Hard) FracToKeep() float64 { return h.fracToKeep }

// CacheKey implements Scheme.
func (h Hard) CacheKey() string {
	return fmt.Sprintf("hard:frac_to_keep=%g", h.fracToKeep)
}

// Bias implements Scheme.
func (h Hard) Bias(conn *matrix.CSR, pseudotime []float64, opts ...Option) (*matrix.CSR, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return biasRows(conn, pseudotime, h.rowFunc(o.nNeighbors), o)
}

// rowFunc keeps future neighbors plus the quota of heaviest edges.
// Ties in weight break toward the earlier neighbor position, so the
// retained set does not depend on sort internals.
func (h Hard) rowFunc(nNeighbors int) RowFunc {
	return func(cellPT float64, neighPT, weights []float64) []float64 {
		deg := len(weights)
		nn := nNeighbors
		if nn == 0 {
			nn = deg
		}
		quota := int(math.Ceil(h.fracToKeep * float64(nn)))
		if quota > deg {
			quota = deg
		}

		// Positions of the quota heaviest edges.
		order := make([]int, deg)
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(p, q int) bool {
			return weights[order[p]] > weights[order[q]]
		})
		keep := make([]bool, deg)
		for _, k := range order[:quota] {
			keep[k] = true
		}

		out := make([]float64, deg)
		for k := range weights {
			if keep[k] || neighPT[k] >= cellPT {
				out[k] = weights[k]
			}
		}

		return out
	}
}
