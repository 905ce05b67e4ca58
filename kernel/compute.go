// SPDX-License-Identifier: MIT

// Package kernel: transition-matrix computation and the parameter cache.

package kernel

import (
	"fmt"

	"github.com/lineagelab/fateflow/matrix"
	"github.com/lineagelab/fateflow/scheme"
)

// ComputeTransitionMatrix biases the neighbor graph (pseudotime kernels),
// row-normalises it and stores the result. Calling it again with identical
// parameters is a no-op returning the receiver; any parameter change
// replaces the matrix and bumps the generation counter.
//
// A disconnected biased graph and (when requested) a reducible chain are
// warned about, never fatal.
func (k *Kernel) ComputeTransitionMatrix(opts ...ComputeOption) (*Kernel, error) {
	if k == nil {
		return nil, ErrNilKernel
	}
	o := defaultComputeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch k.kind {
	case kindPrecomputed, kindCombined:
		// Born computed; nothing to recompute.
		return k, nil
	case kindPseudotime:
		if o.sch == nil {
			return nil, ErrNilScheme
		}
	}

	key := k.paramKey(k.schemeKeyFor(o))
	if k.state >= StateComputed && key == k.cacheKey {
		k.log.Debug("reusing cached transition matrix", "key", key)

		return k, nil
	}

	biased := k.conn
	if k.kind == kindPseudotime {
		nn := k.nNeighbors
		if nn == 0 {
			nn = k.estimateNeighborCount()
			k.log.Warn("neighbor count metadata missing; estimating from row degrees", "estimate", nn)
		}

		var err error
		biased, err = o.sch.Bias(k.conn, k.Pseudotime(),
			scheme.WithNeighborCount(nn),
			scheme.WithWorkers(o.workers),
			scheme.WithProgress(o.progress),
		)
		if err != nil {
			return nil, fmt.Errorf("kernel: biasing neighbor graph: %w", err)
		}

		if connected, err := matrix.IsConnected(biased); err != nil {
			return nil, err
		} else if !connected {
			k.log.Warn("biased neighbor graph is disconnected")
		}
	}

	t, err := matrix.NormalizeRows(biased)
	if err != nil {
		return nil, fmt.Errorf("kernel: normalizing transition matrix: %w", err)
	}

	if o.checkIrred {
		if irreducible, err := matrix.IsIrreducible(t); err != nil {
			return nil, err
		} else if !irreducible {
			k.log.Warn("transition matrix is reducible")
		}
	}

	k.t = t
	k.cacheKey = key
	k.state = StateComputed
	k.generation++

	return k, nil
}

// schemeKeyFor resolves the scheme identity that enters the cache key.
// Kernels that never bias contribute a fixed token so their key only moves
// with direction.
func (k *Kernel) schemeKeyFor(o computeOptions) string {
	if k.kind != kindPseudotime || o.sch == nil {
		return "none"
	}

	return o.sch.CacheKey()
}

// estimateNeighborCount falls back to the smallest nonzero row degree of
// the connectivity graph when the construction metadata is missing.
func (k *Kernel) estimateNeighborCount() int {
	est := 0
	for i := 0; i < k.conn.Rows(); i++ {
		cols, _, err := k.conn.Row(i)
		if err != nil || len(cols) == 0 {
			continue
		}
		if est == 0 || len(cols) < est {
			est = len(cols)
		}
	}
	if est == 0 {
		est = 1
	}

	return est
}
