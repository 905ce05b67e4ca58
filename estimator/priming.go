// SPDX-License-Identifier: MIT

// Package estimator: per-cell lineage-priming degree.

package estimator

import (
	"fmt"
	"math"
)

// PrimingMethod selects how fate commitment is scored.
type PrimingMethod uint8

const (
	// PrimingKL scores each cell by the Kullback-Leibler divergence of its
	// fate distribution from the population-mean fate distribution; 0 for
	// a cell whose fates mirror the population, larger the more biased.
	PrimingKL PrimingMethod = iota
	// PrimingEntropy scores each cell by 1 - H(p)/log(K): 1 for a fully
	// committed (one-hot) cell, 0 for a perfectly uncommitted one.
	PrimingEntropy
)

// String renders the method for logs and errors.
func (m PrimingMethod) String() string {
	switch m {
	case PrimingKL:
		return "kl_divergence"
	case PrimingEntropy:
		return "entropy"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// Obs keys the priming degree is published under when the kernel carries a
// dataset.
const (
	ObsKeyPrimingForward  = "priming_degree_fwd"
	ObsKeyPrimingBackward = "priming_degree_bwd"
)

// ComputeLineagePriming derives a per-cell fate-commitment degree from the
// fate probability matrix. Requires ComputeFateProbabilities. When the
// kernel carries a dataset the scores are also published into its numeric
// annotations under the direction-dependent obs key.
func (e *CFLARE) ComputeLineagePriming(method PrimingMethod) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()
	if e.fate == nil {
		return ErrNoFateProbabilities
	}

	n, k := e.fate.Dims()
	score := make([]float64, n)

	switch method {
	case PrimingKL:
		ref := make([]float64, k)
		for j := 0; j < k; j++ {
			s := 0.0
			for i := 0; i < n; i++ {
				s += e.fate.probs.At(i, j)
			}
			ref[j] = s / float64(n)
		}
		for i := 0; i < n; i++ {
			d := 0.0
			for j := 0; j < k; j++ {
				p := e.fate.probs.At(i, j)
				if p <= 0 {
					continue
				}
				d += p * math.Log(p/ref[j])
			}
			if d < 0 {
				d = 0
			}
			score[i] = d
		}

	case PrimingEntropy:
		if k < 2 {
			for i := range score {
				score[i] = 1
			}
			break
		}
		norm := math.Log(float64(k))
		for i := 0; i < n; i++ {
			h := 0.0
			for j := 0; j < k; j++ {
				p := e.fate.probs.At(i, j)
				if p <= 0 {
					continue
				}
				h -= p * math.Log(p)
			}
			s := 1 - h/norm
			if s < 0 {
				s = 0
			}
			score[i] = s
		}

	default:
		return fmt.Errorf("%w: %s", ErrBadPrimingMethod, method)
	}

	e.priming = score

	if ds := e.k.Dataset(); ds != nil {
		key := ObsKeyPrimingForward
		if e.k.Backward() {
			key = ObsKeyPrimingBackward
		}
		if err := ds.SetObs(key, append([]float64(nil), score...)); err != nil {
			return err
		}
	}

	return nil
}

// PrimingDegree returns the per-cell scores of the last
// ComputeLineagePriming call, nil before it ran. Read-only.
func (e *CFLARE) PrimingDegree() []float64 { return e.priming }
