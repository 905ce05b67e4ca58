// SPDX-License-Identifier: MIT

// Package estimator: conditional absorption times over the solved chain.

package estimator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// AbsorptionTimes holds, per requested state group, the conditional mean
// (and optionally variance) of the number of steps until absorption.
// Rows follow the cell order; terminal cells inside a group read 0, cells
// that cannot reach the group read NaN.
type AbsorptionTimes struct {
	keys []string
	mean *mat.Dense
	vari *mat.Dense // nil when variance was not requested
}

// Keys returns the group keys in column order. Read-only.
func (a *AbsorptionTimes) Keys() []string { return a.keys }

// Mean returns the N×len(keys) matrix of conditional mean times. Read-only.
func (a *AbsorptionTimes) Mean() *mat.Dense { return a.mean }

// Variance returns the matching variance matrix, nil when not computed.
func (a *AbsorptionTimes) Variance() *mat.Dense { return a.vari }

// Clone returns a deep copy.
func (a *AbsorptionTimes) Clone() *AbsorptionTimes {
	if a == nil {
		return nil
	}
	cp := &AbsorptionTimes{
		keys: append([]string(nil), a.keys...),
		mean: mat.DenseCopyOf(a.mean),
	}
	if a.vari != nil {
		cp.vari = mat.DenseCopyOf(a.vari)
	}

	return cp
}

// ComputeAbsorptionTimes solves for the expected steps to absorption into
// each keyed state group, conditional on absorption there. A key names
// either a single terminal state or a comma-separated union ("Alpha, Beta").
// Requires fate probabilities; reuses their I-Q factorisation when the
// direct solver produced one.
func (e *CFLARE) ComputeAbsorptionTimes(keys []string, withVariance bool, opts ...SolveOption) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()
	if e.fate == nil || e.q == nil {
		return ErrNoFateProbabilities
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: no state groups requested", ErrInvalidStateNames)
	}
	o := defaultSolveOptions()
	for _, opt := range opts {
		opt(&o)
	}

	groups, err := e.resolveGroups(keys)
	if err != nil {
		return err
	}

	n, _ := e.fate.Dims()
	nt := len(e.transient)
	mean := nanDense(n, len(keys))
	var vari *mat.Dense
	if withVariance {
		vari = nanDense(n, len(keys))
	}

	for col, members := range groups {
		// b: absorption probability into the union, on transient rows.
		b := mat.NewDense(nt, 1, nil)
		for ti, i := range e.transient {
			sum := 0.0
			for _, j := range members {
				sum += e.fate.Dense().At(i, j)
			}
			b.Set(ti, 0, sum)
		}

		u, err := e.solveWithFactorization(b, o)
		if err != nil {
			return err
		}

		var v *mat.Dense
		if withVariance {
			// (I-Q)v = b + 2Qu gives the conditional second moment.
			rhs := mat.NewDense(nt, 1, nil)
			rhs.Mul(e.q, u)
			rhs.Scale(2, rhs)
			rhs.Add(rhs, b)
			if v, err = e.solveWithFactorization(rhs, o); err != nil {
				return err
			}
		}

		for ti, i := range e.transient {
			bi := b.At(ti, 0)
			if bi <= DefaultNegTol {
				continue // unreachable group: stays NaN
			}
			m := u.At(ti, 0) / bi
			mean.Set(i, col, m)
			if withVariance {
				vv := v.At(ti, 0)/bi - m*m
				if vv < 0 {
					vv = 0
				}
				vari.Set(i, col, vv)
			}
		}
		// Terminal cells inside the group are absorbed already.
		for _, j := range members {
			for i, l := range e.terminal.labels {
				if l == e.fate.Names()[j] {
					mean.Set(i, col, 0)
					if withVariance {
						vari.Set(i, col, 0)
					}
				}
			}
		}
	}

	e.absTimes = &AbsorptionTimes{
		keys: append([]string(nil), keys...),
		mean: mean,
		vari: vari,
	}

	return nil
}

// resolveGroups parses each key into fate-column indices, honoring the
// comma-union grammar.
func (e *CFLARE) resolveGroups(keys []string) ([][]int, error) {
	colOf := make(map[string]int, len(e.fate.Names()))
	for j, name := range e.fate.Names() {
		colOf[name] = j
	}

	groups := make([][]int, len(keys))
	var invalid []string
	for k, key := range keys {
		for _, part := range strings.Split(key, ",") {
			name := strings.TrimSpace(part)
			j, ok := colOf[name]
			if !ok {
				invalid = append(invalid, name)
				continue
			}
			groups[k] = append(groups[k], j)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)

		return nil, fmt.Errorf("%w: %v; valid: [%s]",
			ErrInvalidStateNames, invalid, strings.Join(e.fate.Names(), " "))
	}

	return groups, nil
}

// solveWithFactorization solves (I-Q)x = b, preferring the cached LU.
func (e *CFLARE) solveWithFactorization(b *mat.Dense, o solveOptions) (*mat.Dense, error) {
	if e.lu != nil {
		var x mat.Dense
		if err := e.lu.SolveTo(&x, false, b); err != nil {
			return nil, fmt.Errorf("estimator: absorption-time solve: %w", err)
		}

		return &x, nil
	}

	return jacobiFixedPoint(e.q, b, o.tol, o.maxIter)
}

func nanDense(r, c int) *mat.Dense {
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, math.NaN())
		}
	}

	return d
}
