// SPDX-License-Identifier: MIT

// Package kernel: the weighted-sum expression builder for kernel algebra.

package kernel

import (
	"fmt"
	"math"
	"strings"

	"github.com/lineagelab/fateflow/matrix"
)

// term is one weighted operand of a combination expression.
type term struct {
	k *Kernel
	w float64
}

// Expr is an immutable weighted sum of kernels, built with Scale and
// Combine and materialised with Kernel. Building an Expr never touches the
// operands.
type Expr struct {
	terms []term
}

// Scale attaches a non-negative weight to a kernel, yielding a one-term
// expression. The kernel need not be computed yet; computation is checked
// when the expression is materialised.
func Scale(k *Kernel, w float64) (Expr, error) {
	if k == nil {
		return Expr{}, ErrNilKernel
	}
	if math.IsNaN(w) || w < 0 {
		return Expr{}, fmt.Errorf("%w: got %g", ErrNegativeWeight, w)
	}

	return Expr{terms: []term{{k: k, w: w}}}, nil
}

// Combine concatenates expressions into a single weighted sum.
func Combine(exprs ...Expr) Expr {
	var out Expr
	for _, e := range exprs {
		out.terms = append(out.terms, e.terms...)
	}

	return out
}

// Kernel materialises the expression as a new combined kernel whose
// transition matrix is the weighted sum of the operands' matrices.
//
// Every operand must be computed, and all operands must agree on shape and
// direction. The weights are used as given: if they do not sum to 1 the
// result is not row-stochastic, which is the caller's responsibility.
func (e Expr) Kernel() (*Kernel, error) {
	if len(e.terms) == 0 {
		return nil, ErrEmptyExpr
	}

	first := e.terms[0].k
	t0, err := first.TransitionMatrix()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(e.terms))
	var sum *matrix.CSR
	for i, tm := range e.terms {
		ti, err := tm.k.TransitionMatrix()
		if err != nil {
			return nil, err
		}
		if ti.Rows() != t0.Rows() || ti.Cols() != t0.Cols() {
			return nil, fmt.Errorf("%w: %dx%d vs %dx%d",
				ErrShapeMismatch, t0.Rows(), t0.Cols(), ti.Rows(), ti.Cols())
		}
		if tm.k.backward != first.backward {
			return nil, ErrDirectionMismatch
		}

		if i == 0 {
			sum, err = matrix.AddScaled(ti, tm.w, ti, 0)
		} else {
			sum, err = matrix.AddScaled(sum, 1, ti, tm.w)
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, fmt.Sprintf("%g*(%s)", tm.w, tm.k.cacheKey))
	}

	out := &Kernel{
		kind:       kindCombined,
		ds:         first.ds,
		backward:   first.backward,
		t:          sum,
		state:      StateComputed,
		generation: 1,
		log:        first.log,
	}
	out.cacheKey = out.paramKey(strings.Join(keys, " + "))

	return out, nil
}
