// SPDX-License-Identifier: MIT

// Package estimator: the absorbing-chain linear solve behind fate
// probabilities.

package estimator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ComputeFateProbabilities partitions the chain into transient and
// absorbing blocks, solves (I-Q)X = R and embeds the result into an
// N×K lineage matrix with one-hot rows for terminal cells. WithKeys
// restricts or merges the terminal groups entering the solve.
//
// The solve validates its own output: every row must sum to 1 within
// DefaultFateRTol and contain no entry below -DefaultNegTol; violations are
// errors carrying the exact count. The I-Q factorisation is kept for
// ComputeAbsorptionTimes.
func (e *CFLARE) ComputeFateProbabilities(opts ...SolveOption) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()
	if e.terminal == nil {
		return ErrNoTerminalStates
	}
	o := defaultSolveOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t, err := e.k.TransitionMatrix()
	if err != nil {
		return err
	}
	n := t.Rows()
	colNames, colFirst, colOf, err := e.resolveFateColumns(o.keys)
	if err != nil {
		return err
	}
	nStates := len(colNames)

	groupOf := make(map[int]int, n) // absorbing cell -> fate column
	var transient []int
	for i, l := range e.terminal.labels {
		if col, absorbing := colOf[l]; absorbing {
			groupOf[i] = col
			continue
		}
		transient = append(transient, i)
	}
	if len(transient) == 0 {
		return ErrNoTransientCells
	}

	q, err := t.Submatrix(transient, transient)
	if err != nil {
		return err
	}

	// R with absorbing columns already summed per terminal group.
	r := mat.NewDense(len(transient), nStates, nil)
	for ti, i := range transient {
		cols, vals, err := t.Row(i)
		if err != nil {
			return err
		}
		for k, j := range cols {
			if g, absorbing := groupOf[j]; absorbing {
				r.Set(ti, g, r.At(ti, g)+vals[k])
			}
		}
	}

	x, lu, err := solveAbsorbing(q, r, o)
	if err != nil {
		return err
	}

	if err := validateFateMatrix(x); err != nil {
		return err
	}

	// Embed into N×K: transient rows from the solve, terminal rows one-hot.
	full := mat.NewDense(n, nStates, nil)
	for ti, i := range transient {
		for j := 0; j < nStates; j++ {
			full.Set(i, j, x.At(ti, j))
		}
	}
	for i, g := range groupOf {
		full.Set(i, g, 1)
	}

	// Each column keeps the color of its first constituent state.
	colors := make([]string, nStates)
	for j, c := range colFirst {
		colors[j], _ = e.terminal.Color(c)
	}
	e.fate = newLineage(full, colNames, colors)
	e.transient = transient
	e.q = q
	e.lu = lu
	e.absTimes = nil
	e.drivers = nil
	e.priming = nil

	return nil
}

// resolveFateColumns maps terminal-state categories onto fate columns.
// Without keys every category gets its own column; with keys each key is a
// column, comma-joined keys merge their constituent states, and categories
// named by no key are left out (their cells solve as transient).
func (e *CFLARE) resolveFateColumns(keys []string) (names, first []string, colOf map[string]int, err error) {
	if len(keys) == 0 {
		names = append([]string(nil), e.terminal.categories...)
		first = names
		colOf = make(map[string]int, len(names))
		for j, c := range names {
			colOf[c] = j
		}

		return names, first, colOf, nil
	}

	current := make(map[string]bool, len(e.terminal.categories))
	for _, c := range e.terminal.categories {
		current[c] = true
	}

	names = make([]string, len(keys))
	first = make([]string, len(keys))
	colOf = make(map[string]int, len(e.terminal.categories))
	var invalid []string
	for j, key := range keys {
		parts := strings.Split(key, ",")
		constituents := make([]string, 0, len(parts))
		for _, p := range parts {
			name := strings.TrimSpace(p)
			if !current[name] {
				invalid = append(invalid, name)
				continue
			}
			if _, dup := colOf[name]; dup {
				return nil, nil, nil, fmt.Errorf(
					"%w: state %q appears in more than one key", ErrInvalidStateNames, name)
			}
			colOf[name] = j
			constituents = append(constituents, name)
		}
		if len(constituents) > 0 {
			first[j] = constituents[0]
		}
		names[j] = strings.Join(constituents, ", ")
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)

		return nil, nil, nil, fmt.Errorf("%w: %v; valid: [%s]",
			ErrInvalidStateNames, invalid, strings.Join(e.terminal.categories, " "))
	}

	return names, first, colOf, nil
}

// solveAbsorbing dispatches (I-Q)X = R to the configured backend. The LU
// factorisation is returned for reuse when the direct solver ran.
func solveAbsorbing(q *mat.Dense, r *mat.Dense, o solveOptions) (*mat.Dense, *mat.LU, error) {
	nt, _ := q.Dims()

	switch o.solver {
	case SolverDirect:
		a := identityMinus(q)
		var lu mat.LU
		lu.Factorize(a)
		var x mat.Dense
		if err := lu.SolveTo(&x, false, r); err != nil {
			return nil, nil, fmt.Errorf("estimator: direct solve: %w", err)
		}

		return &x, &lu, nil

	case SolverIterative:
		x, err := jacobiFixedPoint(q, r, o.tol, o.maxIter)

		return x, nil, err

	case SolverParallel:
		x, err := jacobiParallel(q, r, o)

		return x, nil, err

	default:
		return nil, nil, fmt.Errorf("estimator: unknown solver over %d transient cells: %s", nt, o.solver)
	}
}

// identityMinus returns I-Q as a fresh dense matrix.
func identityMinus(q *mat.Dense) *mat.Dense {
	n, _ := q.Dims()
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -q.At(i, j)
			if i == j {
				v++
			}
			a.Set(i, j, v)
		}
	}

	return a
}

// jacobiFixedPoint iterates X <- QX + R until the sup-norm update falls
// below tol. Q is strictly substochastic for a proper absorbing chain, so
// the iteration contracts.
func jacobiFixedPoint(q mat.Matrix, r mat.Matrix, tol float64, maxIter int) (*mat.Dense, error) {
	rows, cols := r.Dims()
	x := mat.DenseCopyOf(r)
	next := mat.NewDense(rows, cols, nil)

	for iter := 0; iter < maxIter; iter++ {
		next.Mul(q, x)
		next.Add(next, r)

		delta := 0.0
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				d := next.At(i, j) - x.At(i, j)
				if d < 0 {
					d = -d
				}
				if d > delta {
					delta = d
				}
			}
		}
		x, next = next, x
		if delta < tol {
			return x, nil
		}
	}

	return nil, fmt.Errorf("%w: after %d iterations", ErrNoConvergence, maxIter)
}

// jacobiParallel runs the same fixed point over disjoint column blocks.
// Columns never couple, so the result matches the serial iteration.
func jacobiParallel(q *mat.Dense, r *mat.Dense, o solveOptions) (*mat.Dense, error) {
	rows, cols := r.Dims()
	out := mat.NewDense(rows, cols, nil)

	blocks := o.workers
	if blocks > cols {
		blocks = cols
	}
	per := (cols + blocks - 1) / blocks

	var g errgroup.Group
	for b := 0; b < blocks; b++ {
		lo := b * per
		hi := lo + per
		if hi > cols {
			hi = cols
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			sub := mat.DenseCopyOf(r.Slice(0, rows, lo, hi))
			x, err := jacobiFixedPoint(q, sub, o.tol, o.maxIter)
			if err != nil {
				return err
			}
			for i := 0; i < rows; i++ {
				for j := lo; j < hi; j++ {
					out.Set(i, j, x.At(i, j-lo))
				}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// validateFateMatrix enforces the stochasticity and non-negativity of the
// solved transient block, counting every violation.
func validateFateMatrix(x *mat.Dense) error {
	rows, cols := x.Dims()

	badRows := 0
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += x.At(i, j)
		}
		if diff := sum - 1; diff > DefaultFateRTol || diff < -DefaultFateRTol {
			badRows++
		}
	}
	if badRows > 0 {
		return fmt.Errorf("%w: `%d` value(s) do not sum to 1 (rtol=%s).",
			ErrFateValidation, badRows, fmtTol(DefaultFateRTol))
	}

	negative := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if x.At(i, j) < -DefaultNegTol {
				negative++
			}
		}
	}
	if negative > 0 {
		return fmt.Errorf("%w: `%d` value(s) are negative.", ErrFateValidation, negative)
	}

	// Snap harmless numeric dust in [-DefaultNegTol, 0) to zero.
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); v < 0 {
				x.Set(i, j, 0)
			}
		}
	}

	return nil
}

// fmtTol renders a tolerance the way the validation contract spells it,
// "1e-3" rather than "0.001" or "1e-03".
func fmtTol(tol float64) string {
	s := strconv.FormatFloat(tol, 'e', -1, 64)
	s = strings.Replace(s, "e-0", "e-", 1)
	s = strings.Replace(s, "e+0", "e+", 1)

	return s
}
