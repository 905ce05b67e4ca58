// SPDX-License-Identifier: MIT

// Package spectral: eigendecomposition, eigengap and stationary distribution.

package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/matrix"
)

// DefaultUnitEigTol is how close an eigenvalue must be to 1 to qualify as
// the unit eigenvalue of the chain.
const DefaultUnitEigTol = 1e-3

// options collects Decompose settings.
type options struct {
	unitEigTol float64
}

// Option tweaks a single Decompose call.
type Option func(*options)

// WithUnitEigTol overrides the unit-eigenvalue tolerance used by
// Stationary. Panics when tol <= 0.
func WithUnitEigTol(tol float64) Option {
	if tol <= 0 || math.IsNaN(tol) {
		panic(fmt.Sprintf("spectral: WithUnitEigTol(%g): tolerance must be > 0", tol))
	}
	return func(o *options) { o.unitEigTol = tol }
}

// Decomposition is an immutable view of the k leading eigenpairs of one
// transition matrix.
type Decomposition struct {
	n          int
	values     []complex128 // k leading, sorted
	right      *mat.CDense  // n×k, columns matching values
	left       *mat.CDense  // n×k
	gaps       []float64    // k-1 relative magnitude drops
	unitEigTol float64
}

// Decompose computes the eigendecomposition of t and keeps the k leading
// eigenpairs. Eigenvalues sort by descending real part, ties broken toward
// the larger imaginary part; k is clamped to the matrix order.
func Decompose(t *matrix.CSR, k int, opts ...Option) (*Decomposition, error) {
	if err := matrix.ValidateSquare(t); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadK, k)
	}
	o := options{unitEigTol: DefaultUnitEigTol}
	for _, opt := range opts {
		opt(&o)
	}

	dense, err := t.ToDense()
	if err != nil {
		return nil, err
	}
	n := t.Rows()
	if k > n {
		k = n
	}

	var eig mat.Eigen
	if ok := eig.Factorize(dense, mat.EigenBoth); !ok {
		return nil, ErrEigenFailed
	}
	values := eig.Values(nil)
	var right, left mat.CDense
	eig.VectorsTo(&right)
	eig.LeftVectorsTo(&left)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(p, q int) bool {
		vp, vq := values[order[p]], values[order[q]]
		if real(vp) != real(vq) {
			return real(vp) > real(vq)
		}

		return imag(vp) > imag(vq)
	})

	d := &Decomposition{
		n:          n,
		values:     make([]complex128, k),
		right:      mat.NewCDense(n, k, nil),
		left:       mat.NewCDense(n, k, nil),
		unitEigTol: o.unitEigTol,
	}
	for c := 0; c < k; c++ {
		src := order[c]
		d.values[c] = values[src]
		for r := 0; r < n; r++ {
			d.right.Set(r, c, right.At(r, src))
			d.left.Set(r, c, left.At(r, src))
		}
	}

	d.gaps = make([]float64, k-1)
	for m := 0; m+1 < k; m++ {
		hi, lo := cmplx.Abs(d.values[m]), cmplx.Abs(d.values[m+1])
		if hi > 0 {
			d.gaps[m] = 1 - lo/hi
		}
	}

	return d, nil
}

// N reports the order of the decomposed matrix.
func (d *Decomposition) N() int { return d.n }

// K reports how many eigenpairs were kept.
func (d *Decomposition) K() int { return len(d.values) }

// Values returns the kept eigenvalues in sort order. Read-only.
func (d *Decomposition) Values() []complex128 { return d.values }

// RightVectors returns the n×k matrix of right eigenvectors, columns
// matching Values. Read-only.
func (d *Decomposition) RightVectors() *mat.CDense { return d.right }

// LeftVectors returns the n×k matrix of left eigenvectors, columns matching
// Values. Read-only.
func (d *Decomposition) LeftVectors() *mat.CDense { return d.left }

// Eigengap reports the relative magnitude drop after the m-th eigenvalue,
// 1 - |λ[m+1]|/|λ[m]|. m must lie in [0, K-2].
func (d *Decomposition) Eigengap(m int) (float64, error) {
	if m < 0 || m >= len(d.gaps) {
		return 0, fmt.Errorf("%w: eigengap index %d outside [0, %d]", matrix.ErrOutOfRange, m, len(d.gaps)-1)
	}

	return d.gaps[m], nil
}

// SuggestedStates returns the number of macrostates implied by the largest
// eigengap: the count of eigenvalues before the steepest relative drop.
// Purely advisory.
func (d *Decomposition) SuggestedStates() int {
	if len(d.gaps) == 0 {
		return 1
	}
	best := 0
	for m, g := range d.gaps {
		if g > d.gaps[best] {
			best = m
		}
	}

	return best + 1
}

// Stationary derives the stationary distribution from the left eigenvector
// of the eigenvalue nearest to 1 (within the configured tolerance): its
// real part, sign-fixed and normalised to sum 1. Returns
// ErrNoUnitEigenvalue when no kept eigenvalue qualifies.
func (d *Decomposition) Stationary() ([]float64, error) {
	unit := -1
	bestDist := d.unitEigTol
	for i, v := range d.values {
		if dist := cmplx.Abs(v - 1); dist <= bestDist {
			unit = i
			bestDist = dist
		}
	}
	if unit < 0 {
		return nil, ErrNoUnitEigenvalue
	}

	pi := make([]float64, d.n)
	sum := 0.0
	for r := 0; r < d.n; r++ {
		pi[r] = real(d.left.At(r, unit))
		sum += pi[r]
	}
	if sum == 0 {
		return nil, ErrNoUnitEigenvalue
	}
	for r := range pi {
		pi[r] /= sum
	}

	return pi, nil
}
