// SPDX-License-Identifier: MIT

package kernel

import "errors"

// Sentinel errors for kernel construction, computation and combination.
var (
	// ErrNilKernel is returned by methods invoked on a nil *Kernel.
	ErrNilKernel = errors.New("kernel: nil Kernel")

	// ErrNilDataset is returned by constructors given no dataset.
	ErrNilDataset = errors.New("kernel: nil dataset")

	// ErrNilScheme is returned by ComputeTransitionMatrix when a pseudotime
	// kernel is given a nil scheme.
	ErrNilScheme = errors.New("kernel: nil threshold scheme")

	// ErrMissingPseudotime is returned by NewPseudotime when the dataset
	// holds no numeric annotation under the configured time key.
	ErrMissingPseudotime = errors.New("kernel: pseudotime annotation not found")

	// ErrNaNPseudotime is returned by NewPseudotime when the pseudotime
	// vector contains NaN or infinite entries.
	ErrNaNPseudotime = errors.New("kernel: pseudotime contains non-finite values")

	// ErrNotComputed is returned when the transition matrix is requested
	// before ComputeTransitionMatrix has run.
	ErrNotComputed = errors.New("kernel: transition matrix not computed")

	// ErrNegativeWeight is returned by Scale for a negative combination weight.
	ErrNegativeWeight = errors.New("kernel: combination weight must be >= 0")

	// ErrEmptyExpr is returned by Expr.Kernel for an expression with no terms.
	ErrEmptyExpr = errors.New("kernel: empty combination expression")

	// ErrShapeMismatch is returned when combined kernels disagree on shape.
	ErrShapeMismatch = errors.New("kernel: combined kernels have different shapes")

	// ErrDirectionMismatch is returned when combined kernels disagree on
	// process direction.
	ErrDirectionMismatch = errors.New("kernel: cannot combine forward and backward kernels")
)
