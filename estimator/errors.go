// SPDX-License-Identifier: MIT

package estimator

import "errors"

// Sentinel errors for the estimator pipeline. Precondition errors tell the
// caller which step to run first; validation errors carry the offending
// names or counts in their wrapping message.
var (
	// ErrNilEstimator is returned by methods invoked on a nil *CFLARE.
	ErrNilEstimator = errors.New("estimator: nil CFLARE")

	// ErrNoEigendecomposition is returned by Predict before
	// ComputeEigendecomposition has run.
	ErrNoEigendecomposition = errors.New("estimator: compute eigendecomposition first")

	// ErrNoTerminalStates is returned by ComputeFateProbabilities before
	// terminal states exist.
	ErrNoTerminalStates = errors.New("estimator: compute terminal states first")

	// ErrNoFateProbabilities is returned by absorption-time and driver
	// computations before ComputeFateProbabilities has run.
	ErrNoFateProbabilities = errors.New("estimator: compute fate probabilities first")

	// ErrUseTooLarge is returned by Predict when more eigenvectors are
	// requested than were computed.
	ErrUseTooLarge = errors.New("estimator: maximum specified eigenvector is larger than the number of computed eigenvectors")

	// ErrInvalidStateNames is returned for terminal-state names that do not
	// exist.
	ErrInvalidStateNames = errors.New("estimator: invalid terminal states names")

	// ErrRenameCollision is returned when a rename would merge two terminal
	// states.
	ErrRenameCollision = errors.New("estimator: terminal states would not be unique after renaming")

	// ErrUnknownCells is returned by SetTerminalStates for cell names the
	// dataset does not hold.
	ErrUnknownCells = errors.New("estimator: unknown cell names")

	// ErrOverlappingStates is returned by SetTerminalStates when one cell is
	// assigned to two states.
	ErrOverlappingStates = errors.New("estimator: cell assigned to more than one terminal state")

	// ErrFateValidation is the root of the post-solve stochasticity and
	// non-negativity checks.
	ErrFateValidation = errors.New("estimator: fate probability validation failed")

	// ErrBadPrimingMethod is returned for an unrecognised PrimingMethod.
	ErrBadPrimingMethod = errors.New("estimator: unknown priming method")

	// ErrNoConvergence is returned by the iterative solvers when the
	// iteration cap is reached before the tolerance is met.
	ErrNoConvergence = errors.New("estimator: iterative solver did not converge")

	// ErrNoTransientCells is returned when every cell is terminal.
	ErrNoTransientCells = errors.New("estimator: no transient cells to solve for")

	// ErrUnknownLineage is returned for a fate-column name that does not
	// exist.
	ErrUnknownLineage = errors.New("estimator: invalid lineage name")

	// ErrUnknownCluster is returned for a cluster restriction naming absent
	// clusters.
	ErrUnknownCluster = errors.New("estimator: invalid cluster name")

	// ErrNoExpression is returned by ComputeLineageDrivers without an
	// expression matrix.
	ErrNoExpression = errors.New("estimator: dataset carries no expression matrix")
)
