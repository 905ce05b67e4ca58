// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with context via
// fmt.Errorf("...: %w", ErrX) at facades); tests match them with errors.Is.
// Panics are reserved for programmer errors in option constructors.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (r<=0 or c<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	// Public indexers return this; they never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. AddScaled over differently shaped matrices.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required
	// (triplet ingestion, normalization, weighted sums).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNegativeWeight indicates a negative entry where a non-negative
	// connectivity/probability weight is required.
	ErrNegativeWeight = errors.New("matrix: negative weight encountered")

	// ErrNilMatrix indicates that a nil *CSR (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNotStochastic signals that a matrix expected to be row-stochastic has
	// rows that do not sum to 1 within the configured relative tolerance.
	// The wrapped message carries the exact count of violating rows.
	ErrNotStochastic = errors.New("matrix: matrix is not row-stochastic")
)
