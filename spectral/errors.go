// SPDX-License-Identifier: MIT

package spectral

import "errors"

// Sentinel errors for spectral analysis.
var (
	// ErrBadK is returned by Decompose when k < 1.
	ErrBadK = errors.New("spectral: number of eigenvalues must be >= 1")

	// ErrEigenFailed is returned when the eigendecomposition does not
	// converge.
	ErrEigenFailed = errors.New("spectral: eigendecomposition failed to converge")

	// ErrNoUnitEigenvalue is returned by Stationary when no kept eigenvalue
	// lies within tolerance of 1; computing more eigenvalues usually helps.
	ErrNoUnitEigenvalue = errors.New("spectral: no eigenvalue close to 1 among the computed ones, consider increasing k")
)
