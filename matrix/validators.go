// SPDX-License-Identifier: MIT

// Package matrix: shared input validators.
// Facades in other packages call these before touching matrix internals so
// that error priority stays consistent: nil -> shape -> value checks.

package matrix

// ValidateNotNil rejects a nil matrix.
func ValidateNotNil(c *CSR) error {
	if c == nil {
		return ErrNilMatrix
	}

	return nil
}

// ValidateSquare rejects nil and non-square matrices.
func ValidateSquare(c *CSR) error {
	if c == nil {
		return ErrNilMatrix
	}
	if c.rows != c.cols {
		return ErrNonSquare
	}

	return nil
}

// ValidateSameShape rejects nil operands and shape mismatches.
func ValidateSameShape(a, b *CSR) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}
	if a.rows != b.rows || a.cols != b.cols {
		return ErrDimensionMismatch
	}

	return nil
}

// ValidateVecLen rejects a vector whose length differs from want.
func ValidateVecLen(v []float64, want int) error {
	if len(v) != want {
		return ErrDimensionMismatch
	}

	return nil
}
