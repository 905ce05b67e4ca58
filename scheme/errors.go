// SPDX-License-Identifier: MIT

package scheme

import "errors"

// Sentinel errors for scheme construction and evaluation.
var (
	// ErrFracToKeep is returned by NewHard when FracToKeep lies outside (0, 1].
	ErrFracToKeep = errors.New("scheme: frac_to_keep must be in (0, 1]")

	// ErrSteepness is returned by NewSoft when the steepness b is not positive.
	ErrSteepness = errors.New("scheme: steepness b must be > 0")

	// ErrSoftness is returned by NewSoft when the softness exponent nu is not
	// positive.
	ErrSoftness = errors.New("scheme: softness nu must be > 0")

	// ErrNilFunc is returned by NewCustom when no row function is supplied.
	ErrNilFunc = errors.New("scheme: nil custom row function")

	// ErrRowShape is returned by Bias when a custom row function returns a
	// slice whose length differs from the input row.
	ErrRowShape = errors.New("scheme: biased row length does not match input row")
)
