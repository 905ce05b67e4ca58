// SPDX-License-Identifier: MIT

// Package scheme: caller-supplied row policies under the Scheme contract.

package scheme

import (
	"fmt"

	"github.com/lineagelab/fateflow/matrix"
)

// Custom wraps a caller-supplied RowFunc. The only validation applied is
// the per-row shape check; everything else is the function's contract.
type Custom struct {
	name string
	fn   RowFunc
}

// NewCustom wraps fn under the given name. The name feeds CacheKey, so two
// distinct policies should not share one. fn must be non-nil (ErrNilFunc).
func NewCustom(name string, fn RowFunc) (Custom, error) {
	if fn == nil {
		return Custom{}, ErrNilFunc
	}
	if name == "" {
		name = "custom"
	}

	return Custom{name: name, fn: fn}, nil
}

// Name reports the wrapper's cache identity.
func (c Custom) Name() string { return c.name }

// CacheKey implements Scheme.
func (c Custom) CacheKey() string {
	return fmt.Sprintf("custom:%s", c.name)
}

// Bias implements Scheme.
func (c Custom) Bias(conn *matrix.CSR, pseudotime []float64, opts ...Option) (*matrix.CSR, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return biasRows(conn, pseudotime, c.fn, o)
}
