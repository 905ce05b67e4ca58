// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/matrix"
)

// Option configures a Dataset during New. Options run in order and may
// fail; New returns the first error.
type Option func(*Dataset) error

// WithConnectivities attaches the precomputed neighbor graph and the
// neighbor count it was built with. The graph must be square over the cell
// count; nNeighbors may be 0 when unknown.
func WithConnectivities(conn *matrix.CSR, nNeighbors int) Option {
	return func(d *Dataset) error {
		if conn == nil {
			return matrix.ErrNilMatrix
		}
		if conn.Rows() != len(d.names) || conn.Cols() != len(d.names) {
			return fmt.Errorf("%w: got %dx%d, want %dx%d",
				ErrBadConnectivities, conn.Rows(), conn.Cols(), len(d.names), len(d.names))
		}
		d.conn = conn
		d.nNeighbors = nNeighbors

		return nil
	}
}

// WithObs stores a numeric per-cell annotation under key.
func WithObs(key string, vals []float64) Option {
	return func(d *Dataset) error {
		return d.SetObs(key, vals)
	}
}

// WithCatObs stores a categorical per-cell annotation under key.
func WithCatObs(key string, vals []string) Option {
	return func(d *Dataset) error {
		return d.SetCatObs(key, vals)
	}
}

// WithExpression attaches the cells×genes expression matrix and gene names.
func WithExpression(x *mat.Dense, varNames []string) Option {
	return func(d *Dataset) error {
		r, c := x.Dims()
		if r != len(d.names) {
			return fmt.Errorf("%w: expression has %d rows, want %d", ErrLengthMismatch, r, len(d.names))
		}
		if len(varNames) != c {
			return fmt.Errorf("%w: %d gene names for %d columns", ErrLengthMismatch, len(varNames), c)
		}
		d.x = x
		d.varNames = append([]string(nil), varNames...)

		return nil
	}
}

// WithLayer attaches an alternate expression layer; its shape must match
// the primary expression matrix when one is present.
func WithLayer(name string, m *mat.Dense) Option {
	return func(d *Dataset) error {
		r, c := m.Dims()
		if r != len(d.names) {
			return fmt.Errorf("%w: layer %q has %d rows, want %d", ErrLengthMismatch, name, r, len(d.names))
		}
		if d.x != nil {
			_, xc := d.x.Dims()
			if c != xc {
				return fmt.Errorf("%w: layer %q has %d columns, want %d", ErrLengthMismatch, name, c, xc)
			}
		}
		d.layers[name] = m

		return nil
	}
}
