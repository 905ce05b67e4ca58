// SPDX-License-Identifier: MIT

// Package estimator: named, colored fate-probability columns.

package estimator

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// palette cycles stable colors over terminal states.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Lineage is an n-cells × K-states probability matrix whose columns carry
// a name and a display color. Column identity survives renaming, copying
// and serialisation.
type Lineage struct {
	probs  *mat.Dense
	names  []string
	colors []string
}

// newLineage wraps probs; names and colors must match its column count.
func newLineage(probs *mat.Dense, names, colors []string) *Lineage {
	return &Lineage{probs: probs, names: names, colors: colors}
}

// Dims reports (cells, states).
func (l *Lineage) Dims() (int, int) { return l.probs.Dims() }

// Names returns the state names in column order. Read-only.
func (l *Lineage) Names() []string { return l.names }

// Colors returns the per-state display colors in column order. Read-only.
func (l *Lineage) Colors() []string { return l.colors }

// Dense returns the underlying probability matrix. Read-only.
func (l *Lineage) Dense() *mat.Dense { return l.probs }

// Column returns the probability column for the named state.
func (l *Lineage) Column(name string) ([]float64, error) {
	for j, n := range l.names {
		if n != name {
			continue
		}
		r, _ := l.probs.Dims()
		out := make([]float64, r)
		mat.Col(out, j, l.probs)

		return out, nil
	}

	return nil, fmt.Errorf("%w: %q; valid: [%s]", ErrUnknownLineage, name, strings.Join(l.names, " "))
}

// Clone returns a deep copy.
func (l *Lineage) Clone() *Lineage {
	if l == nil {
		return nil
	}

	return &Lineage{
		probs:  mat.DenseCopyOf(l.probs),
		names:  append([]string(nil), l.names...),
		colors: append([]string(nil), l.colors...),
	}
}

// rename applies old->new to the column names in place; validation happens
// at the estimator facade.
func (l *Lineage) rename(mapping map[string]string) {
	for j, n := range l.names {
		if nn, ok := mapping[n]; ok {
			l.names[j] = nn
		}
	}
}
