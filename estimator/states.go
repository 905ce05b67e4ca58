// SPDX-License-Identifier: MIT

// Package estimator: per-cell terminal-state assignment.

package estimator

// Unassigned is the label of cells that belong to no terminal state.
const Unassigned = ""

// StateAssignment maps every cell to at most one terminal macrostate with
// a continuous membership score, and fixes a display color per state.
type StateAssignment struct {
	labels     []string // per cell; Unassigned for transient cells
	membership []float64
	categories []string // state names, stable order
	colors     map[string]string
}

// newStateAssignment fixes palette colors for the categories in order.
func newStateAssignment(labels []string, membership []float64, categories []string) *StateAssignment {
	colors := make(map[string]string, len(categories))
	for i, c := range categories {
		colors[c] = palette[i%len(palette)]
	}

	return &StateAssignment{
		labels:     labels,
		membership: membership,
		categories: categories,
		colors:     colors,
	}
}

// Labels returns the per-cell state labels. Read-only.
func (a *StateAssignment) Labels() []string { return a.labels }

// Membership returns the per-cell membership scores in [0, 1]. Read-only.
func (a *StateAssignment) Membership() []float64 { return a.membership }

// Categories returns the state names in stable order. Read-only.
func (a *StateAssignment) Categories() []string { return a.categories }

// Color reports the display color of a state.
func (a *StateAssignment) Color(category string) (string, bool) {
	c, ok := a.colors[category]

	return c, ok
}

// Members lists the cell indices assigned to a state, ascending.
func (a *StateAssignment) Members(category string) []int {
	var out []int
	for i, l := range a.labels {
		if l == category {
			out = append(out, i)
		}
	}

	return out
}

// Clone returns a deep copy.
func (a *StateAssignment) Clone() *StateAssignment {
	if a == nil {
		return nil
	}
	colors := make(map[string]string, len(a.colors))
	for k, v := range a.colors {
		colors[k] = v
	}

	return &StateAssignment{
		labels:     append([]string(nil), a.labels...),
		membership: append([]float64(nil), a.membership...),
		categories: append([]string(nil), a.categories...),
		colors:     colors,
	}
}
