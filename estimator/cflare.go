// SPDX-License-Identifier: MIT

// Package estimator: the CFLARE estimator facade and terminal-state steps.

package estimator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/kernel"
	"github.com/lineagelab/fateflow/spectral"
)

// CFLARE estimates terminal states and fate probabilities from a computed
// kernel. Results derived from the kernel are invalidated whenever the
// kernel's generation moves.
type CFLARE struct {
	k   *kernel.Kernel
	gen uint64 // kernel generation the cached results belong to

	ed       *spectral.Decomposition
	terminal *StateAssignment
	fate     *Lineage
	absTimes *AbsorptionTimes
	drivers  *DriverTable
	priming  []float64

	// Solve state kept for absorption-time reuse.
	transient []int   // transient cell indices, ascending
	lu        *mat.LU // factorisation of I-Q, direct solves only
	q         *mat.Dense

	log *log.Logger
}

// New wraps a computed kernel. The kernel must already hold a transition
// matrix.
func New(k *kernel.Kernel, opts ...Option) (*CFLARE, error) {
	if k == nil {
		return nil, kernel.ErrNilKernel
	}
	if _, err := k.TransitionMatrix(); err != nil {
		return nil, err
	}
	e := &CFLARE{k: k, gen: k.Generation(), log: defaultLogger()}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Kernel returns the wrapped kernel.
func (e *CFLARE) Kernel() *kernel.Kernel { return e.k }

// Eigendecomposition returns the cached spectrum, nil before
// ComputeEigendecomposition.
func (e *CFLARE) Eigendecomposition() *spectral.Decomposition { return e.ed }

// TerminalStates returns the current assignment, nil before Predict or
// SetTerminalStates.
func (e *CFLARE) TerminalStates() *StateAssignment { return e.terminal }

// FateProbabilities returns the computed lineage matrix, nil before
// ComputeFateProbabilities.
func (e *CFLARE) FateProbabilities() *Lineage { return e.fate }

// AbsorptionTimesResult returns the last ComputeAbsorptionTimes output.
func (e *CFLARE) AbsorptionTimesResult() *AbsorptionTimes { return e.absTimes }

// LineageDrivers returns the last ComputeLineageDrivers output.
func (e *CFLARE) LineageDrivers() *DriverTable { return e.drivers }

// invalidateStale drops every derived result when the kernel was recomputed
// since they were produced.
func (e *CFLARE) invalidateStale() {
	if e.k.Generation() == e.gen {
		return
	}
	e.log.Warn("kernel was recomputed; discarding derived results")
	e.ed = nil
	e.terminal = nil
	e.fate = nil
	e.absTimes = nil
	e.drivers = nil
	e.priming = nil
	e.transient = nil
	e.lu = nil
	e.q = nil
	e.gen = e.k.Generation()
}

// ComputeEigendecomposition computes the k leading eigenpairs of the
// transition matrix.
func (e *CFLARE) ComputeEigendecomposition(k int, opts ...spectral.Option) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()

	t, err := e.k.TransitionMatrix()
	if err != nil {
		return err
	}
	ed, err := spectral.Decompose(t, k, opts...)
	if err != nil {
		return err
	}
	e.ed = ed

	return nil
}

// Fit is ComputeEigendecomposition under the estimator-protocol name.
func (e *CFLARE) Fit(k int, opts ...spectral.Option) error {
	return e.ComputeEigendecomposition(k, opts...)
}

// FitPredict runs Fit with k eigenpairs and then Predict over the first
// `use` of them.
func (e *CFLARE) FitPredict(k, use int, opts ...PredictOption) error {
	if err := e.Fit(k); err != nil {
		return err
	}

	return e.Predict(use, opts...)
}

// Predict clusters the first `use` right-eigenvector coordinates into
// terminal-state candidates and drops clusters carrying no stationary
// mass. Requires a prior eigendecomposition.
func (e *CFLARE) Predict(use int, opts ...PredictOption) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()
	if e.ed == nil {
		return ErrNoEigendecomposition
	}
	if use < 1 {
		return fmt.Errorf("%w: got %d", spectral.ErrBadK, use)
	}
	if use > e.ed.K() {
		return fmt.Errorf("%w: requested %d, computed %d", ErrUseTooLarge, use, e.ed.K())
	}
	o := defaultPredictOptions()
	for _, opt := range opts {
		opt(&o)
	}
	nClusters := o.clusters
	if nClusters == 0 {
		nClusters = use + 1
	}

	pi, err := e.ed.Stationary()
	if err != nil {
		return err
	}

	n := e.ed.N()
	coords := mat.NewDense(n, use, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < use; j++ {
			coords.Set(i, j, real(e.ed.RightVectors().At(i, j)))
		}
	}

	assign := kmeans(coords, nClusters, o.seed)

	// Stationary mass per cluster; clusters below the cutoff are noise.
	mass := make([]float64, nClusters)
	for i, c := range assign {
		mass[c] += pi[i]
	}
	kept := make(map[int]string, nClusters)
	nextName := 0
	for c := 0; c < nClusters; c++ {
		if mass[c] >= o.noiseMass {
			kept[c] = strconv.Itoa(nextName)
			nextName++
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("%w: every cluster fell below the stationary-mass cutoff %g", ErrNoTerminalStates, o.noiseMass)
	}

	labels := make([]string, n)
	dists := centroidDistances(coords, assign, nClusters)
	maxDist := 0.0
	for _, d := range dists {
		if d > maxDist {
			maxDist = d
		}
	}
	membership := make([]float64, n)
	for i := range labels {
		name, ok := kept[assign[i]]
		if !ok {
			labels[i] = Unassigned
			continue
		}
		labels[i] = name
		if maxDist > 0 {
			membership[i] = 1 - dists[i]/maxDist
		} else {
			membership[i] = 1
		}
	}

	categories := make([]string, 0, len(kept))
	for c := 0; c < nClusters; c++ {
		if name, ok := kept[c]; ok {
			categories = append(categories, name)
		}
	}
	e.setTerminal(newStateAssignment(labels, membership, categories))

	return nil
}

// SetTerminalStates installs a manual assignment: state name -> member cell
// names. Unknown cell names and overlapping assignments are errors; the
// override replaces any predicted states. Requires a kernel with a dataset.
func (e *CFLARE) SetTerminalStates(groups map[string][]string) error {
	if e == nil {
		return ErrNilEstimator
	}
	ds := e.k.Dataset()
	if ds == nil {
		return kernel.ErrNilDataset
	}

	byIdx := make(map[string][]int, len(groups))
	var unknown []string
	for state, cells := range groups {
		for _, cell := range cells {
			i, err := ds.Index(cell)
			if err != nil {
				unknown = append(unknown, cell)
				continue
			}
			byIdx[state] = append(byIdx[state], i)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)

		return fmt.Errorf("%w: %v", ErrUnknownCells, unknown)
	}

	return e.SetTerminalStatesByIndex(byIdx)
}

// SetTerminalStatesByIndex installs a manual assignment keyed by cell
// index, for kernels without a dataset (precomputed matrices).
func (e *CFLARE) SetTerminalStatesByIndex(groups map[string][]int) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()

	t, err := e.k.TransitionMatrix()
	if err != nil {
		return err
	}
	n := t.Rows()
	labels := make([]string, n)
	membership := make([]float64, n)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, state := range names {
		for _, i := range groups[state] {
			if i < 0 || i >= n {
				return fmt.Errorf("%w: index %d outside [0, %d)", ErrUnknownCells, i, n)
			}
			if labels[i] != Unassigned {
				return fmt.Errorf("%w: cell %d in %q and %q", ErrOverlappingStates, i, labels[i], state)
			}
			labels[i] = state
			membership[i] = 1
		}
	}

	e.setTerminal(newStateAssignment(labels, membership, names))

	return nil
}

// RenameTerminalStates applies old->new to the state names. An empty
// mapping is a no-op; unknown old names and post-rename collisions are
// rejected with the offending names. Colors follow their state.
func (e *CFLARE) RenameTerminalStates(mapping map[string]string) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()
	if e.terminal == nil {
		return ErrNoTerminalStates
	}
	if len(mapping) == 0 {
		return nil
	}

	current := make(map[string]bool, len(e.terminal.categories))
	for _, c := range e.terminal.categories {
		current[c] = true
	}
	var invalid []string
	for old := range mapping {
		if !current[old] {
			invalid = append(invalid, old)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)

		return fmt.Errorf("%w: %v; valid: [%s]",
			ErrInvalidStateNames, invalid, strings.Join(e.terminal.categories, " "))
	}

	renamed := make([]string, len(e.terminal.categories))
	seen := make(map[string]string, len(renamed))
	for i, c := range e.terminal.categories {
		nc := c
		if nn, ok := mapping[c]; ok {
			nc = nn
		}
		if prev, dup := seen[nc]; dup {
			return fmt.Errorf("%w: %q and %q both map to %q", ErrRenameCollision, prev, c, nc)
		}
		seen[nc] = c
		renamed[i] = nc
	}

	// Apply: labels, categories, colors, and the fate columns if present.
	next := e.terminal.Clone()
	for i, l := range next.labels {
		if nn, ok := mapping[l]; ok {
			next.labels[i] = nn
		}
	}
	colors := make(map[string]string, len(renamed))
	for i, old := range e.terminal.categories {
		colors[renamed[i]] = e.terminal.colors[old]
	}
	next.categories = renamed
	next.colors = colors
	e.terminal = next

	if e.fate != nil {
		e.fate.rename(mapping)
	}
	if e.absTimes != nil {
		for i, key := range e.absTimes.keys {
			e.absTimes.keys[i] = renameGroupKey(key, mapping)
		}
	}
	if e.drivers != nil {
		for i, l := range e.drivers.lineages {
			if nn, ok := mapping[l]; ok {
				e.drivers.lineages[i] = nn
			}
		}
	}

	return nil
}

// renameGroupKey applies a state rename inside a possibly comma-joined
// group key, leaving keys without renamed constituents byte-identical.
func renameGroupKey(key string, mapping map[string]string) string {
	parts := strings.Split(key, ",")
	hit := false
	for i, p := range parts {
		name := strings.TrimSpace(p)
		if nn, ok := mapping[name]; ok {
			parts[i] = nn
			hit = true
		} else {
			parts[i] = name
		}
	}
	if !hit {
		return key
	}

	return strings.Join(parts, ", ")
}

// setTerminal replaces the assignment and drops everything downstream.
func (e *CFLARE) setTerminal(a *StateAssignment) {
	e.terminal = a
	e.fate = nil
	e.absTimes = nil
	e.drivers = nil
	e.priming = nil
	e.transient = nil
	e.lu = nil
	e.q = nil
}
