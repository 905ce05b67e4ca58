// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/matrix"
)

// Dataset is the per-cell data container.
//
// Getter methods return internal slices and matrices as read-only views;
// callers that need to mutate must Clone first. All setters validate the
// per-cell dimension against the cell count fixed at construction.
type Dataset struct {
	names   []string
	nameIdx map[string]int

	obs    map[string][]float64
	obsCat map[string][]string
	obsm   map[string]*mat.Dense
	uns    map[string]any

	conn       *matrix.CSR
	nNeighbors int

	x        *mat.Dense
	varNames []string
	layers   map[string]*mat.Dense
}

// New builds a Dataset over the given cell names and applies the options
// in order. Names must be non-empty and unique.
func New(names []string, opts ...Option) (*Dataset, error) {
	if len(names) == 0 {
		return nil, ErrEmptyNames
	}
	idx := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := idx[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		idx[name] = i
	}

	d := &Dataset{
		names:   append([]string(nil), names...),
		nameIdx: idx,
		obs:     make(map[string][]float64),
		obsCat:  make(map[string][]string),
		obsm:    make(map[string]*mat.Dense),
		uns:     make(map[string]any),
		layers:  make(map[string]*mat.Dense),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// N reports the number of cells.
func (d *Dataset) N() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Names returns a copy of the cell names in construction order.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.names...)
}

// Index resolves a cell name to its row position.
func (d *Dataset) Index(name string) (int, error) {
	if d == nil {
		return 0, ErrNilDataset
	}
	i, ok := d.nameIdx[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCell, name)
	}

	return i, nil
}

// ---------------------------------------------------------------------------
// Numeric annotations
// ---------------------------------------------------------------------------

// Obs returns the numeric per-cell annotation stored under key.
func (d *Dataset) Obs(key string) ([]float64, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	v, ok := d.obs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q; available: %v", ErrMissingObs, key, sortedKeys(d.obs))
	}

	return v, nil
}

// SetObs stores a numeric per-cell annotation, replacing any previous value.
func (d *Dataset) SetObs(key string, vals []float64) error {
	if d == nil {
		return ErrNilDataset
	}
	if len(vals) != len(d.names) {
		return fmt.Errorf("%w: obs %q has %d values, want %d", ErrLengthMismatch, key, len(vals), len(d.names))
	}
	d.obs[key] = append([]float64(nil), vals...)

	return nil
}

// ---------------------------------------------------------------------------
// Categorical annotations
// ---------------------------------------------------------------------------

// CatObs returns the categorical per-cell annotation stored under key.
func (d *Dataset) CatObs(key string) ([]string, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	v, ok := d.obsCat[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q; available: %v", ErrMissingCatObs, key, sortedKeys(d.obsCat))
	}

	return v, nil
}

// SetCatObs stores a categorical per-cell annotation.
func (d *Dataset) SetCatObs(key string, vals []string) error {
	if d == nil {
		return ErrNilDataset
	}
	if len(vals) != len(d.names) {
		return fmt.Errorf("%w: categorical obs %q has %d values, want %d", ErrLengthMismatch, key, len(vals), len(d.names))
	}
	d.obsCat[key] = append([]string(nil), vals...)

	return nil
}

// ---------------------------------------------------------------------------
// Per-cell matrices and unstructured metadata
// ---------------------------------------------------------------------------

// Obsm returns the per-cell matrix stored under key.
func (d *Dataset) Obsm(key string) (*mat.Dense, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	m, ok := d.obsm[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q; available: %v", ErrMissingObsm, key, sortedKeys(d.obsm))
	}

	return m, nil
}

// SetObsm stores a per-cell matrix; its row count must equal the cell count.
func (d *Dataset) SetObsm(key string, m *mat.Dense) error {
	if d == nil {
		return ErrNilDataset
	}
	r, _ := m.Dims()
	if r != len(d.names) {
		return fmt.Errorf("%w: obsm %q has %d rows, want %d", ErrLengthMismatch, key, r, len(d.names))
	}
	d.obsm[key] = m

	return nil
}

// Uns returns the unstructured metadata stored under key.
func (d *Dataset) Uns(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.uns[key]

	return v, ok
}

// SetUns stores arbitrary metadata under key.
func (d *Dataset) SetUns(key string, v any) {
	if d == nil {
		return
	}
	d.uns[key] = v
}

// ---------------------------------------------------------------------------
// Connectivity graph
// ---------------------------------------------------------------------------

// Connectivities returns the attached neighbor graph.
func (d *Dataset) Connectivities() (*matrix.CSR, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	if d.conn == nil {
		return nil, ErrNoConnectivities
	}

	return d.conn, nil
}

// NNeighbors reports the neighbor count the connectivity graph was built
// with, or 0 when unknown.
func (d *Dataset) NNeighbors() int {
	if d == nil {
		return 0
	}
	return d.nNeighbors
}

// ---------------------------------------------------------------------------
// Expression matrix and layers
// ---------------------------------------------------------------------------

// Expression returns the cells×genes expression matrix and the gene names.
func (d *Dataset) Expression() (*mat.Dense, []string, error) {
	if d == nil {
		return nil, nil, ErrNilDataset
	}
	if d.x == nil {
		return nil, nil, ErrNoExpression
	}

	return d.x, d.varNames, nil
}

// Layer returns the alternate expression layer stored under name.
func (d *Dataset) Layer(name string) (*mat.Dense, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	m, ok := d.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q; available: %v", ErrMissingLayer, name, sortedKeys(d.layers))
	}

	return m, nil
}

// ---------------------------------------------------------------------------
// Clone
// ---------------------------------------------------------------------------

// Clone returns a deep copy sharing no memory with the receiver.
// Uns values are copied by reference; they are treated as immutable.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}

	out := &Dataset{
		names:      append([]string(nil), d.names...),
		nameIdx:    make(map[string]int, len(d.nameIdx)),
		obs:        make(map[string][]float64, len(d.obs)),
		obsCat:     make(map[string][]string, len(d.obsCat)),
		obsm:       make(map[string]*mat.Dense, len(d.obsm)),
		uns:        make(map[string]any, len(d.uns)),
		nNeighbors: d.nNeighbors,
		layers:     make(map[string]*mat.Dense, len(d.layers)),
	}
	for k, v := range d.nameIdx {
		out.nameIdx[k] = v
	}
	for k, v := range d.obs {
		out.obs[k] = append([]float64(nil), v...)
	}
	for k, v := range d.obsCat {
		out.obsCat[k] = append([]string(nil), v...)
	}
	for k, v := range d.obsm {
		out.obsm[k] = mat.DenseCopyOf(v)
	}
	for k, v := range d.uns {
		out.uns[k] = v
	}
	if d.conn != nil {
		out.conn = d.conn.Clone()
	}
	if d.x != nil {
		out.x = mat.DenseCopyOf(d.x)
		out.varNames = append([]string(nil), d.varNames...)
	}
	for k, v := range d.layers {
		out.layers[k] = mat.DenseCopyOf(v)
	}

	return out
}

// sortedKeys lists the keys of m in lexical order, for error messages.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
