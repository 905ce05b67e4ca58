// SPDX-License-Identifier: MIT

// Package kernel: the Kernel type, its constructors and lifecycle accessors.

package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/lineagelab/fateflow/dataset"
	"github.com/lineagelab/fateflow/matrix"
)

// State tracks a kernel's lifecycle.
type State uint8

const (
	// StateUninitialized: constructed, no transition matrix yet.
	StateUninitialized State = iota
	// StateComputed: transition matrix available and read-only.
	StateComputed
	// StateWritten: transition matrix published into the dataset.
	StateWritten
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateComputed:
		return "computed"
	case StateWritten:
		return "written"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// kind discriminates the kernel flavors.
type kind uint8

const (
	kindPseudotime kind = iota
	kindConnectivity
	kindPrecomputed
	kindCombined
)

func (k kind) String() string {
	switch k {
	case kindPseudotime:
		return "pseudotime"
	case kindConnectivity:
		return "connectivity"
	case kindPrecomputed:
		return "precomputed"
	case kindCombined:
		return "combined"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Params records what a computed transition matrix was built from; it is
// published next to the matrix by WriteToDataset.
type Params struct {
	Kind     string
	Key      string // canonical cache key, including scheme parameters
	Backward bool
}

// Kernel produces and owns one row-stochastic transition matrix.
// The matrix is read-only once computed and replaced wholesale on
// recomputation with different parameters.
type Kernel struct {
	kind     kind
	ds       *dataset.Dataset
	timeKey  string
	backward bool

	conn       *matrix.CSR
	nNeighbors int
	pseudotime []float64 // raw, as stored; direction applied at read time

	t          *matrix.CSR
	state      State
	cacheKey   string
	generation uint64

	log *log.Logger
}

// NewPseudotime builds a kernel that biases the dataset's neighbor graph by
// pseudotime. The pseudotime annotation (DefaultTimeKey unless overridden)
// and the connectivity graph must already be present; the vector must be
// finite.
func NewPseudotime(ds *dataset.Dataset, opts ...Option) (*Kernel, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	k := &Kernel{
		kind:    kindPseudotime,
		ds:      ds,
		timeKey: DefaultTimeKey,
		log:     defaultLogger(),
	}
	for _, opt := range opts {
		opt(k)
	}

	conn, err := ds.Connectivities()
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	k.conn = conn
	k.nNeighbors = ds.NNeighbors()

	pt, err := ds.Obs(k.timeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingPseudotime, err)
	}
	for _, v := range pt {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: key %q", ErrNaNPseudotime, k.timeKey)
		}
	}
	k.pseudotime = pt

	return k, nil
}

// NewConnectivity builds a direction-blind kernel that row-normalises the
// dataset's neighbor graph as-is.
func NewConnectivity(ds *dataset.Dataset, opts ...Option) (*Kernel, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	k := &Kernel{
		kind: kindConnectivity,
		ds:   ds,
		log:  defaultLogger(),
	}
	for _, opt := range opts {
		opt(k)
	}

	conn, err := ds.Connectivities()
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	k.conn = conn
	k.nNeighbors = ds.NNeighbors()

	return k, nil
}

// NewPrecomputed wraps an externally built transition matrix. The matrix
// must be square and row-stochastic; the kernel is born computed.
func NewPrecomputed(t *matrix.CSR, backward bool, opts ...Option) (*Kernel, error) {
	if err := matrix.ValidateSquare(t); err != nil {
		return nil, err
	}
	if err := matrix.ValidateStochastic(t, matrix.DefaultStochasticRTol); err != nil {
		return nil, err
	}
	k := &Kernel{
		kind:     kindPrecomputed,
		backward: backward,
		t:        t.Clone(),
		state:    StateComputed,
		log:      defaultLogger(),
	}
	k.cacheKey = k.paramKey("precomputed")
	k.generation = 1
	for _, opt := range opts {
		opt(k)
	}

	return k, nil
}

// State reports the lifecycle stage.
func (k *Kernel) State() State {
	if k == nil {
		return StateUninitialized
	}
	return k.state
}

// Backward reports the process direction.
func (k *Kernel) Backward() bool { return k != nil && k.backward }

// Generation counts successful (re)computations. Consumers cache derived
// results against it and recompute when it moves.
func (k *Kernel) Generation() uint64 {
	if k == nil {
		return 0
	}
	return k.generation
}

// Dataset returns the underlying container, nil for precomputed and
// combined kernels.
func (k *Kernel) Dataset() *dataset.Dataset {
	if k == nil {
		return nil
	}
	return k.ds
}

// Pseudotime returns the direction-adjusted pseudotime vector: backward
// kernels see the ordering negated around its maximum. Nil for kernels
// without one.
func (k *Kernel) Pseudotime() []float64 {
	if k == nil || k.pseudotime == nil {
		return nil
	}
	out := make([]float64, len(k.pseudotime))
	copy(out, k.pseudotime)
	if k.backward {
		maxPT := out[0]
		for _, v := range out[1:] {
			if v > maxPT {
				maxPT = v
			}
		}
		for i := range out {
			out[i] = maxPT - out[i]
		}
	}

	return out
}

// TransitionMatrix returns the computed row-stochastic matrix. The returned
// value is shared and must not be mutated.
func (k *Kernel) TransitionMatrix() (*matrix.CSR, error) {
	if k == nil {
		return nil, ErrNilKernel
	}
	if k.state < StateComputed || k.t == nil {
		return nil, ErrNotComputed
	}

	return k.t, nil
}

// Reversed returns a copy with the opposite direction. The copy starts
// uncomputed: a transition matrix is only valid for the direction it was
// built with.
func (k *Kernel) Reversed() *Kernel {
	if k == nil {
		return nil
	}
	cp := k.Copy()
	cp.backward = !cp.backward
	cp.t = nil
	cp.state = StateUninitialized
	cp.cacheKey = ""

	return cp
}

// ReverseInPlace flips the receiver's direction and discards its transition
// matrix.
func (k *Kernel) ReverseInPlace() {
	if k == nil {
		return
	}
	k.backward = !k.backward
	k.t = nil
	k.state = StateUninitialized
	k.cacheKey = ""
}

// Copy returns a deep copy: the transition matrix, pseudotime vector and
// dataset share no memory with the receiver.
func (k *Kernel) Copy() *Kernel {
	if k == nil {
		return nil
	}
	cp := *k
	if k.ds != nil {
		cp.ds = k.ds.Clone()
		if k.conn != nil {
			// Re-point at the clone's graph so the copy stays self-contained.
			if conn, err := cp.ds.Connectivities(); err == nil {
				cp.conn = conn
			}
		}
	} else if k.conn != nil {
		cp.conn = k.conn.Clone()
	}
	if k.pseudotime != nil {
		cp.pseudotime = append([]float64(nil), k.pseudotime...)
	}
	if k.t != nil {
		cp.t = k.t.Clone()
	}

	return &cp
}

// WriteToDataset publishes the transition matrix and its parameters into
// the dataset under UnsKeyForward or UnsKeyBackward. Requires a computed
// matrix and an attached dataset.
func (k *Kernel) WriteToDataset() error {
	if k == nil {
		return ErrNilKernel
	}
	if k.state < StateComputed || k.t == nil {
		return ErrNotComputed
	}
	if k.ds == nil {
		return errors.New("kernel: no dataset attached")
	}

	key := UnsKeyForward
	if k.backward {
		key = UnsKeyBackward
	}
	k.ds.SetUns(key, k.t)
	k.ds.SetUns(key+ParamsSuffix, Params{
		Kind:     k.kind.String(),
		Key:      k.cacheKey,
		Backward: k.backward,
	})
	k.state = StateWritten

	return nil
}

// paramKey canonically serialises the parameters the transition matrix
// depends on; equal keys mean recomputation would reproduce the same matrix.
func (k *Kernel) paramKey(schemeKey string) string {
	return fmt.Sprintf("%s|scheme=%s|backward=%t", k.kind, schemeKey, k.backward)
}
