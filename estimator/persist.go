// SPDX-License-Identifier: MIT

// Package estimator: snapshot serialisation and deep copy.

package estimator

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/dataset"
	"github.com/lineagelab/fateflow/kernel"
	"github.com/lineagelab/fateflow/matrix"
)

// denseBlob is a gob-friendly dense matrix.
type denseBlob struct {
	Rows, Cols int
	Data       []float64
}

func toBlob(d *mat.Dense) *denseBlob {
	if d == nil {
		return nil
	}
	r, c := d.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, d.RawRowView(i)...)
	}

	return &denseBlob{Rows: r, Cols: c, Data: data}
}

func fromBlob(b *denseBlob) *mat.Dense {
	if b == nil {
		return nil
	}

	return mat.NewDense(b.Rows, b.Cols, b.Data)
}

// snapshot is the wire form of a fitted estimator. The eigendecomposition
// is deliberately absent: it is cheap to recompute and fully determined by
// the transition matrix.
type snapshot struct {
	Transition *matrix.CSR
	Backward   bool

	HasTerminal bool
	Labels      []string
	Membership  []float64
	Categories  []string
	Colors      map[string]string

	HasFate    bool
	Fate       *denseBlob
	FateNames  []string
	FateColors []string
	Transient  []int

	HasAbs  bool
	AbsKeys []string
	AbsMean *denseBlob
	AbsVar  *denseBlob

	HasDrivers bool
	Genes      []string
	Lineages   []string
	Corr       *denseBlob
	Pval       *denseBlob
	Qval       *denseBlob

	Priming []float64
	Dataset *dataset.Dataset
}

// Write serialises the estimator (transition matrix, terminal states, fate
// probabilities, absorption times, drivers, priming scores) as a gzipped
// gob stream. The kernel's dataset is left out unless WithDataset is given.
func (e *CFLARE) Write(w io.Writer, opts ...WriteOption) error {
	if e == nil {
		return ErrNilEstimator
	}
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	t, err := e.k.TransitionMatrix()
	if err != nil {
		return err
	}

	s := snapshot{
		Transition: t,
		Backward:   e.k.Backward(),
		Transient:  e.transient,
		Priming:    e.priming,
	}
	if o.includeDataset {
		ds := e.k.Dataset()
		if ds == nil {
			return kernel.ErrNilDataset
		}
		s.Dataset = ds
	}
	if e.terminal != nil {
		s.HasTerminal = true
		s.Labels = e.terminal.labels
		s.Membership = e.terminal.membership
		s.Categories = e.terminal.categories
		s.Colors = e.terminal.colors
	}
	if e.fate != nil {
		s.HasFate = true
		s.Fate = toBlob(e.fate.probs)
		s.FateNames = e.fate.names
		s.FateColors = e.fate.colors
	}
	if e.absTimes != nil {
		s.HasAbs = true
		s.AbsKeys = e.absTimes.keys
		s.AbsMean = toBlob(e.absTimes.mean)
		s.AbsVar = toBlob(e.absTimes.vari)
	}
	if e.drivers != nil {
		s.HasDrivers = true
		s.Genes = e.drivers.genes
		s.Lineages = e.drivers.lineages
		s.Corr = toBlob(e.drivers.corr)
		s.Pval = toBlob(e.drivers.pval)
		s.Qval = toBlob(e.drivers.qval)
	}

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(&s); err != nil {
		return fmt.Errorf("estimator: encoding snapshot: %w", err)
	}

	return gz.Close()
}

// Read rebuilds an estimator from a Write stream. The kernel comes back as
// a precomputed one wrapping the stored transition matrix; the solve
// factorisation is rebuilt lazily on the next absorption-time call.
func Read(r io.Reader, opts ...Option) (*CFLARE, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("estimator: opening snapshot: %w", err)
	}
	defer gz.Close()

	var s snapshot
	if err := gob.NewDecoder(gz).Decode(&s); err != nil {
		return nil, fmt.Errorf("estimator: decoding snapshot: %w", err)
	}

	var kopts []kernel.Option
	if s.Dataset != nil {
		kopts = append(kopts, kernel.WithAttachedDataset(s.Dataset))
	}
	k, err := kernel.NewPrecomputed(s.Transition, s.Backward, kopts...)
	if err != nil {
		return nil, err
	}
	e, err := New(k, opts...)
	if err != nil {
		return nil, err
	}
	e.priming = s.Priming

	if s.HasTerminal {
		e.terminal = &StateAssignment{
			labels:     s.Labels,
			membership: s.Membership,
			categories: s.Categories,
			colors:     s.Colors,
		}
	}
	if s.HasFate {
		e.fate = newLineage(fromBlob(s.Fate), s.FateNames, s.FateColors)
		e.transient = s.Transient
		if err := e.rebuildSolveState(); err != nil {
			return nil, err
		}
	}
	if s.HasAbs {
		e.absTimes = &AbsorptionTimes{
			keys: s.AbsKeys,
			mean: fromBlob(s.AbsMean),
			vari: fromBlob(s.AbsVar),
		}
	}
	if s.HasDrivers {
		e.drivers = &DriverTable{
			genes:    s.Genes,
			lineages: s.Lineages,
			corr:     fromBlob(s.Corr),
			pval:     fromBlob(s.Pval),
			qval:     fromBlob(s.Qval),
		}
	}

	return e, nil
}

// rebuildSolveState re-extracts Q from the restored transition matrix so
// absorption times keep working after a round-trip.
func (e *CFLARE) rebuildSolveState() error {
	t, err := e.k.TransitionMatrix()
	if err != nil {
		return err
	}
	if len(e.transient) == 0 {
		return nil
	}
	q, err := t.Submatrix(e.transient, e.transient)
	if err != nil {
		return err
	}
	e.q = q
	var lu mat.LU
	lu.Factorize(identityMinus(q))
	e.lu = &lu

	return nil
}

// Copy returns a deep copy: kernel, terminal states, fate probabilities,
// absorption times and drivers share no memory with the receiver. The
// eigendecomposition is shared; it is an immutable snapshot.
func (e *CFLARE) Copy() *CFLARE {
	if e == nil {
		return nil
	}
	cp := &CFLARE{
		k:        e.k.Copy(),
		gen:      e.gen,
		ed:       e.ed,
		terminal: e.terminal.Clone(),
		fate:     e.fate.Clone(),
		absTimes: e.absTimes.Clone(),
		drivers:  e.drivers.Clone(),
		log:      e.log,
	}
	if e.transient != nil {
		cp.transient = append([]int(nil), e.transient...)
	}
	if e.priming != nil {
		cp.priming = append([]float64(nil), e.priming...)
	}
	if e.q != nil {
		cp.q = mat.DenseCopyOf(e.q)
		var lu mat.LU
		lu.Factorize(identityMinus(cp.q))
		cp.lu = &lu
	}

	return cp
}
