// SPDX-License-Identifier: MIT

// Package dataset: gob support so estimator snapshots can carry the whole
// container. The uns map holds arbitrary interface values and is not
// transported; kernels republish their results into it on demand.

package dataset

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/matrix"
)

// denseWire is the exported mirror of a mat.Dense for gob transport only.
type denseWire struct {
	Rows, Cols int
	Data       []float64
}

func toWire(d *mat.Dense) *denseWire {
	if d == nil {
		return nil
	}
	r, c := d.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, d.RawRowView(i)...)
	}

	return &denseWire{Rows: r, Cols: c, Data: data}
}

func fromWire(w *denseWire) *mat.Dense {
	if w == nil {
		return nil
	}

	return mat.NewDense(w.Rows, w.Cols, w.Data)
}

// datasetWire is the exported mirror of Dataset used for gob transport.
type datasetWire struct {
	Names      []string
	Obs        map[string][]float64
	ObsCat     map[string][]string
	Obsm       map[string]*denseWire
	Conn       *matrix.CSR
	NNeighbors int
	X          *denseWire
	VarNames   []string
	Layers     map[string]*denseWire
}

// GobEncode implements gob.GobEncoder.
func (d *Dataset) GobEncode() ([]byte, error) {
	if d == nil {
		return nil, ErrNilDataset
	}
	w := datasetWire{
		Names:      d.names,
		Obs:        d.obs,
		ObsCat:     d.obsCat,
		Obsm:       make(map[string]*denseWire, len(d.obsm)),
		Conn:       d.conn,
		NNeighbors: d.nNeighbors,
		X:          toWire(d.x),
		VarNames:   d.varNames,
		Layers:     make(map[string]*denseWire, len(d.layers)),
	}
	for k, v := range d.obsm {
		w.Obsm[k] = toWire(v)
	}
	for k, v := range d.layers {
		w.Layers[k] = toWire(v)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (d *Dataset) GobDecode(p []byte) error {
	var w datasetWire
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&w); err != nil {
		return err
	}

	d.names = w.Names
	d.nameIdx = make(map[string]int, len(w.Names))
	for i, name := range w.Names {
		d.nameIdx[name] = i
	}
	d.obs = w.Obs
	if d.obs == nil {
		d.obs = make(map[string][]float64)
	}
	d.obsCat = w.ObsCat
	if d.obsCat == nil {
		d.obsCat = make(map[string][]string)
	}
	d.obsm = make(map[string]*mat.Dense, len(w.Obsm))
	for k, v := range w.Obsm {
		d.obsm[k] = fromWire(v)
	}
	d.uns = make(map[string]any)
	d.conn = w.Conn
	d.nNeighbors = w.NNeighbors
	d.x = fromWire(w.X)
	d.varNames = w.VarNames
	d.layers = make(map[string]*mat.Dense, len(w.Layers))
	for k, v := range w.Layers {
		d.layers[k] = fromWire(v)
	}

	return nil
}
