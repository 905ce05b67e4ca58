// SPDX-License-Identifier: MIT

// Package matrix: gob support for CSR so estimator snapshots can round-trip
// transition matrices through encoding/gob without exposing the internals.

package matrix

import (
	"bytes"
	"encoding/gob"
)

// csrWire is the exported mirror of CSR used for gob transport only.
type csrWire struct {
	Rows, Cols int
	Indptr     []int
	Indices    []int
	Data       []float64
}

// GobEncode implements gob.GobEncoder.
func (c *CSR) GobEncode() ([]byte, error) {
	if c == nil {
		return nil, ErrNilMatrix
	}
	var buf bytes.Buffer
	w := csrWire{Rows: c.rows, Cols: c.cols, Indptr: c.indptr, Indices: c.indices, Data: c.data}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (c *CSR) GobDecode(p []byte) error {
	var w csrWire
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&w); err != nil {
		return err
	}
	c.rows, c.cols = w.Rows, w.Cols
	c.indptr, c.indices, c.data = w.Indptr, w.Indices, w.Data

	return nil
}
