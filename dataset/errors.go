// SPDX-License-Identifier: MIT

package dataset

import "errors"

// Sentinel errors returned by Dataset constructors, setters and getters.
// Callers match them with errors.Is; dynamic details (the offending key,
// the available alternatives) are wrapped around these roots.
var (
	// ErrNilDataset is returned by methods invoked on a nil *Dataset.
	ErrNilDataset = errors.New("dataset: nil Dataset")

	// ErrEmptyNames is returned by New when no cell names are given.
	ErrEmptyNames = errors.New("dataset: empty cell name list")

	// ErrDuplicateName is returned by New when two cells share a name.
	ErrDuplicateName = errors.New("dataset: duplicate cell name")

	// ErrUnknownCell is returned by Index for a name the Dataset does not hold.
	ErrUnknownCell = errors.New("dataset: unknown cell name")

	// ErrLengthMismatch is returned when a per-cell slice or matrix does not
	// match the number of cells.
	ErrLengthMismatch = errors.New("dataset: length does not match cell count")

	// ErrMissingObs is returned by Obs for an absent numeric annotation key.
	ErrMissingObs = errors.New("dataset: numeric annotation not found")

	// ErrMissingCatObs is returned by CatObs for an absent categorical key.
	ErrMissingCatObs = errors.New("dataset: categorical annotation not found")

	// ErrMissingObsm is returned by Obsm for an absent per-cell matrix key.
	ErrMissingObsm = errors.New("dataset: per-cell matrix not found")

	// ErrMissingLayer is returned by Layer for an absent expression layer.
	ErrMissingLayer = errors.New("dataset: expression layer not found")

	// ErrNoConnectivities is returned by Connectivities when no neighbor
	// graph was attached.
	ErrNoConnectivities = errors.New("dataset: no connectivity graph attached")

	// ErrNoExpression is returned by Expression when no expression matrix
	// was attached.
	ErrNoExpression = errors.New("dataset: no expression matrix attached")

	// ErrBadConnectivities is returned by WithConnectivities for a graph
	// that is not square over the cell count.
	ErrBadConnectivities = errors.New("dataset: connectivity graph shape does not match cell count")
)
