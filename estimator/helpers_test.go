// Package estimator_test: shared fixtures.
package estimator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineagelab/fateflow/dataset"
	"github.com/lineagelab/fateflow/kernel"
	"github.com/lineagelab/fateflow/matrix"
)

// chainDataset builds n cells on a symmetric path graph with ascending
// pseudotime under the default time key.
func chainDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()

	coo, err := matrix.NewCoo(n, n)
	require.NoError(t, err)
	for i := 0; i+1 < n; i++ {
		require.NoError(t, coo.Append(i, i+1, 1))
		require.NoError(t, coo.Append(i+1, i, 1))
	}
	conn, err := coo.ToCSR()
	require.NoError(t, err)

	names := make([]string, n)
	pt := make([]float64, n)
	for i := range names {
		names[i] = string(rune('a' + i))
		pt[i] = float64(i)
	}

	ds, err := dataset.New(names,
		dataset.WithConnectivities(conn, 2),
		dataset.WithObs(kernel.DefaultTimeKey, pt),
	)
	require.NoError(t, err)

	return ds
}
