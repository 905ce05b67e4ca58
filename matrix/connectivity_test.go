// Package matrix_test contains unit tests for the structure checks.
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineagelab/fateflow/matrix"
)

func TestIsConnected(t *testing.T) {
	for _, tc := range []struct {
		name  string
		n     int
		trips [][3]float64
		want  bool
	}{
		{
			name:  "chain is weakly connected even if directed one way",
			n:     3,
			trips: [][3]float64{{0, 1, 1}, {1, 2, 1}},
			want:  true,
		},
		{
			name:  "two components",
			n:     4,
			trips: [][3]float64{{0, 1, 1}, {2, 3, 1}},
			want:  false,
		},
		{
			name:  "isolated node",
			n:     3,
			trips: [][3]float64{{0, 1, 1}, {1, 0, 1}},
			want:  false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := mustCSR(t, tc.n, tc.n, tc.trips)
			got, err := matrix.IsConnected(c)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestIsIrreducible(t *testing.T) {
	for _, tc := range []struct {
		name  string
		n     int
		trips [][3]float64
		want  bool
	}{
		{
			name:  "directed cycle is irreducible",
			n:     3,
			trips: [][3]float64{{0, 1, 1}, {1, 2, 1}, {2, 0, 1}},
			want:  true,
		},
		{
			name:  "one-way chain is reducible",
			n:     3,
			trips: [][3]float64{{0, 1, 1}, {1, 2, 1}},
			want:  false,
		},
		{
			name:  "absorbing state makes the chain reducible",
			n:     2,
			trips: [][3]float64{{0, 0, 0.5}, {0, 1, 0.5}, {1, 1, 1}},
			want:  false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := mustCSR(t, tc.n, tc.n, tc.trips)
			got, err := matrix.IsIrreducible(c)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
