// Package kernel_test: tests for the combination expression builder.
package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineagelab/fateflow/kernel"
	"github.com/lineagelab/fateflow/matrix"
	"github.com/lineagelab/fateflow/scheme"
)

// computedPair returns a pseudotime kernel and a connectivity kernel over
// the same dataset, both computed.
func computedPair(t *testing.T) (*kernel.Kernel, *kernel.Kernel) {
	t.Helper()

	ds := chainDataset(t, 8)
	pk, err := kernel.NewPseudotime(ds)
	require.NoError(t, err)
	_, err = pk.ComputeTransitionMatrix(kernel.WithScheme(scheme.DefaultSoft()))
	require.NoError(t, err)

	ck, err := kernel.NewConnectivity(ds)
	require.NoError(t, err)
	_, err = ck.ComputeTransitionMatrix()
	require.NoError(t, err)

	return pk, ck
}

func TestScale_RejectsNegativeWeight(t *testing.T) {
	pk, _ := computedPair(t)

	_, err := kernel.Scale(pk, -0.5)
	require.ErrorIs(t, err, kernel.ErrNegativeWeight)
}

func TestExprKernel_EmptyExpression(t *testing.T) {
	_, err := kernel.Combine().Kernel()
	require.ErrorIs(t, err, kernel.ErrEmptyExpr)
}

func TestExprKernel_RequiresComputedOperands(t *testing.T) {
	pk, err := kernel.NewPseudotime(chainDataset(t, 6))
	require.NoError(t, err)

	e, err := kernel.Scale(pk, 1)
	require.NoError(t, err)
	_, err = e.Kernel()
	require.ErrorIs(t, err, kernel.ErrNotComputed)
}

func TestExprKernel_ConvexCombinationIsStochastic(t *testing.T) {
	pk, ck := computedPair(t)

	e1, err := kernel.Scale(pk, 0.8)
	require.NoError(t, err)
	e2, err := kernel.Scale(ck, 0.2)
	require.NoError(t, err)

	combined, err := kernel.Combine(e1, e2).Kernel()
	require.NoError(t, err)
	require.Equal(t, kernel.StateComputed, combined.State())

	tm, err := combined.TransitionMatrix()
	require.NoError(t, err)
	requireStochastic(t, tm)

	// Spot-check one entry against the hand-built weighted sum.
	pt, err := pk.TransitionMatrix()
	require.NoError(t, err)
	ct, err := ck.TransitionMatrix()
	require.NoError(t, err)
	want, err := matrix.AddScaled(pt, 0.8, ct, 0.2)
	require.NoError(t, err)

	wv, err := want.At(3, 4)
	require.NoError(t, err)
	gv, err := tm.At(3, 4)
	require.NoError(t, err)
	require.InDelta(t, wv, gv, 1e-12)
}

func TestExprKernel_UnnormalizedWeightsPassThrough(t *testing.T) {
	// Weights summing to 2 yield rows summing to 2; enforcement is the
	// caller's business.
	pk, ck := computedPair(t)

	e1, err := kernel.Scale(pk, 1)
	require.NoError(t, err)
	e2, err := kernel.Scale(ck, 1)
	require.NoError(t, err)

	combined, err := kernel.Combine(e1, e2).Kernel()
	require.NoError(t, err)

	tm, err := combined.TransitionMatrix()
	require.NoError(t, err)
	sums, err := matrix.RowSums(tm)
	require.NoError(t, err)
	for _, s := range sums {
		require.InDelta(t, 2.0, s, 1e-9)
	}
}

func TestExprKernel_DirectionMismatch(t *testing.T) {
	pk, ck := computedPair(t)

	bwd := pk.Reversed()
	_, err := bwd.ComputeTransitionMatrix()
	require.NoError(t, err)

	e1, err := kernel.Scale(bwd, 0.5)
	require.NoError(t, err)
	e2, err := kernel.Scale(ck, 0.5)
	require.NoError(t, err)

	_, err = kernel.Combine(e1, e2).Kernel()
	require.ErrorIs(t, err, kernel.ErrDirectionMismatch)
}

func TestExprKernel_ShapeMismatch(t *testing.T) {
	pk, _ := computedPair(t)

	idSmall, err := matrix.Identity(3)
	require.NoError(t, err)
	small, err := kernel.NewPrecomputed(idSmall, false)
	require.NoError(t, err)

	e1, err := kernel.Scale(pk, 0.5)
	require.NoError(t, err)
	e2, err := kernel.Scale(small, 0.5)
	require.NoError(t, err)

	_, err = kernel.Combine(e1, e2).Kernel()
	require.ErrorIs(t, err, kernel.ErrShapeMismatch)
}
