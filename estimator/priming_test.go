// Package estimator_test: lineage-priming degree tests.
package estimator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineagelab/fateflow/estimator"
)

func TestLineagePriming_Entropy(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities())

	require.NoError(t, e.ComputeLineagePriming(estimator.PrimingEntropy))
	score := e.PrimingDegree()
	require.Len(t, score, 12)

	// One-hot terminal cells are fully committed, the 50/50 early cells
	// fully uncommitted.
	require.InDelta(t, 1.0, score[7], 1e-9)
	require.InDelta(t, 1.0, score[10], 1e-9)
	for _, i := range []int{0, 1, 2, 3} {
		require.InDelta(t, 0.0, score[i], 1e-6, "cell %d", i)
	}
	for _, s := range score {
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0)
	}
}

func TestLineagePriming_KLDivergence(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities())

	require.NoError(t, e.ComputeLineagePriming(estimator.PrimingKL))
	score := e.PrimingDegree()
	require.Len(t, score, 12)

	// The population-mean fate distribution of this chain is (0.5, 0.5),
	// so 50/50 cells score 0 and one-hot cells score ln 2.
	for _, i := range []int{0, 1, 2, 3} {
		require.InDelta(t, 0.0, score[i], 1e-6, "cell %d", i)
	}
	require.InDelta(t, math.Ln2, score[7], 1e-6)
	require.InDelta(t, math.Ln2, score[10], 1e-6)

	// The terminal cells are the most committed.
	for _, s := range score {
		require.LessOrEqual(t, s, score[7]+1e-9)
	}
}

func TestLineagePriming_PublishesToDataset(t *testing.T) {
	e := driverEstimator(t)
	require.NoError(t, e.ComputeLineagePriming(estimator.PrimingEntropy))

	obs, err := e.Kernel().Dataset().Obs(estimator.ObsKeyPrimingForward)
	require.NoError(t, err)
	require.Equal(t, e.PrimingDegree(), obs)
}

func TestLineagePriming_Preconditions(t *testing.T) {
	e := absorbingEstimator(t)
	require.ErrorIs(t, e.ComputeLineagePriming(estimator.PrimingKL),
		estimator.ErrNoFateProbabilities)

	require.NoError(t, e.ComputeFateProbabilities())
	err := e.ComputeLineagePriming(estimator.PrimingMethod(99))
	require.ErrorIs(t, err, estimator.ErrBadPrimingMethod)

	// Recomputing fate probabilities voids the cached scores.
	require.NoError(t, e.ComputeLineagePriming(estimator.PrimingEntropy))
	require.NotNil(t, e.PrimingDegree())
	require.NoError(t, e.ComputeFateProbabilities(
		estimator.WithSolver(estimator.SolverIterative)))
	require.Nil(t, e.PrimingDegree())
}
