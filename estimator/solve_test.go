// Package estimator_test: fate-probability solver and absorption-time tests.
package estimator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/estimator"
	"github.com/lineagelab/fateflow/kernel"
)

// ---------------------------------------------------------------------------
// Fate probabilities against the closed-form reference
// ---------------------------------------------------------------------------

func TestFateProbabilities_MatchReference(t *testing.T) {
	for _, solver := range []estimator.Solver{
		estimator.SolverDirect,
		estimator.SolverIterative,
		estimator.SolverParallel,
	} {
		t.Run(solver.String(), func(t *testing.T) {
			e := absorbingEstimator(t)
			require.NoError(t, e.ComputeFateProbabilities(estimator.WithSolver(solver)))

			fate := e.FateProbabilities()
			rows, cols := fate.Dims()
			require.Equal(t, 12, rows)
			require.Equal(t, 2, cols)
			require.Equal(t, []string{"terminal_1", "terminal_2"}, fate.Names())

			for r, i := range transientIdx {
				require.InDelta(t, fateReference[r][0], fate.Dense().At(i, 0), 1e-6, "cell %d col 0", i)
				require.InDelta(t, fateReference[r][1], fate.Dense().At(i, 1), 1e-6, "cell %d col 1", i)
			}

			// Terminal rows are one-hot.
			require.InDelta(t, 1.0, fate.Dense().At(7, 0), 1e-12)
			require.InDelta(t, 0.0, fate.Dense().At(7, 1), 1e-12)
			require.InDelta(t, 0.0, fate.Dense().At(10, 0), 1e-12)
			require.InDelta(t, 1.0, fate.Dense().At(10, 1), 1e-12)
		})
	}
}

func TestFateProbabilities_SolverAgreement(t *testing.T) {
	e1 := absorbingEstimator(t)
	require.NoError(t, e1.ComputeFateProbabilities(estimator.WithSolver(estimator.SolverDirect)))

	e2 := absorbingEstimator(t)
	require.NoError(t, e2.ComputeFateProbabilities(
		estimator.WithSolver(estimator.SolverIterative),
		estimator.WithSolveTol(1e-12),
	))

	e3 := absorbingEstimator(t)
	require.NoError(t, e3.ComputeFateProbabilities(
		estimator.WithSolver(estimator.SolverParallel),
		estimator.WithSolveTol(1e-12),
		estimator.WithSolveWorkers(3),
	))

	d1, d2, d3 := e1.FateProbabilities().Dense(), e2.FateProbabilities().Dense(), e3.FateProbabilities().Dense()
	for i := 0; i < 12; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, d1.At(i, j), d2.At(i, j), 1e-8, "direct vs iterative (%d,%d)", i, j)
			require.InDelta(t, d2.At(i, j), d3.At(i, j), 1e-9, "iterative vs parallel (%d,%d)", i, j)
		}
	}
}

func TestFateProbabilities_Preconditions(t *testing.T) {
	e := absorbingEstimator(t)

	// Drop terminal states by never setting them on a fresh estimator.
	fresh, err := estimator.New(e.Kernel())
	require.NoError(t, err)
	err = fresh.ComputeFateProbabilities()
	require.ErrorIs(t, err, estimator.ErrNoTerminalStates)
}

func TestFateProbabilities_NoTransientCells(t *testing.T) {
	e := absorbingEstimator(t)
	groups := make(map[string][]int)
	for i := 0; i < 12; i++ {
		groups["all"] = append(groups["all"], i)
	}
	require.NoError(t, e.SetTerminalStatesByIndex(groups))

	err := e.ComputeFateProbabilities()
	require.ErrorIs(t, err, estimator.ErrNoTransientCells)
}

func TestFateProbabilities_IterationCap(t *testing.T) {
	e := absorbingEstimator(t)

	err := e.ComputeFateProbabilities(
		estimator.WithSolver(estimator.SolverIterative),
		estimator.WithSolveTol(1e-14),
		estimator.WithMaxIter(2),
	)
	require.ErrorIs(t, err, estimator.ErrNoConvergence)
}

func TestLineageColumnSelection(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities())

	col, err := e.FateProbabilities().Column("terminal_2")
	require.NoError(t, err)
	require.Len(t, col, 12)
	require.InDelta(t, 1.0, col[10], 1e-12)

	_, err = e.FateProbabilities().Column("made_up")
	require.ErrorIs(t, err, estimator.ErrUnknownLineage)
	require.Contains(t, err.Error(), "terminal_1 terminal_2")
}

// ---------------------------------------------------------------------------
// Absorption times
// ---------------------------------------------------------------------------

func TestAbsorptionTimes_RequiresFateProbabilities(t *testing.T) {
	e := absorbingEstimator(t)

	err := e.ComputeAbsorptionTimes([]string{"terminal_1"}, false)
	require.ErrorIs(t, err, estimator.ErrNoFateProbabilities)
}

func TestAbsorptionTimes_InvalidKey(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities())

	err := e.ComputeAbsorptionTimes([]string{"terminal_1, bogus"}, false)
	require.ErrorIs(t, err, estimator.ErrInvalidStateNames)
	require.Contains(t, err.Error(), "bogus")
	require.Contains(t, err.Error(), "terminal_1 terminal_2")
}

func TestAbsorptionTimes_MeanStructure(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities())
	require.NoError(t, e.ComputeAbsorptionTimes([]string{"terminal_1"}, false))

	at := e.AbsorptionTimesResult()
	require.Equal(t, []string{"terminal_1"}, at.Keys())
	require.Nil(t, at.Variance())

	mean := at.Mean()
	// Absorbed already: zero steps. The other terminal state never reaches
	// the group: undefined.
	require.Equal(t, 0.0, mean.At(7, 0))
	require.True(t, math.IsNaN(mean.At(10, 0)))

	// Every transient cell can reach state 7, so its conditional time is a
	// positive finite number of steps.
	for _, i := range transientIdx {
		v := mean.At(i, 0)
		require.False(t, math.IsNaN(v), "cell %d", i)
		require.Greater(t, v, 0.0, "cell %d", i)
	}

	// Cell 6 sits one hop from state 7 and mostly goes straight there; it
	// must be absorbed faster than the far-away cell 0.
	require.Less(t, mean.At(6, 0), mean.At(0, 0))
}

func TestAbsorptionTimes_UnionAndVariance(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities())
	require.NoError(t, e.ComputeAbsorptionTimes([]string{"terminal_1, terminal_2"}, true))

	at := e.AbsorptionTimesResult()
	require.NotNil(t, at.Variance())

	// Absorption into the union is certain, so every transient cell has a
	// finite mean and a non-negative variance; both terminal cells read 0.
	require.Equal(t, 0.0, at.Mean().At(7, 0))
	require.Equal(t, 0.0, at.Mean().At(10, 0))
	for _, i := range transientIdx {
		require.False(t, math.IsNaN(at.Mean().At(i, 0)), "mean cell %d", i)
		require.GreaterOrEqual(t, at.Variance().At(i, 0), 0.0, "variance cell %d", i)
	}
}

func TestAbsorptionTimes_IterativeFallback(t *testing.T) {
	// An iterative fate solve leaves no LU factorisation behind; absorption
	// times must still come out consistent with the direct path.
	direct := absorbingEstimator(t)
	require.NoError(t, direct.ComputeFateProbabilities(estimator.WithSolver(estimator.SolverDirect)))
	require.NoError(t, direct.ComputeAbsorptionTimes([]string{"terminal_1"}, false))

	iter := absorbingEstimator(t)
	require.NoError(t, iter.ComputeFateProbabilities(
		estimator.WithSolver(estimator.SolverIterative),
		estimator.WithSolveTol(1e-13),
	))
	require.NoError(t, iter.ComputeAbsorptionTimes([]string{"terminal_1"}, false,
		estimator.WithSolveTol(1e-13)))

	for _, i := range transientIdx {
		require.InDelta(t,
			direct.AbsorptionTimesResult().Mean().At(i, 0),
			iter.AbsorptionTimesResult().Mean().At(i, 0),
			1e-6, "cell %d", i)
	}
}

// ---------------------------------------------------------------------------
// Solve-output validation contract
// ---------------------------------------------------------------------------

func TestFateProbabilities_SumValidationMessage(t *testing.T) {
	// Leaving absorbing cell 10 out of the terminal set keeps its basin
	// inside Q, so transient mass leaks and every solved row falls short.
	k, err := kernel.NewPrecomputed(absorbingChain(t), false)
	require.NoError(t, err)
	e, err := estimator.New(k)
	require.NoError(t, err)
	require.NoError(t, e.SetTerminalStatesByIndex(map[string][]int{
		"terminal_1": {7},
	}))

	err = e.ComputeFateProbabilities(estimator.WithSolver(estimator.SolverIterative))
	require.ErrorIs(t, err, estimator.ErrFateValidation)
	require.ErrorContains(t, err, "`11` value(s) do not sum to 1 (rtol=1e-3).")
	require.Nil(t, e.FateProbabilities())
}

func TestValidateFateMatrix(t *testing.T) {
	// Stochastic rows pass; dust in [-1e-12, 0) is snapped to zero.
	ok := mat.NewDense(2, 2, []float64{0.5, 0.5, 1 + 1e-13, -1e-13})
	require.NoError(t, estimator.ValidateFateMatrix(ok))
	require.Equal(t, 0.0, ok.At(1, 1))

	short := mat.NewDense(3, 2, []float64{0.5, 0.5, 0.3, 0.3, 0.9, 0.0})
	err := estimator.ValidateFateMatrix(short)
	require.ErrorIs(t, err, estimator.ErrFateValidation)
	require.ErrorContains(t, err, "`2` value(s) do not sum to 1 (rtol=1e-3).")

	neg := mat.NewDense(2, 2, []float64{1.5, -0.5, 1e-6 + 1, -1e-6})
	err = estimator.ValidateFateMatrix(neg)
	require.ErrorIs(t, err, estimator.ErrFateValidation)
	require.ErrorContains(t, err, "`2` value(s) are negative.")
}

// ---------------------------------------------------------------------------
// Terminal-key subsetting
// ---------------------------------------------------------------------------

func TestFateProbabilities_KeysMerge(t *testing.T) {
	e := absorbingEstimator(t)
	require.NoError(t, e.ComputeFateProbabilities(
		estimator.WithKeys("terminal_1, terminal_2")))

	fate := e.FateProbabilities()
	require.Equal(t, []string{"terminal_1, terminal_2"}, fate.Names())
	rows, cols := fate.Dims()
	require.Equal(t, 12, rows)
	require.Equal(t, 1, cols)
	for i := 0; i < rows; i++ {
		require.InDelta(t, 1.0, fate.Dense().At(i, 0), 1e-6, "cell %d", i)
	}

	// The merged column carries its first constituent's color.
	want, ok := e.TerminalStates().Color("terminal_1")
	require.True(t, ok)
	require.Equal(t, []string{want}, fate.Colors())
}

func TestFateProbabilities_KeysSubset(t *testing.T) {
	k, err := kernel.NewPrecomputed(recurrentChain(t), false)
	require.NoError(t, err)
	e, err := estimator.New(k)
	require.NoError(t, err)
	require.NoError(t, e.SetTerminalStatesByIndex(map[string][]int{
		"left":  {7},
		"right": {10},
	}))

	require.NoError(t, e.ComputeFateProbabilities(estimator.WithKeys("left")))

	fate := e.FateProbabilities()
	require.Equal(t, []string{"left"}, fate.Names())
	_, cols := fate.Dims()
	require.Equal(t, 1, cols)

	// The chain is irreducible, so once "right" solves as transient every
	// cell is absorbed by "left" with certainty.
	for i := 0; i < 12; i++ {
		require.InDelta(t, 1.0, fate.Dense().At(i, 0), 1e-6, "cell %d", i)
	}

	// The terminal assignment itself is untouched by the restriction.
	require.Equal(t, []string{"left", "right"}, e.TerminalStates().Categories())
}

func TestFateProbabilities_KeysValidation(t *testing.T) {
	e := absorbingEstimator(t)

	err := e.ComputeFateProbabilities(estimator.WithKeys("nope"))
	require.ErrorIs(t, err, estimator.ErrInvalidStateNames)
	require.ErrorContains(t, err, "terminal_1 terminal_2")

	err = e.ComputeFateProbabilities(
		estimator.WithKeys("terminal_1", "terminal_1, terminal_2"))
	require.ErrorIs(t, err, estimator.ErrInvalidStateNames)
	require.ErrorContains(t, err, "more than one key")
}
