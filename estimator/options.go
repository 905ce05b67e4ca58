// SPDX-License-Identifier: MIT

// Package estimator: functional options for the pipeline steps.

package estimator

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Solver selects how (I-Q)X = R is solved.
type Solver uint8

const (
	// SolverDirect factorises I-Q once (LU) and back-substitutes.
	SolverDirect Solver = iota
	// SolverIterative runs the Jacobi fixed point X <- QX + R.
	SolverIterative
	// SolverParallel runs the same fixed point over column blocks in
	// parallel; columns are independent, so the result matches
	// SolverIterative exactly.
	SolverParallel
)

// String returns the solver's short name.
func (s Solver) String() string {
	switch s {
	case SolverDirect:
		return "direct"
	case SolverIterative:
		return "iterative"
	case SolverParallel:
		return "parallel"
	default:
		return fmt.Sprintf("Solver(%d)", uint8(s))
	}
}

// Defaults for the pipeline options.
const (
	// DefaultSolveTol bounds the sup-norm update of the iterative solvers.
	DefaultSolveTol = 1e-8

	// DefaultMaxIter caps the iterative solvers.
	DefaultMaxIter = 10_000

	// DefaultFateRTol is the row-sum tolerance of the fate validation.
	DefaultFateRTol = 1e-3

	// DefaultNegTol is how far below zero a fate probability may dip before
	// the non-negativity check fails.
	DefaultNegTol = 1e-12

	// DefaultNoiseMass is the stationary mass below which a predicted
	// cluster is discarded as noise.
	DefaultNoiseMass = 1e-6

	// DefaultSeed feeds the deterministic k-means++ initialisation.
	DefaultSeed int64 = 42
)

// Option configures the estimator at construction time.
type Option func(*CFLARE)

// WithLogger replaces the estimator's logger. Panics on nil.
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("estimator: WithLogger(nil)")
	}
	return func(e *CFLARE) { e.log = l }
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "estimator"})
}

// predictOptions collects Predict settings.
type predictOptions struct {
	clusters  int // 0: use+1
	seed      int64
	noiseMass float64
}

// PredictOption tweaks a single Predict call.
type PredictOption func(*predictOptions)

func defaultPredictOptions() predictOptions {
	return predictOptions{seed: DefaultSeed, noiseMass: DefaultNoiseMass}
}

// WithClusters fixes the k-means cluster count; the default is one more
// than the number of eigenvectors used. Panics when n < 1.
func WithClusters(n int) PredictOption {
	if n < 1 {
		panic(fmt.Sprintf("estimator: WithClusters(%d): cluster count must be >= 1", n))
	}
	return func(o *predictOptions) { o.clusters = n }
}

// WithSeed sets the k-means++ initialisation seed; identical seeds and
// inputs reproduce identical assignments.
func WithSeed(seed int64) PredictOption {
	return func(o *predictOptions) { o.seed = seed }
}

// WithNoiseMass overrides the stationary-mass cutoff below which a cluster
// is dropped. Panics when mass < 0.
func WithNoiseMass(mass float64) PredictOption {
	if mass < 0 {
		panic(fmt.Sprintf("estimator: WithNoiseMass(%g): cutoff must be >= 0", mass))
	}
	return func(o *predictOptions) { o.noiseMass = mass }
}

// solveOptions collects ComputeFateProbabilities settings.
type solveOptions struct {
	solver  Solver
	tol     float64
	maxIter int
	workers int
	keys    []string // nil: one column per terminal state
}

// SolveOption tweaks a fate-probability or absorption-time solve.
type SolveOption func(*solveOptions)

func defaultSolveOptions() solveOptions {
	return solveOptions{solver: SolverDirect, tol: DefaultSolveTol, maxIter: DefaultMaxIter, workers: 4}
}

// WithSolver selects the linear-system backend.
func WithSolver(s Solver) SolveOption {
	return func(o *solveOptions) { o.solver = s }
}

// WithSolveTol overrides the iterative convergence tolerance. Panics when
// tol <= 0.
func WithSolveTol(tol float64) SolveOption {
	if tol <= 0 {
		panic(fmt.Sprintf("estimator: WithSolveTol(%g): tolerance must be > 0", tol))
	}
	return func(o *solveOptions) { o.tol = tol }
}

// WithMaxIter overrides the iteration cap. Panics when n < 1.
func WithMaxIter(n int) SolveOption {
	if n < 1 {
		panic(fmt.Sprintf("estimator: WithMaxIter(%d): cap must be >= 1", n))
	}
	return func(o *solveOptions) { o.maxIter = n }
}

// WithKeys restricts ComputeFateProbabilities to the named terminal
// states. A comma-joined key such as "alpha, beta" merges the states into
// one fate column under that key; cells of terminal states left out of
// every key are treated as transient for the solve.
func WithKeys(keys ...string) SolveOption {
	return func(o *solveOptions) { o.keys = keys }
}

// WithSolveWorkers sets the column-block parallelism of SolverParallel.
// Panics when n < 1.
func WithSolveWorkers(n int) SolveOption {
	if n < 1 {
		panic(fmt.Sprintf("estimator: WithSolveWorkers(%d): worker count must be >= 1", n))
	}
	return func(o *solveOptions) { o.workers = n }
}

// writeOptions collects Write settings.
type writeOptions struct {
	includeDataset bool
}

// WriteOption tweaks a snapshot Write call.
type WriteOption func(*writeOptions)

// WithDataset embeds the kernel's dataset in the snapshot so Read restores
// a fully dataset-backed estimator. Write fails when the kernel carries no
// dataset.
func WithDataset() WriteOption {
	return func(o *writeOptions) { o.includeDataset = true }
}

// driverOptions collects ComputeLineageDrivers settings.
type driverOptions struct {
	lineages   []string // nil: all
	layer      string   // "": primary expression matrix
	clusterKey string
	clusters   []string
}

// DriverOption tweaks a ComputeLineageDrivers call.
type DriverOption func(*driverOptions)

// WithLineages restricts the driver analysis to the named fate columns.
func WithLineages(names ...string) DriverOption {
	return func(o *driverOptions) { o.lineages = names }
}

// WithLayer reads expression from a named alternate layer instead of the
// primary matrix.
func WithLayer(name string) DriverOption {
	return func(o *driverOptions) { o.layer = name }
}

// WithClusterRestriction keeps only cells whose categorical annotation
// under key matches one of the given clusters.
func WithClusterRestriction(key string, clusters ...string) DriverOption {
	return func(o *driverOptions) {
		o.clusterKey = key
		o.clusters = clusters
	}
}
