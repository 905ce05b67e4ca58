// SPDX-License-Identifier: MIT

package scheme

import "fmt"

// Default parameter values for the built-in schemes.
const (
	// DefaultFracToKeep is the fraction of each cell's heaviest neighbors the
	// hard scheme retains regardless of temporal direction.
	DefaultFracToKeep = 0.3

	// DefaultSteepness is the logistic steepness of the soft penalty.
	DefaultSteepness = 10.0

	// DefaultSoftness is the exponent applied to the pseudotime difference
	// inside the soft penalty.
	DefaultSoftness = 0.5
)

// options collects per-call Bias settings.
type options struct {
	workers    int
	nNeighbors int
	progress   func(done, total int)
}

// Option tweaks a single Bias call.
type Option func(*options)

func defaultOptions() options {
	return options{workers: 1}
}

// WithWorkers sets the number of goroutines evaluating rows. The numeric
// result is independent of the worker count. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("scheme: WithWorkers(%d): worker count must be >= 1", n))
	}
	return func(o *options) { o.workers = n }
}

// WithNeighborCount tells the hard scheme how many neighbors the
// connectivity graph was built with; the retained-edge quota is
// ceil(FracToKeep·n). When unset (or 0) each row falls back to its own
// degree. Panics if n < 0.
func WithNeighborCount(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("scheme: WithNeighborCount(%d): neighbor count must be >= 0", n))
	}
	return func(o *options) { o.nNeighbors = n }
}

// WithProgress installs a callback invoked after each completed row with
// (rows done, rows total). Invocation order is unspecified under parallel
// evaluation.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) { o.progress = fn }
}
