// SPDX-License-Identifier: MIT

// Package kernel: functional options for construction and computation.

package kernel

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lineagelab/fateflow/dataset"
	"github.com/lineagelab/fateflow/scheme"
)

// DefaultTimeKey is the dataset annotation key pseudotime kernels read when
// no WithTimeKey option is given.
const DefaultTimeKey = "pseudotime"

// Dataset keys under which WriteToDataset publishes its results.
const (
	// UnsKeyForward holds a forward kernel's transition matrix.
	UnsKeyForward = "T_fwd"

	// UnsKeyBackward holds a backward kernel's transition matrix.
	UnsKeyBackward = "T_bwd"

	// ParamsSuffix is appended to the matrix key for the parameter record.
	ParamsSuffix = "_params"
)

// Option configures a kernel at construction time.
type Option func(*Kernel)

// WithTimeKey selects the dataset annotation holding the pseudotime vector.
// Panics on an empty key.
func WithTimeKey(key string) Option {
	if key == "" {
		panic("kernel: WithTimeKey(\"\"): empty annotation key")
	}
	return func(k *Kernel) { k.timeKey = key }
}

// WithBackward flips the kernel to model the process end-to-start; the
// pseudotime ordering is negated around its maximum at read time.
func WithBackward() Option {
	return func(k *Kernel) { k.backward = true }
}

// WithAttachedDataset attaches a dataset to a precomputed kernel, giving
// restored snapshots access to annotations and expression again. Kernels
// built from a dataset ignore it.
func WithAttachedDataset(ds *dataset.Dataset) Option {
	return func(k *Kernel) {
		if k.ds == nil {
			k.ds = ds
		}
	}
}

// WithLogger replaces the kernel's logger. The default writes warnings to
// stderr. Panics on nil.
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("kernel: WithLogger(nil)")
	}
	return func(k *Kernel) { k.log = l }
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "kernel"})
}

// computeOptions collects per-ComputeTransitionMatrix settings.
type computeOptions struct {
	sch        scheme.Scheme
	workers    int
	checkIrred bool
	progress   func(done, total int)
}

// ComputeOption tweaks a single ComputeTransitionMatrix call.
type ComputeOption func(*computeOptions)

func defaultComputeOptions() computeOptions {
	return computeOptions{sch: scheme.DefaultHard(), workers: 1}
}

// WithScheme selects the threshold scheme a pseudotime kernel biases with.
// The default is the hard scheme at its default retention fraction.
// Connectivity and precomputed kernels ignore it.
func WithScheme(s scheme.Scheme) ComputeOption {
	return func(o *computeOptions) { o.sch = s }
}

// WithWorkers sets the scheme evaluation parallelism. Panics if n < 1.
func WithWorkers(n int) ComputeOption {
	if n < 1 {
		panic(fmt.Sprintf("kernel: WithWorkers(%d): worker count must be >= 1", n))
	}
	return func(o *computeOptions) { o.workers = n }
}

// WithIrreducibilityCheck additionally verifies the computed chain is
// irreducible, warning (not failing) when it is not.
func WithIrreducibilityCheck() ComputeOption {
	return func(o *computeOptions) { o.checkIrred = true }
}

// WithProgress installs a per-row progress callback for the biasing step.
func WithProgress(fn func(done, total int)) ComputeOption {
	return func(o *computeOptions) { o.progress = fn }
}
