// Package kernel turns cell-similarity graphs into row-stochastic Markov
// transition matrices.
//
// A Kernel owns exactly one transition matrix and moves through a small
// state machine: constructed (no matrix yet), computed (matrix available,
// read-only), written (matrix published into the dataset). Recomputing with
// identical parameters is a cached no-op; changing any parameter replaces
// the matrix wholesale and bumps the kernel's generation counter, which
// downstream consumers use to invalidate derived results.
//
// Three kinds of kernel exist:
//
//   - Pseudotime: biases the neighbor graph by a per-cell pseudotime vector
//     through a scheme.Scheme, then row-normalises;
//   - Connectivity: row-normalises the raw neighbor graph, direction-blind;
//   - Precomputed: wraps an externally built transition matrix.
//
// Kernels combine through an explicit expression builder: Scale attaches a
// non-negative weight, Combine sums terms, and Expr.Kernel materialises the
// weighted sum as a new kernel. Weights are not forced to sum to 1; callers
// that want a stochastic combination must normalise their weights.
// Direction is always explicit: Reversed returns a flipped copy and
// ReverseInPlace mutates, neither is hidden behind operator tricks.
package kernel
