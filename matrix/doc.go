// SPDX-License-Identifier: MIT

// Package matrix provides the sparse numeric layer for cell-cell graphs and
// Markov-chain transition matrices.
//
// The central type is CSR, a compressed-sparse-row matrix with column-sorted
// rows. CSR values are immutable after construction: every operation in this
// package returns a freshly allocated result and never mutates its operands.
// Matrices are assembled through the Coo builder, which accepts triplets in
// any order and deduplicates by summation.
//
// On top of CSR the package offers the row-stochastic kernels the rest of
// the module is built from:
//
//   - RowSums / NormalizeRows — turn a non-negative weight graph into a
//     row-stochastic transition matrix (all-zero rows become absorbing
//     self-loops).
//   - AddScaled — weighted sum of equally shaped matrices, the back-end of
//     kernel combination.
//   - IsConnected / IsIrreducible — weak connectivity (BFS on the
//     symmetrised pattern) and strong connectivity (forward/backward
//     reachability), both deterministic.
//   - ValidateStochastic — post-computation stochasticity check reporting
//     the exact number of violating rows.
//
// Determinism: all kernels traverse rows in index order and columns in
// ascending order; results are identical across runs and independent of
// any caller-side parallelism.
//
// Errors (sentinel, matched via errors.Is):
//
//	ErrBadShape, ErrOutOfRange, ErrDimensionMismatch, ErrNonSquare,
//	ErrNaNInf, ErrNegativeWeight, ErrNilMatrix, ErrNotStochastic.
package matrix
