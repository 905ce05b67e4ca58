// Package fateflow estimates cell-fate probabilities from single-cell
// snapshots — Markov chains on cell-similarity graphs, biased by
// pseudotime, solved for where every cell is headed.
//
// 🚀 What is fateflow?
//
//	A directional toolkit for trajectory inference that brings together:
//		• Sparse primitives: CSR matrices, row normalisation, connectivity checks
//		• Biasing schemes: hard neighbor pruning, soft edge damping, custom rules
//		• Kernels: pseudotime & connectivity transition matrices with caching
//		• Kernel algebra: scale and combine kernels into blended dynamics
//		• Spectral analysis: eigendecomposition, eigengap, stationary distribution
//		• CFLARE estimation: terminal states, fate probabilities, absorption times
//		• Lineage drivers: gene-fate correlation with multiple-testing correction
//
// ✨ Why choose fateflow?
//
//   - Deterministic – fixed seeds and ordered reductions, same answer every run
//   - Explicit errors – every failure names what was asked for and what exists
//   - Pure Go – gonum linear algebra, no cgo, no Python runtime
//   - Composable – kernels chain into expressions, estimators snapshot to bytes
//
// Under the hood, everything is organized under six subpackages:
//
//	matrix/    — CSR sparse matrices, builders & stochastic utilities
//	dataset/   — cell annotations, neighbor graphs & expression layers
//	scheme/    — pseudotime biasing schemes (hard, soft, custom)
//	kernel/    — transition-matrix kernels & combination algebra
//	spectral/  — eigendecomposition, eigengap heuristics & stationary vectors
//	estimator/ — CFLARE: terminal states, fate probabilities, times & drivers
//
// Quick ASCII example:
//
//	    a──▶b──▶c──▶ d (terminal)
//	         └─▶e──▶ f (terminal)
//
//	a chain of cells biased forward in pseudotime splits at b; fateflow
//	reports, per cell, the probability of reaching d versus f.
//
// Dive into the package docs for full pipelines, from neighbor graph to
// fate matrix and driver ranking.
//
//	go get github.com/lineagelab/fateflow
package fateflow
