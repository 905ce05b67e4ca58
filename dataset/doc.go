// SPDX-License-Identifier: MIT

// Package dataset holds the per-cell data container the kernels and
// estimators read from and write back into.
//
// A Dataset carries, for N named cells:
//
//   - per-cell numeric annotations (Obs), e.g. a pseudotime vector;
//   - per-cell categorical annotations (CatObs), e.g. cluster labels;
//   - the precomputed neighbor-connectivity graph (square CSR, zero
//     diagonal, non-negative weights) together with the neighbor count used
//     to build it;
//   - an optional cells×genes expression matrix plus named alternate layers;
//   - per-cell result matrices (Obsm) and unstructured metadata (Uns) that
//     downstream components publish into.
//
// The container is a thin collaborator: it validates shapes on ingestion,
// answers lookups with errors that name the missing key and enumerate the
// available ones, and supports a deep Clone that shares no memory with the
// original. It performs no computation itself.
package dataset
