// SPDX-License-Identifier: MIT

// Package scheme biases a neighbor-connectivity graph by pseudotime.
//
// A Scheme is a pure policy mapping (connectivity graph, pseudotime vector)
// to a re-weighted directed graph in which edges pointing to the
// pseudotemporal past are pruned or penalised:
//
//   - Hard: per cell, keep every neighbor at equal or later pseudotime plus
//     the ceil(FracToKeep·nNeighbors) heaviest neighbors regardless of
//     direction, drop the rest;
//   - Soft: per directed edge i→j with dt = pt[i]−pt[j] > 0, multiply the
//     weight by 2/(1+exp(B·dt^Nu)); future edges keep their weight;
//   - Custom: a caller-supplied per-row function under the same contract.
//
// Bias evaluates rows independently, optionally in parallel; the numeric
// result never depends on the worker count. Biasing only reweights existing
// edges, it never introduces new ones.
package scheme
