// Package estimator identifies terminal states of a cell-fate Markov chain
// and computes per-cell fate probabilities toward them.
//
// CFLARE (Clustering and Filtering of Left And Right Eigenvectors) drives a
// fixed pipeline over a computed kernel:
//
//  1. ComputeEigendecomposition: leading spectrum of the transition matrix;
//  2. Predict (or SetTerminalStates for manual overrides): cluster
//     eigenvector coordinates into terminal macrostates, dropping clusters
//     that carry no stationary mass;
//  3. ComputeFateProbabilities: partition the chain into transient and
//     absorbing blocks and solve (I-Q)X = R for the absorption
//     probabilities, by direct LU, Jacobi fixed-point iteration, or the
//     same iteration parallelised over column blocks;
//  4. ComputeAbsorptionTimes: conditional mean (and optional variance) of
//     the steps to absorption, reusing the factorisation from step 3;
//  5. ComputeLineageDrivers: genes whose expression correlates with a fate.
//
// Every step validates its preconditions and its numeric output: fate
// probability rows must sum to 1 and stay non-negative, violations are
// errors carrying exact counts, never warnings. Estimator state serialises
// to a byte stream and back, and deep-copies without aliasing.
package estimator
