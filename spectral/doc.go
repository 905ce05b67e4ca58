// Package spectral analyses the spectrum of a transition matrix.
//
// Decompose computes the full eigendecomposition of the (densified)
// row-stochastic matrix, keeps the k leading eigenvalues sorted by
// descending real part (ties broken toward the larger imaginary part)
// together with their left and right eigenvectors, and derives:
//
//   - the eigengap profile, the relative drop between consecutive
//     eigenvalue magnitudes, whose largest drop suggests a natural number
//     of macrostates (advisory only);
//   - the stationary distribution, read off the left eigenvector of the
//     eigenvalue closest to 1.
//
// Results are immutable snapshots of the matrix they were computed from.
package spectral
