// SPDX-License-Identifier: MIT

// Package estimator: seeded k-means++ over eigenvector coordinates.

package estimator

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const kmeansMaxIter = 300

// kmeans partitions the rows of x into k clusters and returns the per-row
// cluster index. Initialisation is k-means++ driven by the given seed, so
// identical inputs and seeds reproduce identical assignments. Ties in the
// assignment step break toward the lower cluster index.
func kmeans(x *mat.Dense, k int, seed int64) []int {
	n, d := x.Dims()
	if k > n {
		k = n
	}
	rng := rand.New(rand.NewSource(seed))

	centroids := plusPlusInit(x, k, rng)
	assign := make([]int, n)

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			best, bestDist := 0, math.Inf(1)
			for c := 0; c < k; c++ {
				if dist := sqDist(x.RawRowView(i), centroids[c]); dist < bestDist {
					best, bestDist = c, dist
				}
			}
			if assign[i] != best {
				changed = true
			}
			assign[i] = best
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; empty clusters keep their previous position.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, d)
		}
		for i := 0; i < n; i++ {
			counts[assign[i]]++
			floats.Add(sums[assign[i]], x.RawRowView(i))
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	return assign
}

// plusPlusInit spreads the initial centroids with the k-means++ rule:
// each next centroid is drawn proportional to the squared distance from
// the nearest one chosen so far.
func plusPlusInit(x *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, d := x.Dims()
	centroids := make([][]float64, 0, k)

	first := make([]float64, d)
	copy(first, x.RawRowView(rng.Intn(n)))
	centroids = append(centroids, first)

	dist := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i := 0; i < n; i++ {
			best := math.Inf(1)
			for _, c := range centroids {
				if sd := sqDist(x.RawRowView(i), c); sd < best {
					best = sd
				}
			}
			dist[i] = best
			total += best
		}

		next := 0
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i := 0; i < n; i++ {
				acc += dist[i]
				if acc >= target {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(n)
		}

		c := make([]float64, d)
		copy(c, x.RawRowView(next))
		centroids = append(centroids, c)
	}

	return centroids
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		diff := a[i] - b[i]
		s += diff * diff
	}

	return s
}

// centroidDistances returns, per row, the distance to its own centroid,
// used to turn hard assignments into a soft membership score.
func centroidDistances(x *mat.Dense, assign []int, k int) []float64 {
	n, d := x.Dims()
	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, d)
	}
	for i := 0; i < n; i++ {
		counts[assign[i]]++
		floats.Add(sums[assign[i]], x.RawRowView(i))
	}
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), sums[c])
		}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Sqrt(sqDist(x.RawRowView(i), sums[assign[i]]))
	}

	return out
}
