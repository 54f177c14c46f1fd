// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeans runs Lloyd's algorithm with k-means++ seeding on the rows of data
// and returns one label in [0, k) per row. Distances are Euclidean. When
// a cluster empties, the point farthest from its own centroid is moved
// into it, so every label is used whenever rows >= k.
func KMeans(data *mat.Dense, k int, rng *rand.Rand, maxIter int) []int {
	n, _ := data.Dims()
	if k > n {
		k = n
	}
	if k <= 1 {
		return make([]int, n)
	}

	centroids := seedPlusPlus(data, k, rng)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		next := assign(data, centroids)
		repairEmpty(data, centroids, next)

		changed := false
		for i := range next {
			if next[i] != labels[i] {
				changed = true
				break
			}
		}
		labels = next
		if !changed {
			break
		}
		updateCentroids(data, centroids, labels)
	}
	return labels
}

// seedPlusPlus picks k initial centroids, each chosen with probability
// proportional to its squared distance from the nearest centroid so far.
func seedPlusPlus(data *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := data.Dims()
	centroids := mat.NewDense(k, d, nil)
	chosen := make([]bool, n)

	first := rng.Intn(n)
	centroids.SetRow(0, data.RawRowView(first))
	chosen[first] = true

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = sqDist(data.RawRowView(i), centroids.RawRowView(0))
	}

	for c := 1; c < k; c++ {
		total := floats.Sum(dist)
		pick := -1
		if total > 0 {
			target := rng.Float64() * total
			var cum float64
			for i, w := range dist {
				cum += w
				if w > 0 && cum >= target {
					pick = i
					break
				}
			}
		}
		if pick < 0 {
			// Every remaining point coincides with a centroid; take any
			// unchosen row so seeds stay distinct by index.
			pick = unchosen(chosen, rng)
		}
		chosen[pick] = true
		centroids.SetRow(c, data.RawRowView(pick))
		for i := range dist {
			dist[i] = math.Min(dist[i], sqDist(data.RawRowView(i), centroids.RawRowView(c)))
		}
	}
	return centroids
}

func unchosen(chosen []bool, rng *rand.Rand) int {
	var free []int
	for i, c := range chosen {
		if !c {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return rng.Intn(len(chosen))
	}
	return free[rng.Intn(len(free))]
}

// assign labels each row with its nearest centroid; ties go to the lower index.
func assign(data, centroids *mat.Dense) []int {
	n, _ := data.Dims()
	k, _ := centroids.Dims()
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		point := data.RawRowView(i)
		best, bestDist := 0, math.Inf(1)
		for c := 0; c < k; c++ {
			if dd := sqDist(point, centroids.RawRowView(c)); dd < bestDist {
				best, bestDist = c, dd
			}
		}
		labels[i] = best
	}
	return labels
}

// repairEmpty refills empty clusters in place. The donor is the point
// farthest from its centroid among clusters that have more than one member.
func repairEmpty(data, centroids *mat.Dense, labels []int) {
	k, _ := centroids.Dims()
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	for c := 0; c < k; c++ {
		if sizes[c] > 0 {
			continue
		}
		donor, far := -1, -1.0
		for i, l := range labels {
			if sizes[l] < 2 {
				continue
			}
			if dd := sqDist(data.RawRowView(i), centroids.RawRowView(l)); dd > far {
				donor, far = i, dd
			}
		}
		if donor < 0 {
			return
		}
		sizes[labels[donor]]--
		labels[donor] = c
		sizes[c] = 1
		centroids.SetRow(c, data.RawRowView(donor))
	}
}

// updateCentroids moves each centroid to the mean of its members.
func updateCentroids(data, centroids *mat.Dense, labels []int) {
	k, d := centroids.Dims()
	counts := make([]int, k)
	sums := mat.NewDense(k, d, nil)
	for i, l := range labels {
		floats.Add(sums.RawRowView(l), data.RawRowView(i))
		counts[l]++
	}
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		row := sums.RawRowView(c)
		floats.Scale(1/float64(counts[c]), row)
		centroids.SetRow(c, row)
	}
}

func sqDist(a, b []float64) float64 {
	dd := floats.Distance(a, b, 2)
	return dd * dd
}
