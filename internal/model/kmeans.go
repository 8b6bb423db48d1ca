package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Cluster partitions the rows of x into k segments with Lloyd's algorithm and
// k-means++ seeding. It fails when k is out of range or exceeds the number of
// distinct points, and otherwise always returns exactly k non-empty clusters.
func Cluster(x mat.Matrix, k int, seed int64) (labels []int, centroids [][]float64, err error) {
	n, p := x.Dims()
	if k < 1 {
		return nil, nil, fmt.Errorf("cluster: k must be at least 1, got %d", k)
	}
	distinct := distinctRows(x)
	if k > distinct {
		return nil, nil, fmt.Errorf("cluster: k=%d exceeds %d distinct data points", k, distinct)
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			rows[i][j] = x.At(i, j)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	centroids = seedCentroids(rows, k, rng)
	labels = make([]int, n)

	const maxIter = 100
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range rows {
			best, bestD := 0, math.Inf(1)
			for c, cen := range centroids {
				d := sqDist(row, cen)
				if d < bestD {
					best, bestD = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, p)
		}
		for i, row := range rows {
			counts[labels[i]]++
			floats.Add(sums[labels[i]], row)
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster with the point farthest from its
				// current centroid so every cluster stays populated.
				far, farD := 0, -1.0
				for i, row := range rows {
					d := sqDist(row, centroids[labels[i]])
					if d > farD && counts[labels[i]] > 1 {
						far, farD = i, d
					}
				}
				counts[labels[far]]--
				labels[far] = c
				counts[c] = 1
				copy(centroids[c], rows[far])
				changed = true
				continue
			}
			for j := 0; j < p; j++ {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}
	return labels, centroids, nil
}

// seedCentroids picks k starting centroids: the first uniformly, each later
// one weighted by squared distance to the nearest chosen centroid.
func seedCentroids(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	p := len(rows[0])
	centroids := make([][]float64, 0, k)

	first := append(make([]float64, 0, p), rows[rng.Intn(n)]...)
	centroids = append(centroids, first)

	dist := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, row := range rows {
			d := math.Inf(1)
			for _, cen := range centroids {
				d = math.Min(d, sqDist(row, cen))
			}
			dist[i] = d
			total += d
		}
		var pick int
		if total == 0 {
			// Remaining points coincide with chosen centroids; pick any row
			// not already a centroid (distinct-count check guarantees one).
			for i, d := range dist {
				if d > 0 {
					pick = i
					break
				}
			}
		} else {
			r := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if r < acc {
					pick = i
					break
				}
			}
		}
		centroids = append(centroids, append(make([]float64, 0, p), rows[pick]...))
	}
	return centroids
}

func distinctRows(x mat.Matrix) int {
	n, p := x.Dims()
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		key := ""
		for j := 0; j < p; j++ {
			key += fmt.Sprintf("%.12g,", x.At(i, j))
		}
		seen[key] = true
	}
	return len(seen)
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
