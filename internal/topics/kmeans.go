package topics

import (
	"math"
	"math/rand"
)

const (
	KMEANS_SEED     = 42
	KMEANS_RESTARTS = 10
	KMEANS_MAX_ITER = 300
)

// Cluster runs k-means with a fixed seed and several random restarts, keeping
// the assignment with the lowest inertia. Rows must all have the same width;
// k must be at least 1 and at most len(rows).
func Cluster(rows [][]float64, k int) (assignments []int, centroids [][]float64) {
	rng := rand.New(rand.NewSource(KMEANS_SEED))

	bestInertia := math.Inf(1)
	for restart := 0; restart < KMEANS_RESTARTS; restart++ {
		assign, cents, inertia := runOnce(rows, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			assignments = assign
			centroids = cents
		}
	}
	return assignments, centroids
}

func runOnce(rows [][]float64, k int, rng *rand.Rand) ([]int, [][]float64, float64) {
	dim := len(rows[0])

	// Init centroids from k distinct documents.
	perm := rng.Perm(len(rows))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), rows[perm[i]]...)
	}

	assign := make([]int, len(rows))
	for iter := 0; iter < KMEANS_MAX_ITER; iter++ {
		moved := false
		for i, row := range rows {
			c := nearest(row, centroids)
			if c != assign[i] {
				assign[i] = c
				moved = true
			}
		}
		if iter > 0 && !moved {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, row := range rows {
			c := assign[i]
			counts[c]++
			for j, x := range row {
				sums[c][j] += x
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Empty cluster: reseed from a random document.
				centroids[c] = append([]float64(nil), rows[rng.Intn(len(rows))]...)
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, row := range rows {
		inertia += sqDist(row, centroids[assign[i]])
	}
	return assign, centroids, inertia
}

func nearest(row []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, cent := range centroids {
		if d := sqDist(row, cent); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
