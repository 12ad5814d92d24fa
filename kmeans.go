package mrdca

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// KMeansConfig controls the k-means baseline.
// Start with [DefaultKMeansConfig] and override the fields you need.
type KMeansConfig struct {
	// K is the number of clusters. Must be >= 1 and <= the number of points.
	K int

	// MaxIter caps Lloyd iterations per restart. Default: 300.
	MaxIter int

	// Tol stops a restart once the summed squared centroid shift is at or
	// below it. Must be >= 0. Default: 1e-4.
	Tol float64

	// NInit is the number of k-means++ restarts; the lowest inertia wins.
	// Default: 10.
	NInit int

	// Seed initializes the random source. Ignored when Rand is set.
	Seed int64

	// Rand, if non-nil, is used instead of a source seeded from Seed.
	Rand *rand.Rand
}

// KMeansResult is the best restart of a k-means run.
type KMeansResult struct {
	// Labels holds the 0-based cluster of each point.
	Labels []int

	// Centroids holds the mean of each cluster.
	Centroids [][]float64

	// Inertia is the sum of squared distances of points to their centroid.
	Inertia float64

	// Iterations is the number of Lloyd iterations of the winning restart.
	Iterations int
}

// DefaultKMeansConfig returns a KMeansConfig with reasonable defaults.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		K:       2,
		MaxIter: 300,
		Tol:     1e-4,
		NInit:   10,
	}
}

func applyKMeansDefaults(cfg *KMeansConfig) {
	if cfg.MaxIter == 0 {
		cfg.MaxIter = 300
	}
	if cfg.NInit == 0 {
		cfg.NInit = 10
	}
}

// KMeans clusters data with Lloyd's algorithm seeded by k-means++.
// Results are deterministic for a fixed Seed.
func KMeans(data [][]float64, cfg KMeansConfig) (*KMeansResult, error) {
	applyKMeansDefaults(&cfg)
	n, dims, err := checkFeatures(data)
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.K < 1:
		return nil, fmt.Errorf("mrdca: kmeans K must be >= 1, got %d", cfg.K)
	case cfg.K > n:
		return nil, fmt.Errorf("%w: kmeans K=%d, n=%d", ErrTooManyClusters, cfg.K, n)
	case cfg.MaxIter < 1:
		return nil, fmt.Errorf("mrdca: kmeans MaxIter must be >= 1, got %d", cfg.MaxIter)
	case cfg.NInit < 1:
		return nil, fmt.Errorf("mrdca: kmeans NInit must be >= 1, got %d", cfg.NInit)
	case cfg.Tol < 0 || math.IsNaN(cfg.Tol):
		return nil, fmt.Errorf("mrdca: kmeans Tol must be >= 0, got %g", cfg.Tol)
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	var best *KMeansResult
	for r := 0; r < cfg.NInit; r++ {
		res := lloyd(data, dims, cfg, kmeansPlusPlus(data, cfg.K, rng))
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// kmeansPlusPlus picks k initial centroids by D² sampling.
func kmeansPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), data[rng.Intn(n)]...))

	closest := make([]float64, n)
	for i, x := range data {
		closest[i] = sqDist(x, centroids[0])
	}
	for len(centroids) < k {
		total := floats.Sum(closest)
		next := -1
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range closest {
				acc += d
				if acc > target {
					next = i
					break
				}
			}
		}
		if next == -1 {
			next = rng.Intn(n)
		}
		c := append([]float64(nil), data[next]...)
		centroids = append(centroids, c)
		for i, x := range data {
			closest[i] = math.Min(closest[i], sqDist(x, c))
		}
	}
	return centroids
}

func lloyd(data [][]float64, dims int, cfg KMeansConfig, centroids [][]float64) *KMeansResult {
	n := len(data)
	labels := make([]int, n)
	dist := make([]float64, n)
	sums := make([][]float64, cfg.K)
	for k := range sums {
		sums[k] = make([]float64, dims)
	}
	counts := make([]int, cfg.K)

	iter := 0
	for iter < cfg.MaxIter {
		iter++
		assignNearest(data, centroids, labels, dist)

		for k := range sums {
			floats.Scale(0, sums[k])
			counts[k] = 0
		}
		for i, x := range data {
			floats.Add(sums[labels[i]], x)
			counts[labels[i]]++
		}

		var shift float64
		for k := range centroids {
			if counts[k] == 0 {
				// Re-seed an empty cluster with the point farthest from its centroid.
				far := floats.MaxIdx(dist)
				dist[far] = 0
				shift += sqDist(centroids[k], data[far])
				copy(centroids[k], data[far])
				continue
			}
			floats.Scale(1/float64(counts[k]), sums[k])
			shift += sqDist(centroids[k], sums[k])
			copy(centroids[k], sums[k])
		}
		if shift <= cfg.Tol {
			break
		}
	}

	inertia := assignNearest(data, centroids, labels, dist)
	return &KMeansResult{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// assignNearest writes the nearest centroid of every point into labels and
// the squared distance to it into dist. It returns the total.
func assignNearest(data, centroids [][]float64, labels []int, dist []float64) float64 {
	var inertia float64
	for i, x := range data {
		best, bestDist := 0, math.Inf(1)
		for k, c := range centroids {
			if d := sqDist(x, c); d < bestDist {
				best, bestDist = k, d
			}
		}
		labels[i] = best
		dist[i] = bestDist
		inertia += bestDist
	}
	return inertia
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
