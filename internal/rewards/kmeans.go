package rewards

import (
	"math"
	"math/rand"
	"sort"
)

// Clustering parameters. The seed is fixed so two analyses over the
// same snapshot always produce the same cluster memberships.
const (
	clusterSeed    = 42
	clusterInits   = 10
	clusterMaxIter = 300
)

// kmeans1D runs Lloyd's algorithm over scalar values and returns one
// cluster index per value. nInit restarts share a single seeded source,
// and the run with the lowest inertia wins; ties keep the earlier run,
// so the result is fully deterministic for a given input order.
func kmeans1D(values []float64, k int) []int {
	n := len(values)
	if k > n {
		k = n
	}
	if k <= 1 {
		return make([]int, n)
	}

	rng := rand.New(rand.NewSource(clusterSeed))

	best := make([]int, n)
	bestInertia := math.Inf(1)
	for run := 0; run < clusterInits; run++ {
		labels, inertia := lloyd(values, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			copy(best, labels)
		}
	}
	return best
}

// lloyd performs a single k-means run: random initial centroids drawn
// from the data, then assign/update until stable or maxIter.
func lloyd(values []float64, k int, rng *rand.Rand) ([]int, float64) {
	n := len(values)
	centroids := make([]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = values[idx]
	}

	labels := make([]int, n)
	for iter := 0; iter < clusterMaxIter; iter++ {
		changed := false
		for i, v := range values {
			c := nearest(v, centroids)
			if c != labels[i] || iter == 0 {
				labels[i] = c
				changed = true
			}
		}

		sums := make([]float64, k)
		counts := make([]int, k)
		for i, v := range values {
			sums[labels[i]] += v
			counts[labels[i]]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Revive an empty cluster with the point farthest from
				// its current centroid; lowest index breaks ties.
				centroids[c] = values[farthest(values, labels, centroids)]
				continue
			}
			centroids[c] = sums[c] / float64(counts[c])
		}

		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, v := range values {
		d := v - centroids[labels[i]]
		inertia += d * d
	}
	return labels, inertia
}

func nearest(v float64, centroids []float64) int {
	best := 0
	bestDist := math.Abs(v - centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := math.Abs(v - centroids[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func farthest(values []float64, labels []int, centroids []float64) int {
	best, bestDist := 0, -1.0
	for i, v := range values {
		if d := math.Abs(v - centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// orderClusters maps raw k-means labels to a canonical ordering by
// ascending centroid, so the first cluster is always the lowest-spend
// group regardless of how the run numbered them. Returns the relabeling
// table indexed by raw label.
func orderClusters(values []float64, labels []int, k int) []int {
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, v := range values {
		sums[labels[i]] += v
		counts[labels[i]]++
	}

	type pair struct {
		label    int
		centroid float64
	}
	pairs := make([]pair, k)
	for c := 0; c < k; c++ {
		centroid := 0.0
		if counts[c] > 0 {
			centroid = sums[c] / float64(counts[c])
		}
		pairs[c] = pair{label: c, centroid: centroid}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].centroid < pairs[j].centroid
	})

	remap := make([]int, k)
	for rank, p := range pairs {
		remap[p.label] = rank
	}
	return remap
}
