package mrdca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Merge is one row of a single-linkage dendrogram. Clusters 0..n-1 are the
// objects themselves; the cluster created by the i-th merge has id n+i.
type Merge struct {
	Left, Right int
	Distance    float64
	Size        int
}

// Dendrogram converts the edges of a minimum spanning tree over n objects
// into a single-linkage dendrogram, merging along the edges in ascending
// weight order. edges is not modified.
func Dendrogram(edges []Edge, n int) []Merge {
	if len(edges) == 0 {
		return nil
	}
	sorted := append([]Edge(nil), edges...)
	sortEdges(sorted)

	uf := NewUnionFind(n)
	// id maps a union-find root to its dendrogram cluster id.
	id := make([]int, n)
	for i := range id {
		id[i] = i
	}

	merges := make([]Merge, 0, len(sorted))
	for i, e := range sorted {
		a, b := uf.Find(e.From), uf.Find(e.To)
		root := uf.Union(a, b)
		merges = append(merges, Merge{
			Left:     id[a],
			Right:    id[b],
			Distance: e.Weight,
			Size:     uf.size[root],
		})
		id[root] = n + i
	}
	return merges
}

// SingleLinkage returns the single-linkage dendrogram of dist.
func SingleLinkage(dist mat.Symmetric) []Merge {
	return Dendrogram(PrimMST(dist), dist.SymmetricDim())
}

// CutDendrogram applies merges in order until k clusters remain and
// returns the label of every object, numbered in order of each cluster's
// smallest object. k must be in [1, n].
func CutDendrogram(merges []Merge, n, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("mrdca: cut k must be >= 1, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("%w: k=%d, n=%d", ErrTooManyClusters, k, n)
	}
	uf := NewUnionFind(n)
	// rep holds an object of every dendrogram cluster formed so far.
	rep := make([]int, n+len(merges))
	for i := 0; i < n; i++ {
		rep[i] = i
	}
	for i, m := range merges {
		if uf.Sets() <= k {
			break
		}
		rep[n+i] = uf.Union(rep[m.Left], rep[m.Right])
	}
	return uf.Labels(), nil
}
