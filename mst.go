package mrdca

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Edge is a weighted edge between objects From and To.
type Edge struct {
	From, To int
	Weight   float64
}

// PrimMST computes a minimum spanning tree of the complete graph whose edge
// weights are the entries of dist, using Prim's algorithm. It returns n-1
// edges in the order they were added to the tree.
func PrimMST(dist mat.Symmetric) []Edge {
	n := dist.SymmetricDim()
	if n <= 1 {
		return nil
	}

	inTree := make([]bool, n)
	nearest := make([]float64, n)
	parent := make([]int, n)

	inTree[0] = true
	for j := 1; j < n; j++ {
		nearest[j] = dist.At(0, j)
	}

	edges := make([]Edge, 0, n-1)
	for i := 0; i < n-1; i++ {
		// Find the nearest node not yet in the tree. Strict comparison keeps
		// the lowest index on ties; +Inf distances fall back to the first
		// remaining node.
		minDist := math.Inf(1)
		minNode := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && (minNode == -1 || nearest[j] < minDist) {
				minDist = nearest[j]
				minNode = j
			}
		}

		edges = append(edges, Edge{From: parent[minNode], To: minNode, Weight: minDist})
		inTree[minNode] = true

		for k := 0; k < n; k++ {
			if !inTree[k] {
				if d := dist.At(minNode, k); d < nearest[k] {
					nearest[k] = d
					parent[k] = minNode
				}
			}
		}
	}
	return edges
}

// SingleLinkageCut partitions the objects of dist into k groups by cutting
// the k-1 heaviest edges of its minimum spanning tree, which is the flat
// single-linkage clustering at k clusters. Labels are numbered in order of
// each group's smallest object. k must be in [1, n].
func SingleLinkageCut(dist mat.Symmetric, k int) ([]int, error) {
	return CutDendrogram(SingleLinkage(dist), dist.SymmetricDim(), k)
}

// sortEdges orders edges by weight, keeping insertion order on ties.
func sortEdges(edges []Edge) {
	slices.SortStableFunc(edges, func(a, b Edge) int {
		return cmp.Compare(a.Weight, b.Weight)
	})
}
