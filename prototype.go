package mrdca

import (
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// SelectPrototypes picks the representative object of every cluster: the
// member c minimizing Σ_{obj in cluster} Σ_v d_v(c, obj). Ties go to the
// lowest-index member.
//
// An empty cluster keeps previous[k]. When previous is nil or shorter than
// the partition, an empty cluster gets object 0.
func SelectPrototypes(p Partition, views []mat.Symmetric, previous []int) []int {
	prototypes := make([]int, len(p))
	for k, members := range p {
		if len(members) == 0 {
			if k < len(previous) {
				prototypes[k] = previous[k]
			}
			continue
		}
		best := members[0]
		bestCost := intraCost(members[0], members, views)
		for _, c := range members[1:] {
			if cost := intraCost(c, members, views); cost < bestCost {
				best, bestCost = c, cost
			}
		}
		prototypes[k] = best
	}
	return prototypes
}

func intraCost(c int, members []int, views []mat.Symmetric) float64 {
	var cost float64
	for _, obj := range members {
		for _, view := range views {
			cost += view.At(c, obj)
		}
	}
	return cost
}

// InitialPartition shuffles 0..n-1 with rng and deals the shuffled objects
// round-robin into k clusters: shuffled position i goes to cluster id
// (i mod k)+1. Every cluster is non-empty when k <= n.
func InitialPartition(n, k int, rng *rand.Rand) Partition {
	p := make(Partition, k)
	for i, obj := range rng.Perm(n) {
		p[i%k] = append(p[i%k], obj)
	}
	for _, members := range p {
		slices.Sort(members)
	}
	return p
}
