package mrdca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Reassign assigns every object to the cluster whose prototype is nearest
// under that cluster's weighted dissimilarity
//
//	distance(o, k) = Σ_v weights[k][v] · d_v(o, prototypes[k])
//
// Ties go to the lowest cluster id. weights and prototypes must have one
// entry per cluster. The returned partition lists members in ascending order.
//
// An object with no cluster at finite distance yields ErrNoFiniteDistance.
func Reassign(views []mat.Symmetric, weights [][]float64, prototypes []int) (Partition, error) {
	if len(weights) != len(prototypes) {
		return nil, fmt.Errorf("%w: %d weight vectors for %d prototypes", ErrDimensionMismatch, len(weights), len(prototypes))
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: no views given", ErrInvalidView)
	}
	for k, w := range weights {
		if len(w) != len(views) {
			return nil, fmt.Errorf("%w: cluster %d has %d weights for %d views", ErrDimensionMismatch, k+1, len(w), len(views))
		}
	}

	n := views[0].SymmetricDim()
	p := make(Partition, len(prototypes))
	for obj := 0; obj < n; obj++ {
		best := -1
		minDist := math.Inf(1)
		for k, proto := range prototypes {
			d := weightedDistance(views, weights[k], obj, proto)
			if d < minDist {
				minDist = d
				best = k
			}
		}
		if best == -1 {
			return nil, fmt.Errorf("%w: object %d", ErrNoFiniteDistance, obj)
		}
		p[best] = append(p[best], obj)
	}
	return p, nil
}

func weightedDistance(views []mat.Symmetric, weights []float64, obj, proto int) float64 {
	var d float64
	for v, view := range views {
		d += weights[v] * view.At(obj, proto)
	}
	return d
}

// Criterion is the adequacy of a partition to its prototypes:
// Σ_k Σ_{o∈C_k} Σ_v weights[k][v] · d_v(o, prototypes[k]).
func Criterion(p Partition, views []mat.Symmetric, weights [][]float64, prototypes []int) float64 {
	var j float64
	for k, members := range p {
		for _, obj := range members {
			j += weightedDistance(views, weights[k], obj, prototypes[k])
		}
	}
	return j
}
