package mrdca

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ZeroSumPolicy selects how RelevanceWeights treats a view whose summed
// dissimilarity to the prototype is zero.
type ZeroSumPolicy string

const (
	// ZeroSumUniform gives the cluster uniform weights 1/p whenever the
	// product of the per-view sums is zero.
	ZeroSumUniform ZeroSumPolicy = "uniform"

	// ZeroSumEpsilon substitutes Config.Epsilon for every zero per-view sum
	// before applying the weight formula, so a view in which the cluster is
	// perfectly compact receives almost all of the weight.
	ZeroSumEpsilon ZeroSumPolicy = "epsilon"
)

// DefaultEpsilon is the substitute for zero per-view sums under ZeroSumEpsilon.
const DefaultEpsilon = 1e-10

func validPolicy(p ZeroSumPolicy) bool {
	return p == ZeroSumUniform || p == ZeroSumEpsilon
}

// RelevanceWeights computes the relevance weight of every view for one
// cluster. members are the cluster's object indices and prototype its
// representative object.
//
// For each view v, total[v] is the sum of d_v(obj, prototype) over the
// members. With product = Π total[v] and p views, the raw weight is
// product^(1/p) / total[v]; the weights are then normalized to sum to 1.
// A zero product is resolved by policy (see ZeroSumPolicy). A product that
// overflows or underflows while every total is positive is evaluated as a
// geometric mean in log space instead.
//
// The result has one non-negative entry per view and sums to 1.
func RelevanceWeights(members []int, prototype int, views []mat.Symmetric, policy ZeroSumPolicy, epsilon float64) []float64 {
	p := len(views)
	total := make([]float64, p)
	for v, view := range views {
		for _, obj := range members {
			total[v] += view.At(obj, prototype)
		}
	}

	if policy == ZeroSumEpsilon {
		for v := range total {
			if total[v] == 0 {
				total[v] = epsilon
			}
		}
	}

	product := floats.Prod(total)
	if product == 0 && hasZero(total) {
		return uniformWeights(p)
	}

	var mean float64
	if product == 0 || math.IsInf(product, 1) {
		mean = geometricMean(total)
	} else {
		mean = math.Pow(product, 1/float64(p))
	}

	weights := make([]float64, p)
	var sum float64
	for v := range weights {
		weights[v] = mean / total[v]
		sum += weights[v]
	}
	if sum == 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return uniformWeights(p)
	}
	for v := range weights {
		weights[v] /= sum
	}
	return weights
}

func uniformWeights(p int) []float64 {
	w := make([]float64, p)
	for i := range w {
		w[i] = 1 / float64(p)
	}
	return w
}

func hasZero(s []float64) bool {
	for _, x := range s {
		if x == 0 {
			return true
		}
	}
	return false
}

// geometricMean requires every element of s to be positive.
func geometricMean(s []float64) float64 {
	var logSum float64
	for _, x := range s {
		logSum += math.Log(x)
	}
	return math.Exp(logSum / float64(len(s)))
}

// clusterWeights computes the weight vector of every cluster of p.
func clusterWeights(p Partition, prototypes []int, views []mat.Symmetric, policy ZeroSumPolicy, epsilon float64) [][]float64 {
	weights := make([][]float64, len(p))
	for k, members := range p {
		weights[k] = RelevanceWeights(members, prototypes[k], views, policy, epsilon)
	}
	return weights
}
