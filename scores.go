package mrdca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// denseLabels renumbers labels to 0..c-1 in order of first appearance and
// returns the renumbered slice and c. Negative labels are rejected.
func denseLabels(labels []int) ([]int, int, error) {
	ids := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		if l < 0 {
			return nil, 0, fmt.Errorf("%w: object %d has negative label %d", ErrInvalidPartition, i, l)
		}
		id, ok := ids[l]
		if !ok {
			id = len(ids)
			ids[l] = id
		}
		out[i] = id
	}
	return out, len(ids), nil
}

// SilhouetteSamples returns the silhouette coefficient of every object of a
// precomputed dissimilarity matrix. For object i, a is its mean dissimilarity
// to the other members of its cluster and b the smallest mean dissimilarity
// to the members of another cluster; s = (b - a) / max(a, b), and 0 for
// objects alone in their cluster.
//
// The labeling must have between 2 and n-1 distinct labels.
func SilhouetteSamples(dist mat.Symmetric, labels []int) ([]float64, error) {
	n := dist.SymmetricDim()
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d objects", ErrDimensionMismatch, len(labels), n)
	}
	dense, c, err := denseLabels(labels)
	if err != nil {
		return nil, err
	}
	if c < 2 || c > n-1 {
		return nil, fmt.Errorf("mrdca: silhouette needs 2 <= clusters <= n-1, got %d clusters for %d objects", c, n)
	}

	counts := make([]int, c)
	for _, l := range dense {
		counts[l]++
	}

	scores := make([]float64, n)
	sums := make([]float64, c)
	for i := 0; i < n; i++ {
		own := dense[i]
		if counts[own] == 1 {
			continue
		}
		for k := range sums {
			sums[k] = 0
		}
		for j := 0; j < n; j++ {
			if j != i {
				sums[dense[j]] += dist.At(i, j)
			}
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for k := range sums {
			if k != own {
				b = math.Min(b, sums[k]/float64(counts[k]))
			}
		}
		if m := math.Max(a, b); m > 0 {
			scores[i] = (b - a) / m
		}
	}
	return scores, nil
}

// Silhouette returns the mean silhouette coefficient of a labeling over a
// precomputed dissimilarity matrix. See SilhouetteSamples.
func Silhouette(dist mat.Symmetric, labels []int) (float64, error) {
	scores, err := SilhouetteSamples(dist, labels)
	if err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}

// DaviesBouldin returns the Davies-Bouldin index of a labeling of data
// under the Euclidean distance. Lower values mean more compact, better
// separated clusters. The labeling must have at least 2 distinct labels.
func DaviesBouldin(data [][]float64, labels []int) (float64, error) {
	n, dims, err := checkFeatures(data)
	if err != nil {
		return 0, err
	}
	if len(labels) != n {
		return 0, fmt.Errorf("%w: %d labels for %d points", ErrDimensionMismatch, len(labels), n)
	}
	dense, c, err := denseLabels(labels)
	if err != nil {
		return 0, err
	}
	if c < 2 {
		return 0, fmt.Errorf("mrdca: Davies-Bouldin needs at least 2 clusters, got %d", c)
	}

	centroids := make([][]float64, c)
	for k := range centroids {
		centroids[k] = make([]float64, dims)
	}
	counts := make([]int, c)
	for i, x := range data {
		k := dense[i]
		counts[k]++
		for d, v := range x {
			centroids[k][d] += v
		}
	}
	for k := range centroids {
		for d := range centroids[k] {
			centroids[k][d] /= float64(counts[k])
		}
	}

	scatter := make([]float64, c)
	for i, x := range data {
		scatter[dense[i]] += EuclideanMetric{}.Distance(x, centroids[dense[i]])
	}
	for k := range scatter {
		scatter[k] /= float64(counts[k])
	}

	var total float64
	for i := 0; i < c; i++ {
		var worst float64
		for j := 0; j < c; j++ {
			if i == j {
				continue
			}
			sep := EuclideanMetric{}.Distance(centroids[i], centroids[j])
			if sep == 0 {
				continue
			}
			worst = math.Max(worst, (scatter[i]+scatter[j])/sep)
		}
		total += worst
	}
	return total / float64(c), nil
}

// Contingency returns the contingency table of two labelings: entry [i][j]
// counts the objects with the i-th distinct truth label and the j-th
// distinct predicted label, labels numbered in order of first appearance.
func Contingency(truth, pred []int) ([][]int, error) {
	if len(truth) != len(pred) {
		return nil, fmt.Errorf("%w: %d truth labels, %d predicted", ErrDimensionMismatch, len(truth), len(pred))
	}
	t, rows, err := denseLabels(truth)
	if err != nil {
		return nil, fmt.Errorf("truth: %w", err)
	}
	p, cols, err := denseLabels(pred)
	if err != nil {
		return nil, fmt.Errorf("pred: %w", err)
	}
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
	}
	for i := range t {
		table[t[i]][p[i]]++
	}
	return table, nil
}

func comb2(x int) float64 {
	return float64(x) * float64(x-1) / 2
}

// AdjustedRandIndex measures agreement between two labelings, corrected for
// chance: 1 for identical partitions (up to renaming), about 0 for random
// ones. Two labelings that are both a single cluster, or both all
// singletons, score 1.
func AdjustedRandIndex(truth, pred []int) (float64, error) {
	table, err := Contingency(truth, pred)
	if err != nil {
		return 0, err
	}
	n := len(truth)
	if n < 2 {
		return 1, nil
	}

	var index, sumRows, sumCols float64
	colSums := make([]int, 0)
	for _, row := range table {
		rowSum := 0
		for j, x := range row {
			index += comb2(x)
			rowSum += x
			if j >= len(colSums) {
				colSums = append(colSums, 0)
			}
			colSums[j] += x
		}
		sumRows += comb2(rowSum)
	}
	for _, x := range colSums {
		sumCols += comb2(x)
	}

	expected := sumRows * sumCols / comb2(n)
	maxIndex := (sumRows + sumCols) / 2
	if maxIndex == expected {
		return 1, nil
	}
	return (index - expected) / (maxIndex - expected), nil
}

// NormalizedMutualInfo returns the mutual information of two labelings
// divided by the arithmetic mean of their entropies, in [0, 1]. Two
// single-cluster labelings score 1.
func NormalizedMutualInfo(truth, pred []int) (float64, error) {
	table, err := Contingency(truth, pred)
	if err != nil {
		return 0, err
	}
	n := float64(len(truth))
	if n == 0 {
		return 1, nil
	}

	rowCounts := make([]int, len(table))
	colCounts := make([]int, len(table[0]))
	for i, row := range table {
		for j, x := range row {
			rowCounts[i] += x
			colCounts[j] += x
		}
	}
	rowP := make([]float64, len(rowCounts))
	for i, x := range rowCounts {
		rowP[i] = float64(x) / n
	}
	colP := make([]float64, len(colCounts))
	for j, x := range colCounts {
		colP[j] = float64(x) / n
	}
	hTruth := stat.Entropy(rowP)
	hPred := stat.Entropy(colP)
	if hTruth == 0 && hPred == 0 {
		return 1, nil
	}

	var mi float64
	for i, row := range table {
		for j, x := range row {
			if x == 0 {
				continue
			}
			pij := float64(x) / n
			mi += pij * math.Log(pij/(rowP[i]*colP[j]))
		}
	}
	nmi := mi / ((hTruth + hPred) / 2)
	return math.Min(math.Max(nmi, 0), 1), nil
}
