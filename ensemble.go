package mrdca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CoAssociation builds the evidence-accumulation similarity matrix of an
// ensemble of labelings: entry (i, j) is the fraction of labelings that put
// objects i and j in the same cluster. The diagonal is 1.
//
// Every labeling must have the same length. Negative labels (noise) never
// co-occur with anything, including other negative labels.
func CoAssociation(labelings [][]int) (*mat.SymDense, error) {
	if len(labelings) == 0 {
		return nil, fmt.Errorf("%w: no labelings given", ErrInvalidPartition)
	}
	n := len(labelings[0])
	if n == 0 {
		return nil, fmt.Errorf("%w: labelings are empty", ErrInvalidPartition)
	}
	for i, l := range labelings {
		if len(l) != n {
			return nil, fmt.Errorf("%w: labeling %d has %d labels, labeling 0 has %d", ErrDimensionMismatch, i, len(l), n)
		}
	}

	s := mat.NewSymDense(n, nil)
	inc := 1 / float64(len(labelings))
	for _, labels := range labelings {
		for i := 0; i < n; i++ {
			if labels[i] < 0 {
				continue
			}
			for j := i + 1; j < n; j++ {
				if labels[j] == labels[i] {
					s.SetSym(i, j, s.At(i, j)+inc)
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		s.SetSym(i, i, 1)
	}
	return s, nil
}

// ConsensusKMeans clusters the rows of a co-association matrix with k-means,
// treating each object's similarity profile as its feature vector.
func ConsensusKMeans(s mat.Symmetric, k int, seed int64) ([]int, error) {
	n := s.SymmetricDim()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = s.At(i, j)
		}
	}
	cfg := DefaultKMeansConfig()
	cfg.K = k
	cfg.Seed = seed
	res, err := KMeans(rows, cfg)
	if err != nil {
		return nil, fmt.Errorf("mrdca: consensus kmeans: %w", err)
	}
	return res.Labels, nil
}

// ConsensusLinkage cuts the single-linkage tree of the co-association
// dissimilarity 1 - s into k clusters.
func ConsensusLinkage(s mat.Symmetric, k int) ([]int, error) {
	n := s.SymmetricDim()
	if k < 1 {
		return nil, fmt.Errorf("mrdca: consensus linkage k must be >= 1, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("%w: k=%d, n=%d", ErrTooManyClusters, k, n)
	}
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, 1-s.At(i, j))
		}
	}
	return SingleLinkageCut(d, k)
}
