// Package mrdca implements MRDCA-RWL, a multi-view relational clustering
// algorithm that partitions objects described by several dissimilarity
// matrices ("views") and learns, for every cluster, how relevant each view is.
//
// Each iteration computes per-cluster relevance weights from the current
// partition and prototypes, reassigns every object to the cluster whose
// prototype is nearest under that cluster's weighted dissimilarity, and
// selects new prototypes (medoids over all views). The loop stops when the
// partition no longer changes or after a fixed number of iterations.
//
// Basic usage:
//
//	views, err := mrdca.BuildViews(data, 4, mrdca.EuclideanMetric{}, mrdca.ManhattanMetric{})
//	cfg := mrdca.DefaultConfig()
//	cfg.K = 3
//	cfg.Seed = 42
//	result, err := mrdca.Solve(views, cfg)
//	// result.Labels[i] is the 0-based cluster of object i
//	// result.Weights[k][v] is the relevance of view v for cluster k
//
// Views may also be supplied directly as any gonum mat.Symmetric; use
// NewView to convert a literal matrix.
//
// # Baselines and scores
//
// KMeans is a seeded k-means++ baseline on raw features. CoAssociation,
// ConsensusKMeans and ConsensusLinkage combine several labelings into an
// ensemble. Silhouette, DaviesBouldin, AdjustedRandIndex and
// NormalizedMutualInfo score a labeling internally or against ground truth.
package mrdca
