package mrdca

import "errors"

// Sentinel errors. Functions wrap them with context; match with errors.Is.
var (
	// ErrInvalidView reports a dissimilarity matrix that is not a valid view:
	// empty, not square, negative entries or a non-zero diagonal.
	ErrInvalidView = errors.New("mrdca: invalid dissimilarity view")

	// ErrDimensionMismatch reports views, feature rows or label slices whose
	// sizes disagree.
	ErrDimensionMismatch = errors.New("mrdca: dimension mismatch")

	// ErrNonFinite reports a NaN or infinite input value.
	ErrNonFinite = errors.New("mrdca: non-finite value")

	// ErrTooManyClusters reports a cluster count larger than the number of objects.
	ErrTooManyClusters = errors.New("mrdca: more clusters than objects")

	// ErrInvalidPartition reports a partition that does not cover every object
	// exactly once or has the wrong number of clusters.
	ErrInvalidPartition = errors.New("mrdca: invalid partition")

	// ErrNoFiniteDistance is an internal invariant violation: during
	// reassignment no cluster was at a finite weighted distance from an object.
	ErrNoFiniteDistance = errors.New("mrdca: no cluster at finite distance")
)
