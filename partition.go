package mrdca

import (
	"fmt"
	"slices"
)

// Partition assigns objects to clusters. Partition[k] holds the object
// indices of cluster id k+1 in ascending order. The number of clusters is
// fixed by len(Partition); a cluster may be empty between iterations.
type Partition [][]int

// PartitionFromLabels builds a Partition with k clusters from 0-based labels.
func PartitionFromLabels(labels []int, k int) (Partition, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", ErrInvalidPartition, k)
	}
	p := make(Partition, k)
	for obj, l := range labels {
		if l < 0 || l >= k {
			return nil, fmt.Errorf("%w: object %d has label %d outside [0,%d)", ErrInvalidPartition, obj, l, k)
		}
		p[l] = append(p[l], obj)
	}
	return p, nil
}

// K returns the number of clusters.
func (p Partition) K() int { return len(p) }

// Labels returns the 0-based cluster label of each of the n objects.
// Objects not present in any cluster are labelled -1.
func (p Partition) Labels(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	for k, members := range p {
		for _, obj := range members {
			if obj >= 0 && obj < n {
				labels[obj] = k
			}
		}
	}
	return labels
}

// Sizes returns the number of members of each cluster.
func (p Partition) Sizes() []int {
	sizes := make([]int, len(p))
	for k, members := range p {
		sizes[k] = len(members)
	}
	return sizes
}

// Clone returns a deep copy of p.
func (p Partition) Clone() Partition {
	c := make(Partition, len(p))
	for k, members := range p {
		c[k] = slices.Clone(members)
	}
	return c
}

// Equal reports whether p and q assign the same set of objects to every
// cluster id. Member order within a cluster does not matter.
func (p Partition) Equal(q Partition) bool {
	if len(p) != len(q) {
		return false
	}
	for k := range p {
		if len(p[k]) != len(q[k]) {
			return false
		}
		if slices.IsSorted(p[k]) && slices.IsSorted(q[k]) {
			if !slices.Equal(p[k], q[k]) {
				return false
			}
			continue
		}
		a, b := slices.Clone(p[k]), slices.Clone(q[k])
		slices.Sort(a)
		slices.Sort(b)
		if !slices.Equal(a, b) {
			return false
		}
	}
	return true
}

// Validate checks that p is a true partition of 0..n-1: every object
// appears in exactly one cluster.
func (p Partition) Validate(n int) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no clusters", ErrInvalidPartition)
	}
	seen := make([]bool, n)
	count := 0
	for k, members := range p {
		for _, obj := range members {
			if obj < 0 || obj >= n {
				return fmt.Errorf("%w: cluster %d contains object %d outside [0,%d)", ErrInvalidPartition, k+1, obj, n)
			}
			if seen[obj] {
				return fmt.Errorf("%w: object %d assigned more than once", ErrInvalidPartition, obj)
			}
			seen[obj] = true
			count++
		}
	}
	if count != n {
		return fmt.Errorf("%w: %d of %d objects assigned", ErrInvalidPartition, count, n)
	}
	return nil
}
