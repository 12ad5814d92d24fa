package mrdca

import (
	"fmt"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Config controls an MRDCA-RWL run.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// K is the number of clusters. Must be >= 1 and <= the number of objects.
	// Left 0, it takes the cluster count of InitialPartition when that is
	// set and 2 otherwise.
	K int

	// MaxIter caps the number of weight/reassignment/prototype cycles.
	// Must be >= 1. Default: 100.
	MaxIter int

	// Seed initializes the random source used for the initial partition.
	// Ignored when Rand or InitialPartition is set. Default: 0.
	Seed int64

	// Rand, if non-nil, is used instead of a source seeded from Seed.
	Rand *rand.Rand

	// ZeroSum selects how a zero per-view dissimilarity sum is handled when
	// computing relevance weights. Default: ZeroSumUniform.
	ZeroSum ZeroSumPolicy

	// Epsilon replaces zero per-view sums under ZeroSumEpsilon.
	// Must be > 0. Default: DefaultEpsilon.
	Epsilon float64

	// InitialPartition, if set, replaces the random initial partition. It must
	// be a partition of every object into K clusters.
	InitialPartition Partition

	// InitialPrototypes, if set, replaces the medoids of the initial
	// partition as the prototypes of the first iteration. It must hold K
	// object indices.
	InitialPrototypes []int

	// Progress, if non-nil, is called after every iteration.
	Progress func(IterationStats)
}

// IterationStats describes one completed iteration.
type IterationStats struct {
	// Iteration is 1-based.
	Iteration int

	// Criterion is the weighted adequacy of the reassigned partition to the
	// prototypes that produced it. Lower is better.
	Criterion float64

	// Moved is the number of objects whose cluster changed.
	Moved int

	// Sizes holds the cluster sizes after reassignment.
	Sizes []int

	// Weights are the per-cluster relevance weights used for reassignment.
	Weights [][]float64

	// Prototypes are the per-cluster prototypes used for reassignment.
	Prototypes []int
}

// Result contains the output of an MRDCA-RWL run.
type Result struct {
	// Partition is the final partition; Partition[k] lists the members of
	// cluster id k+1.
	Partition Partition

	// Labels holds the 0-based cluster of each object (cluster id - 1).
	Labels []int

	// Prototypes holds the representative object of each cluster, selected
	// from the final partition.
	Prototypes []int

	// Weights holds, per cluster, the relevance weight of each view used for
	// the last assignment decision. Each row sums to 1.
	Weights [][]float64

	// Iterations is the number of iterations consumed, in [1, MaxIter].
	Iterations int

	// Converged is true when the last iteration reproduced the partition it
	// started from, false when MaxIter was exhausted.
	Converged bool

	// Criterion is the criterion value of the last iteration.
	Criterion float64

	// History has one entry per iteration.
	History []IterationStats
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MaxIter: 100,
		ZeroSum: ZeroSumUniform,
		Epsilon: DefaultEpsilon,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.K == 0 {
		cfg.K = 2
		if cfg.InitialPartition != nil {
			cfg.K = len(cfg.InitialPartition)
		}
	}
	if cfg.MaxIter == 0 {
		cfg.MaxIter = 100
	}
	if cfg.ZeroSum == "" {
		cfg.ZeroSum = ZeroSumUniform
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = DefaultEpsilon
	}
}

// validateConfig checks cfg against the number of objects n.
func validateConfig(cfg *Config, n int) error {
	if cfg.K < 1 {
		return fmt.Errorf("mrdca: K must be >= 1, got %d", cfg.K)
	}
	if cfg.K > n {
		return fmt.Errorf("%w: K=%d, n=%d", ErrTooManyClusters, cfg.K, n)
	}
	if cfg.MaxIter < 1 {
		return fmt.Errorf("mrdca: MaxIter must be >= 1, got %d", cfg.MaxIter)
	}
	if !validPolicy(cfg.ZeroSum) {
		return fmt.Errorf("mrdca: ZeroSum must be %q or %q, got %q", ZeroSumUniform, ZeroSumEpsilon, cfg.ZeroSum)
	}
	if !(cfg.Epsilon > 0) {
		return fmt.Errorf("mrdca: Epsilon must be > 0, got %g", cfg.Epsilon)
	}
	if cfg.InitialPartition != nil {
		if len(cfg.InitialPartition) != cfg.K {
			return fmt.Errorf("%w: initial partition has %d clusters, K=%d", ErrInvalidPartition, len(cfg.InitialPartition), cfg.K)
		}
		if err := cfg.InitialPartition.Validate(n); err != nil {
			return fmt.Errorf("initial partition: %w", err)
		}
	}
	if cfg.InitialPrototypes != nil {
		if len(cfg.InitialPrototypes) != cfg.K {
			return fmt.Errorf("%w: %d initial prototypes, K=%d", ErrInvalidPartition, len(cfg.InitialPrototypes), cfg.K)
		}
		for k, obj := range cfg.InitialPrototypes {
			if obj < 0 || obj >= n {
				return fmt.Errorf("%w: initial prototype of cluster %d is %d, want [0, %d)", ErrInvalidPartition, k+1, obj, n)
			}
		}
	}
	return nil
}

// Solve runs MRDCA-RWL on views, one n×n dissimilarity matrix per view.
//
// The run starts from cfg.InitialPartition or from a seeded round-robin
// deal of shuffled objects, selects the initial prototypes, then iterates:
// compute each cluster's relevance weights, reassign every object, select
// new prototypes. It stops when a reassignment reproduces the partition it
// started from (Converged) or after cfg.MaxIter iterations.
//
// Solve is deterministic for a fixed configuration and never mutates views.
func Solve(views []mat.Symmetric, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	n, err := ValidateViews(views)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg, n); err != nil {
		return nil, err
	}

	var current Partition
	if cfg.InitialPartition != nil {
		current = cfg.InitialPartition.Clone()
	} else {
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(cfg.Seed))
		}
		current = InitialPartition(n, cfg.K, rng)
	}
	prototypes := SelectPrototypes(current, views, nil)
	if cfg.InitialPrototypes != nil {
		prototypes = slices.Clone(cfg.InitialPrototypes)
	}
	labels := current.Labels(n)

	res := &Result{History: make([]IterationStats, 0, min(cfg.MaxIter, 64))}
	for it := 1; it <= cfg.MaxIter; it++ {
		weights := clusterWeights(current, prototypes, views, cfg.ZeroSum, cfg.Epsilon)

		candidate, err := Reassign(views, weights, prototypes)
		if err != nil {
			return nil, fmt.Errorf("mrdca: iteration %d: %w", it, err)
		}

		newLabels := candidate.Labels(n)
		stats := IterationStats{
			Iteration:  it,
			Criterion:  Criterion(candidate, views, weights, prototypes),
			Moved:      countMoved(labels, newLabels),
			Sizes:      candidate.Sizes(),
			Weights:    weights,
			Prototypes: prototypes,
		}
		res.History = append(res.History, stats)
		if cfg.Progress != nil {
			cfg.Progress(stats)
		}

		prototypes = SelectPrototypes(candidate, views, prototypes)
		converged := candidate.Equal(current)
		current, labels = candidate, newLabels

		res.Weights = weights
		res.Iterations = it
		res.Criterion = stats.Criterion
		if converged {
			res.Converged = true
			break
		}
	}

	res.Partition = current
	res.Labels = labels
	res.Prototypes = prototypes
	return res, nil
}

func countMoved(before, after []int) int {
	moved := 0
	for i := range before {
		if before[i] != after[i] {
			moved++
		}
	}
	return moved
}
