package mrdca

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// toyViews returns the two 4-object dissimilarity matrices D1 and D2.
func toyViews(tb testing.TB) []mat.Symmetric {
	tb.Helper()
	d1, err := NewView([][]float64{
		{0, 1, 2, 3},
		{1, 0, 2, 2},
		{2, 2, 0, 1},
		{3, 2, 1, 0},
	})
	if err != nil {
		tb.Fatalf("D1: %v", err)
	}
	d2, err := NewView([][]float64{
		{0, 2, 1, 4},
		{2, 0, 3, 3},
		{1, 3, 0, 2},
		{4, 3, 2, 0},
	})
	if err != nil {
		tb.Fatalf("D2: %v", err)
	}
	return []mat.Symmetric{d1, d2}
}

// separatedBlobs returns three tight groups of three points, 100 units apart,
// with their group labels.
func separatedBlobs() ([][]float64, []int) {
	data := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{100, 0}, {100.1, 0}, {100, 0.1},
		{0, 100}, {0.1, 100}, {0, 100.1},
	}
	return data, []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
}

func blobViews(tb testing.TB) []mat.Symmetric {
	tb.Helper()
	data, _ := separatedBlobs()
	views, err := BuildViews(data, 1, EuclideanMetric{}, ManhattanMetric{})
	if err != nil {
		tb.Fatalf("BuildViews: %v", err)
	}
	return views
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.K != 0 {
		t.Errorf("K: got %d, want 0", cfg.K)
	}
	if cfg.MaxIter != 100 {
		t.Errorf("MaxIter: got %d, want 100", cfg.MaxIter)
	}
	if cfg.ZeroSum != ZeroSumUniform {
		t.Errorf("ZeroSum: got %q, want %q", cfg.ZeroSum, ZeroSumUniform)
	}
	if cfg.Epsilon != DefaultEpsilon {
		t.Errorf("Epsilon: got %g, want %g", cfg.Epsilon, DefaultEpsilon)
	}
	if cfg.Seed != 0 || cfg.Rand != nil || cfg.InitialPartition != nil || cfg.InitialPrototypes != nil || cfg.Progress != nil {
		t.Error("expected zero Seed, Rand, InitialPartition, InitialPrototypes and Progress")
	}
}

func TestSolve_Validation(t *testing.T) {
	good := toyViews(t)
	nan := mat.NewSymDense(4, nil)
	nan.SetSym(0, 1, math.NaN())
	neg := mat.NewSymDense(4, nil)
	neg.SetSym(0, 1, -1)
	diag := mat.NewSymDense(4, nil)
	diag.SetSym(2, 2, 1)

	tests := []struct {
		name   string
		views  []mat.Symmetric
		mutate func(*Config)
		want   error
	}{
		{"no views", nil, nil, ErrInvalidView},
		{"nil view", []mat.Symmetric{good[0], nil}, nil, ErrInvalidView},
		{"dimension mismatch", []mat.Symmetric{good[0], mat.NewSymDense(3, nil)}, nil, ErrDimensionMismatch},
		{"NaN entry", []mat.Symmetric{good[0], nan}, nil, ErrNonFinite},
		{"negative entry", []mat.Symmetric{neg}, nil, ErrInvalidView},
		{"non-zero diagonal", []mat.Symmetric{diag}, nil, ErrInvalidView},
		{"K > n", good, func(c *Config) { c.K = 5 }, ErrTooManyClusters},
		{"bad initial partition", good, func(c *Config) { c.InitialPartition = Partition{{0, 1}, {1, 2, 3}} }, ErrInvalidPartition},
		{"initial partition K mismatch", good, func(c *Config) { c.K = 3; c.InitialPartition = Partition{{0, 1}, {2, 3}} }, ErrInvalidPartition},
		{"too few initial prototypes", good, func(c *Config) { c.InitialPrototypes = []int{0} }, ErrInvalidPartition},
		{"initial prototype out of range", good, func(c *Config) { c.InitialPrototypes = []int{0, 4} }, ErrInvalidPartition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			_, err := Solve(tt.views, cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSolve_ConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative K", func(c *Config) { c.K = -1 }},
		{"negative MaxIter", func(c *Config) { c.MaxIter = -1 }},
		{"unknown policy", func(c *Config) { c.ZeroSum = "zero" }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -1e-9 }},
		{"NaN epsilon", func(c *Config) { c.Epsilon = math.NaN() }},
	}
	views := toyViews(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := Solve(views, cfg); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestSolve_ToyScenarioFixedPoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialPartition = Partition{{0, 1}, {2, 3}}
	res, err := Solve(toyViews(t), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged || res.Iterations != 1 {
		t.Errorf("expected convergence after 1 iteration, got converged=%v iterations=%d", res.Converged, res.Iterations)
	}
	if !res.Partition.Equal(Partition{{0, 1}, {2, 3}}) {
		t.Errorf("partition = %v, want [[0 1] [2 3]]", res.Partition)
	}
	for k, w := range res.Weights {
		if !almostEqual(w[0], 2.0/3, 1e-12) || !almostEqual(w[1], 1.0/3, 1e-12) {
			t.Errorf("cluster %d weights = %v, want [0.667 0.333]", k+1, w)
		}
	}
	if want := []int{0, 0, 1, 1}; !reflect.DeepEqual(res.Labels, want) {
		t.Errorf("labels = %v, want %v", res.Labels, want)
	}
}

func TestSolve_SingleClusterConvergesImmediately(t *testing.T) {
	views, err := BuildViews(randomData(25, 3, 2), 1, EuclideanMetric{}, ChebyshevMetric{})
	if err != nil {
		t.Fatalf("BuildViews: %v", err)
	}
	cfg := DefaultConfig()
	cfg.K = 1
	cfg.Seed = 99
	res, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged || res.Iterations != 1 {
		t.Errorf("expected convergence after 1 iteration, got converged=%v iterations=%d", res.Converged, res.Iterations)
	}
	if len(res.Partition[0]) != 25 {
		t.Errorf("expected all 25 objects in the single cluster, got %d", len(res.Partition[0]))
	}
}

func TestSolve_RecoversSeparatedGroups(t *testing.T) {
	// Every initial cluster already has its medoid in a different group, so
	// one reassignment recovers the groups and the next confirms them.
	_, truth := separatedBlobs()
	cfg := DefaultConfig()
	cfg.InitialPartition = Partition{{0, 1, 6}, {2, 3, 4, 5}, {7, 8}}
	res, err := Solve(blobViews(t), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged || res.Iterations != 2 {
		t.Errorf("expected convergence after 2 iterations, got converged=%v iterations=%d", res.Converged, res.Iterations)
	}
	if !reflect.DeepEqual(res.Labels, truth) {
		t.Errorf("labels = %v, want %v", res.Labels, truth)
	}
	// Objects 2 and 6 change cluster in the first iteration.
	if res.History[0].Moved != 2 || res.History[1].Moved != 0 {
		t.Errorf("moved = %d, %d; want 2, 0", res.History[0].Moved, res.History[1].Moved)
	}
}

func TestSolve_Deterministic(t *testing.T) {
	views, err := BuildViews(randomData(60, 2, 21), 2, EuclideanMetric{}, ManhattanMetric{})
	if err != nil {
		t.Fatalf("BuildViews: %v", err)
	}
	cfg := DefaultConfig()
	cfg.K = 4
	cfg.Seed = 7

	a, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a.Partition, b.Partition) {
		t.Error("partitions differ between identical runs")
	}
	if !reflect.DeepEqual(a.Weights, b.Weights) {
		t.Error("weights differ between identical runs")
	}
	if a.Iterations != b.Iterations || a.Criterion != b.Criterion {
		t.Errorf("iterations/criterion differ: %d/%v vs %d/%v", a.Iterations, a.Criterion, b.Iterations, b.Criterion)
	}
}

func TestSolve_OutputInvariants(t *testing.T) {
	views, err := BuildViews(randomData(50, 3, 4), 1, EuclideanMetric{}, ManhattanMetric{}, CosineMetric{})
	if err != nil {
		t.Fatalf("BuildViews: %v", err)
	}
	for _, maxIter := range []int{1, 3, 100} {
		for seed := int64(0); seed < 5; seed++ {
			cfg := DefaultConfig()
			cfg.K = 3
			cfg.Seed = seed
			cfg.MaxIter = maxIter
			calls := 0
			cfg.Progress = func(s IterationStats) {
				calls++
				if s.Iteration != calls {
					t.Errorf("progress iteration %d reported as %d", calls, s.Iteration)
				}
			}

			res, err := Solve(views, cfg)
			if err != nil {
				t.Fatalf("seed %d: unexpected error: %v", seed, err)
			}
			if res.Iterations < 1 || res.Iterations > maxIter {
				t.Errorf("seed %d: iterations %d outside [1,%d]", seed, res.Iterations, maxIter)
			}
			if calls != res.Iterations || len(res.History) != res.Iterations {
				t.Errorf("seed %d: %d progress calls, %d history entries, %d iterations", seed, calls, len(res.History), res.Iterations)
			}
			if err := res.Partition.Validate(50); err != nil {
				t.Errorf("seed %d: %v", seed, err)
			}
			if len(res.Prototypes) != 3 || len(res.Weights) != 3 {
				t.Fatalf("seed %d: %d prototypes, %d weight rows", seed, len(res.Prototypes), len(res.Weights))
			}
			for k, w := range res.Weights {
				var sum float64
				for _, x := range w {
					if x < 0 {
						t.Errorf("seed %d: negative weight in cluster %d: %v", seed, k+1, w)
					}
					sum += x
				}
				if !almostEqual(sum, 1, 1e-9) {
					t.Errorf("seed %d: cluster %d weights sum to %v", seed, k+1, sum)
				}
			}
		}
	}
}

func TestSolve_ConvergedPartitionIsFixedPoint(t *testing.T) {
	views, err := BuildViews(randomData(40, 2, 8), 1, EuclideanMetric{}, ManhattanMetric{})
	if err != nil {
		t.Fatalf("BuildViews: %v", err)
	}
	cfg := DefaultConfig()
	cfg.K = 3
	cfg.Seed = 1
	first, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Converged {
		t.Skip("run did not converge; nothing to restart from")
	}
	for k, size := range first.Partition.Sizes() {
		if size == 0 {
			t.Skipf("cluster %d emptied; its prototype is carried over and cannot be re-derived", k+1)
		}
	}

	cfg.InitialPartition = first.Partition
	again, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Converged || again.Iterations != 1 {
		t.Errorf("restart from fixed point: converged=%v iterations=%d, want true/1", again.Converged, again.Iterations)
	}
	if !again.Partition.Equal(first.Partition) {
		t.Error("restart from fixed point changed the partition")
	}
}

func TestSolve_RandOverridesSeed(t *testing.T) {
	views := blobViews(t)
	cfg := DefaultConfig()
	cfg.K = 3
	cfg.Rand = newTestRand(5)
	a, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Rand = nil
	cfg.Seed = 5
	b, err := Solve(views, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Partition.Equal(b.Partition) {
		t.Error("a source seeded with 5 and Seed=5 should give the same run")
	}
}

func TestSolve_DoesNotMutateInitialPartition(t *testing.T) {
	initial := Partition{{0, 1, 6}, {2, 3, 4, 5}, {7, 8}}
	snapshot := initial.Clone()
	cfg := DefaultConfig()
	cfg.InitialPartition = initial
	if _, err := Solve(blobViews(t), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(initial, snapshot) {
		t.Errorf("initial partition mutated: %v", initial)
	}
}

func TestSolve_KFromInitialPartition(t *testing.T) {
	tests := []struct {
		name    string
		initial Partition
		want    int
	}{
		{"three clusters", Partition{{0}, {1}, {2, 3}}, 3},
		{"one cluster", Partition{{0, 1, 2, 3}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InitialPartition = tt.initial
			res, err := Solve(toyViews(t), cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := res.Partition.K(); got != tt.want {
				t.Errorf("K = %d, want %d", got, tt.want)
			}
		})
	}

	// Without an initial partition K falls back to 2.
	res, err := Solve(toyViews(t), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Partition.K(); got != 2 {
		t.Errorf("default K = %d, want 2", got)
	}
}

func TestSolve_InitialPrototypes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialPartition = Partition{{0, 1}, {2, 3}}
	cfg.InitialPrototypes = []int{0, 3}
	res, err := Solve(toyViews(t), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := res.History[0]
	if !slices.Equal(first.Prototypes, []int{0, 3}) {
		t.Errorf("first iteration prototypes = %v, want [0 3]", first.Prototypes)
	}
	// Object 1 is 4/3 from prototype 0 and object 2 is 4/3 from prototype 3.
	if !almostEqual(first.Criterion, 8.0/3, 1e-12) {
		t.Errorf("criterion = %v, want 8/3", first.Criterion)
	}
	if !res.Converged || res.Iterations != 1 {
		t.Errorf("expected convergence after 1 iteration, got converged=%v iterations=%d", res.Converged, res.Iterations)
	}
	// The final prototypes are the medoids of the final partition.
	if !slices.Equal(res.Prototypes, []int{0, 2}) {
		t.Errorf("prototypes = %v, want [0 2]", res.Prototypes)
	}
	if cfg.InitialPrototypes[1] != 3 {
		t.Error("initial prototypes mutated")
	}
}
