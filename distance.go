package mrdca

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DistanceMetric measures the dissimilarity between two feature vectors.
// One metric produces one view of the data.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, 2) }

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, 1) }

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1; MetricByName rejects smaller values.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, m.P) }

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// Two zero vectors are at distance 0; a zero vector and a non-zero one at 1.
// This keeps every view finite, which Solve requires.
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	switch {
	case normA == 0 && normB == 0:
		return 0
	case normA == 0 || normB == 0:
		return 1
	}
	d := 1 - floats.Dot(a, b)/(normA*normB)
	// Rounding can push identical directions slightly below zero.
	return math.Max(d, 0)
}

// MetricByName resolves a metric from its configuration name:
// "euclidean", "manhattan" (alias "cityblock"), "chebyshev", "cosine"
// or "minkowski:<p>".
func MetricByName(name string) (DistanceMetric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "euclidean", "l2":
		return EuclideanMetric{}, nil
	case "manhattan", "cityblock", "l1":
		return ManhattanMetric{}, nil
	case "chebyshev", "linf":
		return ChebyshevMetric{}, nil
	case "cosine":
		return CosineMetric{}, nil
	}
	if p, ok := strings.CutPrefix(key, "minkowski:"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("mrdca: invalid minkowski order %q: %w", p, err)
		}
		if v < 1 {
			return nil, fmt.Errorf("mrdca: minkowski order must be >= 1, got %g", v)
		}
		return MinkowskiMetric{P: v}, nil
	}
	return nil, fmt.Errorf("mrdca: unknown metric %q", name)
}

// MetricName returns the configuration name of a built-in metric, or the
// Go type name for anything else.
func MetricName(m DistanceMetric) string {
	switch v := m.(type) {
	case EuclideanMetric:
		return "euclidean"
	case ManhattanMetric:
		return "manhattan"
	case ChebyshevMetric:
		return "chebyshev"
	case CosineMetric:
		return "cosine"
	case MinkowskiMetric:
		return "minkowski:" + strconv.FormatFloat(v.P, 'g', -1, 64)
	default:
		return fmt.Sprintf("%T", m)
	}
}
