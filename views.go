package mrdca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NewView converts a literal square matrix into a dissimilarity view.
// rows must be square and symmetric; the remaining view invariants are
// checked by ValidateViews.
func NewView(rows [][]float64) (*mat.SymDense, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidView)
	}
	data := make([]float64, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidView, i, len(row), n)
		}
		copy(data[i*n:], row)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if data[i*n+j] != data[j*n+i] {
				return nil, fmt.Errorf("%w: entries (%d,%d)=%g and (%d,%d)=%g differ",
					ErrInvalidView, i, j, data[i*n+j], j, i, data[j*n+i])
			}
		}
	}
	return mat.NewSymDense(n, data), nil
}

// ValidateViews checks the boundary invariants of a set of views: at least
// one view, a common dimension n > 0, finite non-negative entries and a
// zero diagonal. It returns n.
func ValidateViews(views []mat.Symmetric) (int, error) {
	if len(views) == 0 {
		return 0, fmt.Errorf("%w: no views given", ErrInvalidView)
	}
	n := 0
	for v, view := range views {
		if view == nil {
			return 0, fmt.Errorf("%w: view %d is nil", ErrInvalidView, v)
		}
		dim := view.SymmetricDim()
		if dim == 0 {
			return 0, fmt.Errorf("%w: view %d is empty", ErrInvalidView, v)
		}
		if v == 0 {
			n = dim
		} else if dim != n {
			return 0, fmt.Errorf("%w: view %d is %dx%d, view 0 is %dx%d", ErrDimensionMismatch, v, dim, dim, n, n)
		}
		for i := 0; i < n; i++ {
			if d := view.At(i, i); d != 0 {
				if math.IsNaN(d) || math.IsInf(d, 0) {
					return 0, fmt.Errorf("%w: view %d entry (%d,%d) = %g", ErrNonFinite, v, i, i, d)
				}
				return 0, fmt.Errorf("%w: view %d has diagonal entry (%d,%d) = %g", ErrInvalidView, v, i, i, d)
			}
			for j := i + 1; j < n; j++ {
				d := view.At(i, j)
				if math.IsNaN(d) || math.IsInf(d, 0) {
					return 0, fmt.Errorf("%w: view %d entry (%d,%d) = %g", ErrNonFinite, v, i, j, d)
				}
				if d < 0 {
					return 0, fmt.Errorf("%w: view %d entry (%d,%d) = %g is negative", ErrInvalidView, v, i, j, d)
				}
			}
		}
	}
	return n, nil
}

// DissimilarityMatrix computes the n×n view of data under metric.
// All rows must have the same length and contain finite values.
func DissimilarityMatrix(data [][]float64, metric DistanceMetric) (*mat.SymDense, error) {
	return DissimilarityMatrixParallel(data, metric, 1)
}

// BuildViews computes one view per metric, in order.
// workers is passed to DissimilarityMatrixParallel.
func BuildViews(data [][]float64, workers int, metrics ...DistanceMetric) ([]mat.Symmetric, error) {
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: no metrics given", ErrInvalidView)
	}
	views := make([]mat.Symmetric, len(metrics))
	for i, m := range metrics {
		view, err := DissimilarityMatrixParallel(data, m, workers)
		if err != nil {
			return nil, fmt.Errorf("mrdca: view %d (%s): %w", i, MetricName(m), err)
		}
		views[i] = view
	}
	return views, nil
}

// checkFeatures validates a feature matrix and returns its shape.
func checkFeatures(data [][]float64) (n, dims int, err error) {
	n = len(data)
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no data points", ErrInvalidView)
	}
	dims = len(data[0])
	for i, row := range data {
		if len(row) != dims {
			return 0, 0, fmt.Errorf("%w: row %d has %d features, row 0 has %d", ErrDimensionMismatch, i, len(row), dims)
		}
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return 0, 0, fmt.Errorf("%w: feature (%d,%d) = %g", ErrNonFinite, i, j, x)
			}
		}
	}
	return n, dims, nil
}
