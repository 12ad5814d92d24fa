package mrdca

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// DissimilarityMatrixParallel computes the n×n view of data under metric
// using multiple goroutines. workers controls the degree of parallelism;
// if <= 1 the matrix is computed on the calling goroutine.
//
// The result is bitwise identical to the sequential computation.
func DissimilarityMatrixParallel(data [][]float64, metric DistanceMetric, workers int) (*mat.SymDense, error) {
	n, _, err := checkFeatures(data)
	if err != nil {
		return nil, err
	}
	view := mat.NewSymDense(n, nil)

	fill := func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				view.SetSym(i, j, metric.Distance(data[i], data[j]))
			}
		}
	}

	if workers <= 1 || n <= 1 {
		fill(0, n)
		return view, nil
	}

	// Each worker owns a contiguous range of source rows and writes only the
	// upper-triangle cells (i, j>i) of those rows, so writes never overlap.
	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		if start >= n {
			break
		}
		end := min(start+rowsPerWorker, n)

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fill(start, end)
		}(start, end)
	}
	wg.Wait()
	return view, nil
}
