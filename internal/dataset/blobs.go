package dataset

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlobsConfig describes a synthetic data set of isotropic Gaussian blobs.
type BlobsConfig struct {
	// N is the total number of points, split as evenly as possible.
	N int

	// Centers is the number of blobs. Default: 3.
	Centers int

	// Dims is the number of features. Default: 2.
	Dims int

	// StdDev is the standard deviation of every blob. Default: 1.
	StdDev float64

	// Box bounds the blob centers to [-Box, Box] in every dimension.
	// Default: 10.
	Box float64

	// Seed initializes the random source.
	Seed uint64
}

func applyBlobsDefaults(cfg *BlobsConfig) {
	if cfg.Centers == 0 {
		cfg.Centers = 3
	}
	if cfg.Dims == 0 {
		cfg.Dims = 2
	}
	if cfg.StdDev == 0 {
		cfg.StdDev = 1
	}
	if cfg.Box == 0 {
		cfg.Box = 10
	}
}

// Blobs draws a labeled Gaussian blob data set. Point i belongs to blob
// i mod Centers. The same config always yields the same data.
func Blobs(cfg BlobsConfig) (*Dataset, error) {
	applyBlobsDefaults(&cfg)
	switch {
	case cfg.N < 1:
		return nil, fmt.Errorf("dataset: blobs N must be >= 1, got %d", cfg.N)
	case cfg.Centers < 1 || cfg.Centers > cfg.N:
		return nil, fmt.Errorf("dataset: blobs Centers must be in [1,%d], got %d", cfg.N, cfg.Centers)
	case cfg.Dims < 1:
		return nil, fmt.Errorf("dataset: blobs Dims must be >= 1, got %d", cfg.Dims)
	case !(cfg.StdDev > 0):
		return nil, fmt.Errorf("dataset: blobs StdDev must be > 0, got %g", cfg.StdDev)
	case !(cfg.Box > 0):
		return nil, fmt.Errorf("dataset: blobs Box must be > 0, got %g", cfg.Box)
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	box := distuv.Uniform{Min: -cfg.Box, Max: cfg.Box, Src: src}
	centers := make([][]float64, cfg.Centers)
	for k := range centers {
		centers[k] = make([]float64, cfg.Dims)
		for d := range centers[k] {
			centers[k][d] = box.Rand()
		}
	}

	noise := distuv.Normal{Mu: 0, Sigma: cfg.StdDev, Src: src}
	ds := &Dataset{
		Name:     fmt.Sprintf("blobs-%dx%dx%d", cfg.N, cfg.Centers, cfg.Dims),
		Features: make([][]float64, cfg.N),
		Labels:   make([]int, cfg.N),
		Classes:  make([]string, cfg.Centers),
	}
	for k := range ds.Classes {
		ds.Classes[k] = fmt.Sprintf("blob%d", k)
	}
	for i := range ds.Features {
		k := i % cfg.Centers
		row := make([]float64, cfg.Dims)
		for d := range row {
			row[d] = centers[k][d] + noise.Rand()
		}
		ds.Features[i] = row
		ds.Labels[i] = k
	}
	return ds, nil
}
