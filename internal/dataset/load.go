package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Load resolves a data set spec:
//
//	toy:<name>           a built-in data set, see ToyNames
//	blobs:<n>x<k>x<d>    Gaussian blobs seeded with seed
//	<path>               a CSV file read with opts
//
// opts is only used for CSV files.
func Load(spec string, seed uint64, opts CSVOptions) (*Dataset, error) {
	switch {
	case strings.HasPrefix(spec, "toy:"):
		return Toy(strings.TrimPrefix(spec, "toy:"))
	case strings.HasPrefix(spec, "blobs:"):
		cfg, err := parseBlobs(strings.TrimPrefix(spec, "blobs:"))
		if err != nil {
			return nil, err
		}
		cfg.Seed = seed
		return Blobs(cfg)
	case spec == "":
		return nil, fmt.Errorf("%w: empty spec", ErrUnknown)
	default:
		return LoadCSV(spec, opts)
	}
}

func parseBlobs(s string) (BlobsConfig, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return BlobsConfig{}, fmt.Errorf("%w: blobs spec %q, want <n>x<k>x<d>", ErrUnknown, s)
	}
	var nums [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			return BlobsConfig{}, fmt.Errorf("%w: blobs spec %q: bad number %q", ErrUnknown, s, p)
		}
		nums[i] = v
	}
	return BlobsConfig{N: nums[0], Centers: nums[1], Dims: nums[2]}, nil
}
