// Package dataset provides the feature tables clustered by the experiment
// runner: built-in toy sets, CSV files and synthetic Gaussian blobs.
package dataset

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmpty is returned for a data set without rows or columns.
	ErrEmpty = errors.New("dataset: no data")

	// ErrUnknown is returned by Load and Toy for names they do not recognize.
	ErrUnknown = errors.New("dataset: unknown data set")
)

// Dataset is a table of numeric features with optional class labels.
type Dataset struct {
	// Name identifies the data set in logs and reports.
	Name string

	// Columns names each feature column. May be nil.
	Columns []string

	// Features holds one row per object.
	Features [][]float64

	// Labels holds the 0-based class of each object, or nil when the data
	// set is unlabeled.
	Labels []int

	// Classes names each label value. May be nil for labeled data.
	Classes []string
}

// Len returns the number of objects.
func (d *Dataset) Len() int { return len(d.Features) }

// Dims returns the number of feature columns.
func (d *Dataset) Dims() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// Labeled reports whether the data set carries ground-truth labels.
func (d *Dataset) Labeled() bool { return d.Labels != nil }

// NumClasses returns the number of distinct labels, or 0 when unlabeled.
func (d *Dataset) NumClasses() int {
	seen := make(map[int]struct{})
	for _, l := range d.Labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// Validate checks that the table is rectangular, finite and that labels,
// when present, cover every row.
func (d *Dataset) Validate() error {
	if len(d.Features) == 0 || len(d.Features[0]) == 0 {
		return fmt.Errorf("%w: %q", ErrEmpty, d.Name)
	}
	dims := len(d.Features[0])
	for i, row := range d.Features {
		if len(row) != dims {
			return fmt.Errorf("dataset %q: row %d has %d columns, want %d", d.Name, i, len(row), dims)
		}
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("dataset %q: non-finite value at (%d,%d)", d.Name, i, j)
			}
		}
	}
	if d.Columns != nil && len(d.Columns) != dims {
		return fmt.Errorf("dataset %q: %d column names for %d columns", d.Name, len(d.Columns), dims)
	}
	if d.Labels != nil {
		if len(d.Labels) != len(d.Features) {
			return fmt.Errorf("dataset %q: %d labels for %d rows", d.Name, len(d.Labels), len(d.Features))
		}
		for i, l := range d.Labels {
			if l < 0 {
				return fmt.Errorf("dataset %q: row %d has negative label %d", d.Name, i, l)
			}
			if d.Classes != nil && l >= len(d.Classes) {
				return fmt.Errorf("dataset %q: row %d has label %d, only %d classes", d.Name, i, l, len(d.Classes))
			}
		}
	}
	return nil
}

// Select returns the given feature columns of every row, in order. An empty
// cols selects every column. The rows share no memory with the data set.
func (d *Dataset) Select(cols []int) ([][]float64, error) {
	dims := d.Dims()
	for _, c := range cols {
		if c < 0 || c >= dims {
			return nil, fmt.Errorf("dataset %q: column %d out of range [0,%d)", d.Name, c, dims)
		}
	}
	out := make([][]float64, len(d.Features))
	for i, row := range d.Features {
		if len(cols) == 0 {
			out[i] = append([]float64(nil), row...)
			continue
		}
		out[i] = make([]float64, len(cols))
		for j, c := range cols {
			out[i][j] = row[c]
		}
	}
	return out, nil
}
