package dataset

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/TrevorS/mrdca"
)

var toys = map[string]func() *Dataset{
	// Two well separated groups of three points.
	"toy-blobs": func() *Dataset {
		return &Dataset{
			Name:    "toy-blobs",
			Columns: []string{"x", "y"},
			Features: [][]float64{
				{1, 1}, {2, 2}, {1, 2},
				{10, 10}, {11, 11}, {10, 11},
			},
			Labels:  []int{0, 0, 0, 1, 1, 1},
			Classes: []string{"low", "high"},
		}
	},
	// Eight points in three groups, used for the internal validity scores.
	"toy-scores": func() *Dataset {
		return &Dataset{
			Name:    "toy-scores",
			Columns: []string{"x", "y"},
			Features: [][]float64{
				{1.0, 2.0}, {1.5, 1.8}, {5.0, 8.0}, {8.0, 8.0},
				{1.0, 0.6}, {9.0, 11.0}, {8.0, 2.0}, {10.0, 2.0},
			},
			Labels:  []int{0, 0, 1, 1, 0, 1, 2, 2},
			Classes: []string{"a", "b", "c"},
		}
	},
	// Five objects described by two feature views: columns 0-1 are
	// positions, columns 2-3 are proportions.
	"toy-views": func() *Dataset {
		return &Dataset{
			Name:    "toy-views",
			Columns: []string{"pos_x", "pos_y", "prop_a", "prop_b"},
			Features: [][]float64{
				{1.0, 2.0, 0.0, 1.0},
				{1.5, 1.8, 0.1, 0.9},
				{5.0, 8.0, 1.0, 0.0},
				{8.0, 8.0, 0.9, 0.1},
				{1.0, 0.6, 1.5, 2.0},
			},
		}
	},
}

// ToyNames returns the names of the built-in data sets, sorted.
func ToyNames() []string {
	names := make([]string, 0, len(toys))
	for name := range toys {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Toy returns a fresh copy of the named built-in data set.
func Toy(name string) (*Dataset, error) {
	build, ok := toys[name]
	if !ok {
		return nil, fmt.Errorf("%w: toy %q (have %v)", ErrUnknown, name, ToyNames())
	}
	return build(), nil
}

// WorkedExample is a relational clustering problem given directly as
// dissimilarity views, with a fixed starting point.
type WorkedExample struct {
	Views      []mat.Symmetric
	Partition  mrdca.Partition
	Prototypes []int
}

// ToyViews returns the two 4-object dissimilarity views of the worked
// example with its starting partition {1,2}, {3,4} and prototypes 1 and 4
// (0-based in the returned values). Started from there the solver
// converges in one iteration with weights of about 0.667 and 0.333 in both
// clusters.
func ToyViews() (*WorkedExample, error) {
	d1, err := mrdca.NewView([][]float64{
		{0, 1, 2, 3},
		{1, 0, 2, 2},
		{2, 2, 0, 1},
		{3, 2, 1, 0},
	})
	if err != nil {
		return nil, err
	}
	d2, err := mrdca.NewView([][]float64{
		{0, 2, 1, 4},
		{2, 0, 3, 3},
		{1, 3, 0, 2},
		{4, 3, 2, 0},
	})
	if err != nil {
		return nil, err
	}
	return &WorkedExample{
		Views:      []mat.Symmetric{d1, d2},
		Partition:  mrdca.Partition{{0, 1}, {2, 3}},
		Prototypes: []int{0, 3},
	}, nil
}
