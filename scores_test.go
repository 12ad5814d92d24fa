package mrdca

import (
	"errors"
	"reflect"
	"testing"
)

func TestSilhouette_LinePoints(t *testing.T) {
	dist := lineView(0, 1, 10, 11)
	got, err := Silhouette(dist, []int{0, 0, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (2*9.5/10.5 + 2*8.5/9.5) / 4
	if !almostEqual(got, want, floatTol) {
		t.Errorf("Silhouette = %v, want %v", got, want)
	}

	// Swapping the labels of a pair makes every score negative.
	bad, err := Silhouette(dist, []int{0, 1, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bad >= 0 {
		t.Errorf("Silhouette of a crossed labeling = %v, want < 0", bad)
	}
}

func TestSilhouetteSamples_Singleton(t *testing.T) {
	scores, err := SilhouetteSamples(lineView(0, 1, 10), []int{4, 4, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[2] != 0 {
		t.Errorf("singleton score = %v, want 0", scores[2])
	}
	if want := (10.0 - 1) / 10; !almostEqual(scores[0], want, floatTol) {
		t.Errorf("score[0] = %v, want %v", scores[0], want)
	}
}

func TestSilhouette_Errors(t *testing.T) {
	dist := lineView(0, 1, 10)
	tests := []struct {
		name   string
		labels []int
		want   error
	}{
		{"one cluster", []int{0, 0, 0}, nil},
		{"all singletons", []int{0, 1, 2}, nil},
		{"length mismatch", []int{0, 1}, ErrDimensionMismatch},
		{"negative label", []int{0, -1, 1}, ErrInvalidPartition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Silhouette(dist, tt.labels)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDaviesBouldin(t *testing.T) {
	data := [][]float64{{0, 0}, {2, 0}, {10, 0}, {12, 0}}
	got, err := DaviesBouldin(data, []int{0, 0, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Each scatter is 1 and the centroids are 10 apart.
	if !almostEqual(got, 0.2, floatTol) {
		t.Errorf("DaviesBouldin = %v, want 0.2", got)
	}

	if _, err := DaviesBouldin(data, []int{0, 0, 0, 0}); err == nil {
		t.Error("expected error for a single cluster")
	}
	if _, err := DaviesBouldin(data, []int{0, 1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestContingency(t *testing.T) {
	table, err := Contingency([]int{0, 0, 1}, []int{1, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]int{{1, 1}, {0, 1}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("table = %v, want %v", table, want)
	}
	if _, err := Contingency([]int{0}, []int{0, 1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestAdjustedRandIndex(t *testing.T) {
	tests := []struct {
		name        string
		truth, pred []int
		want        float64
	}{
		{"identical up to renaming", []int{0, 0, 1, 1}, []int{5, 5, 3, 3}, 1},
		{"crossed", []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, -0.5},
		{"both single cluster", []int{0, 0, 0}, []int{2, 2, 2}, 1},
		{"single object", []int{0}, []int{1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustedRandIndex(tt.truth, tt.pred)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want, floatTol) {
				t.Errorf("ARI = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizedMutualInfo(t *testing.T) {
	tests := []struct {
		name        string
		truth, pred []int
		want        float64
	}{
		{"identical up to renaming", []int{0, 0, 1, 1, 2, 2}, []int{2, 2, 0, 0, 1, 1}, 1},
		{"independent", []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, 0},
		{"both single cluster", []int{0, 0, 0}, []int{1, 1, 1}, 1},
		{"one single cluster", []int{0, 0, 1, 1}, []int{0, 0, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizedMutualInfo(tt.truth, tt.pred)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("NMI = %v, want %v", got, tt.want)
			}
		})
	}
}
