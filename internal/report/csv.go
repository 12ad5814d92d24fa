package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/TrevorS/mrdca/internal/experiment"
)

var csvScores = []string{
	experiment.ScoreSilhouette,
	experiment.ScoreARI,
	experiment.ScoreNMI,
	experiment.ScoreCriterion,
	experiment.ScoreInertia,
}

// WriteTrialsCSV writes one row per trial and method. Scores that were not
// computed are left empty.
func WriteTrialsCSV(w io.Writer, s *experiment.Summary) error {
	cw := csv.NewWriter(w)
	header := append([]string{"trial", "seed", "method", "iterations", "converged"}, csvScores...)
	header = append(header, "duration_ms")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range s.Trials {
		row := []string{
			strconv.Itoa(t.Index),
			strconv.FormatInt(t.Seed, 10),
			t.Method,
			strconv.Itoa(t.Iterations),
			strconv.FormatBool(t.Converged),
		}
		for _, name := range csvScores {
			if v, ok := t.Scores[name]; ok {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, strconv.FormatFloat(float64(t.Duration.Microseconds())/1000, 'f', 3, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLabelsCSV writes the features and ground truth of every object with
// the labels of the best solver trial.
func WriteLabelsCSV(w io.Writer, features [][]float64, truth []int, best *experiment.Trial) error {
	cw := csv.NewWriter(w)
	dims := 0
	if len(features) > 0 {
		dims = len(features[0])
	}
	header := []string{"object"}
	for d := 0; d < dims; d++ {
		header = append(header, "x"+strconv.Itoa(d))
	}
	if truth != nil {
		header = append(header, "truth")
	}
	header = append(header, "cluster", "prototype")
	if err := cw.Write(header); err != nil {
		return err
	}

	protos := make(map[int]bool)
	if best != nil {
		for _, p := range best.Prototypes {
			protos[p] = true
		}
	}
	for i, row := range features {
		rec := []string{strconv.Itoa(i)}
		for _, x := range row {
			rec = append(rec, strconv.FormatFloat(x, 'g', -1, 64))
		}
		if truth != nil {
			rec = append(rec, strconv.Itoa(truth[i]))
		}
		cluster := ""
		if best != nil && i < len(best.Labels) {
			cluster = strconv.Itoa(best.Labels[i] + 1)
		}
		rec = append(rec, cluster, strconv.FormatBool(protos[i]))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
