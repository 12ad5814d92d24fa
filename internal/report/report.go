package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/TrevorS/mrdca/internal/dataset"
	"github.com/TrevorS/mrdca/internal/experiment"
)

// File names written by WriteAll.
const (
	TextFile   = "report.txt"
	TrialsFile = "trials.csv"
	JSONFile   = "summary.json"
	LabelsFile = "labels.csv"
	PlotFile   = "best.png"
)

// WriteAll creates dir and writes every report file into it. The scatter
// plot is only drawn when the experiment asked for one. It returns the
// paths written.
func WriteAll(dir string, s *experiment.Summary, ds *dataset.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{TextFile, func(w io.Writer) error { return WriteText(w, s) }},
		{TrialsFile, func(w io.Writer) error { return WriteTrialsCSV(w, s) }},
		{JSONFile, func(w io.Writer) error { return WriteJSON(w, s) }},
		{LabelsFile, func(w io.Writer) error { return WriteLabelsCSV(w, ds.Features, ds.Labels, s.Best) }},
	}

	var written []string
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		if err := writeFile(path, wr.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if s.Config.Plot && s.Best != nil {
		path := filepath.Join(dir, PlotFile)
		title := fmt.Sprintf("%s: best trial (seed %d)", s.Dataset, s.Best.Seed)
		if err := SaveScatter(path, ds.Features, s.Best.Labels, title); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", filepath.Base(path), err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
