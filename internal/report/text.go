// Package report exports experiment summaries as text, CSV, JSON and plots.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/TrevorS/mrdca/internal/experiment"
)

var textScores = []string{
	experiment.ScoreSilhouette,
	experiment.ScoreARI,
	experiment.ScoreNMI,
}

// WriteText writes a human readable report: one row per method, then the
// clusters of the best solver trial with their relevance weights.
func WriteText(w io.Writer, s *experiment.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset:  %s (%s objects, k=%d)\n", s.Dataset, humanize.Comma(int64(s.Objects)), s.K)
	fmt.Fprintf(&b, "Views:    %s\n", strings.Join(s.Views, ", "))
	fmt.Fprintf(&b, "Trials:   %d per method, seed %d\n", s.Config.Trials, s.Config.Seed)
	fmt.Fprintf(&b, "Elapsed:  %s\n\n", s.Elapsed.Round(time.Microsecond))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	methods := tablewriter.NewWriter(w)
	header := []string{"method", "converged", "iterations"}
	header = append(header, textScores...)
	methods.SetHeader(header)
	methods.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, m := range s.Methods {
		row := []string{
			m.Method,
			fmt.Sprintf("%d/%d", m.Converged, m.Trials),
			fmt.Sprintf("%.1f", m.Iterations.Mean),
		}
		for _, name := range textScores {
			row = append(row, formatStat(m.Scores, name))
		}
		methods.Append(row)
	}
	methods.Render()

	best := s.Best
	if best == nil {
		return nil
	}
	b.Reset()
	fmt.Fprintf(&b, "\nBest trial: %s (seed %d)", humanize.Ordinal(best.Index+1), best.Seed)
	if sil, ok := best.Scores[experiment.ScoreSilhouette]; ok {
		fmt.Fprintf(&b, ", silhouette %.4f", sil)
	}
	fmt.Fprintf(&b, ", criterion %.4f\n", best.Scores[experiment.ScoreCriterion])
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	sizes := make([]int, len(best.Prototypes))
	for _, l := range best.Labels {
		if l >= 0 && l < len(sizes) {
			sizes[l]++
		}
	}
	clusters := tablewriter.NewWriter(w)
	header = []string{"cluster", "size", "prototype"}
	for _, v := range s.Views {
		header = append(header, "w "+v)
	}
	clusters.SetHeader(header)
	clusters.SetAutoFormatHeaders(false)
	clusters.SetAlignment(tablewriter.ALIGN_RIGHT)
	for k, proto := range best.Prototypes {
		row := []string{strconv.Itoa(k + 1), strconv.Itoa(sizes[k]), strconv.Itoa(proto)}
		for _, wt := range best.Weights[k] {
			row = append(row, fmt.Sprintf("%.4f", wt))
		}
		clusters.Append(row)
	}
	clusters.Render()
	return nil
}

func formatStat(scores map[string]experiment.Stat, name string) string {
	st, ok := scores[name]
	if !ok || st.N == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f ± %.4f", st.Mean, st.Std)
}
