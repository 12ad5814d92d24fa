package experiment

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Score names used in Trial.Scores and MethodSummary.Scores.
const (
	ScoreSilhouette = "silhouette"
	ScoreARI        = "ari"
	ScoreNMI        = "nmi"
	ScoreCriterion  = "criterion"
	ScoreInertia    = "inertia"
)

// Trial is the outcome of one method on one seed.
type Trial struct {
	Index  int    `json:"index"`
	Seed   int64  `json:"seed"`
	Method string `json:"method"`

	// Labels holds the 0-based cluster of each object.
	Labels []int `json:"labels"`

	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`

	// Scores holds every score that could be computed for the labeling.
	// Silhouette is missing when the labeling has fewer than 2 or more
	// than n-1 clusters; ARI and NMI when the data set is unlabeled.
	Scores map[string]float64 `json:"scores"`

	// Weights and Prototypes are only set for the solver.
	Weights    [][]float64 `json:"weights,omitempty"`
	Prototypes []int       `json:"prototypes,omitempty"`

	Duration time.Duration `json:"duration_ns"`
}

// Stat is the mean and standard deviation of a score over N trials.
type Stat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	N    int     `json:"n"`
}

// MethodSummary aggregates the trials of one method.
type MethodSummary struct {
	Method     string          `json:"method"`
	Trials     int             `json:"trials"`
	Converged  int             `json:"converged"`
	Iterations Stat            `json:"iterations"`
	Scores     map[string]Stat `json:"scores"`
}

// ConvergenceRate returns the fraction of trials that converged.
func (m MethodSummary) ConvergenceRate() float64 {
	if m.Trials == 0 {
		return 0
	}
	return float64(m.Converged) / float64(m.Trials)
}

// Summary is the result of an experiment.
type Summary struct {
	Config  Config   `json:"config"`
	Dataset string   `json:"dataset"`
	Objects int      `json:"objects"`
	Views   []string `json:"views"`
	K       int      `json:"k"`

	// Trials holds every trial of every method, ordered by trial index
	// then method.
	Trials []Trial `json:"trials"`

	// Methods holds one summary per method, in Config.Methods order.
	Methods []MethodSummary `json:"methods"`

	// Best is the solver trial with the highest silhouette, or the lowest
	// criterion when no silhouette could be computed.
	Best *Trial `json:"best"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Method returns the summary of the named method.
func (s *Summary) Method(name string) (MethodSummary, bool) {
	for _, m := range s.Methods {
		if m.Method == name {
			return m, true
		}
	}
	return MethodSummary{}, false
}

// newStat summarizes xs. A single value has zero spread.
func newStat(xs []float64) Stat {
	switch len(xs) {
	case 0:
		return Stat{}
	case 1:
		return Stat{Mean: xs[0], N: 1}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return Stat{Mean: mean, Std: std, N: len(xs)}
}

func summarize(method string, trials []Trial) MethodSummary {
	ms := MethodSummary{Method: method, Scores: make(map[string]Stat)}
	var iters []float64
	scores := make(map[string][]float64)
	for _, t := range trials {
		if t.Method != method {
			continue
		}
		ms.Trials++
		if t.Converged {
			ms.Converged++
		}
		iters = append(iters, float64(t.Iterations))
		for name, v := range t.Scores {
			scores[name] = append(scores[name], v)
		}
	}
	ms.Iterations = newStat(iters)
	for name, xs := range scores {
		ms.Scores[name] = newStat(xs)
	}
	return ms
}

// bestTrial picks the solver trial to export.
func bestTrial(trials []Trial) *Trial {
	var best *Trial
	better := func(t *Trial) bool {
		s, ok := t.Scores[ScoreSilhouette]
		bs, bok := best.Scores[ScoreSilhouette]
		switch {
		case ok && !bok:
			return true
		case !ok && bok:
			return false
		case ok && bok:
			return s > bs
		}
		return t.Scores[ScoreCriterion] < best.Scores[ScoreCriterion]
	}
	for i := range trials {
		t := &trials[i]
		if t.Method != MethodMRDCA {
			continue
		}
		if best == nil || better(t) {
			best = t
		}
	}
	return best
}

// finite reports whether x can be exported as a score.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
