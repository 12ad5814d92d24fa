package experiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/TrevorS/mrdca"
	"github.com/TrevorS/mrdca/internal/dataset"
)

// Runner executes experiments. The zero value logs nothing.
type Runner struct {
	log zerolog.Logger
}

// NewRunner returns a Runner that logs to logger.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{log: logger}
}

// Run loads the configured data set and runs the experiment on it.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, err := dataset.Load(cfg.Dataset, uint64(cfg.Seed), dataset.CSVOptions{
		Header:      cfg.Header,
		LabelColumn: cfg.LabelColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("experiment: load dataset: %w", err)
	}
	return r.RunDataset(ctx, cfg, ds)
}

// env is the read-only state shared by the trials of one experiment.
type env struct {
	cfg    Config
	ds     *dataset.Dataset
	k      int
	views  []mat.Symmetric
	blocks [][][]float64 // feature columns of each view
}

// RunDataset runs cfg.Trials trials of every configured method on ds.
// Trials run on a pool of cfg.Workers goroutines; trial i is seeded with
// cfg.Seed+i so results do not depend on scheduling. Cancelling ctx stops
// new trials from starting and returns the context error.
func (r *Runner) RunDataset(ctx context.Context, cfg Config, ds *dataset.Dataset) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	k := cfg.K
	if k == 0 {
		if !ds.Labeled() {
			return nil, fmt.Errorf("experiment: k is required for unlabeled data set %q", ds.Name)
		}
		k = ds.NumClasses()
	}

	e := &env{cfg: cfg, ds: ds, k: k}
	viewNames := make([]string, len(cfg.Views))
	for i, spec := range cfg.Views {
		metric, err := mrdca.MetricByName(spec.Metric)
		if err != nil {
			return nil, fmt.Errorf("experiment: view %d: %w", i, err)
		}
		block, err := ds.Select(spec.Columns)
		if err != nil {
			return nil, fmt.Errorf("experiment: view %d: %w", i, err)
		}
		view, err := mrdca.DissimilarityMatrixParallel(block, metric, cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("experiment: view %d: %w", i, err)
		}
		e.views = append(e.views, view)
		e.blocks = append(e.blocks, block)
		viewNames[i] = spec.String()
	}
	if k > ds.Len() {
		return nil, fmt.Errorf("experiment: %w: k=%d, %d objects", mrdca.ErrTooManyClusters, k, ds.Len())
	}

	r.log.Info().
		Str("dataset", ds.Name).
		Int("objects", ds.Len()).
		Strs("views", viewNames).
		Int("k", k).
		Int("trials", cfg.Trials).
		Strs("methods", cfg.Methods()).
		Msg("experiment started")

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("experiment: create pool: %w", err)
	}
	defer pool.Release()

	results, err := r.runTrials(ctx, pool, cfg.Trials, func(i int) ([]Trial, error) {
		return r.trial(e, i)
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.log.Warn().Err(ctxErr).Msg("experiment cancelled")
		return nil, fmt.Errorf("experiment: %w", ctxErr)
	}
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Config:  cfg,
		Dataset: ds.Name,
		Objects: ds.Len(),
		Views:   viewNames,
		K:       k,
	}
	for _, ts := range results {
		summary.Trials = append(summary.Trials, ts...)
	}
	for _, m := range cfg.Methods() {
		summary.Methods = append(summary.Methods, summarize(m, summary.Trials))
	}
	summary.Best = bestTrial(summary.Trials)
	summary.Elapsed = time.Since(start)

	for _, m := range summary.Methods {
		ev := r.log.Info().
			Str("method", m.Method).
			Float64("convergence_rate", m.ConvergenceRate()).
			Float64("iterations", m.Iterations.Mean)
		if s, ok := m.Scores[ScoreSilhouette]; ok {
			ev = ev.Float64("silhouette", s.Mean)
		}
		if s, ok := m.Scores[ScoreARI]; ok {
			ev = ev.Float64("ari", s.Mean)
		}
		ev.Msg("method summary")
	}
	r.log.Info().Dur("elapsed", summary.Elapsed).Msg("experiment finished")
	return summary, nil
}

// runTrials runs fn for trials 0..n-1 on pool and returns their results in
// trial order. A trial that panics fails with an error instead of being
// dropped. Once ctx is cancelled no further trials start.
func (r *Runner) runTrials(ctx context.Context, pool *ants.Pool, n int, fn func(i int) ([]Trial, error)) ([][]Trial, error) {
	results := make([][]Trial, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					r.log.Error().Int("trial", i).Interface("panic", v).Msg("trial panicked")
					errs[i] = fmt.Errorf("experiment: trial %d panicked: %v", i, v)
				}
			}()
			if ctx.Err() != nil {
				return
			}
			results[i], errs[i] = fn(i)
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("experiment: submit trial %d: %w", i, err)
			break
		}
	}
	wg.Wait()
	return results, errors.Join(errs...)
}

// trial runs every method with seed cfg.Seed+i.
func (r *Runner) trial(e *env, i int) ([]Trial, error) {
	seed := e.cfg.Seed + int64(i)
	log := r.log.With().Int("trial", i).Int64("seed", seed).Logger()
	log.Debug().Msg("trial started")

	var out []Trial
	t, err := r.solve(e, seed, log)
	if err != nil {
		return nil, fmt.Errorf("experiment: trial %d: %w", i, err)
	}
	out = append(out, t)

	if e.cfg.wants(MethodKMeans) {
		t, err := kmeansTrial(e, seed)
		if err != nil {
			return nil, fmt.Errorf("experiment: trial %d: kmeans: %w", i, err)
		}
		out = append(out, t)
	}
	if e.cfg.wants(MethodEnsemble) || e.cfg.wants(MethodLinkage) {
		ts, err := ensembleTrials(e, seed)
		if err != nil {
			return nil, fmt.Errorf("experiment: trial %d: ensemble: %w", i, err)
		}
		out = append(out, ts...)
	}

	for j := range out {
		out[j].Index = i
		out[j].Seed = seed
		e.score(&out[j])
	}
	log.Debug().
		Int("iterations", out[0].Iterations).
		Bool("converged", out[0].Converged).
		Dur("took", out[0].Duration).
		Msg("trial finished")
	return out, nil
}

func (r *Runner) solve(e *env, seed int64, log zerolog.Logger) (Trial, error) {
	cfg := mrdca.DefaultConfig()
	cfg.K = e.k
	cfg.MaxIter = e.cfg.MaxIter
	cfg.Seed = seed
	cfg.ZeroSum = mrdca.ZeroSumPolicy(e.cfg.ZeroSum)
	if log.GetLevel() <= zerolog.TraceLevel {
		cfg.Progress = func(s mrdca.IterationStats) {
			log.Trace().
				Int("iteration", s.Iteration).
				Float64("criterion", s.Criterion).
				Int("moved", s.Moved).
				Ints("sizes", s.Sizes).
				Msg("iteration")
		}
	}

	start := time.Now()
	res, err := mrdca.Solve(e.views, cfg)
	if err != nil {
		return Trial{}, err
	}
	return Trial{
		Method:     MethodMRDCA,
		Labels:     res.Labels,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Scores:     map[string]float64{ScoreCriterion: res.Criterion},
		Weights:    res.Weights,
		Prototypes: res.Prototypes,
		Duration:   time.Since(start),
	}, nil
}

func kmeansTrial(e *env, seed int64) (Trial, error) {
	cfg := mrdca.DefaultKMeansConfig()
	cfg.K = e.k
	cfg.Seed = seed
	start := time.Now()
	res, err := mrdca.KMeans(e.ds.Features, cfg)
	if err != nil {
		return Trial{}, err
	}
	return Trial{
		Method:     MethodKMeans,
		Labels:     res.Labels,
		Iterations: res.Iterations,
		Converged:  res.Iterations < cfg.MaxIter,
		Scores:     map[string]float64{ScoreInertia: res.Inertia},
		Duration:   time.Since(start),
	}, nil
}

// ensembleTrials clusters every view's feature block with k-means and
// combines the labelings through their co-association matrix.
func ensembleTrials(e *env, seed int64) ([]Trial, error) {
	start := time.Now()
	labelings := make([][]int, len(e.blocks))
	for v, block := range e.blocks {
		cfg := mrdca.DefaultKMeansConfig()
		cfg.K = e.k
		cfg.Seed = seed + int64(v)
		res, err := mrdca.KMeans(block, cfg)
		if err != nil {
			return nil, fmt.Errorf("view %d: %w", v, err)
		}
		labelings[v] = res.Labels
	}
	s, err := mrdca.CoAssociation(labelings)
	if err != nil {
		return nil, err
	}
	base := time.Since(start)

	var out []Trial
	if e.cfg.wants(MethodEnsemble) {
		start := time.Now()
		labels, err := mrdca.ConsensusKMeans(s, e.k, seed)
		if err != nil {
			return nil, err
		}
		out = append(out, Trial{
			Method:    MethodEnsemble,
			Labels:    labels,
			Converged: true,
			Scores:    map[string]float64{},
			Duration:  base + time.Since(start),
		})
	}
	if e.cfg.wants(MethodLinkage) {
		start := time.Now()
		labels, err := mrdca.ConsensusLinkage(s, e.k)
		if err != nil {
			return nil, err
		}
		out = append(out, Trial{
			Method:    MethodLinkage,
			Labels:    labels,
			Converged: true,
			Scores:    map[string]float64{},
			Duration:  base + time.Since(start),
		})
	}
	return out, nil
}

// score adds the silhouette on the first view and, for labeled data, the
// agreement with the ground truth. Scores that cannot be computed for the
// labeling are left out.
func (e *env) score(t *Trial) {
	if s, err := mrdca.Silhouette(e.views[0], t.Labels); err == nil && finite(s) {
		t.Scores[ScoreSilhouette] = s
	}
	if !e.ds.Labeled() {
		return
	}
	if ari, err := mrdca.AdjustedRandIndex(e.ds.Labels, t.Labels); err == nil && finite(ari) {
		t.Scores[ScoreARI] = ari
	}
	if nmi, err := mrdca.NormalizedMutualInfo(e.ds.Labels, t.Labels); err == nil && finite(nmi) {
		t.Scores[ScoreNMI] = nmi
	}
}
