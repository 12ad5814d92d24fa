package experiment

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/mrdca"
	"github.com/TrevorS/mrdca/internal/dataset"
)

func blobsConfig() Config {
	cfg := DefaultConfig()
	cfg.Dataset = "toy:toy-blobs"
	cfg.Trials = 4
	cfg.Seed = 3
	cfg.Baselines = []string{MethodKMeans, MethodEnsemble, MethodLinkage}
	return cfg
}

func TestRunner_ToyBlobs(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(zerolog.New(&buf))

	summary, err := r.Run(context.Background(), blobsConfig())
	require.NoError(t, err)

	assert.Equal(t, "toy-blobs", summary.Dataset)
	assert.Equal(t, 6, summary.Objects)
	assert.Equal(t, 2, summary.K, "k comes from the ground-truth classes")
	assert.Equal(t, []string{"euclidean"}, summary.Views)
	require.Len(t, summary.Trials, 16)
	require.Len(t, summary.Methods, 4)

	for i, tr := range summary.Trials {
		assert.Equal(t, i/4, tr.Index)
		assert.Equal(t, int64(3+i/4), tr.Seed)
		assert.Len(t, tr.Labels, 6)
	}

	// Every 3/3 starting split leaves the two medoids in different groups,
	// so the solver always recovers the groups.
	m, ok := summary.Method(MethodMRDCA)
	require.True(t, ok)
	assert.Equal(t, 4, m.Trials)
	assert.Equal(t, 1.0, m.ConvergenceRate())
	assert.InDelta(t, 1.0, m.Scores[ScoreARI].Mean, 1e-12)
	assert.InDelta(t, 1.0, m.Scores[ScoreNMI].Mean, 1e-9)
	assert.Equal(t, 4, m.Scores[ScoreSilhouette].N)
	assert.Contains(t, m.Scores, ScoreCriterion)

	for _, name := range []string{MethodKMeans, MethodEnsemble, MethodLinkage} {
		m, ok := summary.Method(name)
		require.True(t, ok, name)
		assert.Equal(t, 4, m.Trials, name)
		assert.Contains(t, m.Scores, ScoreARI, name)
	}

	require.NotNil(t, summary.Best)
	assert.Equal(t, MethodMRDCA, summary.Best.Method)
	assert.Len(t, summary.Best.Weights, 2)
	assert.Len(t, summary.Best.Prototypes, 2)

	assert.Contains(t, buf.String(), "experiment finished")
}

func TestRunner_ResultsIndependentOfWorkers(t *testing.T) {
	ds, err := dataset.Blobs(dataset.BlobsConfig{N: 60, Centers: 3, StdDev: 2, Seed: 9})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Dataset = "unused"
	cfg.Views = []ViewSpec{{Metric: "euclidean"}, {Metric: "manhattan"}}
	cfg.Trials = 6
	cfg.Seed = 11
	cfg.Baselines = []string{MethodKMeans}

	cfg.Workers = 1
	serial, err := NewRunner(zerolog.Nop()).RunDataset(context.Background(), cfg, ds)
	require.NoError(t, err)
	cfg.Workers = 4
	parallel, err := NewRunner(zerolog.Nop()).RunDataset(context.Background(), cfg, ds)
	require.NoError(t, err)

	require.Len(t, parallel.Trials, len(serial.Trials))
	for i := range serial.Trials {
		assert.Equal(t, serial.Trials[i].Labels, parallel.Trials[i].Labels, "trial %d", i)
		assert.Equal(t, serial.Trials[i].Scores, parallel.Trials[i].Scores, "trial %d", i)
	}
}

func TestRunner_MultiViewUnlabeled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dataset = "toy:toy-views"
	cfg.K = 2
	cfg.Trials = 2
	cfg.Views = []ViewSpec{
		{Metric: "euclidean", Columns: []int{0, 1}},
		{Metric: "manhattan", Columns: []int{2, 3}},
	}

	summary, err := NewRunner(zerolog.Nop()).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"euclidean[0 1]", "manhattan[2 3]"}, summary.Views)

	m, ok := summary.Method(MethodMRDCA)
	require.True(t, ok)
	assert.NotContains(t, m.Scores, ScoreARI)
	assert.NotContains(t, m.Scores, ScoreNMI)
	for _, w := range summary.Best.Weights {
		assert.Len(t, w, 2)
		assert.InDelta(t, 1.0, w[0]+w[1], 1e-9)
	}
}

func TestRunner_Errors(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	unlabeled := DefaultConfig()
	unlabeled.Dataset = "toy:toy-views"
	_, err := r.Run(context.Background(), unlabeled)
	assert.Error(t, err, "k is required without labels")

	tooMany := blobsConfig()
	tooMany.K = 7
	_, err = r.Run(context.Background(), tooMany)
	assert.ErrorIs(t, err, mrdca.ErrTooManyClusters)

	badColumn := blobsConfig()
	badColumn.Views = []ViewSpec{{Metric: "euclidean", Columns: []int{5}}}
	_, err = r.Run(context.Background(), badColumn)
	assert.Error(t, err)

	missing := blobsConfig()
	missing.Dataset = "toy:nope"
	_, err = r.Run(context.Background(), missing)
	assert.ErrorIs(t, err, dataset.ErrUnknown)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(zerolog.Nop()).Run(ctx, blobsConfig())
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestBestTrial(t *testing.T) {
	trials := []Trial{
		{Method: MethodMRDCA, Index: 0, Scores: map[string]float64{ScoreCriterion: 5}},
		{Method: MethodMRDCA, Index: 1, Scores: map[string]float64{ScoreCriterion: 9, ScoreSilhouette: 0.4}},
		{Method: MethodKMeans, Index: 1, Scores: map[string]float64{ScoreSilhouette: 0.9}},
		{Method: MethodMRDCA, Index: 2, Scores: map[string]float64{ScoreCriterion: 1, ScoreSilhouette: 0.6}},
	}
	best := bestTrial(trials)
	require.NotNil(t, best)
	assert.Equal(t, 2, best.Index)

	// Without silhouettes the lowest criterion wins.
	best = bestTrial([]Trial{
		{Method: MethodMRDCA, Index: 0, Scores: map[string]float64{ScoreCriterion: 5}},
		{Method: MethodMRDCA, Index: 1, Scores: map[string]float64{ScoreCriterion: 2}},
	})
	assert.Equal(t, 1, best.Index)

	assert.Nil(t, bestTrial(nil))
}

func TestNewStat(t *testing.T) {
	assert.Equal(t, Stat{}, newStat(nil))
	assert.Equal(t, Stat{Mean: 3, N: 1}, newStat([]float64{3}))

	s := newStat([]float64{1, 3})
	assert.Equal(t, 2.0, s.Mean)
	assert.InDelta(t, 1.4142135623730951, s.Std, 1e-12)
	assert.Equal(t, 2, s.N)
}

func TestRunTrials_PanicFailsTrial(t *testing.T) {
	pool, err := ants.NewPool(2)
	require.NoError(t, err)
	defer pool.Release()

	var logs bytes.Buffer
	r := NewRunner(zerolog.New(&logs))
	results, err := r.runTrials(context.Background(), pool, 3, func(i int) ([]Trial, error) {
		if i == 1 {
			panic("boom")
		}
		return []Trial{{Index: i, Method: MethodMRDCA}}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trial 1 panicked: boom")
	require.Len(t, results, 3)
	assert.Nil(t, results[1])
	assert.Equal(t, 0, results[0][0].Index)
	assert.Equal(t, 2, results[2][0].Index)
	assert.Contains(t, logs.String(), "trial panicked")
}

func TestRunTrials_KeepsTrialOrder(t *testing.T) {
	pool, err := ants.NewPool(4)
	require.NoError(t, err)
	defer pool.Release()

	results, err := (&Runner{}).runTrials(context.Background(), pool, 8, func(i int) ([]Trial, error) {
		return []Trial{{Index: i}}, nil
	})
	require.NoError(t, err)
	for i, ts := range results {
		require.Len(t, ts, 1)
		assert.Equal(t, i, ts[0].Index)
	}
}
