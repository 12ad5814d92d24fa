package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TrevorS/mrdca/internal/dataset"
	"github.com/TrevorS/mrdca/internal/experiment"
	"github.com/TrevorS/mrdca/internal/report"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		configPath string
		views      []string
	)
	flagCfg := experiment.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run repeated clustering trials and write a report",
		Long: `Run loads a data set, builds one dissimilarity view per metric and runs
independent trials of the solver and the requested baselines.

The experiment comes from --config, a YAML file; flags that are set
explicitly override the file. Without --config, --data is required.`,
		Example: `  mrdca run --data toy:toy-blobs --trials 20 --baselines kmeans
  mrdca run --data iris.csv --header --label-col species --views euclidean,cosine --out results
  mrdca run --config experiment.yaml --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := experiment.DefaultConfig()
			if configPath != "" {
				loaded, err := experiment.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			overrideConfig(cmd, &cfg, flagCfg, views)
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.log.Debug().
				Str("dataset", cfg.Dataset).
				Str("views", describeViews(cfg.Views)).
				Int("k", cfg.K).
				Int("trials", cfg.Trials).
				Msg("configuration")

			ds, err := dataset.Load(cfg.Dataset, uint64(cfg.Seed), dataset.CSVOptions{
				Header:      cfg.Header,
				LabelColumn: cfg.LabelColumn,
			})
			if err != nil {
				return err
			}
			summary, err := experiment.NewRunner(a.log).RunDataset(cmd.Context(), cfg, ds)
			if err != nil {
				return err
			}

			if err := report.WriteText(a.out, summary); err != nil {
				return err
			}
			if cfg.OutputDir == "" {
				return nil
			}
			written, err := report.WriteAll(cfg.OutputDir, summary, ds)
			if err != nil {
				return err
			}
			a.log.Info().Strs("files", written).Msg("report written")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML experiment file")
	f.StringVarP(&flagCfg.Dataset, "data", "d", "", "Data set: toy:<name>, blobs:<n>x<k>x<d> or a CSV path")
	f.BoolVar(&flagCfg.Header, "header", false, "CSV file has a header row")
	f.StringVar(&flagCfg.LabelColumn, "label-col", "", "CSV class column (name or index)")
	f.StringSliceVar(&views, "views", []string{"euclidean"}, "Comma-separated metric per view")
	f.IntVar(&flagCfg.K, "k", 0, "Number of clusters (0 = number of classes)")
	f.IntVarP(&flagCfg.Trials, "trials", "n", flagCfg.Trials, "Number of trials")
	f.Int64Var(&flagCfg.Seed, "seed", 0, "Seed of the first trial")
	f.IntVar(&flagCfg.MaxIter, "max-iter", flagCfg.MaxIter, "Maximum solver iterations per trial")
	f.StringVar(&flagCfg.ZeroSum, "zero-sum", flagCfg.ZeroSum, "Zero-dispersion policy (uniform|epsilon)")
	f.StringSliceVar(&flagCfg.Baselines, "baselines", nil, "Baselines to compare (kmeans,ensemble,linkage)")
	f.IntVarP(&flagCfg.Workers, "workers", "w", flagCfg.Workers, "Concurrent trials")
	f.StringVarP(&flagCfg.OutputDir, "out", "o", "", "Directory for report files")
	f.BoolVar(&flagCfg.Plot, "plot", false, "Write a scatter plot of the best trial")
	return cmd
}

// overrideConfig copies every flag the user set into cfg.
func overrideConfig(cmd *cobra.Command, cfg *experiment.Config, flags experiment.Config, views []string) {
	set := cmd.Flags().Changed
	if set("data") {
		cfg.Dataset = flags.Dataset
	}
	if set("header") {
		cfg.Header = flags.Header
	}
	if set("label-col") {
		cfg.LabelColumn = flags.LabelColumn
	}
	if set("views") {
		cfg.Views = nil
		for _, v := range views {
			cfg.Views = append(cfg.Views, experiment.ViewSpec{Metric: strings.TrimSpace(v)})
		}
	}
	if set("k") {
		cfg.K = flags.K
	}
	if set("trials") {
		cfg.Trials = flags.Trials
	}
	if set("seed") {
		cfg.Seed = flags.Seed
	}
	if set("max-iter") {
		cfg.MaxIter = flags.MaxIter
	}
	if set("zero-sum") {
		cfg.ZeroSum = flags.ZeroSum
	}
	if set("baselines") {
		cfg.Baselines = flags.Baselines
	}
	if set("workers") {
		cfg.Workers = flags.Workers
	}
	if set("out") {
		cfg.OutputDir = flags.OutputDir
	}
	if set("plot") {
		cfg.Plot = flags.Plot
	}
}

func describeViews(views []experiment.ViewSpec) string {
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = v.String()
	}
	return fmt.Sprint(names)
}
