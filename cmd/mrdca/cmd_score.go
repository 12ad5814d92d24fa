package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorS/mrdca"
	"github.com/TrevorS/mrdca/internal/dataset"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		data     string
		header   bool
		labelCol string
		metric   string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print internal validity scores of a labeled data set",
		Long: `Score treats the class labels of a data set as a clustering and prints
its silhouette under --metric and its Davies-Bouldin index.`,
		Example: `  mrdca score
  mrdca score --data points.csv --header --label-col cluster --metric manhattan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mrdca.MetricByName(metric)
			if err != nil {
				return err
			}
			ds, err := dataset.Load(data, 0, dataset.CSVOptions{Header: header, LabelColumn: labelCol})
			if err != nil {
				return err
			}
			if !ds.Labeled() {
				return errors.New("score needs labels: set --label-col")
			}
			dist, err := mrdca.DissimilarityMatrix(ds.Features, m)
			if err != nil {
				return err
			}
			sil, err := mrdca.Silhouette(dist, ds.Labels)
			if err != nil {
				return err
			}
			db, err := mrdca.DaviesBouldin(ds.Features, ds.Labels)
			if err != nil {
				return err
			}
			a.log.Debug().Str("dataset", ds.Name).Int("objects", ds.Len()).Msg("scored")

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Dataset:        %s (%d objects, %d clusters)\n", ds.Name, ds.Len(), ds.NumClasses())
			fmt.Fprintf(w, "Silhouette:     %.4f (%s)\n", sil, mrdca.MetricName(m))
			fmt.Fprintf(w, "Davies-Bouldin: %.4f\n", db)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&data, "data", "d", "toy:toy-scores", "Data set: toy:<name>, blobs:<n>x<k>x<d> or a CSV path")
	f.BoolVar(&header, "header", false, "CSV file has a header row")
	f.StringVar(&labelCol, "label-col", "", "CSV class column (name or index)")
	f.StringVarP(&metric, "metric", "m", "euclidean", "Dissimilarity for the silhouette")
	return cmd
}
