// Package experiment runs repeated clustering trials on a data set and
// summarizes their scores.
package experiment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/TrevorS/mrdca"
)

// Baseline method names accepted in Config.Baselines.
const (
	MethodMRDCA    = "mrdca"
	MethodKMeans   = "kmeans"
	MethodEnsemble = "ensemble"
	MethodLinkage  = "linkage"
)

var baselines = []string{MethodKMeans, MethodEnsemble, MethodLinkage}

// ViewSpec describes one dissimilarity view: a metric applied to a subset
// of the feature columns.
type ViewSpec struct {
	// Metric is a name accepted by mrdca.MetricByName.
	Metric string `yaml:"metric" json:"metric"`

	// Columns selects feature columns by 0-based index. Empty means all.
	Columns []int `yaml:"columns,omitempty" json:"columns,omitempty"`
}

func (v ViewSpec) String() string {
	if len(v.Columns) == 0 {
		return v.Metric
	}
	return fmt.Sprintf("%s%v", v.Metric, v.Columns)
}

// Config is an experiment description, usually read from YAML.
type Config struct {
	// Dataset is a spec accepted by dataset.Load.
	Dataset string `yaml:"dataset" json:"dataset"`

	// Header marks the first CSV record as column names.
	Header bool `yaml:"header" json:"header"`

	// LabelColumn selects the CSV class column by name or index.
	LabelColumn string `yaml:"label_column" json:"label_column,omitempty"`

	// Views lists the dissimilarity views, in order. The first view is the
	// one silhouette scores are computed on.
	Views []ViewSpec `yaml:"views" json:"views"`

	// K is the number of clusters. 0 uses the number of ground-truth
	// classes.
	K int `yaml:"k" json:"k"`

	// Trials is the number of independent runs per method.
	Trials int `yaml:"trials" json:"trials"`

	// MaxIter caps the solver iterations per trial.
	MaxIter int `yaml:"max_iter" json:"max_iter"`

	// Seed is the seed of trial 0; trial i uses Seed+i.
	Seed int64 `yaml:"seed" json:"seed"`

	// ZeroSum is the solver's zero-dispersion policy.
	ZeroSum string `yaml:"zero_sum" json:"zero_sum"`

	// Baselines lists extra methods run on the same trials.
	Baselines []string `yaml:"baselines" json:"baselines,omitempty"`

	// Workers bounds the number of trials run at once and the goroutines
	// used to build views.
	Workers int `yaml:"workers" json:"workers"`

	// OutputDir receives the report files. Empty disables export.
	OutputDir string `yaml:"output_dir" json:"output_dir,omitempty"`

	// Plot adds a scatter plot of the best trial to the report.
	Plot bool `yaml:"plot" json:"plot"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Views:   []ViewSpec{{Metric: "euclidean"}},
		Trials:  10,
		MaxIter: 100,
		ZeroSum: string(mrdca.ZeroSumUniform),
		Workers: 4,
	}
}

// LoadConfig reads a YAML experiment file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("experiment: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("experiment: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that do not depend on the data set.
func (c *Config) Validate() error {
	switch {
	case c.Dataset == "":
		return errors.New("config: dataset is required")
	case len(c.Views) == 0:
		return errors.New("config: at least one view is required")
	case c.K < 0:
		return fmt.Errorf("config: k must be >= 0, got %d", c.K)
	case c.Trials < 1:
		return fmt.Errorf("config: trials must be >= 1, got %d", c.Trials)
	case c.MaxIter < 1:
		return fmt.Errorf("config: max_iter must be >= 1, got %d", c.MaxIter)
	case c.Workers < 1:
		return fmt.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	switch mrdca.ZeroSumPolicy(c.ZeroSum) {
	case mrdca.ZeroSumUniform, mrdca.ZeroSumEpsilon:
	default:
		return fmt.Errorf("config: unknown zero_sum policy %q", c.ZeroSum)
	}
	for i, v := range c.Views {
		if _, err := mrdca.MetricByName(v.Metric); err != nil {
			return fmt.Errorf("config: view %d: %w", i, err)
		}
		for _, col := range v.Columns {
			if col < 0 {
				return fmt.Errorf("config: view %d: negative column %d", i, col)
			}
		}
	}
	for _, b := range c.Baselines {
		if !slices.Contains(baselines, b) {
			return fmt.Errorf("config: unknown baseline %q (have %v)", b, baselines)
		}
	}
	return nil
}

// Methods returns the methods the experiment runs, the solver first.
func (c *Config) Methods() []string {
	methods := []string{MethodMRDCA}
	for _, b := range baselines {
		if slices.Contains(c.Baselines, b) {
			methods = append(methods, b)
		}
	}
	return methods
}

func (c *Config) wants(method string) bool {
	return slices.Contains(c.Baselines, method)
}
