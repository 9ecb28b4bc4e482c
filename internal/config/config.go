// Package config handles the benchmark's YAML configuration, its
// environment overlay and experiment matrices.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/logging"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/pipeline"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/report"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/seed"
)

// EnvPrefix prefixes every environment override, e.g. PIXBENCH_SEED.
const EnvPrefix = "PIXBENCH"

// Defaults for the identity of a run.
const (
	DefaultName   = "Matin Rusydan"
	DefaultSeed   = "237006030"
	DefaultFolder = "data"
	DefaultOut    = "results/results.csv"
)

// Config is the root configuration structure.
type Config struct {
	Name   string `yaml:"name" envconfig:"NAME"`
	Seed   string `yaml:"seed" envconfig:"SEED"`
	Folder string `yaml:"folder" envconfig:"FOLDER"`

	Generate bool   `yaml:"generate" envconfig:"GENERATE"`
	Subdir   string `yaml:"subdir" envconfig:"SUBDIR"`   // preferred subfolder below Folder
	Include  string `yaml:"include" envconfig:"INCLUDE"` // doublestar pattern

	Heavy       bool   `yaml:"heavy" envconfig:"HEAVY"`
	Experiment  bool   `yaml:"experiment" envconfig:"EXPERIMENT"`
	Runs        int    `yaml:"runs" envconfig:"RUNS"`
	Warmup      int    `yaml:"warmup" envconfig:"WARMUP"`
	Strategy    string `yaml:"strategy" envconfig:"STRATEGY"`
	ChunkSize   int    `yaml:"chunk_size" envconfig:"CHUNK_SIZE"`
	IORateLimit int    `yaml:"io_rate_limit" envconfig:"IO_RATE_LIMIT"`
	MaxBytes    int64  `yaml:"max_bytes" envconfig:"MAX_BYTES"` // per-image file size cap, 0 = none

	Out         string `yaml:"out" envconfig:"OUT"`
	NoPlot      bool   `yaml:"no_plot" envconfig:"NO_PLOT"`
	Compare     string `yaml:"compare" envconfig:"COMPARE"`
	MetricsAddr string `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`

	Log        logging.Config     `yaml:"log" envconfig:"LOG"`
	Thresholds *report.Thresholds `yaml:"thresholds,omitempty" ignored:"true"`
	Matrix     []core.ConfigSpec  `yaml:"experiments,omitempty" ignored:"true"`
	MatrixFile string             `yaml:"matrix_file" envconfig:"MATRIX_FILE"`
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		Name:     DefaultName,
		Seed:     DefaultSeed,
		Folder:   DefaultFolder,
		Runs:     pipeline.DefaultRuns,
		Strategy: pipeline.StrategyPhased.String(),
		Out:      DefaultOut,
		Log:      logging.DefaultConfig(),
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays PIXBENCH_* environment variables. Unset variables leave
// the current values alone.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("%w: environment: %w", core.ErrConfiguration, err)
	}
	return nil
}

// Validate rejects configurations no run can start from.
func (c *Config) Validate() error {
	if _, err := seed.Derive(c.Seed); err != nil {
		return err
	}
	if _, err := pipeline.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	switch {
	case c.Folder == "":
		return fmt.Errorf("%w: folder must not be empty", core.ErrConfiguration)
	case c.Out == "":
		return fmt.Errorf("%w: output path must not be empty", core.ErrConfiguration)
	case c.Runs <= 0:
		return fmt.Errorf("%w: runs must be positive, got %d", core.ErrConfiguration, c.Runs)
	case c.Warmup < 0:
		return fmt.Errorf("%w: warmup must not be negative, got %d", core.ErrConfiguration, c.Warmup)
	case c.ChunkSize < 0:
		return fmt.Errorf("%w: chunk_size must not be negative, got %d", core.ErrConfiguration, c.ChunkSize)
	case c.IORateLimit < 0:
		return fmt.Errorf("%w: io_rate_limit must not be negative, got %d", core.ErrConfiguration, c.IORateLimit)
	case c.MaxBytes < 0:
		return fmt.Errorf("%w: max_bytes must not be negative, got %d", core.ErrConfiguration, c.MaxBytes)
	}
	for i, spec := range c.Matrix {
		if err := validateSpec(spec); err != nil {
			return fmt.Errorf("experiment %d: %w", i+1, err)
		}
	}
	return nil
}

// PipelineConfig converts the run settings into a pipeline.Config.
func (c *Config) PipelineConfig() (pipeline.Config, error) {
	strategy, err := pipeline.ParseStrategy(c.Strategy)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		Heavy:       c.Heavy,
		Strategy:    strategy,
		ChunkSize:   c.ChunkSize,
		IORateLimit: c.IORateLimit,
		Warmup:      c.Warmup,
	}, nil
}

// Experiments returns the experiment matrix: the inline one, else the one
// loaded from MatrixFile, else DefaultMatrix.
func (c *Config) Experiments(p seed.Params) ([]core.ConfigSpec, error) {
	if len(c.Matrix) > 0 {
		return c.Matrix, nil
	}
	if c.MatrixFile != "" {
		return LoadMatrix(c.MatrixFile)
	}
	return DefaultMatrix(p), nil
}

func validateSpec(spec core.ConfigSpec) error {
	if spec.Threads < 1 || spec.Processes < 1 {
		return fmt.Errorf("%w: %q needs at least one thread and one process", core.ErrConfiguration, spec.Label)
	}
	if spec.DataCount < 0 {
		return fmt.Errorf("%w: %q has negative data count", core.ErrConfiguration, spec.Label)
	}
	return nil
}
