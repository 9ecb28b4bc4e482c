package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/config"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/dataset"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/imaging"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/logging"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/metrics"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/pipeline"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/progress"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/report"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/seed"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/telemetry"
)

const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

const sampleColors = 5

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options are the command-line switches that never live in the config file.
type options struct {
	configPath string
	verbose    bool
	quiet      bool
	ascii      bool
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	if opts.verbose || opts.quiet {
		cfg.Log.Level = logging.LevelFor(opts.verbose, opts.quiet)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
	defer log.Sync() //nolint:errcheck

	params, err := seed.Derive(cfg.Seed)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	report.FormatHeader(stdout, cfg.Name, cfg.Seed, params.Threads, params.Processes, params.DataCount)

	folder, files, err := gatherDataset(cfg, params, stdout, log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
	if len(files) == 0 {
		fmt.Fprintf(stderr, "[ERROR] No images in folder %q. Run with -generate to create test data.\n", folder)
		return ExitError
	}
	fmt.Fprintf(stdout, "[INFO] Using %d images from '%s'\n", len(files), folder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	recorder := telemetry.NewRecorder(reg)
	if cfg.MetricsAddr != "" {
		srv := telemetry.NewServer(reg)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.MetricsAddr); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	pc, err := cfg.PipelineConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	prog := progress.NewProgress(opts.quiet)
	loader := imaging.NewLoader()
	loader.MaxBytes = cfg.MaxBytes
	processor := imaging.NewProcessor(log)
	runner := pipeline.NewRunner(pc, loader, processor,
		pipeline.WithLogger(log),
		pipeline.WithRecorder(recorder),
		pipeline.WithProgress(prog),
	)
	log.Info("pipeline ready",
		zap.String("strategy", pc.Strategy.String()),
		zap.Stringer("processor", processor),
		zap.Int64("max_bytes", loader.MaxBytes),
		zap.Int("io_rate", runner.IORate()),
	)

	prog.Start()
	var rows []report.Row
	if cfg.Experiment {
		rows, err = runExperiments(ctx, cfg, params, runner, files, prog, stdout)
	} else {
		rows, err = runMain(ctx, cfg, params, runner, files, prog, stdout, opts)
	}
	prog.Stop()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	if cfg.Thresholds != nil {
		results := cfg.Thresholds.Check(rows)
		report.FormatThresholds(stdout, results)
		if !results.Passed {
			fmt.Fprintln(stderr, "\nThreshold check failed!")
			return ExitThresholdFailed
		}
	}

	return ExitSuccess
}

func parseFlags(args []string, stderr io.Writer) (*config.Config, options, error) {
	var opts options
	fs := flag.NewFlagSet("pixbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "path to YAML config file")
	fs.BoolVar(&opts.verbose, "verbose", false, "log per-item failures and run details")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress progress output and non-error logs")
	fs.BoolVar(&opts.ascii, "ascii", false, "draw the summary box with ASCII characters")

	// Overrides. Only flags given explicitly replace config values.
	seedValue := fs.String("seed", config.DefaultSeed, "numeric seed deriving threads, processes and data count")
	name := fs.String("name", config.DefaultName, "name printed in the summary")
	folder := fs.String("folder", config.DefaultFolder, "image dataset folder")
	generate := fs.Bool("generate", false, "generate synthetic images when the folder is empty")
	subdir := fs.String("subdir", "", "prefer a subfolder with this name below -folder")
	include := fs.String("include", "", "only use images whose name matches this glob")
	heavy := fs.Bool("heavy", false, "run the heavy per-item workload")
	experiment := fs.Bool("experiment", false, "run the experiment matrix instead of the main comparison")
	matrix := fs.String("matrix", "", "CSV or JSON experiment matrix file")
	runs := fs.Int("runs", pipeline.DefaultRuns, "measured runs per experiment configuration")
	warmup := fs.Int("warmup", 0, "unmeasured runs before each experiment configuration")
	strategy := fs.String("strategy", pipeline.StrategyPhased.String(), "pool scheduling: phased or fused")
	chunkSize := fs.Int("chunk-size", 0, "fused strategy chunk size (0 = derived)")
	ioRate := fs.Int("io-rate", 0, "max image loads per second (0 = unlimited)")
	maxBytes := fs.Int64("max-bytes", 0, "drop image files larger than this many bytes (0 = no limit)")
	out := fs.String("out", config.DefaultOut, "output CSV file; ${seed}, ${strategy}, ${date(layout)} expand")
	noPlot := fs.Bool("no-plot", false, "skip chart generation")
	compare := fs.String("compare", "", "previous JSON report to compare against")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, opts, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seedValue
		case "name":
			cfg.Name = *name
		case "folder":
			cfg.Folder = *folder
		case "generate":
			cfg.Generate = *generate
		case "subdir":
			cfg.Subdir = *subdir
		case "include":
			cfg.Include = *include
		case "heavy":
			cfg.Heavy = *heavy
		case "experiment":
			cfg.Experiment = *experiment
		case "matrix":
			cfg.MatrixFile = *matrix
		case "runs":
			cfg.Runs = *runs
		case "warmup":
			cfg.Warmup = *warmup
		case "strategy":
			cfg.Strategy = *strategy
		case "chunk-size":
			cfg.ChunkSize = *chunkSize
		case "io-rate":
			cfg.IORateLimit = *ioRate
		case "max-bytes":
			cfg.MaxBytes = *maxBytes
		case "out":
			cfg.Out = *out
		case "no-plot":
			cfg.NoPlot = *noPlot
		case "compare":
			cfg.Compare = *compare
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	if err := cfg.ExpandPaths(time.Now()); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

// gatherDataset resolves the image folder and lists its images, generating
// a synthetic dataset when allowed and nothing was found.
func gatherDataset(cfg *config.Config, p seed.Params, stdout io.Writer, log *zap.Logger) (string, []string, error) {
	folder := cfg.Folder
	if cfg.Subdir != "" {
		sub, err := dataset.FindSubfolder(folder, cfg.Subdir)
		if err != nil {
			log.Debug("subfolder lookup", zap.Error(err))
			fmt.Fprintf(stdout, "[WARN] No '%s' folder below '%s', using it directly\n", cfg.Subdir, folder)
		} else {
			folder = sub
		}
	}

	opts := dataset.ListOptions{Max: p.DataCount, Include: cfg.Include}
	files, err := dataset.List(folder, opts)
	if err != nil {
		return folder, nil, err
	}

	if len(files) == 0 && cfg.Generate {
		fmt.Fprintf(stdout, "[INFO] Folder '%s' is empty or missing. Generating %d synthetic images...\n", folder, p.DataCount)
		if err := dataset.Generate(folder, p.DataCount, dataset.DefaultImageSize, p.RNGSeed); err != nil {
			return folder, nil, err
		}
		if files, err = dataset.List(folder, opts); err != nil {
			return folder, nil, err
		}
	}
	return folder, files, nil
}

func runMain(ctx context.Context, cfg *config.Config, p seed.Params, runner *pipeline.Runner, files []string, prog *progress.Progress, stdout io.Writer, opts options) ([]report.Row, error) {
	dataCount := len(files)

	fmt.Fprintln(stdout, "[RUN] Serial baseline (no concurrency)...")
	serial := runner.RunSerial(ctx, files)
	serialRow := report.SerialRow(serial, dataCount)
	report.FormatRun(stdout, serialRow)
	rows := []report.Row{serialRow}

	for _, spec := range seed.Configs(p, dataCount) {
		fmt.Fprintf(stdout, "[RUN] %s: threads=%d, processes=%d\n", spec.Label, spec.Threads, spec.Processes)
		res := runner.RunConfiguration(ctx, spec, files)
		row := report.ConfigRow(spec, res, serial.Elapsed, dataCount)
		report.FormatRun(stdout, row)
		rows = append(rows, row)
		if opts.verbose {
			report.FormatItemTimes(stdout, spec.Label, res.Items)
		}
	}
	prog.Stop()

	mean, std := metrics.GlobalAverage(serial.Items)
	varied := metrics.AuditVariation(serial.Items, metrics.DefaultVariationThreshold)

	summary := report.NewSummary(cfg.Name, cfg.Seed, p, rows)
	summary.Strategy = cfg.Strategy
	summary.Heavy = cfg.Heavy
	summary.AvgColor = mean
	summary.StdDev = std
	summary.Variation = varied

	jsonPath, plotPath := report.SiblingPaths(cfg.Out)
	if err := report.WriteCSV(cfg.Out, rows); err != nil {
		return nil, err
	}
	if err := report.WriteJSON(jsonPath, summary); err != nil {
		return nil, err
	}
	fmt.Fprintf(stdout, "[OK] Results saved to %s and %s\n", cfg.Out, jsonPath)

	if cfg.NoPlot {
		fmt.Fprintln(stdout, "[INFO] Plot generation skipped (-no-plot).")
	} else {
		if err := report.WritePlot(plotPath, rows); err != nil {
			return nil, err
		}
		fmt.Fprintf(stdout, "[OK] Plot saved to %s\n", plotPath)
	}

	report.FormatTable(stdout, rows)

	if cfg.Compare != "" {
		if err := compareWith(cfg.Compare, rows, stdout); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(stdout, "")
	nim := rows[1]
	report.FormatBox(stdout, report.Box{
		Name:       cfg.Name,
		Seed:       cfg.Seed,
		Threads:    p.Threads,
		Processes:  p.Processes,
		Data:       dataCount,
		TotalTime:  nim.TimeSeconds,
		Speedup:    nim.Speedup,
		Efficiency: nim.EfficiencyPercent,
	}, opts.ascii)
	report.FormatColors(stdout, report.Samples(serial.Items, sampleColors), mean, std, varied)

	return rows, nil
}

func runExperiments(ctx context.Context, cfg *config.Config, p seed.Params, runner *pipeline.Runner, files []string, prog *progress.Progress, stdout io.Writer) ([]report.Row, error) {
	specs, err := cfg.Experiments(p)
	if err != nil {
		return nil, err
	}

	for _, spec := range specs {
		fmt.Fprintf(stdout, "[EXPERIMENT] %s: threads=%d, processes=%d, data=%d\n",
			spec.Label, spec.Threads, spec.Processes, spec.DataCount)
	}
	records := runner.RunExperiments(ctx, specs, files, cfg.Runs)
	prog.Stop()

	if _, ok := pipeline.SerialBaseline(records); !ok {
		fmt.Fprintln(stdout, "[WARN] No 1x1 configuration in the matrix; speedups default to 1.")
	}

	dir := filepath.Dir(cfg.Out)
	csvPath := filepath.Join(dir, "experiments.csv")
	jsonPath := filepath.Join(dir, "experiments.json")
	if err := report.WriteExperimentsCSV(csvPath, records); err != nil {
		return nil, err
	}
	if err := report.WriteExperimentsJSON(jsonPath, records); err != nil {
		return nil, err
	}
	fmt.Fprintf(stdout, "[OK] Experiments saved to %s and %s\n", csvPath, jsonPath)

	if !cfg.NoPlot {
		if err := report.WriteExperimentPlots(dir, records); err != nil {
			return nil, err
		}
		fmt.Fprintf(stdout, "[OK] Plots saved to %s\n", dir)
	}

	fmt.Fprintln(stdout, "")
	report.FormatExperimentsTable(stdout, records)
	return report.ExperimentRows(records), nil
}

func compareWith(path string, rows []report.Row, stdout io.Writer) error {
	previous, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading previous report: %w", core.ErrConfiguration, err)
	}
	deltas, err := report.Compare(previous, rows)
	if err != nil {
		return err
	}
	report.FormatComparison(stdout, deltas)
	return nil
}
