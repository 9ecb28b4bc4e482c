package pipeline

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/metrics"
)

// ExperimentRecord is one configuration's outcome after repeated runs.
type ExperimentRecord struct {
	Label             string
	Threads           int
	Processes         int
	DataCount         int
	MedianTime        time.Duration
	Throughput        float64
	Speedup           float64
	EfficiencyPercent float64
	Times             []time.Duration
	AvgRGB            core.RGB
	ColorName         string
	Failed            int
	Dropped           int
}

// Serial reports whether the record is a single-worker baseline.
func (e ExperimentRecord) Serial() bool {
	return e.Threads == 1 && e.Processes == 1
}

// RunExperiments runs every spec runs times (DefaultRuns when runs <= 0)
// over the first DataCount paths (all of them when DataCount is not positive),
// after Config.Warmup unmeasured runs.
// Speedups use the median time of the first 1x1 spec as the baseline for
// the whole batch; without one every speedup is 1.
func (r *Runner) RunExperiments(ctx context.Context, specs []core.ConfigSpec, paths []string, runs int) []ExperimentRecord {
	if runs <= 0 {
		runs = DefaultRuns
	}

	records := make([]ExperimentRecord, 0, len(specs))
	for _, spec := range specs {
		records = append(records, r.runExperiment(ctx, spec, paths, runs))
	}

	ApplyBaseline(records)
	for _, rec := range records {
		r.recorder.Result(rec.Label, rec.Speedup, rec.EfficiencyPercent)
	}
	return records
}

// ApplyBaseline fills Speedup and EfficiencyPercent of every record from
// the batch's serial baseline.
func ApplyBaseline(records []ExperimentRecord) {
	baseline, ok := SerialBaseline(records)
	for i := range records {
		rec := &records[i]
		rec.Speedup = 1.0
		if ok && baseline > 0 && rec.MedianTime > 0 {
			rec.Speedup = metrics.Speedup(baseline, rec.MedianTime)
		}
		rec.EfficiencyPercent = metrics.Efficiency(rec.Speedup, rec.Processes)
	}
}

func (r *Runner) runExperiment(ctx context.Context, spec core.ConfigSpec, paths []string, runs int) ExperimentRecord {
	n := len(paths)
	if spec.DataCount > 0 && spec.DataCount < n {
		n = spec.DataCount
	}
	subset := paths[:n]

	r.log.Info("running experiment",
		zap.String("label", spec.Label),
		zap.Int("threads", spec.Threads),
		zap.Int("processes", spec.Processes),
		zap.Int("data", n),
	)

	run := func() core.RunResult {
		if spec.IsSerial() {
			return r.RunSerial(ctx, subset)
		}
		return r.RunConfiguration(ctx, spec, subset)
	}

	for i := 0; i < r.cfg.Warmup; i++ {
		run()
	}

	times := make([]time.Duration, 0, runs)
	var last core.RunResult
	for i := 0; i < runs; i++ {
		last = run()
		times = append(times, last.Elapsed)
		r.log.Debug("experiment run",
			zap.String("label", spec.Label),
			zap.Int("run", i+1),
			zap.Duration("elapsed", last.Elapsed),
		)
	}

	median := metrics.Median(times)
	throughput := math.Inf(1)
	if median > 0 {
		throughput = float64(n) / median.Seconds()
	}
	avg, _ := metrics.GlobalAverage(last.Items)
	name, _ := metrics.NearestColor(avg)

	return ExperimentRecord{
		Label:      spec.Label,
		Threads:    spec.Threads,
		Processes:  spec.Processes,
		DataCount:  n,
		MedianTime: median,
		Throughput: throughput,
		Times:      times,
		AvgRGB:     avg,
		ColorName:  name,
		Failed:     last.Failed,
		Dropped:    last.Dropped,
	}
}

// SerialBaseline returns the median time of the first 1x1 record.
func SerialBaseline(records []ExperimentRecord) (time.Duration, bool) {
	for _, rec := range records {
		if rec.Serial() {
			return rec.MedianTime, true
		}
	}
	return 0, false
}
