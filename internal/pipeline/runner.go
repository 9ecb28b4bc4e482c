package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/metrics"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/progress"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/ratelimit"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/telemetry"
)

// Runner executes serial, single-configuration and experiment runs.
// Runs never fail as a whole: per-item errors are folded into the result
// counts. A Runner may be reused for any number of runs.
type Runner struct {
	cfg       Config
	loader    core.Loader
	processor core.Processor
	limiter   *ratelimit.Limiter
	log       *zap.Logger
	recorder  *telemetry.Recorder
	progress  *progress.Progress
	clock     core.Clock
}

// NewRunner creates a Runner. loader and processor must be safe for
// concurrent use.
func NewRunner(cfg Config, loader core.Loader, processor core.Processor, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		loader:    loader,
		processor: processor,
		log:       zap.NewNop(),
		clock:     core.RealClock{},
	}
	if cfg.IORateLimit > 0 {
		r.limiter = ratelimit.New(cfg.IORateLimit)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// IORate returns the I/O pool's loads per second, zero when unlimited.
func (r *Runner) IORate() int {
	return r.limiter.Rate()
}

// RunSerial loads and processes every path inline, in input order.
func (r *Runner) RunSerial(ctx context.Context, paths []string) core.RunResult {
	r.progress.Begin("serial", len(paths))
	start := r.clock.Now()

	var (
		items          = make([]core.ItemResult, 0, len(paths))
		dropped        int
		loadElapsed    time.Duration
		computeElapsed time.Duration
	)
	for _, path := range paths {
		r.throttle(ctx)

		t := r.clock.Now()
		item, err := r.load(path)
		loadElapsed += r.clock.Since(t)
		if err != nil {
			dropped++
			r.progress.Tick(false)
			continue
		}

		t = r.clock.Now()
		res := r.process(item)
		computeElapsed += r.clock.Since(t)
		items = append(items, res)
		r.progress.Tick(res.OK())
	}

	elapsed := r.clock.Since(start)
	r.recorder.RunDone("serial", elapsed)
	return r.finish("serial", items, dropped, elapsed, loadElapsed, computeElapsed)
}

// RunConfiguration runs paths through the worker pools of spec using the
// configured strategy.
func (r *Runner) RunConfiguration(ctx context.Context, spec core.ConfigSpec, paths []string) core.RunResult {
	threads := max(1, spec.Threads)
	procs := max(1, spec.Processes)

	label := spec.Label
	if label == "" {
		label = fmt.Sprintf("t%d_p%d", threads, procs)
	}

	if r.cfg.Strategy == StrategyFused {
		return r.runFused(ctx, label, procs, paths)
	}
	return r.runPhased(ctx, label, threads, procs, paths)
}

func (r *Runner) runPhased(ctx context.Context, label string, threads, procs int, paths []string) core.RunResult {
	r.progress.Begin(label, len(paths))

	loadStart := r.clock.Now()
	loaded, dropped := r.loadAll(ctx, threads, paths)
	loadElapsed := r.clock.Since(loadStart)

	computeStart := r.clock.Now()
	items := r.processAll(procs, loaded)
	computeElapsed := r.clock.Since(computeStart)

	elapsed := loadElapsed + computeElapsed
	r.recorder.RunDone(StrategyPhased.String(), elapsed)
	return r.finish(label, items, dropped, elapsed, loadElapsed, computeElapsed)
}

func (r *Runner) runFused(ctx context.Context, label string, procs int, paths []string) core.RunResult {
	r.progress.Begin(label, len(paths))

	start := r.clock.Now()
	items, dropped := r.mapChunks(ctx, procs, paths)
	elapsed := r.clock.Since(start)

	r.recorder.RunDone(StrategyFused.String(), elapsed)
	return r.finish(label, items, dropped, elapsed, 0, elapsed)
}

// finish derives the aggregate figures of a run.
func (r *Runner) finish(label string, items []core.ItemResult, dropped int, elapsed, loadElapsed, computeElapsed time.Duration) core.RunResult {
	res := core.RunResult{
		Elapsed:        elapsed,
		LoadElapsed:    loadElapsed,
		ComputeElapsed: computeElapsed,
		Items:          items,
		Dropped:        dropped,
	}
	for _, it := range items {
		if it.OK() {
			res.Count++
		} else {
			res.Failed++
		}
	}
	res.Throughput = metrics.Throughput(res.Count, elapsed)

	r.log.Debug("run finished",
		zap.String("run", label),
		zap.Duration("elapsed", elapsed),
		zap.Int("ok", res.Count),
		zap.Int("failed", res.Failed),
		zap.Int("dropped", res.Dropped),
	)
	return res
}

// throttle waits for the I/O rate limiter. A done context ends the wait
// early but never cancels the load itself.
func (r *Runner) throttle(ctx context.Context) {
	if err := r.limiter.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.log.Debug("rate limiter wait", zap.Error(err))
	}
}

// load calls the loader, turning a panic into a load error.
func (r *Runner) load(path string) (item core.WorkItem, err error) {
	start := r.clock.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: panic: %v", core.ErrLoad, path, rec)
		} else if err != nil && !errors.Is(err, core.ErrLoad) {
			err = fmt.Errorf("%w: %w", core.ErrLoad, err)
		}
		r.recorder.ItemDone(telemetry.PoolIO, err == nil, r.clock.Since(start))
		if err != nil {
			r.log.Debug("item dropped", zap.String("path", path), zap.Error(err))
		}
	}()
	return r.loader.Load(path)
}

// process calls the processor, turning a panic into a failed result.
func (r *Runner) process(item core.WorkItem) (res core.ItemResult) {
	start := r.clock.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = core.Failed(item.Name, fmt.Errorf("%w: panic: %v", core.ErrProcess, rec), r.clock.Since(start))
		}
		r.recorder.ItemDone(telemetry.PoolCPU, res.OK(), r.clock.Since(start))
		if !res.OK() {
			r.log.Debug("item failed", zap.String("item", res.Label), zap.Error(res.Err))
		}
	}()
	return r.processor.Process(item, r.cfg.Heavy)
}

// spawn starts n workers of pool running fn and returns a channel closed
// once all of them have returned.
func (r *Runner) spawn(pool string, n int, fn func()) <-chan struct{} {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.recorder.WorkerStarted(pool)
			defer r.recorder.WorkerStopped(pool)
			fn()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
