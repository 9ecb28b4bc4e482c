// Package pipeline runs the two-stage image benchmark: an I/O pool that
// loads items and a CPU pool that reduces them, plus the serial baseline and
// multi-configuration experiments built on top.
package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/progress"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/telemetry"
)

// DefaultRuns is the number of measured runs per experiment configuration.
const DefaultRuns = 3

// Strategy selects how a configuration run schedules its pools.
type Strategy int

const (
	// StrategyPhased loads every item with the I/O pool, then processes the
	// loaded items with the CPU pool. Results arrive in completion order.
	StrategyPhased Strategy = iota
	// StrategyFused skips the separate load phase: CPU workers load and
	// process chunks of paths. Results keep submission order.
	StrategyFused
)

func (s Strategy) String() string {
	switch s {
	case StrategyPhased:
		return "phased"
	case StrategyFused:
		return "fused"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a strategy name to its value. Empty means phased.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "phased":
		return StrategyPhased, nil
	case "fused":
		return StrategyFused, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", core.ErrConfiguration, name)
	}
}

// Config holds everything a Runner needs besides its collaborators.
type Config struct {
	Heavy       bool     // run the heavy per-item workload
	Strategy    Strategy // pool scheduling for configuration runs
	ChunkSize   int      // fused chunk size, 0 derives it from the item count
	IORateLimit int      // loads per second across the I/O pool, 0 = unlimited
	Warmup      int      // unmeasured runs before each experiment configuration
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for per-item failures and run summaries.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRecorder publishes pool activity to a telemetry recorder.
func WithRecorder(rec *telemetry.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithProgress ticks p for every finished item.
func WithProgress(p *progress.Progress) Option {
	return func(r *Runner) { r.progress = p }
}

// WithClock replaces the clock used to time runs.
func WithClock(c core.Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}
