// Package core defines the fundamental types and collaborator interfaces
// shared by the pipeline runner, the image collaborators and the reports.
package core

import (
	"image"
	"time"
)

// RGB holds a per-channel value triple on the 0..255 scale.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Slice returns the channels in R, G, B order.
func (c RGB) Slice() []float64 {
	return []float64{c.R, c.G, c.B}
}

// WorkItem is one unit of work: a source path plus its decoded payload.
// Image is nil until a Loader has filled it.
type WorkItem struct {
	Path   string
	Name   string
	Image  *image.RGBA
	Width  int
	Height int
	Size   int64 // encoded size on disk
}

// Outcome tags an ItemResult as usable or failed.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFailed
)

func (o Outcome) String() string {
	if o == OutcomeFailed {
		return "failed"
	}
	return "ok"
}

// ItemResult is the outcome of processing one WorkItem.
// Channels is only meaningful when Outcome is OutcomeOK; Err is only set
// when Outcome is OutcomeFailed.
type ItemResult struct {
	Label    string
	Outcome  Outcome
	Channels RGB
	Err      error
	Elapsed  time.Duration
}

// Succeeded builds an OK result.
func Succeeded(label string, channels RGB, elapsed time.Duration) ItemResult {
	return ItemResult{Label: label, Outcome: OutcomeOK, Channels: channels, Elapsed: elapsed}
}

// Failed builds a failed result that keeps the item's label.
func Failed(label string, err error, elapsed time.Duration) ItemResult {
	return ItemResult{Label: label, Outcome: OutcomeFailed, Err: err, Elapsed: elapsed}
}

// OK reports whether the channels carry a valid measurement.
func (r ItemResult) OK() bool {
	return r.Outcome == OutcomeOK
}

// RunResult aggregates one pipeline execution.
type RunResult struct {
	Elapsed        time.Duration
	LoadElapsed    time.Duration
	ComputeElapsed time.Duration
	Throughput     float64 // Count per second, +Inf when Elapsed is zero
	Items          []ItemResult
	Count          int // items that processed successfully
	Failed         int // items kept with a failed outcome
	Dropped        int // items whose load failed
}

// ConfigSpec is a concrete configuration under benchmark.
type ConfigSpec struct {
	Label     string `yaml:"label" json:"label"`
	Threads   int    `yaml:"threads" json:"threads"`
	Processes int    `yaml:"processes" json:"processes"`
	DataCount int    `yaml:"data" json:"data"`
}

// IsSerial reports whether the configuration is the single-worker baseline.
func (c ConfigSpec) IsSerial() bool {
	return c.Threads == 1 && c.Processes == 1
}

// Loader fetches and decodes the item stored at path.
// Implementations must be safe for concurrent use.
type Loader interface {
	Load(path string) (WorkItem, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (WorkItem, error)

// Load implements Loader.
func (f LoaderFunc) Load(path string) (WorkItem, error) {
	return f(path)
}

// Processor reduces a loaded item to its channel summary.
// Implementations never panic out and report failures as a failed result.
type Processor interface {
	Process(item WorkItem, heavy bool) ItemResult
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(item WorkItem, heavy bool) ItemResult

// Process implements Processor.
func (f ProcessorFunc) Process(item WorkItem, heavy bool) ItemResult {
	return f(item, heavy)
}
