// Package progress prints a live item counter to stderr while a pipeline
// run is in flight.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Progress tracks completed items of the current phase. A nil *Progress
// ignores every call.
type Progress struct {
	label    string
	total    atomic.Int64
	done     atomic.Int64
	failed   atomic.Int64
	begun    time.Time
	interval time.Duration
	ticker   *time.Ticker
	stopCh   chan struct{}
	stopped  atomic.Bool
	quiet    bool
	output   io.Writer
	mu       sync.Mutex
}

func NewProgress(quiet bool) *Progress {
	return &Progress{
		quiet:    quiet,
		interval: time.Second,
		output:   os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// SetInterval changes how often the counter line is redrawn. Call before Start.
func (p *Progress) SetInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// Begin resets the counters for a new phase of total items.
func (p *Progress) Begin(label string, total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.label = label
	p.begun = time.Now()
	p.mu.Unlock()
	p.total.Store(int64(total))
	p.done.Store(0)
	p.failed.Store(0)
}

// Tick counts one finished item.
func (p *Progress) Tick(ok bool) {
	if p == nil {
		return
	}
	p.done.Add(1)
	if !ok {
		p.failed.Add(1)
	}
}

// Counts returns the finished, failed and expected item counts.
func (p *Progress) Counts() (done, failed, total int64) {
	return p.done.Load(), p.failed.Load(), p.total.Load()
}

func (p *Progress) Start() {
	if p.quiet {
		return
	}
	p.stopCh = make(chan struct{})
	p.ticker = time.NewTicker(p.interval)
	go p.run()
}

func (p *Progress) run() {
	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			p.printProgress()
		}
	}
}

// Line renders the current counter line.
func (p *Progress) Line() string {
	p.mu.Lock()
	label, begun := p.label, p.begun
	p.mu.Unlock()

	done, failed, total := p.Counts()
	rate := 0.0
	if elapsed := time.Since(begun).Seconds(); !begun.IsZero() && elapsed > 0 {
		rate = float64(done) / elapsed
	}
	return fmt.Sprintf("[%s] Processed %d/%d | Failed: %d | %.1f img/s", label, done, total, failed, rate)
}

func (p *Progress) printProgress() {
	line := p.Line()
	p.mu.Lock()
	fmt.Fprintf(p.output, "\r\033[K%s", line)
	p.mu.Unlock()
}

func (p *Progress) Stop() {
	if p.quiet || p.stopped.Swap(true) {
		return
	}
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if p.stopCh != nil {
		close(p.stopCh)
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\r\033[K")
	p.mu.Unlock()
}

func (p *Progress) Print(message string) {
	if p == nil || p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\r\033[K%s\n", message)
	p.mu.Unlock()
}

func (p *Progress) Printf(format string, args ...interface{}) {
	if p == nil || p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\r\033[K"+format+"\n", args...)
	p.mu.Unlock()
}
