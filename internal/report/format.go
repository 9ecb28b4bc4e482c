package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/metrics"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/pipeline"
)

// FormatHeader writes the banner printed before a run.
func FormatHeader(w io.Writer, name, seedValue string, threads, processes, data int) {
	fmt.Fprintln(w, "===========================================")
	fmt.Fprintf(w, "Name    : %s\n", name)
	fmt.Fprintf(w, "Seed    : %s\n", seedValue)
	fmt.Fprintln(w, "Project : Parallel Image Processor (I/O pool + CPU pool)")
	fmt.Fprintln(w, "===========================================")
	fmt.Fprintf(w, "Computed params -> threads: %d, processes: %d, data: %d\n", threads, processes, data)
	fmt.Fprintln(w, "")
}

// FormatTable writes the main result rows as an aligned table.
func FormatTable(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Parallel Image Processor - Results")
	fmt.Fprintln(w, "==================================")
	fmt.Fprintf(w, "%-12s %7s %9s %6s %12s %14s %9s %11s\n",
		"Mode", "Threads", "Processes", "Data", "Time (s)", "Throughput", "Speedup", "Efficiency")
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %7d %9d %6d %12.6f %14.6f %9.3f %10.2f%%\n",
			r.Mode, r.Threads, r.Processes, r.DataCount,
			r.TimeSeconds, r.Throughput, r.Speedup, r.EfficiencyPercent)
	}
}

// FormatRun writes the one-line summary of a finished run.
func FormatRun(w io.Writer, r Row) {
	if r.Mode == ModeSerial {
		fmt.Fprintf(w, "  Serial time: %.6f s, throughput: %.6f img/s\n", r.TimeSeconds, r.Throughput)
		return
	}
	fmt.Fprintf(w, "  Time: %.6f s, throughput: %.6f img/s, speedup: %.3f, efficiency: %.2f%%\n",
		r.TimeSeconds, r.Throughput, r.Speedup, r.EfficiencyPercent)
}

// Box holds the figures shown in the boxed summary.
type Box struct {
	Name       string
	Seed       string
	Threads    int
	Processes  int
	Data       int
	TotalTime  float64
	Speedup    float64
	Efficiency float64
}

// FormatBox draws the summary of the seed-derived configuration in a box.
// ascii swaps the box-drawing characters for plain ones.
func FormatBox(w io.Writer, b Box, ascii bool) {
	lines := []string{
		fmt.Sprintf("Hybrid Project by: %s (%s)", b.Name, b.Seed),
		fmt.Sprintf("Threads: %d | Processes: %d | Data: %d", b.Threads, b.Processes, b.Data),
		fmt.Sprintf("Total Time: %.2fs | Speedup: %.2f | Efficiency: %.1f%%", b.TotalTime, b.Speedup, b.Efficiency),
	}
	inner := 0
	for _, l := range lines {
		inner = max(inner, len([]rune(l)))
	}

	tl, tr, bl, br, h, v := "┌", "┐", "└", "┘", "─", "│"
	if ascii {
		tl, tr, bl, br, h, v = "+", "+", "+", "+", "-", "|"
	}

	fmt.Fprintln(w, tl+strings.Repeat(h, inner+2)+tr)
	for _, l := range lines {
		fmt.Fprintf(w, "%s %-*s %s\n", v, inner, l, v)
	}
	fmt.Fprintln(w, bl+strings.Repeat(h, inner+2)+br)
}

// Sample pairs a file name with its average colour.
type Sample struct {
	Name  string
	Color core.RGB
}

// Samples returns up to n OK results as samples, in result order.
func Samples(items []core.ItemResult, n int) []Sample {
	out := make([]Sample, 0, n)
	for _, it := range items {
		if len(out) == n {
			break
		}
		if it.OK() {
			out = append(out, Sample{Name: it.Label, Color: it.Channels})
		}
	}
	return out
}

// FormatColors writes sample colours, the global average and the variation
// audit verdict.
func FormatColors(w io.Writer, samples []Sample, mean, std core.RGB, varied bool) {
	fmt.Fprintf(w, "Sample avg colors (first %d):\n", len(samples))
	for _, s := range samples {
		fmt.Fprintf(w, " - %s: (%.1f, %.1f, %.1f)\n", s.Name, s.Color.R, s.Color.G, s.Color.B)
	}

	verdict := "NO"
	if varied {
		verdict = "YES"
	}
	name, _ := metrics.NearestColor(mean)
	fmt.Fprintf(w, "Global avg color: (%.1f, %.1f, %.1f) ~ %s\n", mean.R, mean.G, mean.B, name)
	fmt.Fprintf(w, "Color variation: %s (stddev R: %.2f, G: %.2f, B: %.2f)\n", verdict, std.R, std.G, std.B)
}

// FormatItemTimes writes the per-item task time distribution of a run.
func FormatItemTimes(w io.Writer, label string, items []core.ItemResult) {
	times := make([]time.Duration, 0, len(items))
	for _, it := range items {
		times = append(times, it.Elapsed)
	}
	m := metrics.ComputeDurationMetrics(times)
	fmt.Fprintf(w, "Item times (%s): min=%s avg=%s p50=%s p95=%s p99=%s max=%s\n",
		label,
		metrics.FormatDuration(m.Min),
		metrics.FormatDuration(m.Avg),
		metrics.FormatDuration(m.P50),
		metrics.FormatDuration(m.P95),
		metrics.FormatDuration(m.P99),
		metrics.FormatDuration(m.Max))
}

// FormatExperimentsTable writes the experiment records as an ASCII table.
func FormatExperimentsTable(w io.Writer, records []pipeline.ExperimentRecord) {
	fmt.Fprintln(w, "No | Threads | Processes | Data/Task | Time (s)  | Speedup  | Efficiency (%) | Avg RGB              | Color")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range records {
		fmt.Fprintf(w, "%2d | %7d | %9d | %9d | %9.6f | %8.4f | %14.2f | %-20s | %s\n",
			i+1, r.Threads, r.Processes, r.DataCount,
			r.MedianTime.Seconds(), r.Speedup, r.EfficiencyPercent,
			rgbString(r), r.ColorName)
	}
}
