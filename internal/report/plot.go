package report

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/pipeline"
)

// Chart file names written by WriteExperimentPlots.
const (
	PlotTimeVsThreads   = "time_vs_threads.png"
	PlotTimeVsProcesses = "time_vs_processes.png"
	PlotSpeedup         = "speedup_vs_config.png"
)

var barWidth = vg.Points(22)

// WritePlot renders rows as a PNG with two panels: elapsed time per mode on
// the left, measured against ideal speedup on the right.
func WritePlot(path string, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("plot: no rows")
	}

	names := make([]string, len(rows))
	times := make(plotter.Values, len(rows))
	speedup := make(plotter.XYs, len(rows))
	ideal := make(plotter.XYs, len(rows))
	for i, r := range rows {
		names[i] = r.Mode
		times[i] = finite(r.TimeSeconds)
		speedup[i] = plotter.XY{X: float64(i), Y: finite(r.Speedup)}
		ideal[i] = plotter.XY{X: float64(i), Y: float64(max(1, r.Processes))}
	}

	left := plot.New()
	left.Title.Text = "Execution time"
	left.Y.Label.Text = "Time (s)"
	bars, err := plotter.NewBarChart(times, barWidth)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	bars.Color = plotutil.Color(0)
	left.Add(bars)
	left.NominalX(names...)

	right := plot.New()
	right.Title.Text = "Speedup"
	right.Y.Label.Text = "Speedup (x)"
	right.Y.Min = 0
	if err := addLine(right, "Measured", speedup, 1); err != nil {
		return err
	}
	if err := addLine(right, "Ideal", ideal, 2); err != nil {
		return err
	}
	right.Legend.Top = true
	right.Legend.Left = true
	right.NominalX(names...)

	return writeFile(path, func(w io.Writer) error {
		return renderTiles(w, vg.Points(900), vg.Points(400), left, right)
	})
}

// WriteExperimentPlots writes the three experiment charts into dir.
func WriteExperimentPlots(dir string, records []pipeline.ExperimentRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("plot: no experiment records")
	}

	byThreads := meanTimeBy(records, func(r pipeline.ExperimentRecord) int { return r.Threads })
	if err := writeMeanPlot(filepath.Join(dir, PlotTimeVsThreads), "Time vs threads", "Threads", byThreads); err != nil {
		return err
	}
	byProcs := meanTimeBy(records, func(r pipeline.ExperimentRecord) int { return r.Processes })
	if err := writeMeanPlot(filepath.Join(dir, PlotTimeVsProcesses), "Time vs processes", "Processes", byProcs); err != nil {
		return err
	}
	return writeSpeedupPlot(filepath.Join(dir, PlotSpeedup), records)
}

type groupMean struct {
	key  int
	mean float64
}

// meanTimeBy averages median times over records sharing the same key,
// ordered by key.
func meanTimeBy(records []pipeline.ExperimentRecord, key func(pipeline.ExperimentRecord) int) []groupMean {
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, r := range records {
		k := key(r)
		sums[k] += r.MedianTime.Seconds()
		counts[k]++
	}

	out := make([]groupMean, 0, len(sums))
	for k, s := range sums {
		out = append(out, groupMean{key: k, mean: s / float64(counts[k])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func writeMeanPlot(path, title, xLabel string, groups []groupMean) error {
	xys := make(plotter.XYs, len(groups))
	for i, g := range groups {
		xys[i] = plotter.XY{X: float64(g.key), Y: finite(g.mean)}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Mean time (s)"
	p.Add(plotter.NewGrid())
	if err := addLine(p, "", xys, 0); err != nil {
		return err
	}
	return save(p, path, vg.Points(500), vg.Points(350))
}

func writeSpeedupPlot(path string, records []pipeline.ExperimentRecord) error {
	names := make([]string, len(records))
	values := make(plotter.Values, len(records))
	best := 0
	for i, r := range records {
		names[i] = fmt.Sprintf("%dx%d", r.Threads, r.Processes)
		values[i] = finite(r.Speedup)
		if values[i] > values[best] {
			best = i
		}
	}

	p := plot.New()
	p.Title.Text = "Speedup per configuration"
	p.X.Label.Text = "Threads x Processes"
	p.Y.Label.Text = "Speedup (x)"

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: float64(best), Y: values[best]}},
		Labels: []string{fmt.Sprintf("best %.2fx", values[best])},
	})
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	p.Add(labels)
	p.NominalX(names...)

	width := vg.Points(float64(max(500, 40*len(records))))
	return save(p, path, width, vg.Points(350))
}

func addLine(p *plot.Plot, name string, xys plotter.XYs, colorIdx int) error {
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	line.Color = plotutil.Color(colorIdx)
	points.Color = plotutil.Color(colorIdx)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	if name != "" {
		p.Legend.Add(name, line, points)
	}
	return nil
}

func save(p *plot.Plot, path string, w, h vg.Length) error {
	return writeFile(path, func(out io.Writer) error {
		wt, err := p.WriterTo(w, h, "png")
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		_, err = wt.WriteTo(out)
		return err
	})
}

// renderTiles draws plots side by side on one PNG canvas.
func renderTiles(out io.Writer, w, h vg.Length, plots ...*plot.Plot) error {
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: len(plots), PadX: vg.Millimeter * 4}

	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(out); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}

// finite maps infinities and NaN to zero so axes stay drawable.
func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
