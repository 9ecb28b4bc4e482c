package report

import (
	"fmt"
	"io"
	"math"

	"github.com/tidwall/gjson"
)

// Delta compares one mode against the same mode of an earlier report.
type Delta struct {
	Mode            string
	PreviousTime    float64
	CurrentTime     float64
	PreviousSpeedup float64
	CurrentSpeedup  float64
}

// TimeChangePercent is the relative time change; negative means faster.
func (d Delta) TimeChangePercent() float64 {
	if d.PreviousTime == 0 {
		return 0
	}
	return (d.CurrentTime - d.PreviousTime) / d.PreviousTime * 100
}

// Compare matches rows by mode against the "results" array of a JSON report
// written by an earlier run. Modes missing from the earlier report are
// skipped.
func Compare(previous []byte, rows []Row) ([]Delta, error) {
	if !gjson.ValidBytes(previous) {
		return nil, fmt.Errorf("comparing reports: invalid json")
	}

	prev := map[string]gjson.Result{}
	gjson.GetBytes(previous, "results").ForEach(func(_, v gjson.Result) bool {
		prev[v.Get("mode").String()] = v
		return true
	})

	deltas := make([]Delta, 0, len(rows))
	for _, r := range rows {
		p, ok := prev[r.Mode]
		if !ok {
			continue
		}
		deltas = append(deltas, Delta{
			Mode:            r.Mode,
			PreviousTime:    number(p.Get("time_s")),
			CurrentTime:     r.TimeSeconds,
			PreviousSpeedup: number(p.Get("speedup")),
			CurrentSpeedup:  r.Speedup,
		})
	}
	return deltas, nil
}

// number reads a value written by Number, spelled-out infinities included.
func number(v gjson.Result) float64 {
	if v.Type == gjson.String {
		switch v.Str {
		case "+Inf":
			return math.Inf(1)
		case "-Inf":
			return math.Inf(-1)
		case "NaN":
			return math.NaN()
		}
	}
	return v.Float()
}

// FormatComparison writes deltas as a small table.
func FormatComparison(w io.Writer, deltas []Delta) {
	if len(deltas) == 0 {
		fmt.Fprintln(w, "No comparable modes in previous report")
		return
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Comparison with previous report:")
	fmt.Fprintf(w, "%-12s %12s %12s %9s %10s %10s\n", "Mode", "Prev (s)", "Now (s)", "Change", "Prev x", "Now x")
	for _, d := range deltas {
		fmt.Fprintf(w, "%-12s %12.6f %12.6f %+8.1f%% %10.3f %10.3f\n",
			d.Mode, d.PreviousTime, d.CurrentTime, d.TimeChangePercent(),
			d.PreviousSpeedup, d.CurrentSpeedup)
	}
}
