package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/metrics"
)

// Thresholds defines pass/fail criteria applied to every parallel row.
// Zero values disable a check.
type Thresholds struct {
	MinSpeedup    float64       `yaml:"min_speedup" json:"min_speedup"`
	MinEfficiency string        `yaml:"min_efficiency" json:"min_efficiency"` // e.g. "50%"
	MaxTime       time.Duration `yaml:"max_time" json:"max_time"`
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Check evaluates the thresholds against rows. Serial rows are skipped.
func (t *Thresholds) Check(rows []Row) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	for _, r := range rows {
		if r.Mode == ModeSerial || (r.Threads == 1 && r.Processes == 1) {
			continue
		}
		if t.MinSpeedup > 0 {
			results.add(r.Mode+".speedup", r.Speedup >= t.MinSpeedup,
				fmt.Sprintf(">= %.2f", t.MinSpeedup), fmt.Sprintf("%.2f", r.Speedup))
		}
		if t.MinEfficiency != "" {
			results.checkEfficiency(r, t.MinEfficiency)
		}
		if t.MaxTime > 0 {
			actual := time.Duration(r.TimeSeconds * float64(time.Second))
			results.add(r.Mode+".time", actual <= t.MaxTime,
				"<= "+metrics.FormatDuration(t.MaxTime), metrics.FormatDuration(actual))
		}
	}
	return results
}

func (r *ThresholdResults) checkEfficiency(row Row, limit string) {
	pct, err := parsePercentage(limit)
	if err != nil {
		return
	}
	r.add(row.Mode+".efficiency", row.EfficiencyPercent >= pct,
		">= "+strings.TrimSpace(limit), fmt.Sprintf("%.2f%%", row.EfficiencyPercent))
}

func (r *ThresholdResults) add(name string, passed bool, threshold, actual string) {
	if !passed {
		r.Passed = false
	}
	r.Results = append(r.Results, ThresholdResult{
		Name:      name,
		Passed:    passed,
		Threshold: threshold,
		Actual:    actual,
	})
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}

// FormatThresholds writes the threshold verdicts.
func FormatThresholds(w io.Writer, r *ThresholdResults) {
	if r == nil || len(r.Results) == 0 {
		return
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Thresholds:")
	for _, res := range r.Results {
		mark := "✓"
		if !res.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %s: %s (threshold %s)\n", mark, res.Name, res.Actual, res.Threshold)
	}
}

func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("invalid percentage format: %s", s)
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(s, 64)
}
