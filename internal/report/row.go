// Package report renders benchmark results as CSV, JSON, text tables and
// PNG charts, and compares them against earlier reports.
package report

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/metrics"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/seed"
)

// ModeSerial names the baseline row.
const ModeSerial = "serial"

// Row is one execution mode in the main report.
type Row struct {
	Mode              string
	Threads           int
	Processes         int
	DataCount         int
	TimeSeconds       float64
	Throughput        float64
	Speedup           float64
	EfficiencyPercent float64
}

// SerialRow builds the baseline row: speedup 1, efficiency 100.
func SerialRow(res core.RunResult, dataCount int) Row {
	return Row{
		Mode:              ModeSerial,
		Threads:           1,
		Processes:         1,
		DataCount:         dataCount,
		TimeSeconds:       res.Elapsed.Seconds(),
		Throughput:        res.Throughput,
		Speedup:           1.0,
		EfficiencyPercent: 100.0,
	}
}

// ConfigRow builds the row of a configuration run measured against serial.
func ConfigRow(spec core.ConfigSpec, res core.RunResult, serial time.Duration, dataCount int) Row {
	speedup := metrics.Speedup(serial, res.Elapsed)
	return Row{
		Mode:              spec.Label,
		Threads:           spec.Threads,
		Processes:         spec.Processes,
		DataCount:         dataCount,
		TimeSeconds:       res.Elapsed.Seconds(),
		Throughput:        res.Throughput,
		Speedup:           speedup,
		EfficiencyPercent: metrics.Efficiency(speedup, spec.Processes),
	}
}

// Summary is the JSON report of a main run.
type Summary struct {
	RunID     string      `json:"run_id"`
	Name      string      `json:"name"`
	Seed      string      `json:"seed"`
	Params    seed.Params `json:"params"`
	Strategy  string      `json:"strategy,omitempty"`
	Heavy     bool        `json:"heavy"`
	Results   []Row       `json:"results"`
	AvgColor  core.RGB    `json:"global_avg_color"`
	StdDev    core.RGB    `json:"color_stddev"`
	Variation bool        `json:"color_variation"`
}

// NewSummary returns a Summary stamped with a fresh run id.
func NewSummary(name, seedValue string, params seed.Params, rows []Row) Summary {
	return Summary{
		RunID:   uuid.NewString(),
		Name:    name,
		Seed:    seedValue,
		Params:  params,
		Results: rows,
	}
}

// jsonRow mirrors Row with field names matching the CSV header and floats
// that survive infinities.
type jsonRow struct {
	Mode              string `json:"mode"`
	Threads           int    `json:"num_threads"`
	Processes         int    `json:"num_processes"`
	DataCount         int    `json:"data_count"`
	TimeSeconds       Number `json:"time_s"`
	Throughput        Number `json:"throughput"`
	Speedup           Number `json:"speedup"`
	EfficiencyPercent Number `json:"efficiency_percent"`
}

func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRow{
		Mode:              r.Mode,
		Threads:           r.Threads,
		Processes:         r.Processes,
		DataCount:         r.DataCount,
		TimeSeconds:       Number(r.TimeSeconds),
		Throughput:        Number(r.Throughput),
		Speedup:           Number(r.Speedup),
		EfficiencyPercent: Number(r.EfficiencyPercent),
	})
}

func (r *Row) UnmarshalJSON(data []byte) error {
	var j jsonRow
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*r = Row{
		Mode:              j.Mode,
		Threads:           j.Threads,
		Processes:         j.Processes,
		DataCount:         j.DataCount,
		TimeSeconds:       float64(j.TimeSeconds),
		Throughput:        float64(j.Throughput),
		Speedup:           float64(j.Speedup),
		EfficiencyPercent: float64(j.EfficiencyPercent),
	}
	return nil
}

// Number is a float64 whose JSON form spells out infinities and NaN as
// strings ("+Inf", "-Inf", "NaN"), which plain JSON numbers cannot carry.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
