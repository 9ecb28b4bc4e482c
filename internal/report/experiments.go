package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/pipeline"
)

// ExperimentsCSVHeader is the column order of the experiments file.
var ExperimentsCSVHeader = []string{
	"No", "Threads", "Processes", "Data/Task", "Time (s)",
	"Speedup", "Efficiency (%)", "Avg RGB", "Color",
}

// WriteExperimentsCSV writes one numbered line per experiment record.
func WriteExperimentsCSV(path string, records []pipeline.ExperimentRecord) error {
	return writeFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(ExperimentsCSVHeader); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		for i, r := range records {
			line := []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(r.Threads),
				strconv.Itoa(r.Processes),
				strconv.Itoa(r.DataCount),
				formatFloat(r.MedianTime.Seconds(), 6),
				formatFloat(r.Speedup, 6),
				formatFloat(r.EfficiencyPercent, 2),
				rgbString(r),
				r.ColorName,
			}
			if err := cw.Write(line); err != nil {
				return fmt.Errorf("writing csv: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// ExperimentEntry is the JSON form of an experiment record.
type ExperimentEntry struct {
	Label             string     `json:"label"`
	Threads           int        `json:"threads"`
	Processes         int        `json:"processes"`
	DataCount         int        `json:"data_count"`
	TimeSeconds       Number     `json:"time_s"`
	Throughput        Number     `json:"throughput"`
	Speedup           Number     `json:"speedup"`
	EfficiencyPercent Number     `json:"efficiency_percent"`
	Times             []Number   `json:"times"`
	AvgRGB            [3]float64 `json:"avg_rgb"`
	ColorName         string     `json:"color_name"`
}

// ExperimentsDocument is the top-level JSON object of an experiments file.
type ExperimentsDocument struct {
	Experiments    []ExperimentEntry `json:"experiments"`
	SerialBaseline *Number           `json:"serial_baseline"`
}

// NewExperimentsDocument converts records to their JSON form.
func NewExperimentsDocument(records []pipeline.ExperimentRecord) ExperimentsDocument {
	doc := ExperimentsDocument{Experiments: make([]ExperimentEntry, 0, len(records))}
	for _, r := range records {
		times := make([]Number, len(r.Times))
		for i, t := range r.Times {
			times[i] = Number(t.Seconds())
		}
		doc.Experiments = append(doc.Experiments, ExperimentEntry{
			Label:             r.Label,
			Threads:           r.Threads,
			Processes:         r.Processes,
			DataCount:         r.DataCount,
			TimeSeconds:       Number(r.MedianTime.Seconds()),
			Throughput:        Number(r.Throughput),
			Speedup:           Number(r.Speedup),
			EfficiencyPercent: Number(r.EfficiencyPercent),
			Times:             times,
			AvgRGB:            [3]float64{r.AvgRGB.R, r.AvgRGB.G, r.AvgRGB.B},
			ColorName:         r.ColorName,
		})
	}
	if baseline, ok := pipeline.SerialBaseline(records); ok {
		b := Number(baseline.Seconds())
		doc.SerialBaseline = &b
	}
	return doc
}

// WriteExperimentsJSON writes the experiments document to path.
func WriteExperimentsJSON(path string, records []pipeline.ExperimentRecord) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewExperimentsDocument(records)); err != nil {
			return fmt.Errorf("writing json: %w", err)
		}
		return nil
	})
}

// ExperimentRows flattens records into report rows keyed by label.
func ExperimentRows(records []pipeline.ExperimentRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			Mode:              r.Label,
			Threads:           r.Threads,
			Processes:         r.Processes,
			DataCount:         r.DataCount,
			TimeSeconds:       r.MedianTime.Seconds(),
			Throughput:        r.Throughput,
			Speedup:           r.Speedup,
			EfficiencyPercent: r.EfficiencyPercent,
		})
	}
	return rows
}

func rgbString(r pipeline.ExperimentRecord) string {
	return fmt.Sprintf("rgb(%.1f,%.1f,%.1f)", r.AvgRGB.R, r.AvgRGB.G, r.AvgRGB.B)
}
