package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// CSVHeader is the column order of the main results file.
var CSVHeader = []string{
	"mode", "num_threads", "num_processes", "data_count",
	"time_s", "throughput", "speedup", "efficiency_percent",
}

// WriteCSV writes rows to path, creating parent directories.
func WriteCSV(path string, rows []Row) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeCSV(w, rows)
	})
}

// EncodeCSV writes rows as CSV with a header line.
func EncodeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Mode,
			strconv.Itoa(r.Threads),
			strconv.Itoa(r.Processes),
			strconv.Itoa(r.DataCount),
			formatFloat(r.TimeSeconds, 6),
			formatFloat(r.Throughput, 6),
			formatFloat(r.Speedup, 6),
			formatFloat(r.EfficiencyPercent, 2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteJSON writes the summary to path as indented JSON.
func WriteJSON(path string, s Summary) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("writing json: %w", err)
		}
		return nil
	})
}

// ReadJSON loads a summary written by WriteJSON.
func ReadJSON(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading report: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing report: %w", err)
	}
	return s, nil
}

// SiblingPaths derives the JSON and plot paths that accompany a CSV path:
// results/run.csv gives results/run.json and results/run_plot.png.
func SiblingPaths(csvPath string) (jsonPath, plotPath string) {
	base := csvPath[:len(csvPath)-len(filepath.Ext(csvPath))]
	return base + ".json", base + "_plot.png"
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
