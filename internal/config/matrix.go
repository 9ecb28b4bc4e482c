package config

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
	"github.com/matinrusydan/Parallel-Image-Processor/internal/seed"
)

// DefaultMatrix is the experiment batch used when none is configured: the
// serial baseline first, then growing pools, the seed configuration and its
// alternative.
func DefaultMatrix(p seed.Params) []core.ConfigSpec {
	altThreads, altProcs := seed.Alternative(p)
	return []core.ConfigSpec{
		{Label: "serial", Threads: 1, Processes: 1, DataCount: p.DataCount},
		{Label: "t2_p1", Threads: 2, Processes: 1, DataCount: p.DataCount},
		{Label: "t4_p2", Threads: 4, Processes: 2, DataCount: p.DataCount},
		{Label: "t8_p4", Threads: 8, Processes: 4, DataCount: p.DataCount},
		{Label: "nim_config", Threads: p.Threads, Processes: p.Processes, DataCount: p.DataCount},
		{Label: "alt_config", Threads: altThreads, Processes: altProcs, DataCount: p.DataCount},
	}
}

// LoadMatrix loads an experiment matrix from a CSV or JSON file.
// CSV files need a header row naming label, threads, processes and data;
// JSON files hold an array of objects with the same keys.
func LoadMatrix(path string) ([]core.ConfigSpec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var specs []core.ConfigSpec
	var err error

	switch ext {
	case ".csv":
		specs, err = loadMatrixCSV(path)
	case ".json":
		specs, err = loadMatrixJSON(path)
	default:
		return nil, fmt.Errorf("%w: unsupported matrix format %q (use .csv or .json)", core.ErrConfiguration, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", core.ErrConfiguration, path, err)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: matrix file %s is empty", core.ErrConfiguration, path)
	}

	for i := range specs {
		if specs[i].Label == "" {
			specs[i].Label = fmt.Sprintf("t%d_p%d", specs[i].Threads, specs[i].Processes)
		}
		if err := validateSpec(specs[i]); err != nil {
			return nil, fmt.Errorf("matrix row %d: %w", i+1, err)
		}
	}
	return specs, nil
}

// loadMatrixCSV reads a CSV file. First row is headers, subsequent rows are
// configurations.
func loadMatrixCSV(path string) ([]core.ConfigSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("CSV must have header row and at least one data row")
	}

	col := map[string]int{}
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"threads", "processes"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing %q", required)
		}
	}

	specs := make([]core.ConfigSpec, 0, len(records)-1)
	for n, record := range records[1:] {
		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		spec := core.ConfigSpec{Label: field("label")}
		if spec.Threads, err = atoi(field("threads")); err != nil {
			return nil, fmt.Errorf("row %d threads: %w", n+1, err)
		}
		if spec.Processes, err = atoi(field("processes")); err != nil {
			return nil, fmt.Errorf("row %d processes: %w", n+1, err)
		}
		if spec.DataCount, err = atoi(field("data")); err != nil {
			return nil, fmt.Errorf("row %d data: %w", n+1, err)
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// loadMatrixJSON reads a JSON file. Must be an array of objects.
func loadMatrixJSON(path string) ([]core.ConfigSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var specs []core.ConfigSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("JSON must be an array of objects: %w", err)
	}

	return specs, nil
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
