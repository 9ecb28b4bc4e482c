// Package dataset discovers image files on disk and generates synthetic
// datasets for benchmark runs.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// Extensions lists the file extensions treated as images (lower case).
var Extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// ListOptions refines which files List returns.
type ListOptions struct {
	// Max truncates the sorted list. Negative means no limit.
	Max int
	// Include is an optional doublestar pattern matched against base names,
	// for example "generated_*.png" or "{car,truck}_*".
	Include string
}

// ListImages returns up to max image paths in folder, sorted by name.
// A missing or empty folder yields an empty slice and no error.
func ListImages(folder string, max int) ([]string, error) {
	return List(folder, ListOptions{Max: max})
}

// List returns the image paths in folder that satisfy opts, sorted by name.
func List(folder string, opts ListOptions) ([]string, error) {
	if opts.Include != "" && !doublestar.ValidatePattern(opts.Include) {
		return nil, fmt.Errorf("invalid include pattern %q", opts.Include)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) || isNotDir(folder) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !Extensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if opts.Include != "" {
			if ok, _ := doublestar.Match(opts.Include, name); !ok {
				continue
			}
		}
		files = append(files, filepath.Join(folder, name))
	}
	sort.Strings(files)

	if opts.Max >= 0 && len(files) > opts.Max {
		files = files[:opts.Max]
	}
	return files, nil
}

func isNotDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FindSubfolder locates a directory called name under root. root/name is
// preferred; otherwise the shallowest match wins, ties broken by path.
func FindSubfolder(root, name string) (string, error) {
	direct := filepath.Join(root, name)
	if info, err := os.Stat(direct); err == nil && info.IsDir() {
		return direct, nil
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && p != root && d.Name() == name {
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking %s: %w", root, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("folder %q not found under %s", name, root)
	}

	sort.Slice(matches, func(i, j int) bool {
		di := strings.Count(matches[i], string(filepath.Separator))
		dj := strings.Count(matches[j], string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return matches[i] < matches[j]
	})
	return matches[0], nil
}
