package core

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// MockWriter is a thread-safe io.Writer for testing.
type MockWriter struct {
	mu   sync.Mutex
	data []byte
}

func (w *MockWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *MockWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.data)
}

// StubLoader is a Loader for tests that never touches the filesystem.
// Paths present in Fail return ErrLoad; Panic paths panic.
type StubLoader struct {
	Fail  map[string]bool
	Panic map[string]bool
	Delay time.Duration
	calls atomic.Int64
}

func (s *StubLoader) Load(path string) (WorkItem, error) {
	s.calls.Add(1)
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	if s.Panic[path] {
		panic("stub loader panic: " + path)
	}
	if s.Fail[path] {
		return WorkItem{}, fmt.Errorf("%w: %s", ErrLoad, path)
	}
	return WorkItem{
		Path:   path,
		Name:   filepath.Base(path),
		Image:  image.NewRGBA(image.Rect(0, 0, 1, 1)),
		Width:  1,
		Height: 1,
	}, nil
}

// Calls returns how many times Load was invoked.
func (s *StubLoader) Calls() int64 {
	return s.calls.Load()
}

// StubProcessor is a Processor for tests. Channels are derived from the
// item name length so that results are deterministic per item.
type StubProcessor struct {
	Fail  map[string]bool
	Delay time.Duration
	calls atomic.Int64
	heavy atomic.Int64
}

func (s *StubProcessor) Process(item WorkItem, heavy bool) ItemResult {
	s.calls.Add(1)
	if heavy {
		s.heavy.Add(1)
	}
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	if s.Fail[item.Path] {
		return Failed(item.Name, fmt.Errorf("%w: %s", ErrProcess, item.Name), s.Delay)
	}
	v := float64(len(item.Name))
	return Succeeded(item.Name, RGB{R: v, G: v * 2, B: v * 3}, s.Delay)
}

// Calls returns how many times Process was invoked.
func (s *StubProcessor) Calls() int64 {
	return s.calls.Load()
}

// HeavyCalls returns how many invocations asked for the heavy workload.
func (s *StubProcessor) HeavyCalls() int64 {
	return s.heavy.Load()
}
