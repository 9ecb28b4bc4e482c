package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matinrusydan/Parallel-Image-Processor/internal/core"
)

func TestNewProgress(t *testing.T) {
	p := NewProgress(false)
	if p.quiet {
		t.Error("quiet should be false")
	}
	if p.interval != time.Second {
		t.Errorf("expected 1s interval, got %v", p.interval)
	}
}

func TestProgress_QuietMode(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(true)
	p.SetOutput(&buf)

	// Start and stop should not panic in quiet mode
	p.Start()
	p.Print("hidden")
	p.Stop()

	if buf.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got: %q", buf.String())
	}
}

func TestProgress_DoubleStop(t *testing.T) {
	p := NewProgress(false)
	p.SetOutput(&bytes.Buffer{})
	p.Start()

	// Double stop should not panic
	p.Stop()
	p.Stop()
}

func TestProgress_StopWithoutStart(t *testing.T) {
	p := NewProgress(false)
	p.SetOutput(&bytes.Buffer{})
	p.Stop()
}

func TestProgress_Counts(t *testing.T) {
	p := NewProgress(true)
	p.Begin("nim_config", 10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Tick(i%5 != 0)
		}(i)
	}
	wg.Wait()

	done, failed, total := p.Counts()
	if done != 10 || failed != 2 || total != 10 {
		t.Errorf("expected (10, 2, 10), got (%d, %d, %d)", done, failed, total)
	}

	if line := p.Line(); !strings.Contains(line, "[nim_config] Processed 10/10 | Failed: 2") {
		t.Errorf("unexpected line: %q", line)
	}

	p.Begin("alt_config", 4)
	if done, failed, total := p.Counts(); done != 0 || failed != 0 || total != 4 {
		t.Errorf("expected counters reset, got (%d, %d, %d)", done, failed, total)
	}
}

func TestProgress_NilSafe(t *testing.T) {
	var p *Progress
	p.Begin("x", 1)
	p.Tick(true)
	p.Print("ignored")
	p.Printf("ignored %d", 1)
}

func TestProgress_TickerWrites(t *testing.T) {
	out := &core.MockWriter{}
	p := NewProgress(false)
	p.SetOutput(out)
	p.SetInterval(5 * time.Millisecond)
	p.Begin("serial", 3)
	p.Tick(true)

	p.Start()
	time.Sleep(30 * time.Millisecond)
	p.Stop()

	if !strings.Contains(out.String(), "[serial] Processed 1/3") {
		t.Errorf("expected counter line, got: %q", out.String())
	}
}

func TestProgress_Print(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(false)
	p.SetOutput(&buf)

	p.Print("[RUN] Serial baseline")

	output := buf.String()
	if !strings.Contains(output, "\033[K") {
		t.Error("expected output to contain line clear escape sequence")
	}
	if !strings.Contains(output, "[RUN] Serial baseline\n") {
		t.Errorf("expected message ending with newline, got: %q", output)
	}
}

func TestProgress_Printf(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(false)
	p.SetOutput(&buf)

	p.Printf("Run %d/%d", 2, 3)

	if !strings.Contains(buf.String(), "Run 2/3\n") {
		t.Errorf("expected formatted message, got: %q", buf.String())
	}
}

func TestProgress_SetOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	p := NewProgress(false)

	p.SetOutput(&buf1)
	p.Print("message1")

	p.SetOutput(&buf2)
	p.Print("message2")

	if !strings.Contains(buf1.String(), "message1") {
		t.Error("expected message1 in buf1")
	}
	if strings.Contains(buf1.String(), "message2") {
		t.Error("buf1 should not contain message2")
	}
	if !strings.Contains(buf2.String(), "message2") {
		t.Error("expected message2 in buf2")
	}
}
