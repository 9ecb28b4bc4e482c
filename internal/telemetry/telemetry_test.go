package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func scrape(t *testing.T, srv *Server) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecorder_Exposed(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	srv := NewServer(reg)

	rec.WorkerStarted(PoolIO)
	rec.ItemDone(PoolIO, true, 2*time.Millisecond)
	rec.ItemDone(PoolIO, false, time.Millisecond)
	rec.ItemDone(PoolCPU, true, 3*time.Millisecond)
	rec.WorkerStopped(PoolIO)
	rec.RunDone("phased", 50*time.Millisecond)
	rec.Result("nim_config", 2.5, 62.5)

	body := scrape(t, srv)

	expected := []string{
		`pixbench_pipeline_items_total{outcome="ok",pool="io"} 1`,
		`pixbench_pipeline_items_total{outcome="failed",pool="io"} 1`,
		`pixbench_pipeline_items_total{outcome="ok",pool="cpu"} 1`,
		`pixbench_pipeline_runs_total{mode="phased"} 1`,
		`pixbench_pool_active_workers{pool="io"} 0`,
		`pixbench_benchmark_speedup{config="nim_config"} 2.5`,
		`pixbench_benchmark_efficiency_percent{config="nim_config"} 62.5`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder

	// Should not panic
	rec.ItemDone(PoolCPU, true, time.Millisecond)
	rec.WorkerStarted(PoolCPU)
	rec.WorkerStopped(PoolCPU)
	rec.RunDone("serial", time.Second)
	rec.Result("x", 1, 100)
}

func TestServer_Health(t *testing.T) {
	srv := NewServer(prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}
