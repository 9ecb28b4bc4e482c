package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNew_ZeroRate(t *testing.T) {
	l := New(0)
	if l == nil {
		t.Fatal("expected non-nil limiter even with zero rate")
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("zero rate should not block, took %v", elapsed)
	}
}

func TestNilLimiter(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if l.Rate() != 0 {
		t.Errorf("expected rate 0, got %d", l.Rate())
	}
}

func TestLimiter_Paces(t *testing.T) {
	l := New(20)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// first load is free, the next four wait 50ms each
	if elapsed < 150*time.Millisecond {
		t.Errorf("limiting doesn't appear to be working, elapsed: %v", elapsed)
	}
}

func TestLimiter_ContextCancelled(t *testing.T) {
	l := New(1)
	_ = l.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLimiter_Rate(t *testing.T) {
	if got := New(5).Rate(); got != 5 {
		t.Errorf("expected rate 5, got %d", got)
	}
	if got := New(0).Rate(); got != 0 {
		t.Errorf("expected rate 0, got %d", got)
	}
}

func TestLimiter_ConcurrentWait(t *testing.T) {
	l := New(1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if err := l.Wait(ctx); err != nil {
					return
				}
			}
		}()
	}
	wg.Wait()
}
