package profiler

import (
	"testing"
	"time"
)

func TestTickReturnsNilBeforeInterval(t *testing.T) {
	p := NewProfiler(time.Hour)
	for i := 0; i < 10; i++ {
		if stats := p.Tick(); stats != nil {
			t.Fatalf("tick %d produced stats before the interval elapsed", i)
		}
	}
}

func TestTickReportsAfterInterval(t *testing.T) {
	p := NewProfiler(time.Millisecond)

	p.Tick()
	time.Sleep(5 * time.Millisecond)
	stats := p.Tick()
	if stats == nil {
		t.Fatal("expected stats after the interval elapsed")
	}
	if stats.FPS <= 0 {
		t.Errorf("FPS = %v, want > 0", stats.FPS)
	}
	if stats.HeapMB <= 0 {
		t.Errorf("HeapMB = %v, want > 0", stats.HeapMB)
	}

	// The frame counter resets, so the next tick starts a fresh interval.
	if stats := p.Tick(); stats != nil {
		t.Error("tick immediately after a report should not produce stats")
	}
}

func TestNewProfilerDefaultsInterval(t *testing.T) {
	p := NewProfiler(0)
	if p.interval != time.Second {
		t.Errorf("interval = %v, want 1s", p.interval)
	}
}
