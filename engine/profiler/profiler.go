package profiler

import (
	"log"
	"runtime"
	"time"
)

// FrameStats is a snapshot of frame rate and memory statistics covering one
// reporting interval.
type FrameStats struct {
	// FPS is the average frames per second over the interval.
	FPS float64

	// HeapMB is the live heap size in megabytes at the end of the interval.
	HeapMB float64

	// AllocRateMB is the heap allocation rate in megabytes per second.
	AllocRateMB float64

	// GCCount is the cumulative number of completed GC cycles.
	GCCount uint32

	// LastPauseUs is the most recent GC pause in microseconds.
	LastPauseUs uint64

	// MaxPauseUs is the longest GC pause observed during the interval in microseconds.
	MaxPauseUs uint64

	// SysMB is the total memory obtained from the OS in megabytes.
	SysMB float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Call Tick once per frame; a stats snapshot is produced each time the
// reporting interval elapses.
type Profiler struct {
	frameCount     int
	intervalStart  time.Time
	interval       time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler that reports at the given interval.
// An interval <= 0 defaults to 1 second.
//
// Parameters:
//   - interval: how often Tick produces a stats snapshot
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		intervalStart: time.Now(),
		interval:      interval,
	}
}

// Tick should be called once per frame to track frame timing.
// Returns a stats snapshot when the reporting interval has elapsed, nil otherwise.
//
// Returns:
//   - *FrameStats: the interval's statistics, or nil if the interval has not elapsed
func (p *Profiler) Tick() *FrameStats {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.intervalStart)
	if elapsed < p.interval {
		return nil
	}

	runtime.ReadMemStats(&p.memStats)

	stats := &FrameStats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}

	// TotalAlloc increases forever, so the delta over the interval gives churn.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	stats.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	if p.memStats.NumGC > 0 {
		stats.LastPauseUs = p.memStats.PauseNs[(p.memStats.NumGC-1)%256] / 1000

		startIdx := p.lastGCCount
		if p.memStats.NumGC-startIdx > 256 {
			startIdx = p.memStats.NumGC - 256
		}
		for i := startIdx; i < p.memStats.NumGC; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > stats.MaxPauseUs {
				stats.MaxPauseUs = pause
			}
		}
	}

	p.frameCount = 0
	p.intervalStart = now
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats
}

// Log writes the stats snapshot to the standard logger.
func (s *FrameStats) Log() {
	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
}
