// Package profiler reports step throughput and memory statistics for a
// running Solver, mirroring engine/profiler/profiler.go's Tick/log
// pattern over "frames" — here the unit is solver steps rather than
// render frames, since this package has no render loop to sample.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// StepProfiler tracks steps-per-second and heap statistics, logging a
// summary once per updateInterval.
type StepProfiler struct {
	stepCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// New returns a StepProfiler with a one-second update interval.
func New() *StepProfiler {
	return &StepProfiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick should be called once per solver.Step call (or once per iteration
// inside a batched step). Logs a summary once updateInterval has
// elapsed, returning true when it did.
func (p *StepProfiler) Tick() bool {
	p.stepCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	stepsPerSec := float64(p.stepCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	log.Printf("[solver] steps/s: %.2f | heap: %.2f MB | alloc rate: %.2f MB/s | gc: %d (last: %d us, max: %d us) | sys: %.2f MB",
		stepsPerSec, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.stepCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
