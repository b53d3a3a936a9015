package profiler

import (
	"testing"
	"time"
)

func TestTickReturnsFalseBeforeIntervalElapses(t *testing.T) {
	p := New()
	p.updateInterval = time.Hour
	if p.Tick() {
		t.Error("Tick() = true before updateInterval elapsed, want false")
	}
	if p.stepCount != 1 {
		t.Errorf("stepCount = %d, want 1", p.stepCount)
	}
}

func TestTickLogsAndResetsOnceIntervalElapses(t *testing.T) {
	p := New()
	p.updateInterval = time.Millisecond
	p.lastTime = time.Now().Add(-time.Second)

	p.stepCount = 5
	if !p.Tick() {
		t.Fatal("Tick() = false after updateInterval elapsed, want true")
	}
	if p.stepCount != 0 {
		t.Errorf("stepCount after Tick = %d, want reset to 0", p.stepCount)
	}
	if p.lastGCCount != p.memStats.NumGC {
		t.Errorf("lastGCCount = %d, want synced to memStats.NumGC = %d", p.lastGCCount, p.memStats.NumGC)
	}
}

func TestTickAccumulatesStepsAcrossCalls(t *testing.T) {
	p := New()
	p.updateInterval = time.Hour
	for i := 0; i < 3; i++ {
		p.Tick()
	}
	if p.stepCount != 3 {
		t.Errorf("stepCount after 3 Ticks = %d, want 3", p.stepCount)
	}
}
