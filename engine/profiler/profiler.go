// Package profiler aggregates reconciliation statistics and logs them at a fixed interval.
package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
)

// Stats is a running total of reconciliation work.
type Stats struct {
	Passes     int
	Reloads    int
	StyleCalls int
	PassTime   time.Duration
}

// Profiler tracks pass rate, reloads, SetStyle calls and memory.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	logger         common.Logger
	updateInterval time.Duration
	now            func() time.Time

	window   Stats
	totals   Stats
	lastTime time.Time
	memStats runtime.MemStats
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged. Defaults to 1 second.
//
// Parameters:
//   - d: the interval, ignored if not positive
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger stats are written to.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(l common.Logger) ProfilerOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock replaces time.Now.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		logger:         common.NoOpLogger{},
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordPass adds one reconciliation pass to the counters and logs if the interval has elapsed.
//
// Parameters:
//   - reloaded: whether the pass reloaded the model
//   - styleCalls: how many SetStyle calls the pass made
//   - took: how long the pass ran
//
// Returns:
//   - bool: true if stats were logged
func (p *Profiler) RecordPass(reloaded bool, styleCalls int, took time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.window.Passes++
	p.window.StyleCalls += styleCalls
	p.window.PassTime += took
	if reloaded {
		p.window.Reloads++
	}
	p.totals.Passes++
	p.totals.StyleCalls += styleCalls
	p.totals.PassTime += took
	if reloaded {
		p.totals.Reloads++
	}
	return p.tick()
}

// tick logs and resets the window when the update interval has elapsed. Caller must hold the mutex.
func (p *Profiler) tick() bool {
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024

	var avg time.Duration
	if p.window.Passes > 0 {
		avg = p.window.PassTime / time.Duration(p.window.Passes)
	}
	p.logger.Infof("[Profiler] passes: %d (%.2f/s, avg %s) | reloads: %d | style calls: %d | Heap: %.2f MB",
		p.window.Passes, float64(p.window.Passes)/elapsed.Seconds(), avg, p.window.Reloads, p.window.StyleCalls, heapMB)

	p.window = Stats{}
	p.lastTime = currentTime
	return true
}

// Totals returns the counters accumulated since construction.
//
// Returns:
//   - Stats: the totals
func (p *Profiler) Totals() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totals
}
