package animator

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// AfterFunc runs fn on its own goroutine once d has elapsed.
	//
	// Parameters:
	//   - d: the delay
	//   - fn: the callback
	//
	// Returns:
	//   - Timer: handle to cancel the callback
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealScheduler schedules on the wall clock with time.AfterFunc.
type RealScheduler struct{}

var _ Scheduler = RealScheduler{}

func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// ManualScheduler only fires callbacks when Advance moves its clock. Callbacks run on the caller's goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

var _ Scheduler = &ManualScheduler{}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a ManualScheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.seq++
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d and runs every due callback in deadline order, including
// callbacks scheduled by callbacks that fall due within the window.
//
// Parameters:
//   - d: how far to move the clock
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].at != s.pending[j].at {
				return s.pending[i].at < s.pending[j].at
			}
			return s.pending[i].seq < s.pending[j].seq
		})
		var next *manualTimer
		rest := s.pending[:0]
		for _, t := range s.pending {
			if t.stopped || t.fired {
				continue
			}
			if next == nil && t.at <= target {
				next = t
				continue
			}
			rest = append(rest, t)
		}
		s.pending = rest
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of callbacks still waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
