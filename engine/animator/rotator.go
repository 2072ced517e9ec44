package animator

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

const (
	// RotationInterval is the delay between rotation steps.
	RotationInterval = 50 * time.Millisecond

	// RotationStep is the rotation per step, in degrees.
	RotationStep = 0.5
)

// Rotator spins the view at a fixed rate until stopped.
type Rotator interface {
	// Start begins rotating v. Calling Start while running is a no-op.
	//
	// Parameters:
	//   - v: the viewer to rotate
	Start(v viewer.Viewer)

	// Stop halts rotation. It does not wait for an in-flight step, so it is safe to call while
	// holding the lock the executor takes.
	Stop()

	// Running reports whether the rotator is active.
	//
	// Returns:
	//   - bool: true if rotating
	Running() bool
}

type rotator struct {
	mu *sync.Mutex

	interval time.Duration
	step     float64
	exec     func(func())
	logger   common.Logger

	cancel context.CancelFunc
}

var _ Rotator = &rotator{}

// NewRotator creates a stopped Rotator.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Rotator: the rotator
func NewRotator(options ...RotatorBuilderOption) Rotator {
	r := &rotator{
		mu:       &sync.Mutex{},
		interval: RotationInterval,
		step:     RotationStep,
		exec:     func(fn func()) { fn() },
		logger:   common.NoOpLogger{},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *rotator) Start(v viewer.Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.logger.Debugf("[Rotator] started, %.2f deg every %s", r.step, r.interval)

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.exec(func() {
					// Stop may have won the race for the executor.
					if ctx.Err() != nil {
						return
					}
					v.RotateView(r.step)
				})
			}
		}
	}()
}

func (r *rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
	r.logger.Debugf("[Rotator] stopped")
}

func (r *rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// RotatorBuilderOption is a functional option for configuring a Rotator during construction.
type RotatorBuilderOption func(*rotator)

// WithRotationInterval sets the delay between rotation steps.
//
// Parameters:
//   - d: the interval, ignored if not positive
//
// Returns:
//   - RotatorBuilderOption: a function that applies the interval option to a rotator
func WithRotationInterval(d time.Duration) RotatorBuilderOption {
	return func(r *rotator) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithRotationStep sets the rotation per step in degrees.
//
// Parameters:
//   - deg: the step
//
// Returns:
//   - RotatorBuilderOption: a function that applies the step option to a rotator
func WithRotationStep(deg float64) RotatorBuilderOption {
	return func(r *rotator) {
		r.step = deg
	}
}

// WithRotatorExecutor sets the function each rotation step runs through.
//
// Parameters:
//   - exec: runs fn, typically under a lock
//
// Returns:
//   - RotatorBuilderOption: a function that applies the executor option to a rotator
func WithRotatorExecutor(exec func(fn func())) RotatorBuilderOption {
	return func(r *rotator) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithRotatorLogger sets the logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - RotatorBuilderOption: a function that applies the logger option to a rotator
func WithRotatorLogger(l common.Logger) RotatorBuilderOption {
	return func(r *rotator) {
		if l != nil {
			r.logger = l
		}
	}
}
