package session

import (
	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/animator"
	"github.com/Carmen-Shannon/oxy-mol/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mol/engine/style"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// SessionBuilderOption is a functional option for configuring a Session.
type SessionBuilderOption func(*session)

// WithLogger sets the logger shared by the session and its components.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithLogger(l common.Logger) SessionBuilderOption {
	return func(s *session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSelectionChangedHandler sets the callback fired after every click with the new selection.
// It runs outside the session lock and may call back into the session.
//
// Parameters:
//   - cb: the callback
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithSelectionChangedHandler(cb func(ids []int)) SessionBuilderOption {
	return func(s *session) {
		s.onSelectionChanged = cb
	}
}

// WithSceneReadyHandler sets the callback fired after every pass that loaded a new model.
// It runs outside the session lock.
//
// Parameters:
//   - cb: the callback
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithSceneReadyHandler(cb func(v viewer.Viewer)) SessionBuilderOption {
	return func(s *session) {
		s.onSceneReady = cb
	}
}

// WithScheduler sets the scheduler for deferred animation starts.
//
// Parameters:
//   - sched: the scheduler
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithScheduler(sched animator.Scheduler) SessionBuilderOption {
	return func(s *session) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

// WithProfiler records every pass on p.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SessionBuilderOption {
	return func(s *session) {
		s.profiler = p
	}
}

// WithDiffOptions passes options to the style differ.
//
// Parameters:
//   - opts: the differ options
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithDiffOptions(opts ...style.DifferBuilderOption) SessionBuilderOption {
	return func(s *session) {
		s.diffOptions = append(s.diffOptions, opts...)
	}
}

// WithRotatorOptions passes options to the rotator.
//
// Parameters:
//   - opts: the rotator options
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithRotatorOptions(opts ...animator.RotatorBuilderOption) SessionBuilderOption {
	return func(s *session) {
		s.rotatorOptions = append(s.rotatorOptions, opts...)
	}
}

// WithInitialSelection seeds the selection before the first pass.
//
// Parameters:
//   - ids: the selected serials
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithInitialSelection(ids ...int) SessionBuilderOption {
	return func(s *session) {
		s.initialSelected = append([]int(nil), ids...)
	}
}
