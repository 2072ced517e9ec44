package animator

import "github.com/Carmen-Shannon/oxy-mol/common"

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithScheduler sets the scheduler used for deferred starts. Defaults to the wall clock.
//
// Parameters:
//   - s: the scheduler
//
// Returns:
//   - ControllerBuilderOption: a function that applies the scheduler option to a controller
func WithScheduler(s Scheduler) ControllerBuilderOption {
	return func(c *controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithExecutor sets the function deferred starts run through. The session passes its lock so a
// deferred start never overlaps a reconciliation pass.
//
// Parameters:
//   - exec: runs fn, typically under a lock
//
// Returns:
//   - ControllerBuilderOption: a function that applies the executor option to a controller
func WithExecutor(exec func(fn func())) ControllerBuilderOption {
	return func(c *controller) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ControllerBuilderOption: a function that applies the logger option to a controller
func WithLogger(l common.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if l != nil {
			c.logger = l
		}
	}
}
