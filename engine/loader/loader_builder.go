package loader

import "github.com/Carmen-Shannon/oxy-mol/common"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithInvalidator registers a cache that must be cleared on every reload.
//
// Parameters:
//   - inv: the cache to invalidate
//
// Returns:
//   - LoaderBuilderOption: a function that applies the invalidator option to a loader
func WithInvalidator(inv Invalidator) LoaderBuilderOption {
	return func(l *loader) {
		if inv != nil {
			l.invalidators = append(l.invalidators, inv)
		}
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - lg: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(lg common.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}
