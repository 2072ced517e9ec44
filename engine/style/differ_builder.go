package style

import "github.com/Carmen-Shannon/oxy-mol/common"

// DifferBuilderOption is a functional option for configuring a Differ.
type DifferBuilderOption func(*differ)

// WithLogger sets the logger used for per-pass debug output.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - DifferBuilderOption: option function to apply
func WithLogger(l common.Logger) DifferBuilderOption {
	return func(d *differ) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithParallelThreshold sets the atom count from which fingerprints are computed on the worker pool.
// Smaller models are fingerprinted inline.
//
// Parameters:
//   - n: the threshold (minimum 1)
//
// Returns:
//   - DifferBuilderOption: option function to apply
func WithParallelThreshold(n int) DifferBuilderOption {
	return func(d *differ) {
		d.parallelThreshold = max(n, 1)
	}
}

// WithChunkSize sets how many atoms one worker task fingerprints.
//
// Parameters:
//   - n: the chunk size (minimum 1)
//
// Returns:
//   - DifferBuilderOption: option function to apply
func WithChunkSize(n int) DifferBuilderOption {
	return func(d *differ) {
		d.chunkSize = max(n, 1)
	}
}

// WithWorkers sets the maximum number of pool workers. The default is one less than the CPU count.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - DifferBuilderOption: option function to apply
func WithWorkers(n int) DifferBuilderOption {
	return func(d *differ) {
		d.workers = max(n, 1)
	}
}
