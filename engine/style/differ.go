package style

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// Input is everything one style pass depends on.
type Input struct {
	Atoms       []molecule.Atom
	Selected    map[int]bool
	LabelsShown bool

	// Global, when non-empty, replaces per-atom styling with one call covering every atom.
	Global viewer.Style

	// Overrides are keyed by atom serial.
	Overrides map[int]Override
}

// Batch is one SetStyle call: a style and the atoms it applies to.
type Batch struct {
	Fingerprint string
	Style       viewer.Style
	Selector    viewer.Selector
}

// Differ computes the minimal set of style batches between passes.
type Differ interface {
	// Diff computes this pass's batches and updates the fingerprint cache.
	// Atoms whose fingerprint matches the cache are omitted. Changed atoms are grouped by fingerprint,
	// buckets ordered by first appearance and serials in atom order. A global style short-circuits the
	// per-atom diff into a single batch with an all-atoms selector.
	//
	// Parameters:
	//   - in: the pass input
	//
	// Returns:
	//   - []Batch: the batches to submit, empty when nothing changed
	Diff(in Input) []Batch

	// Apply submits batches to the viewer, one SetStyle call per batch.
	//
	// Parameters:
	//   - v: the viewer
	//   - batches: the batches from Diff
	//
	// Returns:
	//   - int: the number of SetStyle calls issued
	Apply(v viewer.Viewer, batches []Batch) int

	// Invalidate clears the fingerprint cache. Called on every full model reload.
	Invalidate()

	// Close releases the worker pool.
	Close()
}

type differ struct {
	mu *sync.Mutex

	cache map[int]string

	logger            common.Logger
	parallelThreshold int
	chunkSize         int
	workers           int
	pool              worker.DynamicWorkerPool
}

var _ Differ = &differ{}

// NewDiffer creates a Differ with an empty cache.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Differ: the differ
func NewDiffer(options ...DifferBuilderOption) Differ {
	d := &differ{
		mu:                &sync.Mutex{},
		cache:             make(map[int]string),
		logger:            common.NoOpLogger{},
		parallelThreshold: 2048,
		chunkSize:         512,
		workers:           max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(d)
	}

	// Created after options so WithWorkers can override the default.
	d.pool = worker.NewDynamicWorkerPool(d.workers, 256, 1*time.Second)
	return d
}

func (d *differ) Diff(in Input) []Batch {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(in.Global) > 0 {
		fp := Fingerprint(in.Global)
		for _, a := range in.Atoms {
			d.cache[a.Serial] = fp
		}
		return []Batch{{Fingerprint: fp, Style: in.Global, Selector: viewer.All()}}
	}

	styles, fps := d.fingerprints(in)

	order := make([]string, 0)
	buckets := make(map[string]*Batch)
	for i, a := range in.Atoms {
		fp := fps[i]
		if prev, ok := d.cache[a.Serial]; ok && prev == fp {
			continue
		}
		d.cache[a.Serial] = fp

		b, ok := buckets[fp]
		if !ok {
			b = &Batch{Fingerprint: fp, Style: styles[i]}
			buckets[fp] = b
			order = append(order, fp)
		}
		b.Selector.Serials = append(b.Selector.Serials, a.Serial)
	}

	out := make([]Batch, 0, len(order))
	for _, fp := range order {
		out = append(out, *buckets[fp])
	}
	d.logger.Debugf("[Style] %d atoms, %d changed buckets", len(in.Atoms), len(out))
	return out
}

// fingerprints computes every atom's style and fingerprint. Large models are split into chunks
// evaluated on the worker pool; results land at their atom index so bucketing stays deterministic.
func (d *differ) fingerprints(in Input) ([]viewer.Style, []string) {
	styles := make([]viewer.Style, len(in.Atoms))
	fps := make([]string, len(in.Atoms))

	compute := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			a := in.Atoms[i]
			var ov *Override
			if o, ok := in.Overrides[a.Serial]; ok {
				ov = &o
			}
			styles[i] = LibStyle(a, in.Selected[a.Serial], in.LabelsShown, ov)
			fps[i] = Fingerprint(styles[i])
		}
	}

	if len(in.Atoms) < d.parallelThreshold || d.pool == nil {
		compute(0, len(in.Atoms))
		return styles, fps
	}

	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < len(in.Atoms); lo += d.chunkSize {
		hi := min(lo+d.chunkSize, len(in.Atoms))
		loCap, hiCap := lo, hi
		wg.Add(1)
		d.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				compute(loCap, hiCap)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
	return styles, fps
}

func (d *differ) Apply(v viewer.Viewer, batches []Batch) int {
	for _, b := range batches {
		v.SetStyle(b.Selector, b.Style)
	}
	return len(batches)
}

func (d *differ) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[int]string)
}

// cached returns the cached fingerprint of serial.
func (d *differ) cached(serial int) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fp, ok := d.cache[serial]
	return fp, ok
}

func (d *differ) Close() {
	if d.pool != nil {
		d.pool.Stop()
	}
}
