package loader

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// LoaderBackendType identifies the wire encoding used to hand models to the viewer.
type LoaderBackendType int

const (
	// BackendTypeCDJSON selects the ChemDoodle JSON encoding.
	BackendTypeCDJSON LoaderBackendType = iota
)

// Invalidator is notified whenever the model is reloaded. The style differ satisfies it.
type Invalidator interface {
	Invalidate()
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.Mutex

	backend      loaderBackend
	invalidators []Invalidator
	logger       common.Logger

	last   *molecule.ModelData
	loaded bool
}

// Loader decides when a model must be reloaded and performs the reload.
// It keeps a private deep copy of the last loaded model so host-side mutation of the input cannot
// make a changed model look equivalent.
type Loader interface {
	// ShouldReload reports whether next differs from the last loaded model.
	// Before the first Load every model, including an empty one, needs loading.
	//
	// Parameters:
	//   - next: the incoming model
	//
	// Returns:
	//   - bool: true if Load must run
	ShouldReload(next *molecule.ModelData) bool

	// Load clears the viewer, invalidates style caches and, for a non-empty model, loads it and annotates
	// the loaded atoms with serial, name, chain, residue and displacement. The model is recorded as
	// the last loaded one even when the viewer rejects it so failures are not retried every pass.
	//
	// Parameters:
	//   - v: the viewer
	//   - m: the model to load
	//
	// Returns:
	//   - error: error if encoding or the viewer load fails
	Load(v viewer.Viewer, m *molecule.ModelData) error

	// Last returns the last loaded model. Callers must not modify it.
	//
	// Returns:
	//   - *molecule.ModelData: the model, nil before the first Load
	Last() *molecule.ModelData
}

var _ Loader = &loader{}

// ShouldReload is the pure reload predicate: a reload is needed whenever the models are not equivalent.
//
// Parameters:
//   - prev: the previously loaded model
//   - next: the incoming model
//
// Returns:
//   - bool: true if next must be loaded
func ShouldReload(prev, next *molecule.ModelData) bool {
	return !molecule.Equivalent(prev, next)
}

// NewLoader creates a Loader using the given backend.
//
// Parameters:
//   - backendType: the wire encoding
//   - options: functional options applied in order
//
// Returns:
//   - Loader: the loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:     &sync.Mutex{},
		logger: common.NoOpLogger{},
	}
	switch backendType {
	case BackendTypeCDJSON:
		fallthrough
	default:
		l.backend = &cdjsonLoaderBackend{}
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) ShouldReload(next *molecule.ModelData) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return true
	}
	return ShouldReload(l.last, next)
}

func (l *loader) Load(v viewer.Viewer, m *molecule.ModelData) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	v.Clear()
	for _, inv := range l.invalidators {
		inv.Invalidate()
	}

	snapshot, err := m.Clone()
	if err != nil {
		return err
	}
	l.last = snapshot
	l.loaded = true

	if m.IsEmpty() {
		l.logger.Debugf("[Loader] empty model, viewer cleared")
		return nil
	}

	data, format, err := l.backend.Encode(m)
	if err != nil {
		return err
	}
	if err := v.LoadModel(data, format, viewer.LoadOptions{KeepHydrogens: true}); err != nil {
		return fmt.Errorf("viewer rejected model: %w", err)
	}

	annotated := annotate(v.LoadedAtoms(), m.Atoms)
	l.logger.Debugf("[Loader] loaded %d atoms, %d bonds, annotated %d", len(m.Atoms), len(m.Bonds), annotated)
	return nil
}

func (l *loader) Last() *molecule.ModelData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// annotate copies input identity onto the loaded atoms, matching wire index to input position.
func annotate(loaded []*viewer.Atom, atoms []molecule.Atom) int {
	n := 0
	for _, la := range loaded {
		if la == nil || la.Index < 0 || la.Index >= len(atoms) {
			continue
		}
		src := atoms[la.Index]
		la.Serial = src.Serial
		la.Name = src.Name
		la.Chain = src.Chain
		la.ResidueIndex = src.ResidueIndex
		la.ResidueName = src.ResidueName
		la.DX, la.DY, la.DZ = src.DX, src.DY, src.DZ
		n++
	}
	return n
}
