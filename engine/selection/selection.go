package selection

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
)

// Scope controls how far a click expands.
type Scope int

const (
	// ScopeAtom toggles the clicked atom only.
	ScopeAtom Scope = iota
	// ScopeResidue toggles every atom sharing the clicked atom's chain and residue index.
	ScopeResidue
	// ScopeChain toggles every atom sharing the clicked atom's chain.
	ScopeChain
)

// String returns the scope name as used in scene files.
func (s Scope) String() string {
	switch s {
	case ScopeResidue:
		return "residue"
	case ScopeChain:
		return "chain"
	default:
		return "atom"
	}
}

// ParseScope maps "atom", "residue" and "chain" to a Scope. An empty string is ScopeAtom.
//
// Parameters:
//   - s: the scope name (case-insensitive)
//
// Returns:
//   - Scope: the parsed scope
//   - error: error if the name is unknown
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "atom":
		return ScopeAtom, nil
	case "residue":
		return ScopeResidue, nil
	case "chain":
		return ScopeChain, nil
	}
	return ScopeAtom, fmt.Errorf("unknown selection type %q", s)
}

// AddSelection applies a click to the current selection and returns the new selection.
// The input slice is never modified.
//
// For ScopeAtom the clicked serial is toggled. For ScopeResidue and ScopeChain the clicked atom's group
// is toggled as a unit: if every member is already selected the whole group is removed, otherwise the
// missing members are appended in model order. Existing order is preserved and no serial appears twice.
// A click on a serial missing from atoms leaves the selection unchanged.
//
// Parameters:
//   - atoms: the current model's atoms
//   - current: the current selection
//   - clicked: the serial of the clicked atom
//   - scope: how far the click expands
//
// Returns:
//   - []int: the new selection
func AddSelection(atoms []molecule.Atom, current []int, clicked int, scope Scope) []int {
	group := groupOf(atoms, clicked, scope)
	if len(group) == 0 {
		return append([]int{}, current...)
	}

	selected := make(map[int]bool, len(current))
	for _, s := range current {
		selected[s] = true
	}

	allSelected := true
	for _, s := range group {
		if !selected[s] {
			allSelected = false
			break
		}
	}

	out := make([]int, 0, len(current)+len(group))
	if allSelected {
		drop := make(map[int]bool, len(group))
		for _, s := range group {
			drop[s] = true
		}
		for _, s := range current {
			if !drop[s] {
				out = append(out, s)
			}
		}
		return out
	}

	seen := make(map[int]bool, len(current)+len(group))
	for _, s := range current {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, s := range group {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// groupOf returns the serials toggled together with clicked, in model order. A serial missing
// from atoms has no group.
func groupOf(atoms []molecule.Atom, clicked int, scope Scope) []int {
	var target *molecule.Atom
	for i := range atoms {
		if atoms[i].Serial == clicked {
			target = &atoms[i]
			break
		}
	}
	if target == nil {
		return nil
	}
	if scope == ScopeAtom {
		return []int{clicked}
	}

	group := make([]int, 0)
	for _, a := range atoms {
		switch scope {
		case ScopeResidue:
			if a.Chain == target.Chain && a.ResidueIndex == target.ResidueIndex {
				group = append(group, a.Serial)
			}
		case ScopeChain:
			if a.Chain == target.Chain {
				group = append(group, a.Serial)
			}
		}
	}
	return group
}

// Manager owns the selection state of one scene.
type Manager interface {
	// Seed replaces the selection with ids. Duplicates are dropped, first occurrence wins.
	//
	// Parameters:
	//   - ids: the new selection
	Seed(ids []int)

	// Click applies a click with the given scope and fires the change callback. A click on a serial
	// missing from atoms changes nothing and does not fire the callback.
	//
	// Parameters:
	//   - atoms: the current model's atoms
	//   - clicked: the serial of the clicked atom
	//   - scope: how far the click expands
	//
	// Returns:
	//   - []int: a copy of the new selection
	Click(atoms []molecule.Atom, clicked int, scope Scope) []int

	// Selected returns a copy of the current selection in order.
	//
	// Returns:
	//   - []int: the selected serials
	Selected() []int

	// Set returns the selection as a lookup set.
	//
	// Returns:
	//   - map[int]bool: selected serials mapped to true
	Set() map[int]bool
}

type manager struct {
	mu *sync.Mutex

	selected []int
	onChange func(ids []int)
}

var _ Manager = &manager{}

// NewManager creates an empty selection Manager.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Manager: the manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:       &sync.Mutex{},
		selected: []int{},
	}
	for _, opt := range options {
		opt(m)
	}
	m.Seed(m.selected)
	return m
}

func (m *manager) Seed(ids []int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	m.selected = out
}

func (m *manager) Click(atoms []molecule.Atom, clicked int, scope Scope) []int {
	m.mu.Lock()
	if len(groupOf(atoms, clicked, scope)) == 0 {
		ids := append([]int{}, m.selected...)
		m.mu.Unlock()
		return ids
	}
	m.selected = AddSelection(atoms, m.selected, clicked, scope)
	ids := append([]int(nil), m.selected...)
	cb := m.onChange
	m.mu.Unlock()

	if cb != nil {
		cb(append([]int(nil), ids...))
	}
	return ids
}

func (m *manager) Selected() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int{}, m.selected...)
}

func (m *manager) Set() map[int]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]bool, len(m.selected))
	for _, s := range m.selected {
		out[s] = true
	}
	return out
}
