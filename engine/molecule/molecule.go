// Package molecule holds the declarative model description handed to the reconciler:
// atoms, bonds and the wire encoding consumed by the viewer.
package molecule

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Atom is one atom of the input model. Serial is unique within a model and keys every per-atom map.
type Atom struct {
	Serial       int        `json:"serial" yaml:"serial" toml:"serial"`
	Name         string     `json:"name" yaml:"name" toml:"name"`
	Element      string     `json:"elem" yaml:"elem" toml:"elem"`
	Chain        string     `json:"chain" yaml:"chain" toml:"chain"`
	ResidueIndex int        `json:"residue_index" yaml:"residue_index" toml:"residue_index"`
	ResidueName  string     `json:"residue_name" yaml:"residue_name" toml:"residue_name"`
	Positions    [3]float64 `json:"positions" yaml:"positions" toml:"positions"`

	// Displacement vector used for vibration frames. Nil when the atom does not move.
	DX *float64 `json:"dx,omitempty" yaml:"dx,omitempty" toml:"dx,omitempty"`
	DY *float64 `json:"dy,omitempty" yaml:"dy,omitempty" toml:"dy,omitempty"`
	DZ *float64 `json:"dz,omitempty" yaml:"dz,omitempty" toml:"dz,omitempty"`
}

// HasDisplacement reports whether all three displacement components are set.
func (a Atom) HasDisplacement() bool {
	return a.DX != nil && a.DY != nil && a.DZ != nil
}

// Displacement returns the displacement vector, zero when unset.
func (a Atom) Displacement() [3]float64 {
	if !a.HasDisplacement() {
		return [3]float64{}
	}
	return [3]float64{*a.DX, *a.DY, *a.DZ}
}

// Bond connects two atoms by their index in ModelData.Atoms.
type Bond struct {
	Atom1 int `json:"atom1_index" yaml:"atom1_index" toml:"atom1_index"`
	Atom2 int `json:"atom2_index" yaml:"atom2_index" toml:"atom2_index"`
	Order int `json:"bond_order" yaml:"bond_order" toml:"bond_order"`
}

// ModelData is the full declarative model.
type ModelData struct {
	Atoms []Atom `json:"atoms" yaml:"atoms" toml:"atoms"`
	Bonds []Bond `json:"bonds" yaml:"bonds" toml:"bonds"`
}

// IsEmpty reports whether the model has neither atoms nor bonds. A nil model is empty.
func (m *ModelData) IsEmpty() bool {
	return m == nil || (len(m.Atoms) == 0 && len(m.Bonds) == 0)
}

// AtomBySerial looks up an atom by serial.
//
// Parameters:
//   - serial: the serial to find
//
// Returns:
//   - Atom: the atom, zero value when absent
//   - bool: true if the atom exists
func (m *ModelData) AtomBySerial(serial int) (Atom, bool) {
	if m == nil {
		return Atom{}, false
	}
	for _, a := range m.Atoms {
		if a.Serial == serial {
			return a, true
		}
	}
	return Atom{}, false
}

// Clone returns a deep copy of the model. Displacement pointers are not shared with the source.
//
// Returns:
//   - *ModelData: the copy, nil when m is nil
//   - error: error if the copy fails
func (m *ModelData) Clone() (*ModelData, error) {
	if m == nil {
		return nil, nil
	}
	out := &ModelData{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to clone model data: %w", err)
	}
	return out, nil
}

// Equivalent performs an order-sensitive, element-wise comparison of two models.
// A nil model is only equivalent to another nil model.
//
// Parameters:
//   - a: the first model
//   - b: the second model
//
// Returns:
//   - bool: true if both models describe the same atoms and bonds in the same order
func Equivalent(a, b *ModelData) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Atoms) != len(b.Atoms) || len(a.Bonds) != len(b.Bonds) {
		return false
	}
	for i := range a.Atoms {
		if !atomEqual(a.Atoms[i], b.Atoms[i]) {
			return false
		}
	}
	for i := range a.Bonds {
		if a.Bonds[i] != b.Bonds[i] {
			return false
		}
	}
	return true
}

func atomEqual(a, b Atom) bool {
	return a.Serial == b.Serial &&
		a.Name == b.Name &&
		a.Element == b.Element &&
		a.Chain == b.Chain &&
		a.ResidueIndex == b.ResidueIndex &&
		a.ResidueName == b.ResidueName &&
		a.Positions == b.Positions &&
		floatPtrEqual(a.DX, b.DX) &&
		floatPtrEqual(a.DY, b.DY) &&
		floatPtrEqual(a.DZ, b.DZ)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
