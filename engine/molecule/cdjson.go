package molecule

import (
	"encoding/json"
	"fmt"
)

// cdAtom, cdBond and cdMolecule mirror the ChemDoodle JSON layout the viewer loads:
// {"m":[{"a":[{"x","y","z","l"}],"b":[{"b","e","o"}]}]}
type cdAtom struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	L string  `json:"l,omitempty"`
}

type cdBond struct {
	B int `json:"b"`
	E int `json:"e"`
	O int `json:"o"`
}

type cdMolecule struct {
	A []cdAtom `json:"a"`
	B []cdBond `json:"b"`
}

type cdDocument struct {
	M []cdMolecule `json:"m"`
}

// WireAtom is a decoded wire atom: the geometry and element the viewer sees before annotation.
type WireAtom struct {
	Index    int
	Position [3]float64
	Element  string
}

// WireBond is a decoded wire bond between two wire atom indices.
type WireBond struct {
	Begin int
	End   int
	Order int
}

// EncodeCDJSON serialises the model into the wire format passed to Viewer.LoadModel.
// Atom order is preserved so wire index i corresponds to m.Atoms[i].
//
// Parameters:
//   - m: the model to encode
//
// Returns:
//   - []byte: the JSON document
//   - error: error if marshalling fails
func EncodeCDJSON(m *ModelData) ([]byte, error) {
	mol := cdMolecule{A: []cdAtom{}, B: []cdBond{}}
	if m != nil {
		mol.A = make([]cdAtom, len(m.Atoms))
		for i, a := range m.Atoms {
			mol.A[i] = cdAtom{X: a.Positions[0], Y: a.Positions[1], Z: a.Positions[2], L: a.Element}
		}
		mol.B = make([]cdBond, len(m.Bonds))
		for i, b := range m.Bonds {
			mol.B[i] = cdBond{B: b.Atom1, E: b.Atom2, O: b.Order}
		}
	}
	data, err := json.Marshal(cdDocument{M: []cdMolecule{mol}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return data, nil
}

// DecodeCDJSON parses a wire document back into atoms and bonds. Only the first molecule is read.
//
// Parameters:
//   - data: the JSON document
//
// Returns:
//   - []WireAtom: the atoms in wire order
//   - []WireBond: the bonds
//   - error: error if the document is malformed or references unknown atoms
func DecodeCDJSON(data []byte) ([]WireAtom, []WireBond, error) {
	var doc cdDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode model: %w", err)
	}
	if len(doc.M) == 0 {
		return nil, nil, nil
	}
	mol := doc.M[0]

	atoms := make([]WireAtom, len(mol.A))
	for i, a := range mol.A {
		atoms[i] = WireAtom{Index: i, Position: [3]float64{a.X, a.Y, a.Z}, Element: a.L}
	}
	bonds := make([]WireBond, 0, len(mol.B))
	for _, b := range mol.B {
		if b.B < 0 || b.B >= len(atoms) || b.E < 0 || b.E >= len(atoms) {
			return nil, nil, fmt.Errorf("bond %d-%d references an unknown atom", b.B, b.E)
		}
		bonds = append(bonds, WireBond{Begin: b.B, End: b.E, Order: b.O})
	}
	return atoms, bonds, nil
}
