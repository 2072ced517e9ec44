// Package style turns atoms, selection and overrides into viewer styles and keeps the per-atom
// fingerprint cache used to skip unchanged atoms between passes.
package style

import (
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

const (
	// SelectedColor highlights selected atoms.
	SelectedColor = "#1ff3fe"

	// LabeledOpacity is applied to every atom while labels are shown so the text stays readable.
	LabeledOpacity = 0.6
)

// Override is a per-atom style override supplied by the host. Representation picks the
// representation; every other set field is copied into it.
type Override struct {
	Representation viewer.Representation `json:"visualization_type,omitempty" yaml:"visualization_type,omitempty" toml:"visualization_type,omitempty"`
	Color          string                `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Opacity        *float64              `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	Radius         float64               `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Scale          float64               `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
}

// apply copies the override's set fields over rs.
func (o *Override) apply(rs *viewer.RepresentationStyle) {
	if o == nil {
		return
	}
	if o.Color != "" {
		rs.Color = o.Color
	}
	if o.Opacity != nil {
		op := *o.Opacity
		rs.Opacity = &op
	}
	if o.Radius != 0 {
		rs.Radius = o.Radius
	}
	if o.Scale != 0 {
		rs.Scale = o.Scale
	}
}

// LibStyle computes the effective style of one atom.
// The base treatment depends only on selection; the viewer's element palette colours unselected atoms.
// Label annotation is applied on top, then the override, which wins on any field it sets.
//
// Parameters:
//   - atom: the atom
//   - selected: whether the atom is selected
//   - labelsShown: whether atom labels are shown
//   - override: the atom's override, nil when absent
//
// Returns:
//   - viewer.Style: the effective style
func LibStyle(atom molecule.Atom, selected, labelsShown bool, override *Override) viewer.Style {
	rep := viewer.RepresentationStick
	if override != nil && override.Representation != "" {
		rep = override.Representation
	}

	rs := viewer.RepresentationStyle{}
	if selected {
		rs.Color = SelectedColor
	}
	if labelsShown {
		op := LabeledOpacity
		rs.Opacity = &op
	}
	override.apply(&rs)

	return viewer.Style{rep: rs}
}

// Fingerprint returns the canonical diff key of a style.
func Fingerprint(s viewer.Style) string {
	return s.Canonical()
}
