package session

import (
	"github.com/Carmen-Shannon/oxy-mol/engine/animator"
	"github.com/Carmen-Shannon/oxy-mol/engine/molecule"
	"github.com/Carmen-Shannon/oxy-mol/engine/style"
	"github.com/Carmen-Shannon/oxy-mol/engine/translate"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

const (
	// DefaultBackgroundColor is used when the background colour is absent or unparseable.
	DefaultBackgroundColor = "#73757c"

	// LabelFontSize is the font size of atom labels.
	LabelFontSize = 14

	// FirstRenderZoom is the fraction of the view the model fills after the first pass.
	FirstRenderZoom = 0.8
)

// Props is the declarative description of the scene. Every pass reconciles the viewer to it.
type Props struct {
	ModelData *molecule.ModelData `json:"model_data,omitempty"`

	BackgroundColor   string   `json:"background_color,omitempty"`
	BackgroundOpacity *float64 `json:"background_opacity,omitempty"`

	AtomLabelsShown bool `json:"atom_labels_shown,omitempty"`

	// Styles are per-atom overrides keyed by serial.
	Styles map[int]style.Override `json:"styles,omitempty"`
	// Style, when non-empty, replaces per-atom styling for every atom.
	Style viewer.Style `json:"style,omitempty"`

	SelectionType string `json:"selection_type,omitempty"`
	// SelectedAtomIDs re-seeds the selection when non-nil. An empty non-nil slice clears it.
	SelectedAtomIDs []int `json:"selected_atom_ids"`

	Shapes      []translate.ShapeSpec      `json:"shapes,omitempty"`
	Orbital     *translate.OrbitalSpec     `json:"orbital,omitempty"`
	Volume      *translate.Volume          `json:"volume,omitempty"`
	IsoSurfaces []translate.IsoSurfaceSpec `json:"iso_surfaces,omitempty"`

	Animation *animator.Spec `json:"animation,omitempty"`
	Rotate    bool           `json:"rotate,omitempty"`
}

// atoms returns the model's atoms or nil.
func (p Props) atoms() []molecule.Atom {
	if p.ModelData == nil {
		return nil
	}
	return p.ModelData.Atoms
}
