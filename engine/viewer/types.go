package viewer

import (
	"encoding/json"
	"sort"
	"time"
)

// Format names the encoding of a model passed to LoadModel.
type Format string

const (
	// FormatJSON is the ChemDoodle style JSON document produced by molecule.EncodeCDJSON.
	FormatJSON Format = "json"
)

// LoadOptions controls how LoadModel parses data.
type LoadOptions struct {
	KeepHydrogens bool
}

// Atom is a loaded atom as the viewer knows it. The annotation fields are written by the loader after
// LoadModel so selectors and click callbacks can match on input serials.
type Atom struct {
	Index    int
	Position [3]float64
	Element  string

	Serial       int
	Name         string
	Chain        string
	ResidueIndex int
	ResidueName  string

	DX, DY, DZ *float64
}

// Selector matches atoms by serial. An empty selector matches every atom.
type Selector struct {
	Serials []int
}

// All is the selector matching every atom.
func All() Selector {
	return Selector{}
}

// Serials builds a selector for the given serials.
func Serials(serials ...int) Selector {
	return Selector{Serials: serials}
}

// IsAll reports whether the selector matches every atom.
func (s Selector) IsAll() bool {
	return len(s.Serials) == 0
}

// Matches reports whether serial is matched by the selector.
func (s Selector) Matches(serial int) bool {
	if s.IsAll() {
		return true
	}
	for _, v := range s.Serials {
		if v == serial {
			return true
		}
	}
	return false
}

// Representation is a molecular drawing mode.
type Representation string

const (
	RepresentationStick   Representation = "stick"
	RepresentationSphere  Representation = "sphere"
	RepresentationCartoon Representation = "cartoon"
	RepresentationLine    Representation = "line"
	RepresentationCross   Representation = "cross"
)

// RepresentationStyle holds the parameters of one representation. Zero fields are omitted so the
// viewer falls back to its own defaults.
type RepresentationStyle struct {
	Color   string   `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	Radius  float64  `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Scale   float64  `json:"scale,omitempty" yaml:"scale,omitempty" toml:"scale,omitempty"`
}

// Style maps representations to their parameters.
type Style map[Representation]RepresentationStyle

// Representations returns the style's representations in lexical order.
func (s Style) Representations() []Representation {
	out := make([]Representation, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Canonical returns the deterministic JSON encoding of the style. encoding/json sorts map keys,
// so equal styles always produce identical bytes.
func (s Style) Canonical() string {
	if len(s) == 0 {
		return "{}"
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// LabelOptions positions a label.
type LabelOptions struct {
	FontSize int
	Position [3]float64
}

// ShapeKind names a primitive shape.
type ShapeKind string

const (
	ShapeSphere   ShapeKind = "Sphere"
	ShapeCylinder ShapeKind = "Cylinder"
	ShapeArrow    ShapeKind = "Arrow"
	ShapeBox      ShapeKind = "Box"
	ShapeLine     ShapeKind = "Line"
)

// ShapeSpec holds the translated parameters of a primitive. Only the fields meaningful for the kind are set.
type ShapeSpec struct {
	Center     *[3]float64
	Start      *[3]float64
	End        *[3]float64
	Dimensions *[3]float64
	Radius     *float64
	Color      *uint32
	Opacity    *float64
	Wireframe  bool
}

// VolumeDataset is a volumetric grid handed to AddVolumetricIsosurface. Either Source is set
// (opaque data in Format, such as a Gaussian cube file) or the grid fields describe the samples.
type VolumeDataset struct {
	Format string
	Source string

	Dimensions [3]int
	Origin     [3]float64
	Spacing    [3]float64
	Scalars    []float64
}

// IsoSurfaceOptions parameterises one isosurface.
type IsoSurfaceOptions struct {
	IsoVal     float64
	// Color is nil when the host gave none; the viewer's default surface colour applies.
	Color      *uint32
	Opacity    float64
	Smoothness *int
}

// ClickHandler receives the clicked atom.
type ClickHandler func(atom *Atom)

// ZoomOptions parameterises ZoomToFit. Factor is the fraction of the view the model fills; 1 frames it exactly.
type ZoomOptions struct {
	Factor float64
}

// LoopMode selects how an animation walks its frames.
type LoopMode string

const (
	LoopForward      LoopMode = "forward"
	LoopBackward     LoopMode = "backward"
	LoopBackAndForth LoopMode = "backAndForth"
)

// AnimateOptions parameterises StartAnimate. Reps of 0 loops forever.
type AnimateOptions struct {
	Interval time.Duration
	Loop     LoopMode
	Reps     int
}
