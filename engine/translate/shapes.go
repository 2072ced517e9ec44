// Package translate converts declarative shape, orbital and isosurface descriptors into viewer calls.
// Every category is clear-then-add: the previous pass's primitives are removed before the current ones are added.
package translate

import (
	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

func (p *Point) array() *[3]float64 {
	if p == nil {
		return nil
	}
	return &[3]float64{p.X, p.Y, p.Z}
}

// Dimensions is the extent of a box.
type Dimensions struct {
	W float64 `json:"w" yaml:"w" toml:"w"`
	H float64 `json:"h" yaml:"h" toml:"h"`
	D float64 `json:"d" yaml:"d" toml:"d"`
}

// ShapeSpec is a host supplied primitive. Type selects the primitive; unknown types are skipped.
type ShapeSpec struct {
	Type       string      `json:"type" yaml:"type" toml:"type"`
	Center     *Point      `json:"center,omitempty" yaml:"center,omitempty" toml:"center,omitempty"`
	Start      *Point      `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	End        *Point      `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty" toml:"dimensions,omitempty"`
	Radius     *float64    `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Color      string      `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Opacity    *float64    `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	Wireframe  bool        `json:"wireframe,omitempty" yaml:"wireframe,omitempty" toml:"wireframe,omitempty"`
}

// TranslateShape converts a host spec into the viewer's primitive. Only fields meaningful for the kind
// are carried over. Missing positions or dimensions stay nil and an unparseable colour is dropped, so
// the viewer default applies to either.
//
// Parameters:
//   - s: the host spec
//
// Returns:
//   - viewer.ShapeKind: the primitive kind
//   - viewer.ShapeSpec: the translated parameters
//   - bool: false if the type is unknown
func TranslateShape(s ShapeSpec) (viewer.ShapeKind, viewer.ShapeSpec, bool) {
	out := viewer.ShapeSpec{Opacity: s.Opacity}
	if s.Color != "" {
		if c, err := common.ParseColor(s.Color); err == nil {
			v := uint32(c)
			out.Color = &v
		}
	}

	kind := viewer.ShapeKind(s.Type)
	switch kind {
	case viewer.ShapeSphere:
		out.Center = s.Center.array()
		out.Radius = s.Radius
		out.Wireframe = s.Wireframe
	case viewer.ShapeBox:
		out.Center = s.Center.array()
		if s.Dimensions != nil {
			out.Dimensions = &[3]float64{s.Dimensions.W, s.Dimensions.H, s.Dimensions.D}
		}
		out.Wireframe = s.Wireframe
	case viewer.ShapeCylinder, viewer.ShapeArrow:
		out.Start = s.Start.array()
		out.End = s.End.array()
		out.Radius = s.Radius
	case viewer.ShapeLine:
		out.Start = s.Start.array()
		out.End = s.End.array()
	default:
		return "", viewer.ShapeSpec{}, false
	}
	return kind, out, true
}

// Shapes removes every shape from the viewer and adds the recognised ones from specs.
//
// Parameters:
//   - v: the viewer
//   - specs: the host shape specs
//   - logger: receives a debug line per skipped spec
//
// Returns:
//   - int: the number of shapes added
func Shapes(v viewer.Viewer, specs []ShapeSpec, logger common.Logger) int {
	v.RemoveAllShapes()
	added := 0
	for i, s := range specs {
		kind, spec, ok := TranslateShape(s)
		if !ok {
			logger.Debugf("[Translate] skipping shape %d with type %q", i, s.Type)
			continue
		}
		v.AddShape(kind, spec)
		added++
	}
	return added
}
