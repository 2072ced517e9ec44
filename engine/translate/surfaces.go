package translate

import (
	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
)

const (
	// OrbitalColorPositive colours the positive lobe of an orbital.
	OrbitalColorPositive uint32 = 0xff0000
	// OrbitalColorNegative colours the negative lobe of an orbital.
	OrbitalColorNegative uint32 = 0x0000ff
)

// OrbitalSpec describes a molecular orbital stored as a Gaussian cube file.
type OrbitalSpec struct {
	CubeFile string  `json:"cube_file,omitempty" yaml:"cube_file,omitempty" toml:"cube_file,omitempty"`
	IsoVal   float64 `json:"iso_val,omitempty" yaml:"iso_val,omitempty" toml:"iso_val,omitempty"`
	Opacity  float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
}

// Volume is a raw volumetric grid supplied by the host.
type Volume struct {
	Dimensions [3]int     `json:"dimensions" yaml:"dimensions" toml:"dimensions"`
	Origin     [3]float64 `json:"origin" yaml:"origin" toml:"origin"`
	Spacing    [3]float64 `json:"spacing" yaml:"spacing" toml:"spacing"`
	Scalars    []float64  `json:"scalars" yaml:"scalars" toml:"scalars"`
}

// IsEmpty reports whether the volume carries no samples. A nil volume is empty.
func (v *Volume) IsEmpty() bool {
	return v == nil || len(v.Scalars) == 0
}

// IsoSurfaceSpec is one isosurface of the volume.
type IsoSurfaceSpec struct {
	Value      float64 `json:"value" yaml:"value" toml:"value"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Opacity    float64 `json:"opacity" yaml:"opacity" toml:"opacity"`
	Smoothness *int    `json:"smoothness,omitempty" yaml:"smoothness,omitempty" toml:"smoothness,omitempty"`
}

// ToVolumetricDataset adapts a raw volume to the viewer's dataset type. The scalars are copied.
//
// Parameters:
//   - raw: the host volume
//
// Returns:
//   - viewer.VolumeDataset: the dataset in "volume" format
func ToVolumetricDataset(raw Volume) viewer.VolumeDataset {
	return viewer.VolumeDataset{
		Format:     "volume",
		Dimensions: raw.Dimensions,
		Origin:     raw.Origin,
		Spacing:    raw.Spacing,
		Scalars:    append([]float64(nil), raw.Scalars...),
	}
}

// Orbital adds the positive and negative lobes of an orbital. Nothing is added without a cube file.
//
// Parameters:
//   - v: the viewer
//   - o: the orbital spec, may be nil
//
// Returns:
//   - int: the number of isosurfaces added (0 or 2)
func Orbital(v viewer.Viewer, o *OrbitalSpec) int {
	if o == nil || o.CubeFile == "" {
		return 0
	}
	data := viewer.VolumeDataset{Format: "cube", Source: o.CubeFile}
	v.AddVolumetricIsosurface(data, viewer.IsoSurfaceOptions{
		IsoVal:  o.IsoVal,
		Color:   common.Ptr(OrbitalColorPositive),
		Opacity: o.Opacity,
	})
	v.AddVolumetricIsosurface(data, viewer.IsoSurfaceOptions{
		IsoVal:  -o.IsoVal,
		Color:   common.Ptr(OrbitalColorNegative),
		Opacity: o.Opacity,
	})
	return 2
}

// IsoSurfaces adds one isosurface per spec over a single adapted dataset. Nothing is added for an
// empty volume. A spec without a colour is added with the viewer's default; one whose colour does not
// parse is skipped.
//
// Parameters:
//   - v: the viewer
//   - volume: the raw volume, may be nil
//   - specs: the isosurface specs
//   - logger: receives a debug line per skipped spec
//
// Returns:
//   - int: the number of isosurfaces added
func IsoSurfaces(v viewer.Viewer, volume *Volume, specs []IsoSurfaceSpec, logger common.Logger) int {
	if volume.IsEmpty() {
		return 0
	}
	data := ToVolumetricDataset(*volume)

	added := 0
	for i, s := range specs {
		var color *uint32
		if s.Color != "" {
			c, err := common.ParseColor(s.Color)
			if err != nil {
				logger.Debugf("[Translate] skipping isosurface %d: %v", i, err)
				continue
			}
			color = common.Ptr(uint32(c))
		}
		v.AddVolumetricIsosurface(data, viewer.IsoSurfaceOptions{
			IsoVal:     s.Value,
			Color:      color,
			Opacity:    s.Opacity,
			Smoothness: s.Smoothness,
		})
		added++
	}
	return added
}

// Surfaces clears every isosurface and re-adds the orbital lobes followed by the volume isosurfaces.
//
// Parameters:
//   - v: the viewer
//   - orbital: the orbital spec, may be nil
//   - volume: the raw volume, may be nil
//   - isos: the isosurface specs
//   - logger: receives skip diagnostics
//
// Returns:
//   - int: the total number of isosurfaces added
func Surfaces(v viewer.Viewer, orbital *OrbitalSpec, volume *Volume, isos []IsoSurfaceSpec, logger common.Logger) int {
	v.RemoveAllSurfaces()
	return Orbital(v, orbital) + IsoSurfaces(v, volume, isos, logger)
}
