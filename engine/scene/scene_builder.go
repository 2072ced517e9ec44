package scene

import (
	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the camera the scene frames and rotates. Defaults to camera.NewCamera().
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = cam
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(l common.Logger) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPickRadius sets how close in Angstrom a picking ray must pass to hit an atom.
//
// Parameters:
//   - r: the radius, ignored if not positive
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPickRadius(r float64) SceneBuilderOption {
	return func(s *scene) {
		if r > 0 {
			s.pickRadius = r
		}
	}
}
