// Package viewer declares the capability set the reconciler needs from a stateful 3D molecular viewer.
// Any engine that can satisfy Viewer can be driven by a session.
package viewer

// Viewer is the imperative engine the reconciler drives. Implementations are not required to be
// goroutine safe; the session serialises every call.
type Viewer interface {
	// Clear removes every model, style, label, shape and surface from the scene.
	Clear()

	// LoadModel parses data in the given format and adds it as the scene's model.
	//
	// Parameters:
	//   - data: the encoded model
	//   - format: the encoding of data
	//   - opts: loader options
	//
	// Returns:
	//   - error: error if the model cannot be parsed
	LoadModel(data []byte, format Format, opts LoadOptions) error

	// LoadedAtoms returns the atoms of the current model in load order. The returned records are
	// live: annotations written to them are visible to selectors and click callbacks.
	//
	// Returns:
	//   - []*Atom: the loaded atoms
	LoadedAtoms() []*Atom

	// SetStyle applies style to every atom matched by sel, replacing their previous style.
	//
	// Parameters:
	//   - sel: the atoms to style
	//   - style: the style to apply
	SetStyle(sel Selector, style Style)

	// AddLabel adds a floating text label.
	//
	// Parameters:
	//   - text: the label text
	//   - opts: font size and position
	AddLabel(text string, opts LabelOptions)

	// RemoveAllLabels removes every label.
	RemoveAllLabels()

	// AddShape adds a primitive shape.
	//
	// Parameters:
	//   - kind: the primitive kind
	//   - spec: the translated shape parameters
	AddShape(kind ShapeKind, spec ShapeSpec)

	// RemoveAllShapes removes every primitive shape.
	RemoveAllShapes()

	// AddVolumetricIsosurface adds an isosurface of a volumetric dataset.
	//
	// Parameters:
	//   - volume: the dataset
	//   - opts: iso value, colour, opacity and optional smoothness
	AddVolumetricIsosurface(volume VolumeDataset, opts IsoSurfaceOptions)

	// RemoveAllSurfaces removes every isosurface.
	RemoveAllSurfaces()

	// SetBackground sets the clear colour of the scene.
	//
	// Parameters:
	//   - color: packed 0xRRGGBB colour
	//   - opacity: alpha in [0, 1]
	SetBackground(color uint32, opacity float64)

	// SetClickHandler registers the callback invoked when an atom matched by sel is clicked.
	// Registering again replaces the previous callback.
	//
	// Parameters:
	//   - sel: the clickable atoms
	//   - enabled: whether clicks are reported at all
	//   - cb: the callback receiving the clicked atom
	SetClickHandler(sel Selector, enabled bool, cb ClickHandler)

	// Render redraws the scene.
	Render()

	// ZoomToFit frames the whole model.
	//
	// Parameters:
	//   - opts: zoom options
	ZoomToFit(opts ZoomOptions)

	// FitToSlab adjusts the clipping slab to the model extent.
	FitToSlab()

	// IsAnimating reports whether a frame animation loop is still running.
	//
	// Returns:
	//   - bool: true while a loop is alive, including after StopAnimate until it observes the stop
	IsAnimating() bool

	// StartAnimate starts looping over the model's frames.
	//
	// Parameters:
	//   - opts: interval, loop mode and repetition count
	StartAnimate(opts AnimateOptions)

	// StopAnimate asks the running loop to stop. The loop exits on its next tick.
	StopAnimate()

	// BuildVibrationFrames replaces the model's frames with steps frames displaced along each atom's
	// displacement vector.
	//
	// Parameters:
	//   - steps: number of frames
	//   - amplitude: displacement scale
	BuildVibrationFrames(steps int, amplitude float64)

	// RotateView rotates the camera about the vertical axis.
	//
	// Parameters:
	//   - deltaDegrees: rotation in degrees
	RotateView(deltaDegrees float64)
}
