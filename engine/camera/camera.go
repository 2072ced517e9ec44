// Package camera implements the orbit camera used to frame and rotate the scene.
package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/chewxy/math32"
)

const (
	minRadius   = 0.5
	slabMargin  = 1.1
	minNearClip = 0.01
)

type cameraImpl struct {
	mu *sync.Mutex

	up     common.Vec3
	target common.Vec3

	// Spherical offset from target.
	radius    float32
	azimuth   float32
	elevation float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera is an orbit camera around a target point. All angles are in radians unless noted.
type Camera interface {
	// Position returns the eye position in world space.
	//
	// Returns:
	//   - common.Vec3: the eye position
	Position() common.Vec3

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - common.Vec3: the target
	Target() common.Vec3

	// Radius returns the distance from the eye to the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio and recomputes matrices.
	//
	// Parameters:
	//   - aspect: width / height, ignored if not positive
	SetAspect(aspect float32)

	// RotateY spins the camera around the vertical axis through the target.
	//
	// Parameters:
	//   - degrees: the rotation in degrees
	RotateY(degrees float64)

	// Orbit moves the eye over the sphere around the target. Elevation is clamped short of the poles.
	//
	// Parameters:
	//   - dAzimuth: horizontal change in radians
	//   - dElevation: vertical change in radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom scales the orbit radius. Factors above 1 move closer.
	//
	// Parameters:
	//   - factor: the zoom factor, ignored if not positive
	Zoom(factor float32)

	// ZoomToFit centers on box and sets the radius so its bounding sphere fills the given fraction of the view.
	//
	// Parameters:
	//   - box: the region to frame
	//   - factor: the fraction of the view to fill, 1 when not positive
	ZoomToFit(box common.BoundingBox, factor float64)

	// FitToSlab sets the clipping planes tightly around box as seen from the current eye.
	//
	// Parameters:
	//   - box: the region to keep inside the slab
	FitToSlab(box common.BoundingBox)

	// ViewMatrix returns the view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ViewProjectionMatrix returns the combined view-projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Ray returns a world-space picking ray through a point in normalized device coordinates.
	//
	// Parameters:
	//   - ndcX, ndcY: the point, each in [-1, 1] with +Y up
	//
	// Returns:
	//   - common.Vec3: the ray origin on the near plane
	//   - common.Vec3: the normalized ray direction
	Ray(ndcX, ndcY float32) (common.Vec3, common.Vec3)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera looking at the origin from +Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     common.Vec3{0, 1, 0},
		radius: 20,
		fov:    45.0 * (math32.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    1000.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) RotateY(degrees float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += float32(degrees) * math32.Pi / 180
	c.azimuth = math32.Mod(c.azimuth, 2*math32.Pi)
	c.updateMatrices()
}

func (c *cameraImpl) Orbit(dAzimuth, dElevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth += dAzimuth
	limit := math32.Pi/2 - 0.05
	c.elevation = max(-limit, min(limit, c.elevation+dElevation))
	c.updateMatrices()
}

func (c *cameraImpl) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = max(c.radius/factor, minRadius)
	c.updateMatrices()
}

func (c *cameraImpl) ZoomToFit(box common.BoundingBox, factor float64) {
	if factor <= 0 {
		factor = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = box.Center()
	r := max(box.Radius(), minRadius)
	half := c.fov / 2
	if c.aspect < 1 {
		// Horizontal field is the narrower one.
		half = math32.Atan(math32.Tan(half) * c.aspect)
	}
	c.radius = max(r/(math32.Sin(half)*float32(factor)), minRadius)
	if c.far < c.radius+r {
		c.far = (c.radius + r) * slabMargin
	}
	c.updateMatrices()
}

func (c *cameraImpl) FitToSlab(box common.BoundingBox) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.position().Sub(box.Center()).Len()
	r := box.Radius() * slabMargin
	c.near = max(d-r, minNearClip)
	c.far = max(d+r, c.near+minNearClip)
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Ray(ndcX, ndcY float32) (common.Vec3, common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var inv [16]float32
	if !common.Invert4(inv[:], c.viewProjectionMatrix[:]) {
		eye := c.position()
		return eye, c.target.Sub(eye).Normalize()
	}
	// WebGPU clip space depth runs 0 (near) to 1 (far).
	nearPt := common.TransformPoint(inv[:], common.Vec3{ndcX, ndcY, 0})
	farPt := common.TransformPoint(inv[:], common.Vec3{ndcX, ndcY, 1})
	return nearPt, farPt.Sub(nearPt).Normalize()
}

// position computes the eye from the spherical offset. Caller must hold the mutex.
func (c *cameraImpl) position() common.Vec3 {
	cosElev, sinElev := math32.Cos(c.elevation), math32.Sin(c.elevation)
	cosAzim, sinAzim := math32.Cos(c.azimuth), math32.Sin(c.azimuth)
	return c.target.Add(common.Vec3{
		c.radius * cosElev * sinAzim,
		c.radius * sinElev,
		c.radius * cosElev * cosAzim,
	})
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:], c.position(), c.target, c.up)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
