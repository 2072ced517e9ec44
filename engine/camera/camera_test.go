package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, common.Vec3{}, c.Target())
	assert.InDelta(t, 20, c.Position()[2], 1e-4)
	assert.InDelta(t, 0, c.Position()[0], 1e-4)
	assert.Equal(t, float32(1), c.Aspect())
}

func TestRotateYKeepsRadius(t *testing.T) {
	c := NewCamera(WithOrbit(10, 0, 0))
	c.RotateY(90)
	p := c.Position()
	assert.InDelta(t, 10, p[0], 1e-4)
	assert.InDelta(t, 0, p[2], 1e-4)
	assert.InDelta(t, 10, p.Len(), 1e-4)

	c.RotateY(0.5)
	assert.InDelta(t, 10, c.Position().Len(), 1e-4)
}

func TestOrbitClampsElevation(t *testing.T) {
	c := NewCamera(WithOrbit(10, 0, 0))
	c.Orbit(0, 10)
	p := c.Position()
	assert.Less(t, p[1], float32(10))
	assert.Greater(t, p[1], float32(9.9))
}

func TestZoom(t *testing.T) {
	c := NewCamera(WithOrbit(10, 0, 0))
	c.Zoom(2)
	assert.InDelta(t, 5, c.Radius(), 1e-5)
	c.Zoom(0)
	assert.InDelta(t, 5, c.Radius(), 1e-5)
	c.Zoom(1000)
	assert.Equal(t, float32(minRadius), c.Radius())
}

func TestZoomToFitCentersAndFrames(t *testing.T) {
	c := NewCamera()
	box := common.NewBoundingBox([]common.Vec3{{9, 9, 9}, {11, 11, 11}})

	c.ZoomToFit(box, 1)
	assert.Equal(t, common.Vec3{10, 10, 10}, c.Target())
	full := c.Radius()
	want := box.Radius() / math32.Sin(22.5*math32.Pi/180)
	assert.InDelta(t, want, full, 1e-3)

	c.ZoomToFit(box, 0.8)
	assert.Greater(t, c.Radius(), full, "filling less of the view moves the eye back")

	c.ZoomToFit(box, 0)
	assert.InDelta(t, full, c.Radius(), 1e-4)
}

func TestFitToSlab(t *testing.T) {
	c := NewCamera()
	box := common.NewBoundingBox([]common.Vec3{{-1, -1, -1}, {1, 1, 1}})
	c.ZoomToFit(box, 1)
	c.FitToSlab(box)

	d := c.Radius()
	r := box.Radius() * slabMargin
	assert.InDelta(t, d-r, c.Near(), 1e-3)
	assert.InDelta(t, d+r, c.Far(), 1e-3)
}

func TestFitToSlabInsideBox(t *testing.T) {
	c := NewCamera(WithOrbit(1, 0, 0))
	c.FitToSlab(common.NewBoundingBox([]common.Vec3{{-50, -50, -50}, {50, 50, 50}}))
	assert.Equal(t, float32(minNearClip), c.Near())
}

func TestRayThroughCenterHitsTarget(t *testing.T) {
	c := NewCamera(WithOrbit(10, 0, 0))
	origin, dir := c.Ray(0, 0)
	assert.InDelta(t, 0, origin[0], 1e-3)
	assert.InDelta(t, 0, origin[1], 1e-3)
	assert.InDelta(t, -1, dir[2], 1e-3)
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	u := NewGPUCameraUniform(NewCamera(), 0.3)
	buf := u.Marshal()
	assert.Len(t, buf, 80)
	assert.Equal(t, 80, u.Size())
}
