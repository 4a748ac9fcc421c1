package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxPolar = float32(gomath.Pi / 2.1)

func viewerCamera() *OrbitCamera {
	c := NewOrbitCamera()
	c.Limits = Limits{MinPolar: 0, MaxPolar: maxPolar, MinDistance: 1, MaxDistance: 20}
	return c
}

func TestSetPoseRoundTrip(t *testing.T) {
	c := viewerCamera()
	c.SetPose(mgl32.Vec3{3, 2, 5}, 50)

	pos := c.Position()
	assert.InDelta(t, 3, pos.X(), 1e-4)
	assert.InDelta(t, 2, pos.Y(), 1e-4)
	assert.InDelta(t, 5, pos.Z(), 1e-4)
	assert.Equal(t, float32(50), c.FOV)
}

func TestPolarClampUnderAnyDrag(t *testing.T) {
	drags := []float32{-1e9, -5000, -10, -1, 0, 1, 10, 5000, 1e9}

	for _, dy := range drags {
		for _, dx := range drags {
			c := viewerCamera()
			c.SetPose(mgl32.Vec3{5, 4, 8}, 50)
			c.HandleDrag(dx, dy)

			require.GreaterOrEqual(t, c.Polar, float32(0), "drag (%v, %v)", dx, dy)
			require.LessOrEqual(t, c.Polar, maxPolar, "drag (%v, %v)", dx, dy)
		}
	}
}

func TestRepeatedDragStaysAboveHorizon(t *testing.T) {
	c := viewerCamera()
	c.SetPose(mgl32.Vec3{3, 2, 5}, 50)

	for i := 0; i < 1000; i++ {
		c.HandleDrag(3, -7) // drag up lowers the eye
		assert.GreaterOrEqual(t, c.Position().Y(), c.Target.Y()-1e-4)
	}
	assert.InDelta(t, maxPolar, c.Polar, 1e-6)
}

func TestSetPoseBelowHorizonIsClamped(t *testing.T) {
	c := viewerCamera()
	c.SetPose(mgl32.Vec3{0, -3, 4}, 50)
	assert.InDelta(t, maxPolar, c.Polar, 1e-6)
}

func TestZoomRespectsDistanceLimits(t *testing.T) {
	c := viewerCamera()
	c.SetPose(mgl32.Vec3{3, 2, 5}, 50)

	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	assert.InDelta(t, 1, c.Distance, 1e-6)

	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	assert.InDelta(t, 20, c.Distance, 1e-6)
}

func TestPanDisabled(t *testing.T) {
	c := viewerCamera()
	c.SetPose(mgl32.Vec3{3, 2, 5}, 50)

	c.HandlePan(120, -40)
	assert.Equal(t, mgl32.Vec3{}, c.Target)

	c.Limits.EnablePan = true
	c.HandlePan(120, -40)
	assert.NotEqual(t, mgl32.Vec3{}, c.Target)
}

func TestProjectionUsesAspect(t *testing.T) {
	c := viewerCamera()
	c.SetViewport(1024, 512)
	assert.InDelta(t, 2, c.Aspect, 1e-6)

	c.SetViewport(0, 0) // ignored
	assert.InDelta(t, 2, c.Aspect, 1e-6)

	proj := c.ProjectionMatrix()
	want := mgl32.Perspective(mgl32.DegToRad(c.FOV), 2, c.Near, c.Far)
	assert.True(t, proj.ApproxEqual(want))
}
