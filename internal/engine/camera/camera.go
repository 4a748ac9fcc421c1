// Package camera provides the orbit camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Limits constrains what user input may do to an OrbitCamera.
type Limits struct {
	MinPolar    float32 // radians from +Y, 0 is straight down onto the target
	MaxPolar    float32
	MinDistance float32
	MaxDistance float32
	EnablePan   bool
}

// OrbitCamera orbits a target point in spherical coordinates.
//
// Polar is measured from the +Y axis and Azimuth around it, so a polar of
// π/2 puts the eye on the target's horizontal plane.
type OrbitCamera struct {
	Target mgl32.Vec3

	Distance float32
	Polar    float32
	Azimuth  float32

	// Perspective
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Limits Limits

	// Sensitivity
	RotateSpeed float32 // radians per pixel of drag
	ZoomSpeed   float32 // fraction of distance per wheel notch
}

// NewOrbitCamera creates an orbit camera looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    5,
		Polar:       gomath.Pi / 3,
		FOV:         50,
		Aspect:      16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.1,
		Limits: Limits{
			MinPolar:    0,
			MaxPolar:    gomath.Pi,
			MinDistance: 0.1,
			MaxDistance: 1000,
		},
	}
}

// SetPose places the eye at position while keeping the current target.
// The resulting spherical coordinates are clamped to the limits.
func (c *OrbitCamera) SetPose(position mgl32.Vec3, fov float32) {
	offset := position.Sub(c.Target)
	c.Distance = offset.Len()
	if c.Distance > 0 {
		c.Polar = float32(gomath.Acos(float64(clamp(offset.Y()/c.Distance, -1, 1))))
		c.Azimuth = float32(gomath.Atan2(float64(offset.X()), float64(offset.Z())))
	}
	c.FOV = fov
	c.clamp()
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sinP := float32(gomath.Sin(float64(c.Polar)))
	cosP := float32(gomath.Cos(float64(c.Polar)))
	sinA := float32(gomath.Sin(float64(c.Azimuth)))
	cosA := float32(gomath.Cos(float64(c.Azimuth)))

	return c.Target.Add(mgl32.Vec3{
		c.Distance * sinP * sinA,
		c.Distance * cosP,
		c.Distance * sinP * cosA,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for this camera.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio from a framebuffer size.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// HandleDrag rotates the camera by a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Azimuth -= deltaX * c.RotateSpeed
	c.Polar -= deltaY * c.RotateSpeed
	c.clamp()
}

// HandleZoom dollies toward the target by wheel notches (positive zooms in).
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSpeed
	c.clamp()
}

// HandlePan shifts the target in the view plane. Ignored unless Limits.EnablePan.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	if !c.Limits.EnablePan {
		return
	}
	view := c.ViewMatrix()
	right := mgl32.Vec3{view[0], view[4], view[8]}
	up := mgl32.Vec3{view[1], view[5], view[9]}
	scale := c.Distance * 0.002
	c.Target = c.Target.Sub(right.Mul(deltaX * scale)).Add(up.Mul(deltaY * scale))
}

func (c *OrbitCamera) clamp() {
	c.Polar = clamp(c.Polar, c.Limits.MinPolar, c.Limits.MaxPolar)
	if c.Limits.MaxDistance > 0 {
		c.Distance = clamp(c.Distance, c.Limits.MinDistance, c.Limits.MaxDistance)
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
