package shadow

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

// SpotLightMatrix computes the view-projection used to render and sample
// the spot light shadow map. The frustum matches the light cone, and the far
// plane reaches past the far side of bounds.
func SpotLightMatrix(position, target mgl32.Vec3, angle float32, bounds scenegraph.Bounds) mgl32.Mat4 {
	dir := target.Sub(position)
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(position, position.Add(dir), up)

	near, far := float32(0.5), float32(500)
	if bounds.Set {
		dist := bounds.Center().Sub(position).Len()
		radius := bounds.Radius()
		far = dist + radius*1.1
		near = max(0.05, dist-radius*1.1)
		if near >= far {
			near = far * 0.01
		}
	}

	// Cover the cone plus a margin so the penumbra edge is not clipped.
	fov := min(2*angle*1.2, gomath.Pi*0.9)
	proj := mgl32.Perspective(fov, 1, near, far)
	return proj.Mul4(view)
}

// ContactMatrix is the orthographic projection of the contact shadow
// camera. It sits on the ground plane at position, looks straight up and
// captures a square of side scale up to far units above the plane.
func ContactMatrix(position mgl32.Vec3, scale, far float32) mgl32.Mat4 {
	half := scale / 2
	view := mgl32.LookAtV(position, position.Add(mgl32.Vec3{0, 1, 0}), mgl32.Vec3{0, 0, -1})
	proj := mgl32.Ortho(-half, half, -half, half, 0, far)
	return proj.Mul4(view)
}

// BlurStep converts a blur amount into texture space offsets per tap at the
// given render target resolution. The first pass uses the full amount and the
// second pass smooths its artifacts with a smaller radius.
func BlurStep(blur float32, resolution int32) (first, second float32) {
	if resolution <= 0 {
		return 0, 0
	}
	first = blur / 256 * 512 / float32(resolution)
	return first, first * 0.4
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
