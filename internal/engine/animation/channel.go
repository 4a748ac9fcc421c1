// Package animation samples keyframed clips and blends them onto scene nodes.
package animation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

// Path is the node property a channel drives.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Components returns how many floats one keyframe value holds.
func (p Path) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// Channel animates one property of one node.
//
// Values is flat. For cubic spline channels each keyframe stores
// in-tangent, value, out-tangent, in that order.
type Channel struct {
	Target        *scenegraph.Node
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// Duration returns the time of the last keyframe.
func (c *Channel) Duration() float32 {
	if len(c.Times) == 0 {
		return 0
	}
	return c.Times[len(c.Times)-1]
}

// keyValue returns keyframe i's value slice, skipping tangents.
func (c *Channel) keyValue(i int) []float32 {
	n := c.Path.Components()
	if c.Interpolation == InterpolationCubicSpline {
		base := (i*3 + 1) * n
		return c.Values[base : base+n]
	}
	return c.Values[i*n : i*n+n]
}

func (c *Channel) tangent(i int, out bool) []float32 {
	n := c.Path.Components()
	slot := 0
	if out {
		slot = 2
	}
	base := (i*3 + slot) * n
	return c.Values[base : base+n]
}

// Sample evaluates the channel at time t (seconds) into dst, which must hold
// Path.Components() floats. Times before the first or after the last
// keyframe clamp to that keyframe.
func (c *Channel) Sample(t float32, dst []float32) {
	count := len(c.Times)
	if count == 0 {
		return
	}
	if count == 1 || t <= c.Times[0] {
		copy(dst, c.keyValue(0))
		return
	}
	if t >= c.Times[count-1] {
		copy(dst, c.keyValue(count-1))
		return
	}

	// First keyframe strictly after t
	next := sort.Search(count, func(i int) bool { return c.Times[i] > t })
	prev := next - 1

	t0, t1 := c.Times[prev], c.Times[next]
	span := t1 - t0
	u := float32(0)
	if span > 0 {
		u = (t - t0) / span
	}

	switch c.Interpolation {
	case InterpolationStep:
		copy(dst, c.keyValue(prev))
	case InterpolationCubicSpline:
		c.sampleCubic(prev, next, u, span, dst)
	default:
		c.sampleLinear(prev, next, u, dst)
	}
}

func (c *Channel) sampleLinear(prev, next int, u float32, dst []float32) {
	a, b := c.keyValue(prev), c.keyValue(next)
	if c.Path == PathRotation {
		q := mgl32.QuatSlerp(toQuat(a), toQuat(b), u).Normalize()
		dst[0], dst[1], dst[2], dst[3] = q.V[0], q.V[1], q.V[2], q.W
		return
	}
	for i := range a {
		dst[i] = a[i] + u*(b[i]-a[i])
	}
}

// sampleCubic is the glTF Hermite spline.
func (c *Channel) sampleCubic(prev, next int, u, span float32, dst []float32) {
	p0, m0 := c.keyValue(prev), c.tangent(prev, true)
	p1, m1 := c.keyValue(next), c.tangent(next, false)

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	for i := range p0 {
		dst[i] = h00*p0[i] + h10*span*m0[i] + h01*p1[i] + h11*span*m1[i]
	}
	if c.Path == PathRotation {
		q := toQuat(dst).Normalize()
		dst[0], dst[1], dst[2], dst[3] = q.V[0], q.V[1], q.V[2], q.W
	}
}

// toQuat reads glTF xyzw order.
func toQuat(v []float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}
