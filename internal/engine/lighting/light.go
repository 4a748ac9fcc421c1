// Package lighting describes the lights and environment the renderer shades with.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ambient is uniform light applied to every surface.
type Ambient struct {
	Color     [3]float32
	Intensity float32
}

// SpotLight is a cone light aimed at Target.
//
// Angle is the cone half-angle in radians. Penumbra in [0, 1] is the
// fraction of the cone over which light fades out towards the edge.
type SpotLight struct {
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Color      [3]float32
	Angle      float32
	Penumbra   float32
	Intensity  float32
	CastShadow bool
}

// NewSpotLight returns a white spot light aimed at the origin.
func NewSpotLight(position mgl32.Vec3, angle, penumbra, intensity float32) SpotLight {
	return SpotLight{
		Position:  position,
		Color:     [3]float32{1, 1, 1},
		Angle:     angle,
		Penumbra:  penumbra,
		Intensity: intensity,
	}
}

// Direction returns the unit vector from the light towards its target.
func (s SpotLight) Direction() mgl32.Vec3 {
	d := s.Target.Sub(s.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// ConeCos returns the cosines of the outer cone edge and of the angle where
// the penumbra starts.
func (s SpotLight) ConeCos() (outer, inner float32) {
	p := clamp01(s.Penumbra)
	outer = float32(math.Cos(float64(s.Angle)))
	inner = float32(math.Cos(float64(s.Angle * (1 - p))))
	return outer, inner
}

// Attenuation returns the cone falloff for world point p in [0, 1]. The
// shader computes the same term per fragment.
func (s SpotLight) Attenuation(p mgl32.Vec3) float32 {
	toPoint := p.Sub(s.Position)
	if toPoint.Len() == 0 {
		return 1
	}
	cos := toPoint.Normalize().Dot(s.Direction())
	outer, inner := s.ConeCos()
	return smoothstep(outer, inner, cos)
}

// Rig is the complete light setup of a scene.
type Rig struct {
	Ambient     Ambient
	Spot        SpotLight
	Environment Environment
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x >= edge0 {
			return 1
		}
		return 0
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
