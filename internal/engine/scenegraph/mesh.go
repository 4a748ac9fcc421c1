package scenegraph

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxJoints is the joint palette size supported by the skinning shader.
// Skins larger than this are rejected when decoded.
const MaxJoints = 128

// Vertex is the interleaved layout uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Joints   [4]float32
	Weights  [4]float32
}

// Material holds the subset of glTF PBR data the viewer shades with.
type Material struct {
	Name        string
	BaseColor   [4]float32
	BaseTexture *image.RGBA
	DoubleSided bool
}

// DefaultMaterial is used for primitives without a material.
var DefaultMaterial = &Material{Name: "default", BaseColor: [4]float32{0.8, 0.8, 0.8, 1}}

// Primitive is one indexed triangle list with a single material.
type Primitive struct {
	Vertices []Vertex
	Indices  []uint32
	Material *Material
	Skinned  bool
}

// Mesh groups primitives drawn with the owning node's transform.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Skin binds a skinned mesh to a set of joint nodes.
type Skin struct {
	Joints              []*Node
	InverseBindMatrices []mgl32.Mat4
}

// JointMatrices returns joint world * inverse bind, expressed relative to the
// mesh node so the shader can apply the node's world matrix afterwards.
func (s *Skin) JointMatrices(meshWorld mgl32.Mat4) []mgl32.Mat4 {
	n := len(s.Joints)
	if n > MaxJoints {
		n = MaxJoints
	}
	inv := meshWorld.Inv()
	out := make([]mgl32.Mat4, n)
	for i := 0; i < n; i++ {
		ibm := mgl32.Ident4()
		if i < len(s.InverseBindMatrices) {
			ibm = s.InverseBindMatrices[i]
		}
		out[i] = inv.Mul4(s.Joints[i].World()).Mul4(ibm)
	}
	return out
}

// Bounds is an axis-aligned box in world space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
	Set bool
}

// Extend grows b to include p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	if !b.Set {
		b.Min, b.Max, b.Set = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the box midpoint.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the half-diagonal.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Len() / 2
}
