package scenegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitTriangle() *Mesh {
	return &Mesh{Name: "tri", Primitives: []*Primitive{{
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		},
		Indices:  []uint32{0, 1, 2},
		Material: DefaultMaterial,
	}}}
}

func TestInsertAppliesTransform(t *testing.T) {
	g := NewGraph()
	room := NewNode("room")
	room.Mesh = unitTriangle()

	g.Insert(room, Transform{Scale: 2, Position: mgl32.Vec3{0, -1.6, 0}})
	g.Update()

	require.True(t, g.Contains(room))
	b := g.Bounds()
	assert.InDelta(t, -1.6, b.Min.Y(), 1e-5)
	assert.InDelta(t, 0.4, b.Max.Y(), 1e-5)
	assert.InDelta(t, 2, b.Max.X(), 1e-5)
}

func TestInsertKeepsAssetRootTransform(t *testing.T) {
	g := NewGraph()
	avatar := NewNode("avatar")
	avatar.Translation = mgl32.Vec3{1, 0, 0}
	avatar.Mesh = unitTriangle()

	g.Insert(avatar, Transform{Scale: 1, Position: mgl32.Vec3{0, 0, 5}})
	g.Update()

	origin := avatar.World().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, origin.X(), 1e-5)
	assert.InDelta(t, 5, origin.Z(), 1e-5)
}

func TestIndependentPlacements(t *testing.T) {
	g := NewGraph()
	room, avatar := NewNode("room"), NewNode("avatar")

	g.Insert(room, Transform{Scale: 1.5, Position: mgl32.Vec3{0, -1.6, 0}})
	g.Insert(avatar, Transform{Scale: 1, Position: mgl32.Vec3{0, -1.6, 0.5}})
	g.Update()

	assert.Equal(t, 2, g.Len())
	assert.InDelta(t, 0, room.World().Col(3).Z(), 1e-6)
	assert.InDelta(t, 0.5, avatar.World().Col(3).Z(), 1e-6)
}

func TestReinsertUpdatesTransform(t *testing.T) {
	g := NewGraph()
	n := NewNode("n")
	g.Insert(n, Transform{Scale: 1})
	g.Insert(n, Transform{Scale: 1, Position: mgl32.Vec3{2, 0, 0}})
	g.Update()

	assert.Equal(t, 1, g.Len())
	assert.InDelta(t, 2, n.World().Col(3).X(), 1e-6)
}

func TestRemove(t *testing.T) {
	g := NewGraph()
	n := NewNode("n")
	n.Mesh = unitTriangle()

	assert.False(t, g.Remove(n))
	g.Insert(n, Transform{Scale: 1})
	assert.Len(t, g.Drawables(), 1)

	assert.True(t, g.Remove(n))
	assert.False(t, g.Contains(n))
	assert.Nil(t, n.Parent)
	assert.Empty(t, g.Drawables())
}

func TestClear(t *testing.T) {
	g := NewGraph()
	g.Insert(NewNode("a"), Transform{})
	g.Insert(NewNode("b"), Transform{})
	g.Clear()
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Root().Children)
}

func TestFindAndReparent(t *testing.T) {
	root := NewNode("root")
	hips := NewNode("Hips")
	spine := NewNode("Spine")
	root.AddChild(hips)
	hips.AddChild(spine)

	assert.Same(t, spine, root.Find("Spine"))
	assert.Nil(t, root.Find("Tail"))

	root.AddChild(spine)
	assert.Same(t, root, spine.Parent)
	assert.Empty(t, hips.Children)
}

func TestJointMatricesIdentityAtBindPose(t *testing.T) {
	root := NewNode("root")
	joint := NewNode("joint")
	joint.Translation = mgl32.Vec3{0, 1, 0}
	root.AddChild(joint)
	root.UpdateWorld(mgl32.Ident4())

	skin := &Skin{
		Joints:              []*Node{joint},
		InverseBindMatrices: []mgl32.Mat4{mgl32.Translate3D(0, -1, 0)},
	}
	m := skin.JointMatrices(root.World())
	require.Len(t, m, 1)
	assert.True(t, m[0].ApproxEqual(mgl32.Ident4()))
}
