// Package scenegraph holds the retained node hierarchy the renderer draws.
//
// Nodes carry a local TRS transform and optional mesh and skin data. The
// Graph is the only entry point that mutates the set of root nodes, and it is
// only touched from the render thread.
package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one element of the hierarchy.
type Node struct {
	Name string

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	Mesh *Mesh
	Skin *Skin

	Parent   *Node
	Children []*Node

	world mgl32.Mat4
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		world:    mgl32.Ident4(),
	}
}

// AddChild attaches child under n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child. Returns false if child was not attached to n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// LocalMatrix composes T * R * S.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// World returns the world matrix computed by the last UpdateWorld.
func (n *Node) World() mgl32.Mat4 {
	return n.world
}

// UpdateWorld recomputes world matrices for n and its descendants.
func (n *Node) UpdateWorld(parent mgl32.Mat4) {
	n.world = parent.Mul4(n.LocalMatrix())
	for _, c := range n.Children {
		c.UpdateWorld(n.world)
	}
}

// Walk visits n and every descendant depth-first. Returning false from fn
// skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}
