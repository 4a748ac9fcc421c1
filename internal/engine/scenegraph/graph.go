package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an inserted node in the world.
type Transform struct {
	Scale    float32
	Position mgl32.Vec3
}

// Graph is the retained scene. Inserted nodes are wrapped in a placement
// node carrying the Transform, so the asset's own root transform is kept.
type Graph struct {
	root   *Node
	placed map[*Node]*Node // inserted node -> placement wrapper
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		root:   NewNode("scene"),
		placed: make(map[*Node]*Node),
	}
}

// Insert adds node to the scene at the given transform. Re-inserting an
// already placed node updates its transform.
func (g *Graph) Insert(node *Node, t Transform) {
	holder, ok := g.placed[node]
	if !ok {
		holder = NewNode("placement:" + node.Name)
		holder.AddChild(node)
		g.root.AddChild(holder)
		g.placed[node] = holder
	}
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	holder.Translation = t.Position
	holder.Scale = mgl32.Vec3{scale, scale, scale}
}

// Remove takes node out of the scene. Returns false if it was never inserted.
func (g *Graph) Remove(node *Node) bool {
	holder, ok := g.placed[node]
	if !ok {
		return false
	}
	g.root.RemoveChild(holder)
	holder.RemoveChild(node)
	delete(g.placed, node)
	return true
}

// Contains reports whether node was inserted and not removed.
func (g *Graph) Contains(node *Node) bool {
	_, ok := g.placed[node]
	return ok
}

// Len returns the number of inserted nodes.
func (g *Graph) Len() int {
	return len(g.placed)
}

// Root returns the scene root. Callers must not attach nodes to it directly.
func (g *Graph) Root() *Node {
	return g.root
}

// Update recomputes all world matrices.
func (g *Graph) Update() {
	g.root.UpdateWorld(mgl32.Ident4())
}

// Clear removes every inserted node.
func (g *Graph) Clear() {
	for node := range g.placed {
		g.Remove(node)
	}
}

// Bounds returns the world-space bounding box of all mesh vertices, using
// the matrices from the last Update. Skinning is not applied.
func (g *Graph) Bounds() Bounds {
	var b Bounds
	g.root.Walk(func(n *Node) bool {
		if n.Mesh == nil {
			return true
		}
		w := n.World()
		for _, p := range n.Mesh.Primitives {
			for _, v := range p.Vertices {
				b.Extend(w.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1}).Vec3())
			}
		}
		return true
	})
	return b
}

// Drawable pairs a primitive with the world matrix of its node.
type Drawable struct {
	Node      *Node
	Primitive *Primitive
	World     mgl32.Mat4
}

// Drawables lists every primitive in the scene with its world matrix.
func (g *Graph) Drawables() []Drawable {
	var out []Drawable
	g.root.Walk(func(n *Node) bool {
		if n.Mesh != nil {
			for _, p := range n.Mesh.Primitives {
				out = append(out, Drawable{Node: n, Primitive: p, World: n.World()})
			}
		}
		return true
	})
	return out
}
