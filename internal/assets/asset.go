// Package assets decodes glTF scene files into scene graph nodes and
// animation clips, off the render thread.
package assets

import (
	"errors"

	"github.com/Faultbox/roomview/internal/engine/animation"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .glb nor .gltf.
	ErrUnsupportedFormat = errors.New("unsupported asset format")
	// ErrNoScene is returned when a document declares no scene to display.
	ErrNoScene = errors.New("asset has no scene")
	// ErrTooManyJoints is returned for skins larger than the shader's joint palette.
	ErrTooManyJoints = errors.New("skin exceeds joint palette")
)

// SceneAsset is a decoded scene file. Its node tree is not yet attached to
// any scene graph and holds no GPU resources.
type SceneAsset struct {
	Locator string
	Root    *scenegraph.Node

	// Clips in the order the file declares its animations.
	Clips []*animation.Clip

	Meshes    []*scenegraph.Mesh
	Materials []*scenegraph.Material
	Skins     []*scenegraph.Skin
}

// ClipNames returns clip names in declaration order.
func (a *SceneAsset) ClipNames() []string {
	names := make([]string, len(a.Clips))
	for i, c := range a.Clips {
		names[i] = c.Name
	}
	return names
}

// Stats returns vertex and triangle counts over all meshes.
func (a *SceneAsset) Stats() (vertices, triangles int) {
	for _, m := range a.Meshes {
		for _, p := range m.Primitives {
			vertices += len(p.Vertices)
			triangles += len(p.Indices) / 3
		}
	}
	return vertices, triangles
}
