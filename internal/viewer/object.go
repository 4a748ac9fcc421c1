package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/assets"
	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

// sceneObject is one asset placed in the graph at a fixed transform.
type sceneObject struct {
	locator   string
	transform scenegraph.Transform

	req   *assets.Request
	asset *assets.SceneAsset
}

func newSceneObject(locator string, p config.Placement) sceneObject {
	return sceneObject{
		locator: locator,
		transform: scenegraph.Transform{
			Scale:    p.Scale,
			Position: mgl32.Vec3(p.Position),
		},
	}
}

// Locator returns the asset path.
func (o *sceneObject) Locator() string {
	return o.locator
}

// Request starts loading the asset in b.
func (o *sceneObject) Request(b *assets.Batch) {
	o.req = b.Request(o.locator)
	o.asset = nil
}

// poll returns the asset once the request resolved.
func (o *sceneObject) poll() (asset *assets.SceneAsset, ready bool, err error) {
	if o.req == nil || !o.req.Ready() {
		return nil, false, nil
	}
	asset, err = o.req.Result()
	return asset, true, err
}

// mount inserts the asset root into graph.
func (o *sceneObject) mount(graph *scenegraph.Graph, asset *assets.SceneAsset) {
	o.asset = asset
	graph.Insert(asset.Root, o.transform)
}

// Root returns the mounted root node, or nil.
func (o *sceneObject) Root() *scenegraph.Node {
	if o.asset == nil {
		return nil
	}
	return o.asset.Root
}

// Unmount removes the root from graph and returns it.
func (o *sceneObject) Unmount(graph *scenegraph.Graph) *scenegraph.Node {
	root := o.Root()
	if root != nil {
		graph.Remove(root)
	}
	o.asset = nil
	o.req = nil
	return root
}

// Room is a static asset with no per-frame logic.
type Room struct {
	sceneObject
}

// NewRoom creates a room placed by p.
func NewRoom(locator string, p config.Placement) *Room {
	return &Room{sceneObject: newSceneObject(locator, p)}
}
