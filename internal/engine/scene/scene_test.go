package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

func TestFilterCasters(t *testing.T) {
	room := scenegraph.NewNode("room")
	floor := scenegraph.NewNode("floor")
	room.AddChild(floor)
	avatar := scenegraph.NewNode("avatar")

	drawables := []scenegraph.Drawable{{Node: floor}, {Node: avatar}, {Node: room}}

	assert.Len(t, filterCasters(drawables, nil), 3)

	got := filterCasters(drawables, map[*scenegraph.Node]bool{room: true})
	if assert.Len(t, got, 1) {
		assert.Same(t, avatar, got[0].Node)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.ShadowsEnabled)
	assert.True(t, cfg.ContactShadows)
	assert.Equal(t, mgl32.Vec3{0, -0.99, 0}, cfg.Contact.Position)
	assert.Equal(t, float32(0.6), cfg.Contact.Opacity)
	assert.Equal(t, float32(1), cfg.Contact.Far)
	assert.Equal(t, int32(512), cfg.Contact.Resolution)
}
