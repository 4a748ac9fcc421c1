package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/viewer"
)

func TestSceneConfig(t *testing.T) {
	cfg := config.Default()
	sc := sceneConfig(cfg, 800, 600)

	assert.Equal(t, int32(800), sc.Width)
	assert.Equal(t, int32(600), sc.Height)
	assert.Equal(t, int32(2048), sc.ShadowResolution)
	assert.True(t, sc.ShadowsEnabled)
	assert.True(t, sc.ContactShadows)
	assert.Equal(t, float32(-0.99), sc.Contact.Position.Y())
	assert.Equal(t, float32(0.6), sc.Contact.Opacity)
	assert.Equal(t, float32(2.5), sc.Contact.Blur)
	assert.Equal(t, float32(10), sc.Contact.Scale)
	assert.Equal(t, float32(1), sc.Contact.Far)

	cfg.Lighting.Spot.CastShadow = false
	cfg.Shadows.Contact.Enabled = false
	sc = sceneConfig(cfg, 1, 1)
	assert.False(t, sc.ShadowsEnabled)
	assert.False(t, sc.ContactShadows)
}

type progress struct {
	p      float32
	active bool
}

func (p *progress) Progress() float32 { return p.p }
func (p *progress) Active() bool      { return p.active }

func TestLoadingLabel(t *testing.T) {
	src := &progress{p: 42.4, active: true}
	li := viewer.NewLoadingIndicator(src)

	text, fraction, ok := loadingLabel(li)
	assert.True(t, ok)
	assert.Equal(t, "42% loaded", text)
	assert.InDelta(t, 0.42, fraction, 1e-6)

	src.active = false
	_, _, ok = loadingLabel(li)
	assert.False(t, ok)

	_, _, ok = loadingLabel(nil)
	assert.False(t, ok)
}
