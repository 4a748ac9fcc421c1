package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/assets"
	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/animation"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
	"github.com/Faultbox/roomview/internal/logger"
)

// DefaultFadeDuration is the fade-in applied to the selected action.
const DefaultFadeDuration = 0.5

// PlaybackAction is the part of an animation action used on activation.
type PlaybackAction interface {
	Reset()
	FadeIn(duration float32)
	Play()
}

// ActionSet lists named actions in declaration order. Implementations must
// be comparable; activation is keyed on the set's identity.
type ActionSet interface {
	Names() []string
	Action(name string) PlaybackAction
}

type mixerActions struct {
	m *animation.Mixer
}

// MixerActions exposes m as an ActionSet. Two calls with the same mixer are
// the same set.
func MixerActions(m *animation.Mixer) ActionSet {
	return mixerActions{m: m}
}

func (ma mixerActions) Names() []string {
	return ma.m.Names()
}

func (ma mixerActions) Action(name string) PlaybackAction {
	if a := ma.m.Action(name); a != nil {
		return a
	}
	return nil
}

// Avatar is an animated asset that plays its first clip once loaded.
type Avatar struct {
	sceneObject

	fade   float32
	mixer  *animation.Mixer
	active ActionSet
	chosen string
	log    *zap.Logger
}

// NewAvatar creates an avatar placed by p that fades its first action in
// over fade seconds. A non-positive fade uses DefaultFadeDuration.
func NewAvatar(locator string, p config.Placement, fade float32) *Avatar {
	if fade <= 0 {
		fade = DefaultFadeDuration
	}
	return &Avatar{
		sceneObject: newSceneObject(locator, p),
		fade:        fade,
		log:         logger.Named("viewer"),
	}
}

// Mixer returns the animation controller of the mounted asset, or nil.
func (a *Avatar) Mixer() *animation.Mixer {
	return a.mixer
}

// Selected returns the name of the activated action, or "".
func (a *Avatar) Selected() string {
	return a.chosen
}

func (a *Avatar) mountAnimated(graph *scenegraph.Graph, asset *assets.SceneAsset) {
	a.mount(graph, asset)
	a.mixer = animation.NewMixer(asset.Root, asset.Clips)
	a.OnAssetReady(MixerActions(a.mixer))
}

// OnAssetReady activates the first action of set. It runs once per
// distinct set; repeating the same set does nothing.
func (a *Avatar) OnAssetReady(set ActionSet) {
	if set == nil || set == a.active {
		return
	}
	a.active = set
	a.chosen = ""

	names := set.Names()
	a.log.Debug("avatar actions", zap.String("locator", a.locator), zap.Strings("names", names))
	if len(names) == 0 {
		return
	}

	action := set.Action(names[0])
	if action == nil {
		return
	}
	action.Reset()
	action.FadeIn(a.fade)
	action.Play()
	a.chosen = names[0]
	a.log.Debug("avatar action selected", zap.String("name", a.chosen))
}

// Update advances the animation by dt seconds.
func (a *Avatar) Update(dt float32) {
	if a.mixer != nil {
		a.mixer.Update(dt)
	}
}

// Unmount removes the avatar and forgets its actions.
func (a *Avatar) Unmount(graph *scenegraph.Graph) *scenegraph.Node {
	a.mixer = nil
	a.active = nil
	a.chosen = ""
	return a.sceneObject.Unmount(graph)
}
