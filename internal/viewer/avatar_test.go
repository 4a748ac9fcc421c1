package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/animation"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

type recordedAction struct {
	name  string
	calls []string
	fade  float32
}

func (a *recordedAction) Reset()           { a.calls = append(a.calls, "reset") }
func (a *recordedAction) FadeIn(d float32) { a.calls, a.fade = append(a.calls, "fade"), d }
func (a *recordedAction) Play()            { a.calls = append(a.calls, "play") }

type fakeSet struct {
	names   []string
	actions map[string]*recordedAction
}

func newFakeSet(names ...string) *fakeSet {
	s := &fakeSet{names: names, actions: make(map[string]*recordedAction)}
	for _, n := range names {
		s.actions[n] = &recordedAction{name: n}
	}
	return s
}

func (s *fakeSet) Names() []string { return s.names }

func (s *fakeSet) Action(name string) PlaybackAction {
	if a, ok := s.actions[name]; ok {
		return a
	}
	return nil
}

func observedAvatar() (*Avatar, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAvatar("avatar.glb", config.Placement{Scale: 1}, 0)
	a.log = zap.New(core)
	return a, logs
}

func TestAvatarPlaysFirstDeclaredAction(t *testing.T) {
	a, logs := observedAvatar()
	set := newFakeSet("Walk", "Idle")

	a.OnAssetReady(set)

	assert.Equal(t, []string{"reset", "fade", "play"}, set.actions["Walk"].calls)
	assert.Equal(t, float32(0.5), set.actions["Walk"].fade)
	assert.Empty(t, set.actions["Idle"].calls)
	assert.Equal(t, "Walk", a.Selected())

	traced := logs.FilterMessage("avatar actions").All()
	require.Len(t, traced, 1)
	assert.Equal(t, []any{"Walk", "Idle"}, traced[0].ContextMap()["names"])
}

func TestAvatarIgnoresAlphabeticalOrder(t *testing.T) {
	a, _ := observedAvatar()
	set := newFakeSet("Zed", "Alpha")
	a.OnAssetReady(set)
	assert.Equal(t, "Zed", a.Selected())
	assert.Empty(t, set.actions["Alpha"].calls)
}

func TestAvatarWithoutActions(t *testing.T) {
	a, logs := observedAvatar()
	a.OnAssetReady(newFakeSet())
	assert.Empty(t, a.Selected())
	assert.Equal(t, 0, logs.FilterMessage("avatar action selected").Len())
}

func TestAvatarActivatesOncePerSet(t *testing.T) {
	a, _ := observedAvatar()
	first := newFakeSet("Walk")
	a.OnAssetReady(first)
	a.OnAssetReady(first)
	assert.Equal(t, []string{"reset", "fade", "play"}, first.actions["Walk"].calls)

	second := newFakeSet("Run")
	a.OnAssetReady(second)
	assert.Equal(t, []string{"reset", "fade", "play"}, second.actions["Run"].calls)
	assert.Equal(t, "Run", a.Selected())
}

func TestAvatarCustomFade(t *testing.T) {
	a := NewAvatar("avatar.glb", config.Placement{Scale: 1}, 1.25)
	set := newFakeSet("Walk")
	a.OnAssetReady(set)
	assert.Equal(t, float32(1.25), set.actions["Walk"].fade)
}

func TestMixerActionsDrivesMixer(t *testing.T) {
	root := scenegraph.NewNode("root")
	body := scenegraph.NewNode("body")
	root.AddChild(body)
	walk := animation.NewClip("Walk", []*animation.Channel{{
		Target: body,
		Path:   animation.PathTranslation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 2, 0, 0},
	}})
	idle := animation.NewClip("Idle", nil)
	m := animation.NewMixer(root, []*animation.Clip{walk, idle})

	a, _ := observedAvatar()
	a.OnAssetReady(MixerActions(m))
	// same mixer, same set
	a.OnAssetReady(MixerActions(m))

	require.NotNil(t, m.Playing())
	assert.Equal(t, "Walk", m.Playing().Name())
	assert.False(t, m.Action("Idle").IsRunning())
	assert.Nil(t, MixerActions(m).Action("Missing"))
}
