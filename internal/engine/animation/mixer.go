package animation

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

type restPose struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
}

// Mixer owns one Action per clip bound to a model's node hierarchy.
//
// At most one action plays at a time: Play on an action stops the others.
type Mixer struct {
	root    *scenegraph.Node
	names   []string
	actions map[string]*Action
	rest    map[*scenegraph.Node]restPose

	current *Action
	time    float32
}

// NewMixer binds clips to root. Action order follows clip order, which is
// the order the asset declares them in.
func NewMixer(root *scenegraph.Node, clips []*Clip) *Mixer {
	m := &Mixer{
		root:    root,
		actions: make(map[string]*Action, len(clips)),
		rest:    make(map[*scenegraph.Node]restPose),
	}
	for _, clip := range clips {
		name := clip.Name
		if _, dup := m.actions[name]; dup {
			continue
		}
		m.names = append(m.names, name)
		m.actions[name] = &Action{mixer: m, clip: clip, weight: 1, timeScale: 1}

		for _, ch := range clip.Channels {
			if ch.Target == nil {
				continue
			}
			if _, ok := m.rest[ch.Target]; !ok {
				m.rest[ch.Target] = restPose{
					translation: ch.Target.Translation,
					rotation:    ch.Target.Rotation,
					scale:       ch.Target.Scale,
				}
			}
		}
	}
	return m
}

// Root returns the node the mixer animates.
func (m *Mixer) Root() *scenegraph.Node {
	return m.root
}

// Names returns action names in declaration order.
func (m *Mixer) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Action returns the named action, or nil.
func (m *Mixer) Action(name string) *Action {
	return m.actions[name]
}

// Len returns the number of actions.
func (m *Mixer) Len() int {
	return len(m.names)
}

// Playing returns the currently playing action, or nil.
func (m *Mixer) Playing() *Action {
	if m.current != nil && m.current.playing {
		return m.current
	}
	return nil
}

// Time returns total mixer time advanced by Update.
func (m *Mixer) Time() float32 {
	return m.time
}

func (m *Mixer) activate(a *Action) {
	if m.current != nil && m.current != a {
		m.current.playing = false
	}
	m.current = a
}

// Update advances the playing action by dt seconds and writes the blended
// pose to the target nodes. Nodes not driven by a running action return to
// their rest pose.
func (m *Mixer) Update(dt float32) {
	m.time += dt

	for node, pose := range m.rest {
		node.Translation = pose.translation
		node.Rotation = pose.rotation
		node.Scale = pose.scale
	}

	a := m.Playing()
	if a == nil {
		return
	}
	a.advance(dt)
	if !a.playing || a.weight <= 0 {
		return
	}

	var buf [4]float32
	for _, ch := range a.clip.Channels {
		if ch.Target == nil {
			continue
		}
		ch.Sample(a.time, buf[:ch.Path.Components()])
		apply(ch.Target, ch.Path, buf, a.weight)
	}
}

func apply(n *scenegraph.Node, path Path, v [4]float32, w float32) {
	switch path {
	case PathTranslation:
		n.Translation = lerpVec(n.Translation, mgl32.Vec3{v[0], v[1], v[2]}, w)
	case PathScale:
		n.Scale = lerpVec(n.Scale, mgl32.Vec3{v[0], v[1], v[2]}, w)
	case PathRotation:
		q := toQuat(v[:])
		if w >= 1 {
			n.Rotation = q
		} else {
			n.Rotation = mgl32.QuatSlerp(n.Rotation, q, w).Normalize()
		}
	}
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Action is the playback state of one clip.
type Action struct {
	mixer *Mixer
	clip  *Clip

	Loop      LoopMode
	timeScale float32
	time      float32
	direction float32
	playing   bool

	weight       float32
	fadeFrom     float32
	fadeTo       float32
	fadeElapsed  float32
	fadeDuration float32
}

// Name returns the clip name.
func (a *Action) Name() string {
	return a.clip.Name
}

// Clip returns the underlying clip.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Reset rewinds to the start pose and cancels any fade.
func (a *Action) Reset() {
	a.time = 0
	a.direction = 1
	a.weight = 1
	a.fadeDuration = 0
	a.fadeElapsed = 0
}

// FadeIn ramps weight from 0 to 1 over duration seconds.
func (a *Action) FadeIn(duration float32) {
	a.fade(0, 1, duration)
}

// FadeOut ramps weight from the current value to 0 over duration seconds.
func (a *Action) FadeOut(duration float32) {
	a.fade(a.weight, 0, duration)
}

func (a *Action) fade(from, to, duration float32) {
	if duration <= 0 {
		a.weight = to
		a.fadeDuration = 0
		return
	}
	a.fadeFrom, a.fadeTo = from, to
	a.fadeElapsed = 0
	a.fadeDuration = duration
	a.weight = from
}

// Play starts the action, stopping any other action on the same mixer.
func (a *Action) Play() {
	if a.direction == 0 {
		a.direction = 1
	}
	a.playing = true
	a.mixer.activate(a)
}

// Stop halts playback. The pose is released on the next mixer Update.
func (a *Action) Stop() {
	a.playing = false
	if a.mixer.current == a {
		a.mixer.current = nil
	}
}

// IsRunning reports whether the action is playing.
func (a *Action) IsRunning() bool {
	return a.playing
}

// Weight returns the current blend weight in [0, 1].
func (a *Action) Weight() float32 {
	return a.weight
}

// Time returns the local clip time in seconds.
func (a *Action) Time() float32 {
	return a.time
}

// SetTimeScale sets the playback speed multiplier.
func (a *Action) SetTimeScale(s float32) {
	a.timeScale = s
}

func (a *Action) advance(dt float32) {
	if a.fadeDuration > 0 {
		a.fadeElapsed += dt
		f := a.fadeElapsed / a.fadeDuration
		if f >= 1 {
			a.weight = a.fadeTo
			a.fadeDuration = 0
			if a.fadeTo <= 0 {
				a.Stop()
				return
			}
		} else {
			a.weight = a.fadeFrom + (a.fadeTo-a.fadeFrom)*f
		}
	}

	duration := a.clip.Duration()
	if duration <= 0 {
		return
	}

	a.time += dt * a.timeScale * a.direction

	switch a.Loop {
	case LoopOnce:
		if a.time >= duration || a.time < 0 {
			a.time = clampTime(a.time, duration)
			a.Stop()
		}
	case LoopPingPong:
		for a.time > duration || a.time < 0 {
			if a.time > duration {
				a.time = 2*duration - a.time
			} else {
				a.time = -a.time
			}
			a.direction = -a.direction
		}
	default:
		a.time = float32(gomath.Mod(float64(a.time), float64(duration)))
		if a.time < 0 {
			a.time += duration
		}
	}
}

func clampTime(t, duration float32) float32 {
	if t < 0 {
		return 0
	}
	if t > duration {
		return duration
	}
	return t
}
