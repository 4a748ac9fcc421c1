package animation

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

func slide(target *scenegraph.Node, name string, to float32) *Clip {
	return NewClip(name, []*Channel{{
		Target: target,
		Path:   PathTranslation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, to, 0, 0},
	}})
}

func TestLinearTranslation(t *testing.T) {
	ch := &Channel{Path: PathTranslation, Times: []float32{0, 2}, Values: []float32{0, 0, 0, 4, 2, -2}}

	var out [3]float32
	ch.Sample(1, out[:])
	assert.InDeltaSlice(t, []float32{2, 1, -1}, out[:], 1e-6)

	ch.Sample(-1, out[:])
	assert.InDeltaSlice(t, []float32{0, 0, 0}, out[:], 1e-6)

	ch.Sample(5, out[:])
	assert.InDeltaSlice(t, []float32{4, 2, -2}, out[:], 1e-6)
}

func TestStepInterpolation(t *testing.T) {
	ch := &Channel{Path: PathScale, Interpolation: InterpolationStep,
		Times: []float32{0, 1}, Values: []float32{1, 1, 1, 2, 2, 2}}

	var out [3]float32
	ch.Sample(0.99, out[:])
	assert.Equal(t, [3]float32{1, 1, 1}, out)
}

func TestRotationSlerp(t *testing.T) {
	half := float32(gomath.Sqrt2 / 2)
	ch := &Channel{Path: PathRotation, Times: []float32{0, 1},
		Values: []float32{0, 0, 0, 1, 0, half, 0, half}} // identity -> 90° about Y

	var out [4]float32
	ch.Sample(0.5, out[:])
	q := mgl32.Quat{W: out[3], V: mgl32.Vec3{out[0], out[1], out[2]}}
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	assert.True(t, q.ApproxEqualThreshold(want, 1e-4), "got %v want %v", q, want)
}

func TestCubicSplineHitsKeyframes(t *testing.T) {
	ch := &Channel{Path: PathTranslation, Interpolation: InterpolationCubicSpline,
		Times: []float32{0, 1},
		Values: []float32{
			0, 0, 0, 1, 1, 1, 0, 0, 0, // in, value, out for key 0
			0, 0, 0, 3, 3, 3, 0, 0, 0, // key 1
		}}

	var out [3]float32
	ch.Sample(0, out[:])
	assert.InDeltaSlice(t, []float32{1, 1, 1}, out[:], 1e-6)
	ch.Sample(0.5, out[:])
	assert.InDeltaSlice(t, []float32{2, 2, 2}, out[:], 1e-6)
	ch.Sample(1, out[:])
	assert.InDeltaSlice(t, []float32{3, 3, 3}, out[:], 1e-6)
}

func TestNamesKeepDeclarationOrder(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Walk", 1), slide(n, "Idle", 1), slide(n, "Attack", 1)})

	assert.Equal(t, []string{"Walk", "Idle", "Attack"}, m.Names())
	assert.Equal(t, 3, m.Len())
	assert.Nil(t, m.Action("Run"))
}

func TestDuplicateClipNamesKeepFirst(t *testing.T) {
	n := scenegraph.NewNode("hips")
	first := slide(n, "Walk", 1)
	m := NewMixer(n, []*Clip{first, slide(n, "Walk", 9)})

	assert.Equal(t, []string{"Walk"}, m.Names())
	assert.Same(t, first, m.Action("Walk").Clip())
}

func TestFadeInRampsWeight(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Walk", 4)})

	a := m.Action("Walk")
	a.Reset()
	a.FadeIn(0.5)
	a.Play()
	assert.Zero(t, a.Weight())

	m.Update(0.25)
	assert.InDelta(t, 0.5, a.Weight(), 1e-6)
	// clip at t=0.25 is x=1, blended halfway from rest
	assert.InDelta(t, 0.5, n.Translation.X(), 1e-5)

	m.Update(0.25)
	assert.InDelta(t, 1, a.Weight(), 1e-6)
	assert.InDelta(t, 2, n.Translation.X(), 1e-5)
}

func TestPlayStopsOtherActions(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Walk", 1), slide(n, "Idle", 1)})

	walk, idle := m.Action("Walk"), m.Action("Idle")
	walk.Play()
	idle.Play()

	assert.False(t, walk.IsRunning())
	assert.True(t, idle.IsRunning())
	assert.Same(t, idle, m.Playing())
}

func TestLoopRepeatIsDefault(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Walk", 1)})
	a := m.Action("Walk")
	a.Play()

	m.Update(2.25)
	assert.True(t, a.IsRunning())
	assert.InDelta(t, 0.25, a.Time(), 1e-5)
}

func TestLoopOnceReleasesPose(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Wave", 1)})
	a := m.Action("Wave")
	a.Loop = LoopOnce
	a.Play()

	m.Update(1.5)
	assert.False(t, a.IsRunning())
	m.Update(0.1)
	assert.Equal(t, mgl32.Vec3{}, n.Translation)
}

func TestPingPong(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Sway", 1)})
	a := m.Action("Sway")
	a.Loop = LoopPingPong
	a.Play()

	m.Update(1.25)
	assert.InDelta(t, 0.75, a.Time(), 1e-5)
}

func TestFadeOutStops(t *testing.T) {
	n := scenegraph.NewNode("hips")
	m := NewMixer(n, []*Clip{slide(n, "Walk", 1)})
	a := m.Action("Walk")
	a.Play()
	a.FadeOut(0.2)

	m.Update(0.3)
	assert.False(t, a.IsRunning())
	assert.Nil(t, m.Playing())
}

func TestEmptyMixer(t *testing.T) {
	m := NewMixer(scenegraph.NewNode("static"), nil)
	require.Empty(t, m.Names())
	m.Update(1) // no-op
	assert.Nil(t, m.Playing())
}
