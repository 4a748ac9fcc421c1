package viewer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roomview/internal/config"
)

func TestSelectPose(t *testing.T) {
	cam := config.Default().Camera
	tests := []struct {
		width    int
		class    ViewportClass
		position mgl32.Vec3
	}{
		{375, Mobile, mgl32.Vec3{5, 4, 8}},
		{1024, Desktop, mgl32.Vec3{3, 2, 5}},
		{767, Mobile, mgl32.Vec3{5, 4, 8}},
		{768, Desktop, mgl32.Vec3{3, 2, 5}},
		{0, Mobile, mgl32.Vec3{5, 4, 8}},
	}
	for _, tt := range tests {
		vp := SelectPose(tt.width, cam)
		assert.Equal(t, tt.class, vp.Class, "width %d", tt.width)
		assert.Equal(t, tt.position, vp.Position, "width %d", tt.width)
		assert.Equal(t, float32(50), vp.FOV, "width %d", tt.width)
	}
}

func TestSelectPoseDefaultBreakpoint(t *testing.T) {
	cam := config.Default().Camera
	cam.MobileBreakpoint = 0
	assert.Equal(t, Mobile, SelectPose(500, cam).Class)
	assert.Equal(t, Desktop, SelectPose(800, cam).Class)
	assert.Equal(t, "mobile", Mobile.String())
	assert.Equal(t, "desktop", Desktop.String())
}

type fakeProgress struct {
	p      float32
	active bool
}

func (f *fakeProgress) Progress() float32 { return f.p }
func (f *fakeProgress) Active() bool      { return f.active }

func TestLoadingIndicatorText(t *testing.T) {
	src := &fakeProgress{active: true}
	li := NewLoadingIndicator(src)

	tests := []struct {
		progress float32
		want     string
	}{
		{0, "0% loaded"},
		{41.4, "41% loaded"},
		{41.5, "42% loaded"},
		{99.6, "100% loaded"},
		{100, "100% loaded"},
		{-3, "0% loaded"},
		{250, "100% loaded"},
		{float32(math.NaN()), "0% loaded"},
	}
	for _, tt := range tests {
		src.p = tt.progress
		assert.Equal(t, tt.want, li.Text(), "progress %v", tt.progress)
	}

	src.p = 50
	assert.InDelta(t, 0.5, li.Fraction(), 1e-6)
	assert.True(t, li.Visible())
	src.active = false
	assert.False(t, li.Visible())
}

func TestRigFromConfig(t *testing.T) {
	rig, err := RigFromConfig(config.Default().Lighting)
	require.NoError(t, err)
	assert.Equal(t, float32(0.7), rig.Ambient.Intensity)
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, rig.Spot.Position)
	assert.Equal(t, float32(0.15), rig.Spot.Angle)
	assert.Equal(t, float32(1), rig.Spot.Penumbra)
	assert.True(t, rig.Spot.CastShadow)
	assert.Equal(t, "city", rig.Environment.Name)

	lc := config.Default().Lighting
	lc.Environment = ""
	rig, err = RigFromConfig(lc)
	require.NoError(t, err)
	assert.Equal(t, "city", rig.Environment.Name)

	lc.Environment = "moon"
	_, err = RigFromConfig(lc)
	assert.Error(t, err)
}
