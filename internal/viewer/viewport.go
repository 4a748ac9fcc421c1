// Package viewer composes the room, the avatar and the loading indicator
// into a scene and drives them from the render loop.
package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/config"
)

// DefaultMobileBreakpoint is the width below which the mobile pose is used.
const DefaultMobileBreakpoint = 768

// ViewportClass is the coarse size class of the viewport.
type ViewportClass int

const (
	Desktop ViewportClass = iota
	Mobile
)

func (c ViewportClass) String() string {
	if c == Mobile {
		return "mobile"
	}
	return "desktop"
}

// ViewportConfig is the camera pose chosen for a viewport width.
type ViewportConfig struct {
	Class    ViewportClass
	Position mgl32.Vec3
	FOV      float32
}

// SelectPose picks the mobile pose for widths under the breakpoint and the
// desktop pose otherwise. A zero width counts as mobile.
func SelectPose(width int, cam config.CameraConfig) ViewportConfig {
	breakpoint := cam.MobileBreakpoint
	if breakpoint <= 0 {
		breakpoint = DefaultMobileBreakpoint
	}
	if width < breakpoint {
		return ViewportConfig{Class: Mobile, Position: cam.Mobile.Position, FOV: cam.Mobile.FOV}
	}
	return ViewportConfig{Class: Desktop, Position: cam.Desktop.Position, FOV: cam.Desktop.FOV}
}
