// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Lighting LightingConfig `yaml:"lighting"`
	Shadows  ShadowsConfig  `yaml:"shadows"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// Placement positions an asset root in the world.
type Placement struct {
	Scale    float32    `yaml:"scale"`
	Position [3]float32 `yaml:"position"`
}

// SceneConfig holds the asset locators and their fixed placements.
type SceneConfig struct {
	RoomPath     string    `yaml:"room_path"`
	AvatarPath   string    `yaml:"avatar_path"`
	Room         Placement `yaml:"room"`
	Avatar       Placement `yaml:"avatar"`
	FadeDuration float32   `yaml:"fade_duration"`
	Watch        bool      `yaml:"watch"`
}

// Pose is a camera position plus vertical field of view in degrees.
type Pose struct {
	Position [3]float32 `yaml:"position"`
	FOV      float32    `yaml:"fov"`
}

// CameraConfig holds responsive poses and orbit control limits.
type CameraConfig struct {
	MobileBreakpoint int        `yaml:"mobile_breakpoint"`
	Mobile           Pose       `yaml:"mobile"`
	Desktop          Pose       `yaml:"desktop"`
	Target           [3]float32 `yaml:"target"`
	MinPolar         float32    `yaml:"min_polar"`
	MaxPolar         float32    `yaml:"max_polar"`
	MinDistance      float32    `yaml:"min_distance"`
	MaxDistance      float32    `yaml:"max_distance"`
	EnablePan        bool       `yaml:"enable_pan"`
	RotateSpeed      float32    `yaml:"rotate_speed"`
	ZoomSpeed        float32    `yaml:"zoom_speed"`
	ReselectOnResize bool       `yaml:"reselect_on_resize"`
}

// SpotConfig describes the single shadow-casting spot light.
type SpotConfig struct {
	Position   [3]float32 `yaml:"position"`
	Angle      float32    `yaml:"angle"`
	Penumbra   float32    `yaml:"penumbra"`
	Intensity  float32    `yaml:"intensity"`
	CastShadow bool       `yaml:"cast_shadow"`
}

// LightingConfig holds light and environment settings.
type LightingConfig struct {
	Ambient     float32    `yaml:"ambient"`
	Spot        SpotConfig `yaml:"spot"`
	Environment string     `yaml:"environment"`
}

// ContactShadowConfig describes the ground contact shadow plane.
type ContactShadowConfig struct {
	Enabled    bool       `yaml:"enabled"`
	Position   [3]float32 `yaml:"position"`
	Opacity    float32    `yaml:"opacity"`
	Blur       float32    `yaml:"blur"`
	Scale      float32    `yaml:"scale"`
	Far        float32    `yaml:"far"`
	Resolution int32      `yaml:"resolution"`
}

// ShadowsConfig holds shadow map and contact shadow settings.
type ShadowsConfig struct {
	MapResolution int32               `yaml:"map_resolution"`
	Contact       ContactShadowConfig `yaml:"contact"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the hand-tuned scene constants.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			ScreenshotDir: "screenshots",
		},
		Scene: SceneConfig{
			RoomPath:     "assets/room.glb",
			AvatarPath:   "assets/avatar.glb",
			Room:         Placement{Scale: 1, Position: [3]float32{0, -1.05, 0}},
			Avatar:       Placement{Scale: 1, Position: [3]float32{0, -1, 0}},
			FadeDuration: 0.5,
		},
		Camera: CameraConfig{
			MobileBreakpoint: 768,
			Mobile:           Pose{Position: [3]float32{5, 4, 8}, FOV: 50},
			Desktop:          Pose{Position: [3]float32{3, 2, 5}, FOV: 50},
			MinPolar:         0,
			MaxPolar:         math.Pi / 2.1,
			MinDistance:      1,
			MaxDistance:      20,
			EnablePan:        false,
			RotateSpeed:      0.005,
			ZoomSpeed:        0.1,
		},
		Lighting: LightingConfig{
			Ambient: 0.7,
			Spot: SpotConfig{
				Position:   [3]float32{10, 10, 10},
				Angle:      0.15,
				Penumbra:   1,
				Intensity:  1,
				CastShadow: true,
			},
			Environment: "city",
		},
		Shadows: ShadowsConfig{
			MapResolution: 2048,
			Contact: ContactShadowConfig{
				Enabled:    true,
				Position:   [3]float32{0, -0.99, 0},
				Opacity:    0.6,
				Blur:       2.5,
				Scale:      10,
				Far:        1,
				Resolution: 512,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that would leave the viewer unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Scene.RoomPath == "" {
		errs = append(errs, errors.New("scene.room_path is empty"))
	}
	if c.Scene.AvatarPath == "" {
		errs = append(errs, errors.New("scene.avatar_path is empty"))
	}
	if c.Camera.MinPolar < 0 || c.Camera.MaxPolar <= c.Camera.MinPolar || c.Camera.MaxPolar > math.Pi {
		errs = append(errs, fmt.Errorf("camera polar range [%v, %v] is invalid", c.Camera.MinPolar, c.Camera.MaxPolar))
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("camera distance range [%v, %v] is invalid", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if c.Camera.Mobile.FOV <= 0 || c.Camera.Desktop.FOV <= 0 {
		errs = append(errs, errors.New("camera fov must be positive"))
	}
	if c.Shadows.Contact.Opacity < 0 || c.Shadows.Contact.Opacity > 1 {
		errs = append(errs, fmt.Errorf("contact shadow opacity %v outside [0, 1]", c.Shadows.Contact.Opacity))
	}
	return errors.Join(errs...)
}
