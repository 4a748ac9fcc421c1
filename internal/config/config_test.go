package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Camera poses
	if cfg.Camera.MobileBreakpoint != 768 {
		t.Errorf("expected breakpoint 768, got %d", cfg.Camera.MobileBreakpoint)
	}
	if cfg.Camera.Mobile.Position != [3]float32{5, 4, 8} || cfg.Camera.Mobile.FOV != 50 {
		t.Errorf("unexpected mobile pose %+v", cfg.Camera.Mobile)
	}
	if cfg.Camera.Desktop.Position != [3]float32{3, 2, 5} || cfg.Camera.Desktop.FOV != 50 {
		t.Errorf("unexpected desktop pose %+v", cfg.Camera.Desktop)
	}
	if cfg.Camera.MinPolar != 0 || cfg.Camera.MaxPolar != float32(math.Pi/2.1) {
		t.Errorf("unexpected polar range [%v, %v]", cfg.Camera.MinPolar, cfg.Camera.MaxPolar)
	}
	if cfg.Camera.EnablePan {
		t.Error("expected panning disabled by default")
	}
	if cfg.Camera.ReselectOnResize {
		t.Error("expected pose selection to be one-shot by default")
	}

	// Placement
	if cfg.Scene.Room != (Placement{Scale: 1, Position: [3]float32{0, -1.05, 0}}) {
		t.Errorf("unexpected room placement %+v", cfg.Scene.Room)
	}
	if cfg.Scene.Avatar != (Placement{Scale: 1, Position: [3]float32{0, -1, 0}}) {
		t.Errorf("unexpected avatar placement %+v", cfg.Scene.Avatar)
	}

	// Animation
	if cfg.Scene.FadeDuration != 0.5 {
		t.Errorf("expected fade 0.5, got %v", cfg.Scene.FadeDuration)
	}

	// Lighting
	if !cfg.Lighting.Spot.CastShadow {
		t.Error("expected spot light to cast shadows")
	}
	if cfg.Lighting.Environment != "city" {
		t.Errorf("expected environment city, got %s", cfg.Lighting.Environment)
	}
	if cfg.Lighting.Ambient != 0.7 {
		t.Errorf("expected ambient 0.7, got %v", cfg.Lighting.Ambient)
	}
	spot := cfg.Lighting.Spot
	if spot.Position != [3]float32{10, 10, 10} || spot.Angle != 0.15 || spot.Penumbra != 1 || spot.Intensity != 1 {
		t.Errorf("unexpected spot light %+v", spot)
	}

	// Contact shadows
	contact := cfg.Shadows.Contact
	if !contact.Enabled {
		t.Error("expected contact shadows enabled")
	}
	if contact.Position != [3]float32{0, -0.99, 0} {
		t.Errorf("expected contact position [0 -0.99 0], got %v", contact.Position)
	}
	if contact.Opacity != 0.6 || contact.Blur != 2.5 || contact.Scale != 10 || contact.Far != 1 {
		t.Errorf("unexpected contact shadow settings %+v", contact)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true

scene:
  room_path: "models/loft.glb"
  avatar_path: "models/hero.glb"
  avatar:
    scale: 0.8
    position: [0, -1.2, 1]

camera:
  mobile_breakpoint: 600
  reselect_on_resize: true

lighting:
  ambient: 0.25
  environment: "sunset"

shadows:
  contact:
    opacity: 0.7

logging:
  level: "debug"
  log_file: "roomview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Scene.RoomPath != "models/loft.glb" {
		t.Errorf("expected room path models/loft.glb, got %s", cfg.Scene.RoomPath)
	}
	if cfg.Scene.Avatar.Scale != 0.8 || cfg.Scene.Avatar.Position != [3]float32{0, -1.2, 1} {
		t.Errorf("unexpected avatar placement %+v", cfg.Scene.Avatar)
	}
	// Untouched keys keep their defaults
	if cfg.Scene.Room.Scale != 1 {
		t.Errorf("expected default room scale 1, got %v", cfg.Scene.Room.Scale)
	}
	if cfg.Camera.MobileBreakpoint != 600 {
		t.Errorf("expected breakpoint 600, got %d", cfg.Camera.MobileBreakpoint)
	}
	if !cfg.Camera.ReselectOnResize {
		t.Error("expected reselect_on_resize to be true")
	}
	if cfg.Lighting.Ambient != 0.25 || cfg.Lighting.Environment != "sunset" {
		t.Errorf("unexpected lighting %+v", cfg.Lighting)
	}
	if cfg.Shadows.Contact.Opacity != 0.7 {
		t.Errorf("expected contact opacity 0.7, got %v", cfg.Shadows.Contact.Opacity)
	}
	if cfg.Shadows.Contact.Blur != 2.5 {
		t.Errorf("expected default blur 2.5, got %v", cfg.Shadows.Contact.Blur)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "roomview.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty room", mutate: func(c *Config) { c.Scene.RoomPath = "" }, wantErr: true},
		{name: "empty avatar", mutate: func(c *Config) { c.Scene.AvatarPath = "" }, wantErr: true},
		{name: "negative min polar", mutate: func(c *Config) { c.Camera.MinPolar = -0.1 }, wantErr: true},
		{name: "inverted polar", mutate: func(c *Config) { c.Camera.MaxPolar = 0 }, wantErr: true},
		{name: "zero distance", mutate: func(c *Config) { c.Camera.MinDistance = 0 }, wantErr: true},
		{name: "zero fov", mutate: func(c *Config) { c.Camera.Mobile.FOV = 0 }, wantErr: true},
		{name: "opacity above one", mutate: func(c *Config) { c.Shadows.Contact.Opacity = 1.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path == "./config.yaml" {
		t.Errorf("expected no config in empty dir, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %q", path)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.AvatarPath = "models/dancer.glb"
	cfg.Camera.ReselectOnResize = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Scene.AvatarPath != "models/dancer.glb" {
		t.Errorf("expected avatar path to survive save, got %s", loaded.Scene.AvatarPath)
	}
	if !loaded.Camera.ReselectOnResize {
		t.Error("expected reselect_on_resize to survive save")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "asset flags",
			setup: func() {
				*flagRoom = "a.glb"
				*flagAvatar = "b.gltf"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.RoomPath != "a.glb" || cfg.Scene.AvatarPath != "b.gltf" {
					t.Errorf("unexpected asset paths %q %q", cfg.Scene.RoomPath, cfg.Scene.AvatarPath)
				}
			},
			teardown: func() {
				*flagRoom = ""
				*flagAvatar = ""
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 375
				*flagHeight = 812
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 375 || cfg.Graphics.Height != 812 {
					t.Errorf("expected 375x812, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "watch and environment flags",
			setup: func() {
				*flagWatch = true
				*flagEnvironment = "night"
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Scene.Watch {
					t.Error("expected watch enabled")
				}
				if cfg.Lighting.Environment != "night" {
					t.Errorf("expected night, got %s", cfg.Lighting.Environment)
				}
			},
			teardown: func() {
				*flagWatch = false
				*flagEnvironment = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// File beats default
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("scene:\n  room_path: \"\"\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error for empty room path")
	}
}
