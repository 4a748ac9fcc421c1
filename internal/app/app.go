// Package app runs the viewer: window, render loop and scene host.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/assets"
	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/debug"
	"github.com/Faultbox/roomview/internal/engine/input"
	"github.com/Faultbox/roomview/internal/engine/overlay"
	"github.com/Faultbox/roomview/internal/engine/renderer"
	"github.com/Faultbox/roomview/internal/engine/scene"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
	"github.com/Faultbox/roomview/internal/engine/window"
	"github.com/Faultbox/roomview/internal/logger"
	"github.com/Faultbox/roomview/internal/viewer"
)

// Title is the window title.
const Title = "roomview"

// App is the running viewer.
type App struct {
	cfg *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	overlay  *overlay.Renderer

	host        *viewer.SceneHost
	watcher     *assets.Watcher
	screenshots *debug.ScreenshotCapture

	running bool
	log     *zap.Logger
}

// New creates the window, GL resources and scene host.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:         cfg,
		input:       input.New(),
		screenshots: debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, Title),
		log:         logger.Named("app"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer AFTER window, since OpenGL context must exist
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	ww, wh := a.window.GetSize()
	a.host, err = viewer.NewSceneHost(cfg, viewer.Options{ViewportWidth: ww, ViewportHeight: wh},
		assets.NewLoader(nil), viewer.Hooks{
			Populated: a.onPopulated,
			Release:   a.onRelease,
		})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create scene host: %w", err)
	}

	a.scene, err = scene.New(sceneConfig(cfg, int32(dw), int32(dh)), a.host.Rig())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	a.overlay, err = overlay.New(dw, dh)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create overlay: %w", err)
	}

	if cfg.Scene.Watch {
		a.watcher, err = assets.NewWatcher(a.host.Locators()...)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to watch assets: %w", err)
		}
	}

	return a, nil
}

// sceneConfig maps viewer settings onto the renderer's options.
func sceneConfig(cfg *config.Config, width, height int32) scene.Config {
	c := cfg.Shadows.Contact
	return scene.Config{
		Width:            width,
		Height:           height,
		ShadowResolution: cfg.Shadows.MapResolution,
		ShadowsEnabled:   cfg.Lighting.Spot.CastShadow,
		ContactShadows:   c.Enabled,
		Contact: scene.ContactShadowConfig{
			Position:   mgl32.Vec3(c.Position),
			Opacity:    c.Opacity,
			Blur:       c.Blur,
			Scale:      c.Scale,
			Far:        c.Far,
			Resolution: c.Resolution,
		},
	}
}

func (a *App) onPopulated(room, avatar *scenegraph.Node) {
	// The room floor sits on the contact plane; only the avatar casts onto it.
	a.scene.ExcludeFromContactShadows(room)
}

func (a *App) onRelease(root *scenegraph.Node) {
	a.scene.Release(root)
}

// Run mounts the scene and runs the render loop until quit or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.running = true
	a.host.Mount(ctx)

	if a.watcher != nil {
		go a.watcher.Run(ctx)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting render loop")

	for a.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleInput()

		// 2. Reload changed assets
		a.pollWatcher()

		// 3. Update scene state
		if err := a.host.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 4. Render and present
		a.render()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleInput() {
	if w, h, ok := a.input.Resized(); ok {
		dw, dh := a.window.DrawableSize()
		a.renderer.Resize(dw, dh)
		a.scene.Resize(int32(dw), int32(dh))
		a.overlay.Resize(dw, dh)
		a.host.Resize(w, h)
	}

	if a.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
		a.running = false
	}
	if a.input.IsKeyPressed(sdl.SCANCODE_F12) {
		a.screenshot()
	}

	a.host.HandleDrag(a.input.Drag())
	a.host.HandleWheel(a.input.Wheel())
}

func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}
	select {
	case loc := <-a.watcher.Changes():
		a.log.Info("asset changed, reloading", zap.String("locator", loc))
		a.host.Remount()
	default:
	}
}

func (a *App) render() {
	a.scene.Render(a.host.Graph(), a.host.Camera())

	a.renderer.Begin()
	a.scene.Present()

	a.overlay.Begin()
	a.overlay.DrawCaption(viewer.Title, viewer.ControlsHint)
	if text, fraction, ok := loadingLabel(a.host.Indicator()); ok {
		a.overlay.DrawLoading(text, fraction)
	}
	a.overlay.End()
}

// loadingLabel returns the progress label while any load is pending.
func loadingLabel(li *viewer.LoadingIndicator) (string, float32, bool) {
	if li == nil || !li.Visible() {
		return "", 0, false
	}
	return li.Text(), li.Fraction(), true
}

func (a *App) screenshot() {
	path, err := a.screenshots.Capture(a.scene.CaptureImage())
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases every resource in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.host != nil {
		a.host.Close()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.overlay != nil {
		a.overlay.Close()
	}
	if a.scene != nil {
		a.scene.Destroy()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
