package viewer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/assets"
	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/camera"
	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
	"github.com/Faultbox/roomview/internal/logger"
)

// State is the mount state of a SceneHost.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return "idle"
	}
}

// Options are supplied by the embedding window.
type Options struct {
	ViewportWidth  int
	ViewportHeight int
}

// Hooks let the render layer follow graph changes. Both are optional.
type Hooks struct {
	// Populated runs after both roots are inserted.
	Populated func(room, avatar *scenegraph.Node)
	// Release runs for each root removed on remount, so GPU copies can be freed.
	Release func(root *scenegraph.Node)
}

// SceneHost owns the scene graph, camera, lights and the two scene objects.
// All methods must be called from the render thread.
type SceneHost struct {
	cfg      *config.Config
	loader   *assets.Loader
	graph    *scenegraph.Graph
	camera   *camera.OrbitCamera
	rig      lighting.Rig
	viewport ViewportConfig

	room      *Room
	avatar    *Avatar
	indicator *LoadingIndicator
	hooks     Hooks

	state  State
	parent context.Context
	cancel context.CancelFunc
	batch  *assets.Batch

	log *zap.Logger
}

// NewSceneHost prepares a host for cfg. The viewport pose is chosen here,
// once, from opts.ViewportWidth.
func NewSceneHost(cfg *config.Config, opts Options, loader *assets.Loader, hooks Hooks) (*SceneHost, error) {
	rig, err := RigFromConfig(cfg.Lighting)
	if err != nil {
		return nil, err
	}
	if loader == nil {
		loader = assets.NewLoader(nil)
	}

	h := &SceneHost{
		cfg:       cfg,
		loader:    loader,
		graph:     scenegraph.NewGraph(),
		rig:       rig,
		room:      NewRoom(cfg.Scene.RoomPath, cfg.Scene.Room),
		avatar:    NewAvatar(cfg.Scene.AvatarPath, cfg.Scene.Avatar, cfg.Scene.FadeDuration),
		indicator: NewLoadingIndicator(loader.Tracker()),
		hooks:     hooks,
		log:       logger.Named("viewer"),
	}
	h.camera = newCamera(cfg.Camera)
	h.camera.SetViewport(opts.ViewportWidth, opts.ViewportHeight)
	h.viewport = SelectPose(opts.ViewportWidth, cfg.Camera)
	h.camera.SetPose(h.viewport.Position, h.viewport.FOV)

	h.log.Info("viewport selected",
		zap.Stringer("class", h.viewport.Class),
		zap.Int("width", opts.ViewportWidth),
		zap.Float32s("position", h.viewport.Position[:]),
		zap.Float32("fov", h.viewport.FOV))
	return h, nil
}

func newCamera(cc config.CameraConfig) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.Target = cc.Target
	cam.Limits = camera.Limits{
		MinPolar:    cc.MinPolar,
		MaxPolar:    cc.MaxPolar,
		MinDistance: cc.MinDistance,
		MaxDistance: cc.MaxDistance,
		EnablePan:   cc.EnablePan,
	}
	if cc.RotateSpeed > 0 {
		cam.RotateSpeed = cc.RotateSpeed
	}
	if cc.ZoomSpeed > 0 {
		cam.ZoomSpeed = cc.ZoomSpeed
	}
	return cam
}

// Mount starts loading both assets. Closing ctx or calling Close cancels
// in-flight decodes.
func (h *SceneHost) Mount(ctx context.Context) {
	if h.cancel != nil {
		h.cancel()
	}
	h.parent = ctx
	var bctx context.Context
	bctx, h.cancel = context.WithCancel(ctx)
	h.batch = h.loader.Batch(bctx)
	h.room.Request(h.batch)
	h.avatar.Request(h.batch)
	h.state = StateLoading
	h.log.Info("scene mounting",
		zap.String("room", h.room.Locator()),
		zap.String("avatar", h.avatar.Locator()))
}

// Remount discards the current scene and loads both assets again from disk.
func (h *SceneHost) Remount() {
	if h.cancel != nil {
		// Let the old batch settle so it cannot report into the new one.
		h.cancel()
		_ = h.batch.Wait()
	}
	for _, root := range []*scenegraph.Node{h.room.Unmount(h.graph), h.avatar.Unmount(h.graph)} {
		if root != nil && h.hooks.Release != nil {
			h.hooks.Release(root)
		}
	}
	h.loader.Invalidate(h.room.Locator())
	h.loader.Invalidate(h.avatar.Locator())
	h.loader.Tracker().Reset()

	parent := h.parent
	if parent == nil {
		parent = context.Background()
	}
	h.state = StateIdle
	h.Mount(parent)
}

// Update polls pending loads, populates the graph when both resolved and
// advances the animation. A load failure is returned and leaves the host
// in the loading state.
func (h *SceneHost) Update(dt float32) error {
	switch h.state {
	case StateLoading:
		return h.pollLoads()
	case StatePopulated:
		h.avatar.Update(dt)
	}
	return nil
}

func (h *SceneHost) pollLoads() error {
	roomAsset, roomReady, roomErr := h.room.poll()
	avatarAsset, avatarReady, avatarErr := h.avatar.poll()
	if err := firstCause(roomErr, avatarErr); err != nil {
		return err
	}
	if !roomReady || !avatarReady {
		return nil
	}

	h.room.mount(h.graph, roomAsset)
	h.avatar.mountAnimated(h.graph, avatarAsset)
	h.state = StatePopulated
	h.log.Info("scene populated", zap.Int("roots", h.graph.Len()))

	if h.hooks.Populated != nil {
		h.hooks.Populated(h.room.Root(), h.avatar.Root())
	}
	return nil
}

// firstCause prefers a real failure over the cancellation it caused in the
// sibling load.
func firstCause(errs ...error) error {
	var canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		return err
	}
	return canceled
}

// HandleDrag rotates the camera by a pointer delta in pixels.
func (h *SceneHost) HandleDrag(dx, dy float32) {
	if dx != 0 || dy != 0 {
		h.camera.HandleDrag(dx, dy)
	}
}

// HandleWheel zooms the camera by wheel notches.
func (h *SceneHost) HandleWheel(notches float32) {
	if notches != 0 {
		h.camera.HandleZoom(notches)
	}
}

// Resize updates the camera aspect. The pose is reselected only when
// camera.reselect_on_resize is set.
func (h *SceneHost) Resize(width, height int) {
	h.camera.SetViewport(width, height)
	if !h.cfg.Camera.ReselectOnResize {
		return
	}
	vp := SelectPose(width, h.cfg.Camera)
	if vp.Class != h.viewport.Class {
		h.viewport = vp
		h.camera.SetPose(vp.Position, vp.FOV)
		h.log.Debug("viewport reselected", zap.Stringer("class", vp.Class), zap.Int("width", width))
	}
}

// Close cancels pending loads.
func (h *SceneHost) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Wait blocks until pending loads finish. It is meant for tests and
// shutdown, not the render loop.
func (h *SceneHost) Wait() error {
	if h.batch == nil {
		return fmt.Errorf("scene not mounted")
	}
	return h.batch.Wait()
}

// State returns the mount state.
func (h *SceneHost) State() State { return h.state }

// Graph returns the scene graph.
func (h *SceneHost) Graph() *scenegraph.Graph { return h.graph }

// Camera returns the orbit camera.
func (h *SceneHost) Camera() *camera.OrbitCamera { return h.camera }

// Rig returns the light rig.
func (h *SceneHost) Rig() lighting.Rig { return h.rig }

// Viewport returns the selected viewport pose.
func (h *SceneHost) Viewport() ViewportConfig { return h.viewport }

// Indicator returns the loading indicator.
func (h *SceneHost) Indicator() *LoadingIndicator { return h.indicator }

// Room returns the room object.
func (h *SceneHost) Room() *Room { return h.room }

// Avatar returns the avatar object.
func (h *SceneHost) Avatar() *Avatar { return h.avatar }

// Locators returns the watched asset paths.
func (h *SceneHost) Locators() []string {
	return []string{h.room.Locator(), h.avatar.Locator()}
}
