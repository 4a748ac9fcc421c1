// Package scene renders a scene graph with a spot light, shadow mapping,
// an environment backdrop and soft contact shadows.
package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/engine/camera"
	"github.com/Faultbox/roomview/internal/engine/framebuffer"
	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/scene/shaders"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
	"github.com/Faultbox/roomview/internal/engine/shader"
	"github.com/Faultbox/roomview/internal/engine/shadow"
	"github.com/Faultbox/roomview/internal/logger"
)

// Config contains scene configuration options.
type Config struct {
	Width            int32
	Height           int32
	ShadowResolution int32
	ShadowsEnabled   bool

	ContactShadows bool
	Contact        ContactShadowConfig
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:            1280,
		Height:           720,
		ShadowResolution: shadow.DefaultResolution,
		ShadowsEnabled:   true,
		ContactShadows:   true,
		Contact: ContactShadowConfig{
			Position:   mgl32.Vec3{0, -0.99, 0},
			Opacity:    0.6,
			Blur:       2.5,
			Scale:      10,
			Far:        1,
			Resolution: 512,
		},
	}
}

// Scene owns every GPU resource needed to draw a frame.
type Scene struct {
	config Config

	// Framebuffer for offscreen rendering
	framebuffer *framebuffer.Framebuffer

	// Renderers
	modelRenderer    *ModelRenderer
	backdropRenderer *BackdropRenderer
	contactRenderer  *ContactShadowRenderer

	// Shadow mapping
	shadowMap              *shadow.Map
	shadowProgram          uint32
	shadowGeo              geometryLocs
	locShadowLightViewProj int32
	lightViewProj          mgl32.Mat4

	// Lighting
	Rig            lighting.Rig
	ShadowsEnabled bool

	// Subtrees that never cast contact shadows.
	contactExcluded map[*scenegraph.Node]bool

	fallbackTex uint32
}

// New creates a new scene with the given configuration. The GL context must
// be current.
func New(cfg Config, rig lighting.Rig) (*Scene, error) {
	s := &Scene{
		config:          cfg,
		Rig:             rig,
		ShadowsEnabled:  cfg.ShadowsEnabled,
		contactExcluded: make(map[*scenegraph.Node]bool),
	}

	var err error
	s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	if s.ShadowsEnabled {
		s.shadowMap, err = shadow.NewMap(cfg.ShadowResolution)
		if err != nil {
			// Shadows are optional; render without them.
			logger.Named("scene").Warn("shadow map unavailable", zap.Error(err))
			s.ShadowsEnabled = false
		}
	}

	if err := s.createShadowShader(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating shadow shader: %w", err)
	}

	s.modelRenderer, err = NewModelRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating model renderer: %w", err)
	}

	s.backdropRenderer, err = NewBackdropRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating backdrop renderer: %w", err)
	}

	if cfg.ContactShadows {
		s.contactRenderer, err = NewContactShadowRenderer(cfg.Contact)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("creating contact shadow renderer: %w", err)
		}
	}

	s.createFallbackTexture()
	return s, nil
}

func (s *Scene) createShadowShader() error {
	program, err := shader.CompileProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return fmt.Errorf("shadow shader: %w", err)
	}
	s.shadowProgram = program
	s.shadowGeo = newGeometryLocs(program)
	s.locShadowLightViewProj = shader.GetUniform(program, "uLightViewProj")
	return nil
}

func (s *Scene) createFallbackTexture() {
	gl.GenTextures(1, &s.fallbackTex)
	gl.BindTexture(gl.TEXTURE_2D, s.fallbackTex)
	white := []uint8{255, 255, 255, 255}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ExcludeFromContactShadows keeps root and its descendants out of the
// contact shadow pass. A room whose floor lies on the shadow plane would
// otherwise shade the whole plane.
func (s *Scene) ExcludeFromContactShadows(root *scenegraph.Node) {
	s.contactExcluded[root] = true
}

// IncludeInContactShadows reverts ExcludeFromContactShadows.
func (s *Scene) IncludeInContactShadows(root *scenegraph.Node) {
	delete(s.contactExcluded, root)
}

// Render draws graph as seen by cam into the offscreen framebuffer and
// returns its color texture. The graph's world matrices are updated first.
func (s *Scene) Render(graph *scenegraph.Graph, cam *camera.OrbitCamera) uint32 {
	graph.Update()
	drawables := graph.Drawables()

	viewProj := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
	cameraPos := cam.Position()

	shadows := s.ShadowsEnabled && s.Rig.Spot.CastShadow && s.shadowMap.IsValid()
	if shadows && len(drawables) > 0 {
		spot := s.Rig.Spot
		s.lightViewProj = shadow.SpotLightMatrix(spot.Position, spot.Target, spot.Angle, graph.Bounds())
		s.renderShadowPass(drawables)
	}

	if s.contactRenderer != nil {
		s.contactRenderer.Update(s.modelRenderer, filterCasters(drawables, s.contactExcluded))
	}

	restore := s.framebuffer.BindWithViewport()
	defer restore()

	s.framebuffer.Clear(0, 0, 0, 1)
	s.backdropRenderer.Render(viewProj, cameraPos, s.Rig.Environment)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var shadowMap *shadow.Map
	if shadows {
		shadowMap = s.shadowMap
	}
	s.modelRenderer.Render(drawables, viewProj, cameraPos, s.Rig, s.lightViewProj, shadowMap, s.fallbackTex)

	if s.contactRenderer != nil {
		s.contactRenderer.Render(viewProj)
	}

	return s.framebuffer.ColorTexture()
}

func (s *Scene) renderShadowPass(drawables []scenegraph.Drawable) {
	s.shadowMap.Bind()
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(s.shadowProgram)
	shader.SetMat4(s.locShadowLightViewProj, s.lightViewProj)
	s.modelRenderer.renderGeometry(drawables, s.shadowGeo)

	s.shadowMap.Unbind()
}

// filterCasters drops drawables whose node lies under an excluded root.
func filterCasters(drawables []scenegraph.Drawable, excluded map[*scenegraph.Node]bool) []scenegraph.Drawable {
	if len(excluded) == 0 {
		return drawables
	}
	out := make([]scenegraph.Drawable, 0, len(drawables))
	for _, d := range drawables {
		if !underAny(d.Node, excluded) {
			out = append(out, d)
		}
	}
	return out
}

func underAny(n *scenegraph.Node, roots map[*scenegraph.Node]bool) bool {
	for ; n != nil; n = n.Parent {
		if roots[n] {
			return true
		}
	}
	return false
}

// Present copies the last frame to the default framebuffer.
func (s *Scene) Present() {
	s.framebuffer.BlitToScreen(s.config.Width, s.config.Height)
}

// Resize updates the scene dimensions.
func (s *Scene) Resize(width, height int32) {
	if width == s.config.Width && height == s.config.Height {
		return
	}
	if width <= 0 || height <= 0 {
		return
	}
	s.config.Width = width
	s.config.Height = height
	s.framebuffer.Resize(width, height)
}

// Size returns the framebuffer dimensions.
func (s *Scene) Size() (width, height int32) {
	return s.config.Width, s.config.Height
}

// Release frees GPU data uploaded for root's meshes.
func (s *Scene) Release(root *scenegraph.Node) {
	s.modelRenderer.Release(root)
	s.IncludeInContactShadows(root)
}

// FallbackTexture returns the fallback texture ID.
func (s *Scene) FallbackTexture() uint32 {
	return s.fallbackTex
}

// ColorTexture returns the rendered color texture.
func (s *Scene) ColorTexture() uint32 {
	return s.framebuffer.ColorTexture()
}

// CaptureImage returns the last rendered frame, top row first.
func (s *Scene) CaptureImage() *image.RGBA {
	return s.framebuffer.ReadImage()
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	if s.modelRenderer != nil {
		s.modelRenderer.Destroy()
	}
	if s.backdropRenderer != nil {
		s.backdropRenderer.Destroy()
	}
	if s.contactRenderer != nil {
		s.contactRenderer.Destroy()
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
	}
	if s.shadowProgram != 0 {
		gl.DeleteProgram(s.shadowProgram)
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
	}
	if s.fallbackTex != 0 {
		gl.DeleteTextures(1, &s.fallbackTex)
	}
}
