package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/framebuffer"
	"github.com/Faultbox/roomview/internal/engine/scene/shaders"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
	"github.com/Faultbox/roomview/internal/engine/shader"
	"github.com/Faultbox/roomview/internal/engine/shadow"
)

// ContactShadowConfig describes the ground plane that receives soft contact
// shadows.
type ContactShadowConfig struct {
	Position   mgl32.Vec3
	Opacity    float32
	Blur       float32
	Scale      float32
	Far        float32
	Resolution int32
}

// ContactShadowRenderer renders casters from below into a small target,
// blurs it, and blends the result onto a plane.
type ContactShadowRenderer struct {
	cfg ContactShadowConfig

	target *framebuffer.Framebuffer
	blur   *framebuffer.Framebuffer

	depthProgram     uint32
	depthGeo         geometryLocs
	locDepthViewProj int32

	blurProgram  uint32
	locBlurTex   int32
	locBlurStep  int32
	fullscreenVA uint32

	planeProgram      uint32
	locPlaneViewProj  int32
	locPlaneContactVP int32
	locPlaneTex       int32
	locPlaneOpacity   int32
	planeVAO          uint32
	planeVBO          uint32

	viewProj mgl32.Mat4
}

// NewContactShadowRenderer allocates targets and programs.
func NewContactShadowRenderer(cfg ContactShadowConfig) (*ContactShadowRenderer, error) {
	if cfg.Resolution <= 0 {
		cfg.Resolution = 512
	}
	cr := &ContactShadowRenderer{cfg: cfg}

	var err error
	if cr.target, err = framebuffer.New(cfg.Resolution, cfg.Resolution); err != nil {
		return nil, fmt.Errorf("contact shadow target: %w", err)
	}
	if cr.blur, err = framebuffer.New(cfg.Resolution, cfg.Resolution); err != nil {
		cr.Destroy()
		return nil, fmt.Errorf("contact shadow blur target: %w", err)
	}

	if cr.depthProgram, err = shader.CompileProgram(shaders.ContactDepthVertexShader, shaders.ContactDepthFragmentShader); err != nil {
		cr.Destroy()
		return nil, fmt.Errorf("contact depth shader: %w", err)
	}
	cr.depthGeo = newGeometryLocs(cr.depthProgram)
	cr.locDepthViewProj = shader.GetUniform(cr.depthProgram, "uContactViewProj")

	if cr.blurProgram, err = shader.CompileProgram(shaders.BlurVertexShader, shaders.BlurFragmentShader); err != nil {
		cr.Destroy()
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	cr.locBlurTex = shader.GetUniform(cr.blurProgram, "uTexture")
	cr.locBlurStep = shader.GetUniform(cr.blurProgram, "uDirection")
	gl.GenVertexArrays(1, &cr.fullscreenVA)

	if cr.planeProgram, err = shader.CompileProgram(shaders.ContactPlaneVertexShader, shaders.ContactPlaneFragmentShader); err != nil {
		cr.Destroy()
		return nil, fmt.Errorf("contact plane shader: %w", err)
	}
	cr.locPlaneViewProj = shader.GetUniform(cr.planeProgram, "uViewProj")
	cr.locPlaneContactVP = shader.GetUniform(cr.planeProgram, "uContactViewProj")
	cr.locPlaneTex = shader.GetUniform(cr.planeProgram, "uTexture")
	cr.locPlaneOpacity = shader.GetUniform(cr.planeProgram, "uOpacity")
	cr.createPlane()

	cr.viewProj = shadow.ContactMatrix(cfg.Position, cfg.Scale, cfg.Far)
	return cr, nil
}

func (cr *ContactShadowRenderer) createPlane() {
	h := cr.cfg.Scale / 2
	y := cr.cfg.Position.Y()
	x0, z0 := cr.cfg.Position.X()-h, cr.cfg.Position.Z()-h
	x1, z1 := cr.cfg.Position.X()+h, cr.cfg.Position.Z()+h
	verts := []float32{
		x0, y, z0, x0, y, z1, x1, y, z1,
		x0, y, z0, x1, y, z1, x1, y, z0,
	}

	gl.GenVertexArrays(1, &cr.planeVAO)
	gl.BindVertexArray(cr.planeVAO)
	gl.GenBuffers(1, &cr.planeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, cr.planeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
}

// Update re-renders the shadow texture from the current casters.
func (cr *ContactShadowRenderer) Update(models *ModelRenderer, casters []scenegraph.Drawable) {
	restore := cr.target.BindWithViewport()
	cr.target.Clear(0, 0, 0, 0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)

	gl.UseProgram(cr.depthProgram)
	shader.SetMat4(cr.locDepthViewProj, cr.viewProj)
	models.renderGeometry(casters, cr.depthGeo)

	gl.Disable(gl.DEPTH_TEST)
	first, second := shadow.BlurStep(cr.cfg.Blur, cr.cfg.Resolution)
	cr.blurPass(first)
	cr.blurPass(second)
	gl.Enable(gl.DEPTH_TEST)

	restore()
}

// blurPass blurs target horizontally into blur, then vertically back.
func (cr *ContactShadowRenderer) blurPass(step float32) {
	if step <= 0 {
		return
	}
	gl.UseProgram(cr.blurProgram)
	gl.Uniform1i(cr.locBlurTex, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(cr.fullscreenVA)

	cr.blur.Bind()
	gl.BindTexture(gl.TEXTURE_2D, cr.target.ColorTexture())
	gl.Uniform2f(cr.locBlurStep, step, 0)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	cr.target.Bind()
	gl.BindTexture(gl.TEXTURE_2D, cr.blur.ColorTexture())
	gl.Uniform2f(cr.locBlurStep, 0, step)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.BindVertexArray(0)
}

// Render blends the shadow plane into the bound framebuffer.
func (cr *ContactShadowRenderer) Render(viewProj mgl32.Mat4) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(-1, -1)

	gl.UseProgram(cr.planeProgram)
	shader.SetMat4(cr.locPlaneViewProj, viewProj)
	shader.SetMat4(cr.locPlaneContactVP, cr.viewProj)
	gl.Uniform1f(cr.locPlaneOpacity, cr.cfg.Opacity)
	gl.Uniform1i(cr.locPlaneTex, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, cr.target.ColorTexture())

	gl.BindVertexArray(cr.planeVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.DepthMask(true)
}

// Destroy releases all resources.
func (cr *ContactShadowRenderer) Destroy() {
	if cr.target != nil {
		cr.target.Destroy()
	}
	if cr.blur != nil {
		cr.blur.Destroy()
	}
	for _, p := range []*uint32{&cr.depthProgram, &cr.blurProgram, &cr.planeProgram} {
		if *p != 0 {
			gl.DeleteProgram(*p)
			*p = 0
		}
	}
	if cr.fullscreenVA != 0 {
		gl.DeleteVertexArrays(1, &cr.fullscreenVA)
	}
	if cr.planeVAO != 0 {
		gl.DeleteVertexArrays(1, &cr.planeVAO)
	}
	if cr.planeVBO != 0 {
		gl.DeleteBuffers(1, &cr.planeVBO)
	}
}
