package scene

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/scene/shaders"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
	"github.com/Faultbox/roomview/internal/engine/shader"
	"github.com/Faultbox/roomview/internal/engine/shadow"
)

// gpuPrimitive is the GPU copy of one scenegraph.Primitive.
type gpuPrimitive struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	texture    uint32
}

// geometryLocs are the uniforms shared by every program drawing model geometry.
type geometryLocs struct {
	model   int32
	skinned int32
	joints  int32
}

func newGeometryLocs(program uint32) geometryLocs {
	return geometryLocs{
		model:   shader.GetUniform(program, "uModel"),
		skinned: shader.GetUniform(program, "uSkinned"),
		joints:  shader.GetUniform(program, "uJoints"),
	}
}

// ModelRenderer uploads scene graph primitives on first use and draws them
// lit, into the shadow map, or into the contact shadow target.
type ModelRenderer struct {
	program uint32

	geo               geometryLocs
	locViewProj       int32
	locLightViewProj  int32
	locBaseColor      int32
	locHasTexture     int32
	locTexture        int32
	locAmbient        int32
	locSkyColor       int32
	locHorizonColor   int32
	locGroundColor    int32
	locHemiIntensity  int32
	locSpotPosition   int32
	locSpotDirection  int32
	locSpotColor      int32
	locSpotCone       int32
	locShadowsEnabled int32
	locShadowMap      int32
	locCameraPos      int32

	primitives map[*scenegraph.Primitive]*gpuPrimitive
	textures   map[*image.RGBA]uint32
}

// NewModelRenderer creates a new model renderer.
func NewModelRenderer() (*ModelRenderer, error) {
	mr := &ModelRenderer{
		primitives: make(map[*scenegraph.Primitive]*gpuPrimitive),
		textures:   make(map[*image.RGBA]uint32),
	}

	program, err := shader.CompileProgram(shaders.ModelVertexShader, shaders.ModelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("model shader: %w", err)
	}
	mr.program = program

	mr.geo = newGeometryLocs(program)
	mr.locViewProj = shader.GetUniform(program, "uViewProj")
	mr.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	mr.locBaseColor = shader.GetUniform(program, "uBaseColor")
	mr.locHasTexture = shader.GetUniform(program, "uHasTexture")
	mr.locTexture = shader.GetUniform(program, "uTexture")
	mr.locAmbient = shader.GetUniform(program, "uAmbient")
	mr.locSkyColor = shader.GetUniform(program, "uSkyColor")
	mr.locHorizonColor = shader.GetUniform(program, "uHorizonColor")
	mr.locGroundColor = shader.GetUniform(program, "uGroundColor")
	mr.locHemiIntensity = shader.GetUniform(program, "uHemiIntensity")
	mr.locSpotPosition = shader.GetUniform(program, "uSpotPosition")
	mr.locSpotDirection = shader.GetUniform(program, "uSpotDirection")
	mr.locSpotColor = shader.GetUniform(program, "uSpotColor")
	mr.locSpotCone = shader.GetUniform(program, "uSpotCone")
	mr.locShadowsEnabled = shader.GetUniform(program, "uShadowsEnabled")
	mr.locShadowMap = shader.GetUniform(program, "uShadowMap")
	mr.locCameraPos = shader.GetUniform(program, "uCameraPos")

	return mr, nil
}

// Uploaded returns how many primitives currently live on the GPU.
func (mr *ModelRenderer) Uploaded() int {
	return len(mr.primitives)
}

func (mr *ModelRenderer) gpu(p *scenegraph.Primitive) *gpuPrimitive {
	if g, ok := mr.primitives[p]; ok {
		return g
	}
	g := &gpuPrimitive{}
	mr.uploadMesh(g, p.Vertices, p.Indices)
	if p.Material != nil && p.Material.BaseTexture != nil {
		g.texture = mr.texture(p.Material.BaseTexture)
	}
	mr.primitives[p] = g
	return g
}

func (mr *ModelRenderer) uploadMesh(g *gpuPrimitive, vertices []scenegraph.Vertex, indices []uint32) {
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(scenegraph.Vertex{}))
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	}

	stride := int32(vertexSize)
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)
	// Joints
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, stride, 8*4)
	gl.EnableVertexAttribArray(3)
	// Weights
	gl.VertexAttribPointerWithOffset(4, 4, gl.FLOAT, false, stride, 12*4)
	gl.EnableVertexAttribArray(4)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}

	g.indexCount = int32(len(indices))
	gl.BindVertexArray(0)
}

func (mr *ModelRenderer) texture(img *image.RGBA) uint32 {
	if tex, ok := mr.textures[img]; ok {
		return tex
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	mr.textures[img] = tex
	return tex
}

// setGeometry uploads the per draw transform and joint palette.
func setGeometry(locs geometryLocs, d scenegraph.Drawable) {
	shader.SetMat4(locs.model, d.World)
	skinned := d.Primitive.Skinned && d.Node.Skin != nil
	shader.SetBool(locs.skinned, skinned)
	if skinned {
		shader.SetMat4Array(locs.joints, d.Node.Skin.JointMatrices(d.World))
	}
}

// Render draws every drawable with full lighting.
func (mr *ModelRenderer) Render(drawables []scenegraph.Drawable, viewProj mgl32.Mat4, cameraPos mgl32.Vec3,
	rig lighting.Rig, lightViewProj mgl32.Mat4, shadowMap *shadow.Map, fallbackTex uint32) {

	gl.UseProgram(mr.program)
	shader.SetMat4(mr.locViewProj, viewProj)
	shader.SetMat4(mr.locLightViewProj, lightViewProj)
	shader.SetVec3(mr.locCameraPos, cameraPos)

	amb := rig.Ambient
	shader.SetVec3(mr.locAmbient, [3]float32{amb.Color[0] * amb.Intensity, amb.Color[1] * amb.Intensity, amb.Color[2] * amb.Intensity})
	env := rig.Environment
	shader.SetVec3(mr.locSkyColor, env.Zenith)
	shader.SetVec3(mr.locHorizonColor, env.Horizon)
	shader.SetVec3(mr.locGroundColor, env.Ground)
	gl.Uniform1f(mr.locHemiIntensity, env.Intensity)

	spot := rig.Spot
	shader.SetVec3(mr.locSpotPosition, spot.Position)
	shader.SetVec3(mr.locSpotDirection, spot.Direction())
	shader.SetVec3(mr.locSpotColor, [3]float32{spot.Color[0] * spot.Intensity, spot.Color[1] * spot.Intensity, spot.Color[2] * spot.Intensity})
	outer, inner := spot.ConeCos()
	gl.Uniform2f(mr.locSpotCone, outer, inner)

	shadows := spot.CastShadow && shadowMap.IsValid()
	shader.SetBool(mr.locShadowsEnabled, shadows)
	gl.Uniform1i(mr.locShadowMap, 1)
	if shadows {
		shadowMap.BindTexture(gl.TEXTURE1)
	}
	gl.Uniform1i(mr.locTexture, 0)

	for _, d := range drawables {
		g := mr.gpu(d.Primitive)
		if g.indexCount == 0 {
			continue
		}
		mat := d.Primitive.Material
		if mat == nil {
			mat = scenegraph.DefaultMaterial
		}
		if mat.DoubleSided {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(gl.BACK)
		}

		setGeometry(mr.geo, d)
		gl.Uniform4f(mr.locBaseColor, mat.BaseColor[0], mat.BaseColor[1], mat.BaseColor[2], mat.BaseColor[3])
		gl.ActiveTexture(gl.TEXTURE0)
		if g.texture != 0 {
			shader.SetBool(mr.locHasTexture, true)
			gl.BindTexture(gl.TEXTURE_2D, g.texture)
		} else {
			shader.SetBool(mr.locHasTexture, false)
			gl.BindTexture(gl.TEXTURE_2D, fallbackTex)
		}

		gl.BindVertexArray(g.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.CULL_FACE)
}

// renderGeometry draws drawables with whatever depth program is bound. The
// caller has set the pass's view-projection uniform already.
func (mr *ModelRenderer) renderGeometry(drawables []scenegraph.Drawable, locs geometryLocs) {
	for _, d := range drawables {
		g := mr.gpu(d.Primitive)
		if g.indexCount == 0 {
			continue
		}
		setGeometry(locs, d)
		gl.BindVertexArray(g.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
}

// Release frees GPU data of every primitive under root.
func (mr *ModelRenderer) Release(root *scenegraph.Node) {
	root.Walk(func(n *scenegraph.Node) bool {
		if n.Mesh == nil {
			return true
		}
		for _, p := range n.Mesh.Primitives {
			g, ok := mr.primitives[p]
			if !ok {
				continue
			}
			mr.deleteGPU(g)
			delete(mr.primitives, p)
			if p.Material != nil && p.Material.BaseTexture != nil {
				if tex, ok := mr.textures[p.Material.BaseTexture]; ok {
					gl.DeleteTextures(1, &tex)
					delete(mr.textures, p.Material.BaseTexture)
				}
			}
		}
		return true
	})
}

func (mr *ModelRenderer) deleteGPU(g *gpuPrimitive) {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
}

// Destroy releases all resources.
func (mr *ModelRenderer) Destroy() {
	for p, g := range mr.primitives {
		mr.deleteGPU(g)
		delete(mr.primitives, p)
	}
	for img, tex := range mr.textures {
		gl.DeleteTextures(1, &tex)
		delete(mr.textures, img)
	}
	if mr.program != 0 {
		gl.DeleteProgram(mr.program)
		mr.program = 0
	}
}
