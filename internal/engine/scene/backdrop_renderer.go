package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/engine/lighting"
	"github.com/Faultbox/roomview/internal/engine/scene/shaders"
	"github.com/Faultbox/roomview/internal/engine/shader"
)

// BackdropRenderer paints the environment behind the scene.
type BackdropRenderer struct {
	program uint32
	vao     uint32

	locInvViewProj  int32
	locCameraPos    int32
	locSkyColor     int32
	locHorizonColor int32
	locGroundColor  int32
	locSunDirection int32
	locSunColor     int32
}

// NewBackdropRenderer creates the backdrop program.
func NewBackdropRenderer() (*BackdropRenderer, error) {
	program, err := shader.CompileProgram(shaders.BackdropVertexShader, shaders.BackdropFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("backdrop shader: %w", err)
	}
	br := &BackdropRenderer{program: program}
	br.locInvViewProj = shader.GetUniform(program, "uInvViewProj")
	br.locCameraPos = shader.GetUniform(program, "uCameraPos")
	br.locSkyColor = shader.GetUniform(program, "uSkyColor")
	br.locHorizonColor = shader.GetUniform(program, "uHorizonColor")
	br.locGroundColor = shader.GetUniform(program, "uGroundColor")
	br.locSunDirection = shader.GetUniform(program, "uSunDirection")
	br.locSunColor = shader.GetUniform(program, "uSunColor")

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &br.vao)
	return br, nil
}

// Render draws the gradient without touching the depth buffer.
func (br *BackdropRenderer) Render(viewProj mgl32.Mat4, cameraPos mgl32.Vec3, env lighting.Environment) {
	gl.DepthMask(false)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(br.program)
	shader.SetMat4(br.locInvViewProj, viewProj.Inv())
	shader.SetVec3(br.locCameraPos, cameraPos)
	shader.SetVec3(br.locSkyColor, env.Zenith)
	shader.SetVec3(br.locHorizonColor, env.Horizon)
	shader.SetVec3(br.locGroundColor, env.Ground)
	shader.SetVec3(br.locSunDirection, env.SunDirection())
	shader.SetVec3(br.locSunColor, env.SunColor)

	gl.BindVertexArray(br.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
}

// Destroy releases all resources.
func (br *BackdropRenderer) Destroy() {
	if br.vao != 0 {
		gl.DeleteVertexArrays(1, &br.vao)
		br.vao = 0
	}
	if br.program != 0 {
		gl.DeleteProgram(br.program)
		br.program = 0
	}
}
