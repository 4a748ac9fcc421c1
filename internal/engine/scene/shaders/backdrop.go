package shaders

// BackdropVertexShader draws a fullscreen triangle at the far plane.
const BackdropVertexShader = `#version 410 core

out vec2 vNDC;

void main() {
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2) * 2.0 - 1.0;
	vNDC = pos;
	gl_Position = vec4(pos, 1.0, 1.0);
}
`

// BackdropFragmentShader paints the environment sky gradient and sun.
const BackdropFragmentShader = `#version 410 core

in vec2 vNDC;

uniform mat4 uInvViewProj;
uniform vec3 uCameraPos;
uniform vec3 uSkyColor;
uniform vec3 uHorizonColor;
uniform vec3 uGroundColor;
uniform vec3 uSunDirection;
uniform vec3 uSunColor;

out vec4 FragColor;

void main() {
	vec4 world = uInvViewProj * vec4(vNDC, 1.0, 1.0);
	vec3 dir = normalize(world.xyz / world.w - uCameraPos);

	vec3 color;
	if (dir.y >= 0.0) {
		color = mix(uHorizonColor, uSkyColor, pow(dir.y, 0.6));
	} else {
		color = mix(uHorizonColor, uGroundColor, pow(-dir.y, 0.4));
	}
	float sun = max(dot(dir, normalize(uSunDirection)), 0.0);
	color += uSunColor * (pow(sun, 512.0) * 2.0 + pow(sun, 16.0) * 0.15);

	FragColor = vec4(color, 1.0);
}
`
