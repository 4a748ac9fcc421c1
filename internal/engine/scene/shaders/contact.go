package shaders

// ContactDepthVertexShader renders geometry from the contact shadow camera.
const ContactDepthVertexShader = `#version 410 core
` + skinning + `
uniform mat4 uContactViewProj;

void main() {
	gl_Position = uContactViewProj * uModel * skinMatrix() * vec4(aPosition, 1.0);
}
`

// ContactDepthFragmentShader stores darkness that fades with height above
// the ground plane.
const ContactDepthFragmentShader = `#version 410 core

out vec4 FragColor;

void main() {
	FragColor = vec4(0.0, 0.0, 0.0, 1.0 - gl_FragCoord.z);
}
`

// BlurVertexShader draws a fullscreen triangle with texture coordinates.
const BlurVertexShader = `#version 410 core

out vec2 vUV;

void main() {
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	vUV = pos;
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

// BlurFragmentShader is a separable 9 tap gaussian blur.
const BlurFragmentShader = `#version 410 core

in vec2 vUV;

uniform sampler2D uTexture;
uniform vec2 uDirection; // texel step along one axis

out vec4 FragColor;

void main() {
	vec4 sum = vec4(0.0);
	sum += texture(uTexture, vUV - 4.0 * uDirection) * 0.051;
	sum += texture(uTexture, vUV - 3.0 * uDirection) * 0.0918;
	sum += texture(uTexture, vUV - 2.0 * uDirection) * 0.12245;
	sum += texture(uTexture, vUV - 1.0 * uDirection) * 0.1531;
	sum += texture(uTexture, vUV) * 0.1633;
	sum += texture(uTexture, vUV + 1.0 * uDirection) * 0.1531;
	sum += texture(uTexture, vUV + 2.0 * uDirection) * 0.12245;
	sum += texture(uTexture, vUV + 3.0 * uDirection) * 0.0918;
	sum += texture(uTexture, vUV + 4.0 * uDirection) * 0.051;
	FragColor = sum;
}
`

// ContactPlaneVertexShader places the shadow plane and derives its texture
// coordinates from the contact camera projection.
const ContactPlaneVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uViewProj;
uniform mat4 uContactViewProj;

out vec2 vUV;

void main() {
	vec4 shadowClip = uContactViewProj * vec4(aPosition, 1.0);
	vUV = shadowClip.xy / shadowClip.w * 0.5 + 0.5;
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// ContactPlaneFragmentShader blends the blurred shadow onto the scene.
const ContactPlaneFragmentShader = `#version 410 core

in vec2 vUV;

uniform sampler2D uTexture;
uniform float uOpacity;

out vec4 FragColor;

void main() {
	vec4 s = texture(uTexture, vUV);
	FragColor = vec4(s.rgb, s.a * uOpacity);
}
`
