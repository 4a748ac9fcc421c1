// Package shaders holds the GLSL sources of the scene renderer.
package shaders

// skinning is shared by every pass that draws model geometry.
const skinning = `
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;
layout (location = 3) in vec4 aJoints;
layout (location = 4) in vec4 aWeights;

uniform mat4 uModel;
uniform bool uSkinned;
#define MAX_JOINTS 128
uniform mat4 uJoints[MAX_JOINTS];

mat4 joint(float index) {
	return uJoints[clamp(int(index), 0, MAX_JOINTS - 1)];
}

mat4 skinMatrix() {
	if (!uSkinned) {
		return mat4(1.0);
	}
	return aWeights.x * joint(aJoints.x) +
	       aWeights.y * joint(aJoints.y) +
	       aWeights.z * joint(aJoints.z) +
	       aWeights.w * joint(aJoints.w);
}
`

// ModelVertexShader transforms skinned or static geometry for the lit pass.
const ModelVertexShader = `#version 410 core
` + skinning + `
uniform mat4 uViewProj;
uniform mat4 uLightViewProj;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;
out vec4 vLightSpacePos;

void main() {
	mat4 world = uModel * skinMatrix();
	vec4 pos = world * vec4(aPosition, 1.0);
	vWorldPos = pos.xyz;
	vNormal = mat3(transpose(inverse(world))) * aNormal;
	vTexCoord = aTexCoord;
	vLightSpacePos = uLightViewProj * pos;
	gl_Position = uViewProj * pos;
}
`

// ModelFragmentShader shades with ambient, hemisphere and spot light terms.
const ModelFragmentShader = `#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;
in vec4 vLightSpacePos;

uniform vec4 uBaseColor;
uniform bool uHasTexture;
uniform sampler2D uTexture;

uniform vec3 uAmbient;
uniform vec3 uSkyColor;
uniform vec3 uHorizonColor;
uniform vec3 uGroundColor;
uniform float uHemiIntensity;

uniform vec3 uSpotPosition;
uniform vec3 uSpotDirection;
uniform vec3 uSpotColor;
uniform vec2 uSpotCone; // cos outer, cos inner

uniform bool uShadowsEnabled;
uniform sampler2DShadow uShadowMap;
uniform vec3 uCameraPos;

out vec4 FragColor;

float shadowFactor(vec3 n, vec3 l) {
	if (!uShadowsEnabled) {
		return 1.0;
	}
	vec3 proj = vLightSpacePos.xyz / vLightSpacePos.w * 0.5 + 0.5;
	if (proj.z > 1.0 || proj.x < 0.0 || proj.x > 1.0 || proj.y < 0.0 || proj.y > 1.0) {
		return 1.0;
	}
	float bias = max(0.0015 * (1.0 - dot(n, l)), 0.0003);
	vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
	float lit = 0.0;
	for (int x = -1; x <= 1; x++) {
		for (int y = -1; y <= 1; y++) {
			lit += texture(uShadowMap, vec3(proj.xy + vec2(x, y) * texel, proj.z - bias));
		}
	}
	return lit / 9.0;
}

void main() {
	vec4 base = uBaseColor;
	if (uHasTexture) {
		base *= texture(uTexture, vTexCoord);
	}
	if (base.a < 0.05) {
		discard;
	}

	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}

	float up = n.y * 0.5 + 0.5;
	vec3 sky = mix(uHorizonColor, uSkyColor, up);
	vec3 hemi = mix(uGroundColor, sky, up) * uHemiIntensity;

	vec3 toLight = uSpotPosition - vWorldPos;
	vec3 l = normalize(toLight);
	float cone = smoothstep(uSpotCone.x, uSpotCone.y, dot(-l, normalize(uSpotDirection)));
	float diffuse = max(dot(n, l), 0.0);
	vec3 h = normalize(l + normalize(uCameraPos - vWorldPos));
	float spec = pow(max(dot(n, h), 0.0), 32.0) * 0.15;
	vec3 spot = uSpotColor * cone * (diffuse + spec) * shadowFactor(n, l);

	vec3 color = base.rgb * (uAmbient + hemi + spot);
	FragColor = vec4(color, base.a);
}
`

// DepthVertexShader renders geometry into the spot light shadow map.
const DepthVertexShader = `#version 410 core
` + skinning + `
uniform mat4 uLightViewProj;

void main() {
	gl_Position = uLightViewProj * uModel * skinMatrix() * vec4(aPosition, 1.0);
}
`

// DepthFragmentShader writes depth only.
const DepthFragmentShader = `#version 410 core

void main() {
}
`
