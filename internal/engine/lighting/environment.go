package lighting

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultEnvironment is the preset used when none is configured.
const DefaultEnvironment = "city"

// Environment is a procedural stand-in for an HDR environment map: a sky
// gradient drawn behind the scene and a hemisphere light derived from it.
type Environment struct {
	Name    string
	Zenith  [3]float32
	Horizon [3]float32
	Ground  [3]float32

	// Intensity scales the hemisphere light contribution.
	Intensity float32

	SunAzimuth   float32
	SunElevation float32
	SunColor     [3]float32
}

// SunDirection returns the unit vector towards the preset's sun.
func (e Environment) SunDirection() mgl32.Vec3 {
	return SunDirection(e.SunAzimuth, e.SunElevation)
}

// Irradiance returns the hemisphere light for a surface normal, blending
// ground and sky colors by how far the normal points up.
func (e Environment) Irradiance(normal mgl32.Vec3) [3]float32 {
	up := float32(0.5)
	if normal.Len() > 0 {
		up = normal.Normalize().Y()*0.5 + 0.5
	}
	var out [3]float32
	for i := range out {
		sky := e.Horizon[i] + (e.Zenith[i]-e.Horizon[i])*up
		out[i] = (e.Ground[i] + (sky-e.Ground[i])*up) * e.Intensity
	}
	return out
}

var presets = map[string]Environment{
	"apartment": {
		Zenith: [3]float32{0.85, 0.78, 0.70}, Horizon: [3]float32{0.95, 0.88, 0.78}, Ground: [3]float32{0.35, 0.28, 0.22},
		Intensity: 0.55, SunAzimuth: 120, SunElevation: 35, SunColor: [3]float32{1.0, 0.92, 0.80},
	},
	"city": {
		Zenith: [3]float32{0.42, 0.55, 0.72}, Horizon: [3]float32{0.82, 0.80, 0.76}, Ground: [3]float32{0.30, 0.29, 0.28},
		Intensity: 0.6, SunAzimuth: 210, SunElevation: 40, SunColor: [3]float32{1.0, 0.96, 0.88},
	},
	"dawn": {
		Zenith: [3]float32{0.36, 0.40, 0.62}, Horizon: [3]float32{0.98, 0.68, 0.52}, Ground: [3]float32{0.22, 0.18, 0.20},
		Intensity: 0.45, SunAzimuth: 90, SunElevation: 6, SunColor: [3]float32{1.0, 0.72, 0.52},
	},
	"forest": {
		Zenith: [3]float32{0.46, 0.60, 0.50}, Horizon: [3]float32{0.70, 0.78, 0.62}, Ground: [3]float32{0.16, 0.22, 0.12},
		Intensity: 0.5, SunAzimuth: 160, SunElevation: 55, SunColor: [3]float32{0.95, 1.0, 0.85},
	},
	"lobby": {
		Zenith: [3]float32{0.80, 0.76, 0.70}, Horizon: [3]float32{0.90, 0.86, 0.80}, Ground: [3]float32{0.40, 0.36, 0.32},
		Intensity: 0.6, SunAzimuth: 0, SunElevation: 70, SunColor: [3]float32{1.0, 0.95, 0.86},
	},
	"night": {
		Zenith: [3]float32{0.02, 0.03, 0.08}, Horizon: [3]float32{0.10, 0.12, 0.20}, Ground: [3]float32{0.03, 0.03, 0.04},
		Intensity: 0.25, SunAzimuth: 300, SunElevation: 45, SunColor: [3]float32{0.55, 0.62, 0.85},
	},
	"park": {
		Zenith: [3]float32{0.35, 0.58, 0.90}, Horizon: [3]float32{0.78, 0.86, 0.94}, Ground: [3]float32{0.25, 0.32, 0.18},
		Intensity: 0.65, SunAzimuth: 180, SunElevation: 60, SunColor: [3]float32{1.0, 0.98, 0.92},
	},
	"studio": {
		Zenith: [3]float32{0.75, 0.75, 0.75}, Horizon: [3]float32{0.92, 0.92, 0.92}, Ground: [3]float32{0.45, 0.45, 0.45},
		Intensity: 0.7, SunAzimuth: 45, SunElevation: 50, SunColor: [3]float32{1, 1, 1},
	},
	"sunset": {
		Zenith: [3]float32{0.30, 0.28, 0.50}, Horizon: [3]float32{1.00, 0.55, 0.30}, Ground: [3]float32{0.24, 0.16, 0.14},
		Intensity: 0.5, SunAzimuth: 260, SunElevation: 4, SunColor: [3]float32{1.0, 0.60, 0.35},
	},
	"warehouse": {
		Zenith: [3]float32{0.55, 0.55, 0.52}, Horizon: [3]float32{0.70, 0.68, 0.62}, Ground: [3]float32{0.22, 0.21, 0.20},
		Intensity: 0.5, SunAzimuth: 0, SunElevation: 80, SunColor: [3]float32{1.0, 0.94, 0.82},
	},
}

// Preset returns the named environment.
func Preset(name string) (Environment, error) {
	env, ok := presets[name]
	if !ok {
		return Environment{}, fmt.Errorf("unknown environment preset %q", name)
	}
	env.Name = name
	return env, nil
}

// PresetNames returns every preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
