package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/engine/lighting"
)

// RigFromConfig builds the light rig: white ambient, one spot aimed at the
// origin and the named environment preset.
func RigFromConfig(cfg config.LightingConfig) (lighting.Rig, error) {
	name := cfg.Environment
	if name == "" {
		name = lighting.DefaultEnvironment
	}
	env, err := lighting.Preset(name)
	if err != nil {
		return lighting.Rig{}, fmt.Errorf("lighting: %w", err)
	}

	spot := lighting.NewSpotLight(mgl32.Vec3(cfg.Spot.Position), cfg.Spot.Angle, cfg.Spot.Penumbra, cfg.Spot.Intensity)
	spot.CastShadow = cfg.Spot.CastShadow

	return lighting.Rig{
		Ambient:     lighting.Ambient{Color: [3]float32{1, 1, 1}, Intensity: cfg.Ambient},
		Spot:        spot,
		Environment: env,
	}, nil
}
