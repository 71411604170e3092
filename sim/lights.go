package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/sprout/components"
	"github.com/pthm-cable/sprout/config"
)

// PlaceLights generates cfg.Environment.NumLightSources lights uniformly in
// the top band of the world, then appends the explicitly configured
// resources in file order.
func PlaceLights(rng *rand.Rand, cfg *config.Config) ([]components.ResourcePoint, error) {
	env := cfg.Environment
	band := cfg.World.Height * env.LightBand

	points := make([]components.ResourcePoint, 0, env.NumLightSources+len(cfg.Resources))
	for i := 0; i < env.NumLightSources; i++ {
		points = append(points, components.ResourcePoint{
			Position:  components.Vec(rng.Float64()*cfg.World.Width, rng.Float64()*band),
			Intensity: env.LightIntensity,
			Kind:      components.KindLight,
		})
	}

	for i, r := range cfg.Resources {
		kind, err := components.ParseResourceKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", i, err)
		}
		points = append(points, components.ResourcePoint{
			Position:  components.Vec(r.X, r.Y),
			Intensity: r.Intensity,
			Kind:      kind,
		})
	}
	return points, nil
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
