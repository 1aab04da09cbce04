package orbit

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// BeltConfig describes the procedurally generated asteroid belt.
type BeltConfig struct {
	Count          int     `yaml:"count"`
	InnerRadius    float64 `yaml:"inner_radius"`    // AU, just beyond Mars
	OuterRadius    float64 `yaml:"outer_radius"`    // AU, just before Jupiter
	VerticalSpread float64 `yaml:"vertical_spread"` // Total thickness of the belt
	MinSpeed       float64 `yaml:"min_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
	MaxSize        float64 `yaml:"max_size"`
}

// DefaultBeltConfig returns the belt used by the orrery: 1500 rocks between
// the orbits of Mars and Jupiter.
func DefaultBeltConfig() BeltConfig {
	return BeltConfig{
		Count:          1500,
		InnerRadius:    2.0,
		OuterRadius:    3.2,
		VerticalSpread: 0.1,
		MinSpeed:       0.0005,
		MaxSpeed:       0.001,
		MaxSize:        0.3,
	}
}

// Validate reports belt settings that would produce bodies violating the
// positive radius and speed invariants.
func (c BeltConfig) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("belt count must be >= 0, got %d", c.Count)
	case c.InnerRadius <= 0 || c.OuterRadius < c.InnerRadius:
		return fmt.Errorf("belt radii must satisfy 0 < inner <= outer, got [%g, %g]", c.InnerRadius, c.OuterRadius)
	case c.MinSpeed <= 0 || c.MaxSpeed < c.MinSpeed:
		return fmt.Errorf("belt speeds must satisfy 0 < min <= max, got [%g, %g]", c.MinSpeed, c.MaxSpeed)
	case c.VerticalSpread < 0:
		return fmt.Errorf("belt vertical spread must be >= 0, got %g", c.VerticalSpread)
	}
	return nil
}

// NewRand returns the deterministic generator used for belt generation.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateAsteroids draws the belt once. The returned parameters are constant
// from then on; nothing about the belt is random after this call.
func GenerateAsteroids(rng *rand.Rand, cfg BeltConfig) []Params {
	rocks := make([]Params, cfg.Count)
	for i := range rocks {
		size := randFloat(rng, 0, cfg.MaxSize)
		radius := randFloat(rng, cfg.InnerRadius, cfg.OuterRadius)
		angle := randFloat(rng, 0, 2*math.Pi)
		height := randFloatSpread(rng, cfg.VerticalSpread)
		speed := randFloat(rng, cfg.MinSpeed, cfg.MaxSpeed)

		rocks[i] = Params{
			Name:           fmt.Sprintf("asteroid-%04d", i),
			Kind:           KindAsteroid,
			Size:           size,
			OrbitalRadius:  radius,
			AngularSpeed:   speed,
			InitialAngle:   angle,
			VerticalOffset: height,
		}
	}
	return rocks
}

// randFloat returns a value in [low, high).
func randFloat(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

// randFloatSpread returns a value in (-span/2, span/2].
func randFloatSpread(rng *rand.Rand, span float64) float64 {
	return span * (0.5 - rng.Float64())
}
