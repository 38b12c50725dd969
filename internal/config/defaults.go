package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in tunables. It mirrors
// defaults/flappy.yaml and is used when the embedded file cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Field: FlappyField{
			Width:        400,
			Height:       600,
			GroundHeight: 50,
		},
		Physics: FlappyPhysics{
			Gravity:        0.4,
			JumpImpulse:    8,
			RotationFactor: 0.1,
			MaxRotation:    0.5,
		},
		Obstacles: FlappyObstacles{
			Width:          70,
			GapHeight:      170,
			ScrollSpeed:    2,
			SpawnThreshold: 200,
			TopMargin:      100,
			BottomMargin:   100,
			SafetyMargin:   30,
		},
		Actor: FlappyActor{
			X:    100,
			Size: 40,
		},
		Projectiles: FlappyProjectiles{
			Count:      5,
			BaseAngle:  math.Pi,
			Spread:     math.Pi / 4,
			MinSpeed:   3,
			MaxSpeed:   5,
			LifetimeMS: 1000,
			Size:       20,
		},
	}
}

// DefaultYAML returns the embedded default config, for `flappy config` style
// dumps and for users who want a starting point.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
