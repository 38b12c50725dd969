package flappy

import (
	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/core"
)

// Bounds describes the static geometry a collision test needs.
type Bounds struct {
	Ceiling       float64
	Ground        float64
	ObstacleWidth float64
	GapHeight     float64
}

// BoundsFor derives collision bounds from a config.
func BoundsFor(cfg config.FlappyConfig) Bounds {
	return Bounds{
		Ceiling:       0,
		Ground:        cfg.Field.GroundY(),
		ObstacleWidth: cfg.Obstacles.Width,
		GapHeight:     cfg.Obstacles.GapHeight,
	}
}

// Collides reports whether the actor box touches the ceiling or the ground,
// or sits inside an obstacle's horizontal span while leaving its gap band.
// It has no side effects.
func Collides(actor core.Box, obstacles []Obstacle, b Bounds) bool {
	if actor.Top() <= b.Ceiling || actor.Bottom() >= b.Ground {
		return true
	}

	for _, o := range obstacles {
		if !actor.OverlapsX(o.X, o.Right(b.ObstacleWidth)) {
			continue
		}
		if actor.Top() < o.GapTop || actor.Bottom() > o.GapTop+b.GapHeight {
			return true
		}
	}
	return false
}
