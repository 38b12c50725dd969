package flappy

import (
	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/core"
)

// Actor is the player-controlled entity. X is fixed for the whole run; only
// the vertical position and velocity change, and only inside Game.Tick or a
// jump.
type Actor struct {
	X  float64 // Fixed horizontal center
	Y  float64 // Vertical center, growing downwards
	VY float64 // Vertical velocity per tick, positive is down
}

// Rotation returns the display angle in radians. It is derived from the
// velocity on every call so it can never drift from it.
func (a Actor) Rotation(p config.FlappyPhysics) float64 {
	return core.ClampF(a.VY*p.RotationFactor, -p.MaxRotation, p.MaxRotation)
}

// Box returns the actor's bounding box for a square sprite of the given size.
func (a Actor) Box(size float64) core.Box {
	return core.NewBox(a.X, a.Y, size, size)
}

// integrate advances the actor by one tick of gravity.
func (a *Actor) integrate(p config.FlappyPhysics) {
	a.VY += p.Gravity
	a.Y += a.VY
}

// jump replaces the velocity with the upward impulse. It is not additive:
// flapping twice in a row gives the same velocity as flapping once.
func (a *Actor) jump(p config.FlappyPhysics) {
	a.VY = -p.JumpImpulse
}
