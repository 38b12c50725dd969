package flappy

import (
	"math"
	"time"

	"github.com/vovakirdan/flappy-ledger/internal/config"
)

// Projectile is a short-lived cosmetic particle thrown out on every jump.
// Projectiles never take part in collision or scoring.
type Projectile struct {
	X, Y      float64
	CreatedAt time.Time
	Angle     float64 // Radians, 0 points right, π points backwards
	Speed     float64 // Field units per tick
}

// Age returns how long ago the projectile was emitted.
func (p Projectile) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

// Opacity fades linearly from 1 at emission to 0 at the end of lifetime.
func (p Projectile) Opacity(now time.Time, lifetime time.Duration) float64 {
	if lifetime <= 0 {
		return 0
	}
	o := 1 - float64(p.Age(now))/float64(lifetime)
	return math.Max(0, math.Min(1, o))
}

// Emitter owns the set of live projectiles.
type Emitter struct {
	cfg   config.FlappyProjectiles
	rng   Rand
	items []Projectile
}

// NewEmitter creates an empty emitter.
func NewEmitter(cfg config.FlappyProjectiles, rng Rand) *Emitter {
	return &Emitter{
		cfg:   cfg,
		rng:   rng,
		items: make([]Projectile, 0, cfg.Count*4),
	}
}

// BurstAngles returns the evenly spread angles of one burst, centered on
// the base direction.
func BurstAngles(cfg config.FlappyProjectiles) []float64 {
	if cfg.Count <= 0 {
		return nil
	}
	angles := make([]float64, cfg.Count)
	if cfg.Count == 1 {
		angles[0] = cfg.BaseAngle
		return angles
	}
	for i := range angles {
		t := float64(i) / float64(cfg.Count-1)
		angles[i] = cfg.BaseAngle + cfg.Spread*t - cfg.Spread/2
	}
	return angles
}

// EmitBurst adds one burst of projectiles at (x, y). Each gets its own
// speed drawn from the configured range.
func (e *Emitter) EmitBurst(x, y float64, now time.Time) {
	for _, angle := range BurstAngles(e.cfg) {
		e.items = append(e.items, Projectile{
			X:         x,
			Y:         y,
			CreatedAt: now,
			Angle:     angle,
			Speed:     uniform(e.rng, e.cfg.MinSpeed, e.cfg.MaxSpeed),
		})
	}
}

// Advance drops expired projectiles and moves the rest one tick along
// their heading.
func (e *Emitter) Advance(now time.Time) {
	lifetime := e.cfg.Lifetime()
	live := e.items[:0]
	for _, p := range e.items {
		if p.Age(now) > lifetime {
			continue
		}
		p.X += math.Cos(p.Angle) * p.Speed
		p.Y += math.Sin(p.Angle) * p.Speed
		live = append(live, p)
	}
	e.items = live
}

// Clear removes every projectile.
func (e *Emitter) Clear() {
	e.items = e.items[:0]
}

// Projectiles returns the live projectile slice. Callers must not modify it.
func (e *Emitter) Projectiles() []Projectile {
	return e.items
}

// Len returns the number of live projectiles.
func (e *Emitter) Len() int {
	return len(e.items)
}
