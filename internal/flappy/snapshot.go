package flappy

import (
	"time"

	"github.com/vovakirdan/flappy-ledger/internal/config"
)

// Renderer draws one frame from a snapshot. The simulation calls it once
// per tick and never looks at what it did.
type Renderer interface {
	Draw(s Snapshot)
}

// ProjectileView is a projectile as the renderer sees it.
type ProjectileView struct {
	X, Y    float64
	Angle   float64
	Opacity float64
}

// Snapshot is a read-only copy of everything a renderer needs. Slices are
// freshly allocated so a renderer cannot reach back into the simulation.
type Snapshot struct {
	Phase  Phase
	Paused bool
	Ready  bool

	Config config.FlappyConfig

	Actor    Actor
	Rotation float64

	Obstacles   []Obstacle
	Projectiles []ProjectileView

	Score     int
	HighScore int
	Tick      int
}

// Snapshot captures the current frame. now is used to compute projectile
// opacity.
func (g *Game) Snapshot(now time.Time) Snapshot {
	obstacles := make([]Obstacle, len(g.obstacles.Obstacles()))
	copy(obstacles, g.obstacles.Obstacles())

	lifetime := g.cfg.Projectiles.Lifetime()
	live := g.projectiles.Projectiles()
	projectiles := make([]ProjectileView, len(live))
	for i, p := range live {
		projectiles[i] = ProjectileView{
			X:       p.X,
			Y:       p.Y,
			Angle:   p.Angle,
			Opacity: p.Opacity(now, lifetime),
		}
	}

	return Snapshot{
		Phase:       g.phase,
		Paused:      g.paused,
		Ready:       g.Ready(),
		Config:      g.cfg,
		Actor:       g.actor,
		Rotation:    g.actor.Rotation(g.cfg.Physics),
		Obstacles:   obstacles,
		Projectiles: projectiles,
		Score:       g.scores.Current,
		HighScore:   g.scores.High,
		Tick:        g.tickCount,
	}
}
