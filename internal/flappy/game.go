// Package flappy implements the simulation engine of a Flappy Bird-style
// game: the physics integrator, obstacle manager, collision detector,
// projectile bursts, score tracking and the Idle/Playing/GameOver state
// machine. It draws nothing and schedules nothing; a loop driver calls Tick
// and a Renderer consumes Snapshot.
package flappy

import (
	"time"

	"github.com/vovakirdan/flappy-ledger/internal/config"
)

// Result reports what happened during one tick.
type Result struct {
	Phase    Phase
	Scored   int  // Obstacles passed this tick
	GameOver bool // True only on the tick that ended the run
	Score    int
}

// GameOverHandler is notified with the final score when a run ends.
type GameOverHandler func(score int)

// Option configures a Game.
type Option func(*Game)

// WithRand injects the random source. Tests use it for exact trajectories.
func WithRand(r Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithSeed seeds a math/rand source.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.rng = NewRand(seed) }
}

// WithGameOverHandler registers the game-over notification.
func WithGameOverHandler(fn GameOverHandler) Option {
	return func(g *Game) { g.onGameOver = fn }
}

// Game is the simulation context for one game widget. It owns all mutable
// simulation state; nothing outside Game mutates it.
type Game struct {
	cfg    config.FlappyConfig
	bounds Bounds
	rng    Rand

	phase       Phase
	actor       Actor
	obstacles   *ObstacleManager
	projectiles *Emitter
	scores      Scores
	paused      bool
	tickCount   int

	ready    bool
	disposed bool

	onGameOver GameOverHandler
}

// New creates a game in the Idle phase with the actor at mid-height.
// The config is expected to be validated by the caller.
func New(cfg config.FlappyConfig, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		bounds: BoundsFor(cfg),
		phase:  PhaseIdle,
		ready:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = NewRand(0)
	}

	g.obstacles = NewObstacleManager(cfg, g.rng)
	g.projectiles = NewEmitter(cfg.Projectiles, g.rng)
	g.placeActor()
	return g
}

// Config returns the tunables this game runs with.
func (g *Game) Config() config.FlappyConfig {
	return g.cfg
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Paused reports whether a running game is frozen.
func (g *Game) Paused() bool {
	return g.paused
}

// Scores returns the current and high score.
func (g *Game) Scores() Scores {
	return g.scores
}

// SeedHighScore raises the in-session high score, e.g. from storage.
func (g *Game) SeedHighScore(h int) {
	g.scores.SeedHigh(h)
}

// Ticks returns the number of simulated (unpaused, Playing) ticks in the
// current run.
func (g *Game) Ticks() int {
	return g.tickCount
}

// SetReady gates tick work on collaborator readiness, such as loaded assets.
// A game that is not ready ignores Tick entirely.
func (g *Game) SetReady(ready bool) {
	g.ready = ready
}

// Ready reports whether the game will do work on Tick.
func (g *Game) Ready() bool {
	return g.ready && !g.disposed
}

// Start leaves the idle screen. It is a no-op in any other phase.
func (g *Game) Start() bool {
	if g.disposed || g.phase != PhaseIdle {
		return false
	}
	g.beginRun()
	return true
}

// Restart begins a new run after a game over. It is a no-op in any other
// phase.
func (g *Game) Restart() bool {
	if g.disposed || g.phase != PhaseGameOver {
		return false
	}
	g.beginRun()
	return true
}

// Jump applies the upward impulse and emits a projectile burst. It only
// acts while Playing and not paused.
func (g *Game) Jump(now time.Time) bool {
	if g.disposed || g.phase != PhasePlaying || g.paused {
		return false
	}
	g.actor.jump(g.cfg.Physics)
	g.projectiles.EmitBurst(g.actor.X, g.actor.Y, now)
	return true
}

// Press is the single-button input: start when idle, jump while playing,
// restart after a game over.
func (g *Game) Press(now time.Time) bool {
	switch g.phase {
	case PhaseIdle:
		return g.Start()
	case PhasePlaying:
		return g.Jump(now)
	case PhaseGameOver:
		return g.Restart()
	}
	return false
}

// TogglePause freezes or resumes a running game. Projectiles keep fading
// while paused.
func (g *Game) TogglePause() bool {
	if g.disposed || g.phase != PhasePlaying {
		return false
	}
	g.paused = !g.paused
	return true
}

// Tick advances the simulation by one step: physics, obstacles, collision,
// then projectiles. Projectiles advance in every phase.
func (g *Game) Tick(now time.Time) Result {
	if !g.Ready() {
		return Result{Phase: g.phase, Score: g.scores.Current}
	}

	res := Result{Phase: g.phase}

	if g.phase == PhasePlaying && !g.paused {
		g.tickCount++
		g.actor.integrate(g.cfg.Physics)

		if passed := g.obstacles.Update(g.actor.X); passed > 0 {
			g.scores.Scored(passed)
			res.Scored = passed
		}

		if Collides(g.actor.Box(g.cfg.Actor.Size), g.obstacles.Obstacles(), g.bounds) {
			g.endRun()
			res.GameOver = true
		}
	}

	g.projectiles.Advance(now)

	res.Phase = g.phase
	res.Score = g.scores.Current
	return res
}

// Dispose releases the simulation state. Every later call is a no-op.
func (g *Game) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.obstacles.Reset()
	g.projectiles.Clear()
	g.onGameOver = nil
}

// Disposed reports whether Dispose has been called.
func (g *Game) Disposed() bool {
	return g.disposed
}

func (g *Game) placeActor() {
	g.actor = Actor{
		X: g.cfg.Actor.X,
		Y: g.cfg.Field.Height / 2,
	}
}

// beginRun is the shared reset for Idle->Playing and GameOver->Playing.
func (g *Game) beginRun() {
	g.placeActor()
	g.obstacles.Reset()
	g.projectiles.Clear()
	g.scores.Reset()
	g.paused = false
	g.tickCount = 0
	g.phase = PhasePlaying
}

func (g *Game) endRun() {
	g.phase = PhaseGameOver
	final := g.scores.Finish()
	if g.onGameOver != nil {
		g.onGameOver(final)
	}
}
