// Package config provides YAML-based tunables for the flappy simulation,
// difficulty presets and validation of the invariants the tunables must
// satisfy.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid flappy config")

// FlappyConfig contains every tunable of the simulation.
type FlappyConfig struct {
	Field       FlappyField       `yaml:"field"`
	Physics     FlappyPhysics     `yaml:"physics"`
	Obstacles   FlappyObstacles   `yaml:"obstacles"`
	Actor       FlappyActor       `yaml:"actor"`
	Projectiles FlappyProjectiles `yaml:"projectiles"`
}

// FlappyField defines the play field in field units.
type FlappyField struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// GroundY returns the y coordinate of the ground line.
func (f FlappyField) GroundY() float64 {
	return f.Height - f.GroundHeight
}

// FlappyPhysics defines the integrator constants. All values are per tick.
type FlappyPhysics struct {
	Gravity        float64 `yaml:"gravity"`
	JumpImpulse    float64 `yaml:"jump_impulse"`   // Magnitude; a jump sets velocity to -JumpImpulse
	RotationFactor float64 `yaml:"rotation_factor"`
	MaxRotation    float64 `yaml:"max_rotation"`
}

// FlappyObstacles defines obstacle geometry and pacing.
type FlappyObstacles struct {
	Width          float64 `yaml:"width"`
	GapHeight      float64 `yaml:"gap_height"`
	ScrollSpeed    float64 `yaml:"scroll_speed"`
	SpawnThreshold float64 `yaml:"spawn_threshold"`
	TopMargin      float64 `yaml:"top_margin"`
	BottomMargin   float64 `yaml:"bottom_margin"`
	SafetyMargin   float64 `yaml:"safety_margin"` // Minimum slack between gap and actor size
}

// FlappyActor defines the player-controlled actor.
type FlappyActor struct {
	X    float64 `yaml:"x"`
	Size float64 `yaml:"size"`
}

// FlappyProjectiles defines the cosmetic burst emitted on every jump.
type FlappyProjectiles struct {
	Count      int     `yaml:"count"`
	BaseAngle  float64 `yaml:"base_angle"`
	Spread     float64 `yaml:"spread"`
	MinSpeed   float64 `yaml:"min_speed"`
	MaxSpeed   float64 `yaml:"max_speed"`
	LifetimeMS int     `yaml:"lifetime_ms"`
	Size       float64 `yaml:"size"`
}

// Lifetime returns the projectile lifetime as a duration.
func (p FlappyProjectiles) Lifetime() time.Duration {
	return time.Duration(p.LifetimeMS) * time.Millisecond
}

// Validate checks the structural invariants the simulation relies on.
// The gap must be traversable and every obstacle must fit in the field.
func (c FlappyConfig) Validate() error {
	f, o, a := c.Field, c.Obstacles, c.Actor

	switch {
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("%w: field must have positive size, got %vx%v", ErrInvalid, f.Width, f.Height)
	case f.GroundHeight < 0 || f.GroundHeight >= f.Height:
		return fmt.Errorf("%w: ground height %v outside field", ErrInvalid, f.GroundHeight)
	case a.Size <= 0:
		return fmt.Errorf("%w: actor size must be positive", ErrInvalid)
	case a.X-a.Size/2 < 0 || a.X+a.Size/2 > f.Width:
		return fmt.Errorf("%w: actor x %v outside field", ErrInvalid, a.X)
	case o.Width <= 0:
		return fmt.Errorf("%w: obstacle width must be positive", ErrInvalid)
	case o.ScrollSpeed <= 0:
		return fmt.Errorf("%w: scroll speed must be positive", ErrInvalid)
	case o.SpawnThreshold <= o.Width:
		return fmt.Errorf("%w: spawn threshold %v must exceed obstacle width %v", ErrInvalid, o.SpawnThreshold, o.Width)
	case o.SafetyMargin < 0:
		return fmt.Errorf("%w: safety margin must not be negative", ErrInvalid)
	case o.GapHeight < a.Size+o.SafetyMargin:
		return fmt.Errorf("%w: gap %v must be at least actor size %v plus margin %v",
			ErrInvalid, o.GapHeight, a.Size, o.SafetyMargin)
	case f.Height-o.GapHeight-o.BottomMargin < o.TopMargin:
		return fmt.Errorf("%w: gap %v does not fit between margins", ErrInvalid, o.GapHeight)
	case o.BottomMargin < f.GroundHeight:
		return fmt.Errorf("%w: bottom margin %v lets the gap reach below the ground line", ErrInvalid, o.BottomMargin)
	}

	p := c.Projectiles
	switch {
	case p.Count < 0:
		return fmt.Errorf("%w: projectile count must not be negative", ErrInvalid)
	case p.MinSpeed < 0 || p.MaxSpeed < p.MinSpeed:
		return fmt.Errorf("%w: projectile speed range [%v, %v]", ErrInvalid, p.MinSpeed, p.MaxSpeed)
	case p.Count > 0 && p.LifetimeMS <= 0:
		return fmt.Errorf("%w: projectile lifetime must be positive", ErrInvalid)
	}

	return nil
}

// DifficultyPreset names a set of pacing overrides. A preset is applied once
// before a run starts; pacing never changes during a run.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}
