// Package assets loads the sprite sheet used by terminal renderers and
// tracks whether it is ready.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed sprites.yaml
var defaultSheet []byte

// ErrInvalidSheet is returned when a sprite sheet is missing glyphs.
var ErrInvalidSheet = errors.New("assets: invalid sprite sheet")

// ActorSprites holds the actor rows for each rotation bucket.
type ActorSprites struct {
	Rising  []string `yaml:"rising"`
	Level   []string `yaml:"level"`
	Falling []string `yaml:"falling"`
}

// PipeSprites holds the obstacle glyphs.
type PipeSprites struct {
	Body      string `yaml:"body"`
	CapTop    string `yaml:"cap_top"`
	CapBottom string `yaml:"cap_bottom"`
}

// Sheet is a parsed sprite sheet.
type Sheet struct {
	Actor      ActorSprites `yaml:"actor"`
	Projectile []string     `yaml:"projectile"`
	Pipe       PipeSprites  `yaml:"pipe"`
	Ground     string       `yaml:"ground"`
}

// Default parses the embedded sprite sheet.
func Default() (*Sheet, error) {
	return Parse(defaultSheet)
}

// LoadFile parses a sprite sheet from disk. An empty path loads the
// embedded sheet.
func LoadFile(path string) (*Sheet, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML sprite sheet.
func Parse(data []byte) (*Sheet, error) {
	var s Sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("assets: parse sprite sheet: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every glyph the renderer needs is present.
func (s *Sheet) Validate() error {
	for name, rows := range map[string][]string{
		"actor.rising":  s.Actor.Rising,
		"actor.level":   s.Actor.Level,
		"actor.falling": s.Actor.Falling,
	} {
		if len(rows) == 0 {
			return fmt.Errorf("%w: %s has no rows", ErrInvalidSheet, name)
		}
	}
	if len(s.Projectile) == 0 {
		return fmt.Errorf("%w: no projectile glyphs", ErrInvalidSheet)
	}
	for name, glyph := range map[string]string{
		"pipe.body":       s.Pipe.Body,
		"pipe.cap_top":    s.Pipe.CapTop,
		"pipe.cap_bottom": s.Pipe.CapBottom,
		"ground":          s.Ground,
	} {
		if utf8.RuneCountInString(glyph) != 1 {
			return fmt.Errorf("%w: %s must be a single glyph, got %q", ErrInvalidSheet, name, glyph)
		}
	}
	for i, glyph := range s.Projectile {
		if utf8.RuneCountInString(glyph) != 1 {
			return fmt.Errorf("%w: projectile[%d] must be a single glyph, got %q", ErrInvalidSheet, i, glyph)
		}
	}
	return nil
}

// ActorRows picks the actor sprite for a rotation. Rotations within a third
// of maxRotation of level use the level sprite.
func (s *Sheet) ActorRows(rotation, maxRotation float64) []string {
	threshold := maxRotation / 3
	switch {
	case rotation < -threshold:
		return s.Actor.Rising
	case rotation > threshold:
		return s.Actor.Falling
	default:
		return s.Actor.Level
	}
}

// ProjectileGlyph picks a glyph by opacity. It returns false for a fully
// faded projectile, which should not be drawn.
func (s *Sheet) ProjectileGlyph(opacity float64) (rune, bool) {
	if opacity <= 0 {
		return 0, false
	}
	n := len(s.Projectile)
	idx := int(math.Floor((1 - math.Min(opacity, 1)) * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return Glyph(s.Projectile[idx]), true
}

// Glyph returns the first rune of a single-glyph string.
func Glyph(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
