package flappy

import (
	"testing"

	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/core"
)

func TestCollides(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	b := BoundsFor(cfg)
	size := cfg.Actor.Size
	half := size / 2
	ground := cfg.Field.GroundY()

	// Gap spans 200..370, pipe spans 80..150
	pipe := []Obstacle{{X: 80, GapTop: 200}}

	tests := []struct {
		name      string
		actor     core.Box
		obstacles []Obstacle
		want      bool
	}{
		{"open sky", core.NewBox(100, 300, size, size), nil, false},
		{"touching ground", core.NewBox(100, ground-half, size, size), nil, true},
		{"below ground", core.NewBox(100, ground, size, size), nil, true},
		{"just above ground", core.NewBox(100, ground-half-0.1, size, size), nil, false},
		{"touching ceiling", core.NewBox(100, half, size, size), nil, true},
		{"just below ceiling", core.NewBox(100, half+0.1, size, size), nil, false},
		{"inside gap", core.NewBox(100, 285, size, size), pipe, false},
		{"top edge on gap top", core.NewBox(100, 200+half, size, size), pipe, false},
		{"bottom edge on gap bottom", core.NewBox(100, 370-half, size, size), pipe, false},
		{"clipping top pipe", core.NewBox(100, 210, size, size), pipe, true},
		{"clipping bottom pipe", core.NewBox(100, 360, size, size), pipe, true},
		{"left of pipe", core.NewBox(40, 100, size, size), pipe, false},
		{"right edge touching pipe", core.NewBox(60, 100, size, size), pipe, false},
		{"right of pipe", core.NewBox(200, 100, size, size), pipe, false},
		{"left edge touching pipe", core.NewBox(170, 100, size, size), pipe, false},
		{"overlapping pipe by a sliver", core.NewBox(60.5, 100, size, size), pipe, true},
		{"second pipe hits", core.NewBox(300, 100, size, size), []Obstacle{pipe[0], {X: 290, GapTop: 300}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(tt.actor, tt.obstacles, b); got != tt.want {
				t.Errorf("Collides() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestCollidesHasNoSideEffects(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	obstacles := []Obstacle{{X: 80, GapTop: 200}}
	before := obstacles[0]

	Collides(core.NewBox(100, 100, 40, 40), obstacles, BoundsFor(cfg))

	if obstacles[0] != before {
		t.Errorf("obstacle changed: %+v -> %+v", before, obstacles[0])
	}
}
