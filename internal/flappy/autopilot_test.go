package flappy

import (
	"testing"

	"github.com/vovakirdan/flappy-ledger/internal/config"
)

func TestTarget(t *testing.T) {
	cfg := config.DefaultFlappyConfig()

	tests := []struct {
		name      string
		obstacles []Obstacle
		want      float64
	}{
		{"no obstacles", nil, 300},
		{"next gap", []Obstacle{{X: 200, GapTop: 150}}, 235},
		{"skips cleared", []Obstacle{{X: -10, GapTop: 100}, {X: 250, GapTop: 200}}, 285},
		{"still overlapping", []Obstacle{{X: 40, GapTop: 100}}, 185},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{Config: cfg, Actor: Actor{X: 100}, Obstacles: tt.obstacles}
			if got := Target(s); got != tt.want {
				t.Errorf("Target() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestShouldFlap(t *testing.T) {
	cfg := config.DefaultFlappyConfig()

	tests := []struct {
		name  string
		phase Phase
		y, vy float64
		want  bool
	}{
		{"falling below target", PhasePlaying, 320, 1, true},
		{"rising below target", PhasePlaying, 320, -2, false},
		{"within slack", PhasePlaying, 310, 1, false},
		{"above target", PhasePlaying, 200, 3, false},
		{"idle", PhaseIdle, 400, 1, false},
		{"game over", PhaseGameOver, 400, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{Phase: tt.phase, Config: cfg, Actor: Actor{X: 100, Y: tt.y, VY: tt.vy}}
			if got := ShouldFlap(s, AutopilotSlack); got != tt.want {
				t.Errorf("ShouldFlap() = %v, expected %v", got, tt.want)
			}
		})
	}
}
