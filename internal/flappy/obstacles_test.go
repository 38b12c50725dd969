package flappy

import (
	"testing"

	"github.com/vovakirdan/flappy-ledger/internal/config"
)

func TestObstacleSpawnsWhenEmpty(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	m := NewObstacleManager(cfg, &scriptedRand{vals: []float64{0}})

	m.Update(cfg.Actor.X)

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", m.Len())
	}
	o := m.Obstacles()[0]
	if o.X != cfg.Field.Width {
		t.Errorf("spawn X = %v, expected %v", o.X, cfg.Field.Width)
	}
	if o.GapTop != cfg.Obstacles.TopMargin {
		t.Errorf("GapTop = %v, expected %v", o.GapTop, cfg.Obstacles.TopMargin)
	}
	if o.Passed {
		t.Error("new obstacle should not be passed")
	}
}

func TestObstacleGapRange(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	maxTop := cfg.Field.Height - cfg.Obstacles.GapHeight - cfg.Obstacles.BottomMargin

	tests := []struct {
		name string
		draw float64
		want float64
	}{
		{"lowest draw", 0, cfg.Obstacles.TopMargin},
		{"middle draw", 0.5, (cfg.Obstacles.TopMargin + maxTop) / 2},
		{"highest draw", 1, maxTop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewObstacleManager(cfg, &scriptedRand{vals: []float64{tt.draw}})
			m.Update(cfg.Actor.X)
			if got := m.Obstacles()[0].GapTop; got != tt.want {
				t.Errorf("GapTop = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestObstacleScrollAndSpawnThreshold(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	m := NewObstacleManager(cfg, NewRand(3))
	m.Update(cfg.Actor.X)

	// A second obstacle appears only once the first is more than the
	// threshold away from the right edge.
	ticks := 0
	for m.Len() == 1 {
		m.Update(cfg.Actor.X)
		ticks++
		if ticks > 1000 {
			t.Fatal("second obstacle never spawned")
		}
	}

	first, second := m.Obstacles()[0], m.Obstacles()[1]
	if first.X >= cfg.Field.Width-cfg.Obstacles.SpawnThreshold {
		t.Errorf("second obstacle spawned too early, first.X = %v", first.X)
	}
	if second.X != cfg.Field.Width {
		t.Errorf("second.X = %v, expected %v", second.X, cfg.Field.Width)
	}
	if want := cfg.Field.Width - float64(ticks)*cfg.Obstacles.ScrollSpeed; first.X != want {
		t.Errorf("first.X = %v, expected %v", first.X, want)
	}
}

func TestObstaclePassedOnlyOnce(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	m := NewObstacleManager(cfg, NewRand(5))
	m.obstacles = append(m.obstacles, Obstacle{X: cfg.Actor.X - cfg.Obstacles.Width + 1})

	if got := m.Update(cfg.Actor.X); got != 1 {
		t.Fatalf("Update() = %d, expected 1", got)
	}
	for i := 0; i < 10; i++ {
		if got := m.Update(cfg.Actor.X); got != 0 {
			t.Fatalf("Update() = %d on tick %d, expected 0", got, i)
		}
	}
}

func TestObstacleTrailingEdgeOnActorIsNotPassed(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	m := NewObstacleManager(cfg, NewRand(5))
	// After one scroll the trailing edge sits exactly on the actor
	m.obstacles = append(m.obstacles, Obstacle{X: cfg.Actor.X - cfg.Obstacles.Width + cfg.Obstacles.ScrollSpeed})

	if got := m.Update(cfg.Actor.X); got != 0 {
		t.Errorf("Update() = %d, expected 0 while the edge touches the actor", got)
	}
}

func TestObstaclePrunedOffScreen(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	m := NewObstacleManager(cfg, NewRand(5))
	m.obstacles = append(m.obstacles,
		Obstacle{X: -cfg.Obstacles.Width + 1, Passed: true},
		Obstacle{X: 150},
	)

	m.Update(cfg.Actor.X)

	for _, o := range m.Obstacles() {
		if o.Right(cfg.Obstacles.Width) < 0 {
			t.Errorf("off-screen obstacle kept: %+v", o)
		}
	}
	if m.Obstacles()[0].X != 148 {
		t.Errorf("head X = %v, expected 148", m.Obstacles()[0].X)
	}
}

func TestObstacleReset(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	m := NewObstacleManager(cfg, NewRand(5))
	for i := 0; i < 200; i++ {
		m.Update(cfg.Actor.X)
	}
	m.Reset()
	if m.Len() != 0 {
		t.Errorf("Len() after Reset = %d, expected 0", m.Len())
	}
}
