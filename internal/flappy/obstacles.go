package flappy

import (
	"github.com/vovakirdan/flappy-ledger/internal/config"
)

// Obstacle is a pair of pipes with a passable gap between them.
// Width and gap height are shared by all obstacles and live in the config.
type Obstacle struct {
	X      float64 // Left edge
	GapTop float64 // Y where the gap starts (bottom of the top pipe)
	Passed bool    // Set once the trailing edge has crossed the actor
}

// Right returns the trailing (right) edge for the given obstacle width.
func (o Obstacle) Right(width float64) float64 {
	return o.X + width
}

// ObstacleManager handles spawning, scrolling, scoring and pruning of
// obstacles. Obstacles are kept oldest first, which is also left to right.
type ObstacleManager struct {
	obstacles []Obstacle
	rng       Rand
	field     config.FlappyField
	cfg       config.FlappyObstacles
}

// NewObstacleManager creates an empty manager drawing gaps from rng.
func NewObstacleManager(cfg config.FlappyConfig, rng Rand) *ObstacleManager {
	return &ObstacleManager{
		obstacles: make([]Obstacle, 0, 8),
		rng:       rng,
		field:     cfg.Field,
		cfg:       cfg.Obstacles,
	}
}

// Reset removes every obstacle.
func (m *ObstacleManager) Reset() {
	m.obstacles = m.obstacles[:0]
}

// Update scrolls obstacles left, marks the ones whose trailing edge has
// crossed actorX and spawns a new one when there is room.
// Returns the number of obstacles passed this tick.
func (m *ObstacleManager) Update(actorX float64) int {
	passed := 0
	width := m.cfg.Width

	for i := range m.obstacles {
		o := &m.obstacles[i]
		o.X -= m.cfg.ScrollSpeed
		if !o.Passed && o.Right(width) < actorX {
			o.Passed = true
			passed++
		}
	}

	// Oldest obstacles are leftmost, so everything off-screen is at the head
	drop := 0
	for drop < len(m.obstacles) && m.obstacles[drop].Right(width) < 0 {
		drop++
	}
	if drop > 0 {
		m.obstacles = append(m.obstacles[:0], m.obstacles[drop:]...)
	}

	if n := len(m.obstacles); n == 0 || m.obstacles[n-1].X < m.field.Width-m.cfg.SpawnThreshold {
		m.spawn()
	}

	return passed
}

// spawn places a new obstacle at the right edge of the field with a gap
// drawn uniformly between the margins.
func (m *ObstacleManager) spawn() {
	minTop := m.cfg.TopMargin
	maxTop := m.field.Height - m.cfg.GapHeight - m.cfg.BottomMargin

	m.obstacles = append(m.obstacles, Obstacle{
		X:      m.field.Width,
		GapTop: uniform(m.rng, minTop, maxTop),
	})
}

// Obstacles returns the live obstacle slice. Callers must not modify it;
// use Game.Snapshot for a copy.
func (m *ObstacleManager) Obstacles() []Obstacle {
	return m.obstacles
}

// Len returns the number of active obstacles.
func (m *ObstacleManager) Len() int {
	return len(m.obstacles)
}
