package flappy

// Phase is the top-level mode of a game. Exactly one is active at a time.
type Phase int

const (
	PhaseIdle     Phase = iota // Waiting for the first start
	PhasePlaying               // Physics, obstacles and scoring are live
	PhaseGameOver              // Frozen after a collision, waiting for restart
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePlaying:
		return "Playing"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}
