package core

// Action is a semantic input, abstracted from physical keys or clicks.
type Action int

const (
	ActionNone    Action = iota
	ActionPress          // Space, Up, W, click - start, flap or restart depending on phase
	ActionStart          // Enter - leave the idle screen
	ActionJump           // Flap only, never starts or restarts
	ActionRestart        // R - play again after game over
	ActionPause          // P, Esc - freeze the run
	ActionSubmit         // S - send the final score to the ledger
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPress:
		return "Press"
	case ActionStart:
		return "Start"
	case ActionJump:
		return "Jump"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionSubmit:
		return "Submit"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
