package flappy

// AutopilotSlack is how far below its target the autopilot lets the actor
// sink before flapping.
const AutopilotSlack = 15

// Target returns the height the actor should hold: the centre of the next
// gap it has not cleared, or mid-field when no obstacle is ahead.
func Target(s Snapshot) float64 {
	cfg := s.Config
	for _, o := range s.Obstacles {
		if o.Right(cfg.Obstacles.Width) >= s.Actor.X-cfg.Actor.Size/2 {
			return o.GapTop + cfg.Obstacles.GapHeight/2
		}
	}
	return cfg.Field.Height / 2
}

// ShouldFlap is a greedy autopilot used by headless runs. It flaps once the
// actor is falling and has dropped more than slack below Target.
func ShouldFlap(s Snapshot, slack float64) bool {
	if s.Phase != PhasePlaying || s.Paused {
		return false
	}
	return s.Actor.VY >= 0 && s.Actor.Y > Target(s)+slack
}
