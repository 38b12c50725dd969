package flappy

// Scores holds the current run's score and the best score seen by this
// game instance.
type Scores struct {
	Current int
	High    int
}

// Scored adds n passed obstacles to the current score.
func (s *Scores) Scored(n int) {
	if n > 0 {
		s.Current += n
	}
}

// Finish folds the current score into the high score and returns the
// final score of the run.
func (s *Scores) Finish() int {
	if s.Current > s.High {
		s.High = s.Current
	}
	return s.Current
}

// Reset clears the current score. The high score is kept.
func (s *Scores) Reset() {
	s.Current = 0
}

// SeedHigh raises the high score to h, for example from stored scores.
// It never lowers it.
func (s *Scores) SeedHigh(h int) {
	if h > s.High {
		s.High = h
	}
}
