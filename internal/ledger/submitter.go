package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Outcome reports how a background submission went.
type Outcome struct {
	Player string
	Score  int
	Err    error
}

// Submitter sends finished scores to a ScoreService in the background so
// the game never waits on the ledger.
type Submitter struct {
	svc     ScoreService
	logger  *log.Logger
	timeout time.Duration

	results chan Outcome
	wg      sync.WaitGroup
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

// WithTimeout bounds each submission.
func WithTimeout(d time.Duration) SubmitterOption {
	return func(s *Submitter) { s.timeout = d }
}

// NewSubmitter creates a submitter. A nil logger uses the default logger.
func NewSubmitter(svc ScoreService, logger *log.Logger, opts ...SubmitterOption) *Submitter {
	if logger == nil {
		logger = log.Default()
	}
	s := &Submitter{
		svc:     svc,
		logger:  logger,
		timeout: 10 * time.Second,
		results: make(chan Outcome, 8),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the request and sends it on its own goroutine. Only
// validation errors are returned; delivery errors arrive on Results.
func (s *Submitter) Submit(id Identity, score int) error {
	if score <= 0 {
		return ErrNothingToSubmit
	}
	if id.Empty() {
		return ErrNotConnected
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		err := s.svc.SubmitScore(ctx, id, score)
		if err != nil {
			s.logger.Error("score submission failed", "player", id.Short(), "score", score, "err", err)
		} else {
			s.logger.Info("score submitted", "player", id.Short(), "score", score)
		}

		select {
		case s.results <- Outcome{Player: id.Address, Score: score, Err: err}:
		default:
			s.logger.Warn("dropping submission outcome, nobody is listening", "score", score)
		}
	}()
	return nil
}

// Results delivers one Outcome per accepted submission.
func (s *Submitter) Results() <-chan Outcome {
	return s.results
}

// Wait blocks until every in-flight submission has finished.
func (s *Submitter) Wait() {
	s.wg.Wait()
}
