package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/flappy"
	"github.com/vovakirdan/flappy-ledger/internal/ledger"
	"github.com/vovakirdan/flappy-ledger/internal/loop"
)

var quietLogger = log.New(io.Discard)

// fakeLedger records submissions in memory.
type fakeLedger struct {
	mu      sync.Mutex
	entries []ledger.Entry
	err     error
}

func (f *fakeLedger) SubmitScore(_ context.Context, id ledger.Identity, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, ledger.Entry{Player: id.Address, Score: score, Timestamp: time.Now()})
	return nil
}

func (f *fakeLedger) ListScores(context.Context) ([]ledger.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]ledger.Entry(nil), f.entries...), nil
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	opts.Flappy = config.DefaultFlappyConfig()
	opts.Runtime = core.RuntimeConfig{ScreenW: 40, ScreenH: 30, TickRate: 60, Seed: 1}
	opts.Logger = quietLogger

	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm
}

// fireFrame delivers the currently scheduled frame.
func fireFrame(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	m.s.sched.mu.Lock()
	var h loop.Handle
	for live := range m.s.sched.live {
		h = max(h, live)
	}
	m.s.sched.mu.Unlock()
	if h == 0 {
		t.Fatal("no frame scheduled")
	}
	return update(t, m, FrameMsg{Handle: h, At: at})
}

// playToGameOver starts a run and lets the actor fall to the ground.
func playToGameOver(t *testing.T, m Model) Model {
	t.Helper()
	m = update(t, m, assetsMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	start := time.Unix(1_700_000_000, 0)
	for i := range 500 {
		if m.Game().Phase() == flappy.PhaseGameOver {
			return m
		}
		m = fireFrame(t, m, start.Add(time.Duration(i)*16*time.Millisecond))
	}
	t.Fatal("game never ended")
	return m
}

func TestModelStartsWhenAssetsReady(t *testing.T) {
	m := newTestModel(t, Options{})

	if m.s.widget.Running() {
		t.Fatal("loop should wait for the assets message")
	}
	m = update(t, m, assetsMsg{})
	if !m.s.widget.Running() {
		t.Fatal("loop should run once assets are ready")
	}
	if !strings.Contains(m.s.renderer.Screen().String(), "FLAPPY LEDGER") {
		t.Error("idle screen should show the title")
	}
}

func TestModelSpaceStartsAndFramesTick(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, assetsMsg{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Game().Phase() != flappy.PhasePlaying {
		t.Fatalf("phase = %v, expected Playing", m.Game().Phase())
	}

	start := time.Unix(1_700_000_000, 0)
	for i := range 5 {
		m = fireFrame(t, m, start.Add(time.Duration(i)*16*time.Millisecond))
	}
	if m.Game().Ticks() != 5 {
		t.Errorf("Ticks() = %d, expected 5", m.Game().Ticks())
	}
	if m.s.widget.Frames() != 5 {
		t.Errorf("Frames() = %d, expected 5", m.s.widget.Frames())
	}
}

func TestModelMouseClickStarts(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, assetsMsg{})

	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Game().Phase() != flappy.PhasePlaying {
		t.Errorf("phase = %v, expected Playing", m.Game().Phase())
	}
}

func TestModelQuitClosesGame(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, assetsMsg{})

	next, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("quit command = %T, expected tea.QuitMsg", msg)
	}
	if !next.(Model).Game().Disposed() {
		t.Error("quit should dispose the game")
	}
	if next.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestModelCloseReleasesOutcomeWait(t *testing.T) {
	sub := ledger.NewSubmitter(&fakeLedger{}, quietLogger)
	m := newTestModel(t, Options{
		Identity:  ledger.Identity{Address: "player-one"},
		Submitter: sub,
	})
	m = update(t, m, assetsMsg{})

	got := make(chan tea.Msg, 1)
	go func() { got <- waitForOutcome(sub, m.s.done)() }()

	// Close arrives from another goroutine, as it does on SSH disconnect.
	go m.Close()

	select {
	case msg := <-got:
		if msg != nil {
			t.Errorf("outcome command = %T, expected nil after Close", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("outcome command still blocked after Close")
	}
	if !m.Game().Disposed() {
		t.Error("Close should dispose the game")
	}

	m.Close()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil || cmd() != (tea.QuitMsg{}) {
		t.Error("a closed session should quit on the next message")
	}
	if next.View() != "" {
		t.Error("view should be empty once closed")
	}
}

func TestModelResizeRedraws(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	screen := m.s.renderer.Screen()
	if screen.Width() != 60 || screen.Height() != 20 {
		t.Errorf("screen = %dx%d, expected 60x20", screen.Width(), screen.Height())
	}
}

func TestModelSubmitOffline(t *testing.T) {
	m := playToGameOver(t, newTestModel(t, Options{}))
	m.s.lastScore = 4

	m = update(t, m, runeKey("s"))
	if !strings.Contains(m.s.renderer.Status(), "Offline") {
		t.Errorf("status = %q, expected offline notice", m.s.renderer.Status())
	}
}

func TestModelSubmitWithoutWallet(t *testing.T) {
	svc := &fakeLedger{}
	m := playToGameOver(t, newTestModel(t, Options{Submitter: ledger.NewSubmitter(svc, quietLogger)}))
	m.s.lastScore = 4

	m = update(t, m, runeKey("s"))
	if !strings.Contains(m.s.renderer.Status(), "No wallet") {
		t.Errorf("status = %q, expected wallet hint", m.s.renderer.Status())
	}
}

func TestModelSubmitAfterGameOver(t *testing.T) {
	svc := &fakeLedger{}
	sub := ledger.NewSubmitter(svc, quietLogger)
	m := playToGameOver(t, newTestModel(t, Options{
		Identity:  ledger.Identity{Address: "player-one"},
		Submitter: sub,
	}))

	m.s.onGameOver(7)
	sub.Wait()
	if entries, _ := svc.ListScores(context.Background()); len(entries) != 0 {
		t.Fatalf("entries = %d, expected nothing before S is pressed", len(entries))
	}

	m = update(t, m, runeKey("s"))
	sub.Wait()
	entries, _ := svc.ListScores(context.Background())
	if len(entries) != 1 || entries[0].Score != 7 || entries[0].Player != "player-one" {
		t.Fatalf("entries = %+v, expected one score of 7", entries)
	}

	// A second press of S does not submit the same run again.
	m = update(t, m, runeKey("s"))
	sub.Wait()
	if entries, _ = svc.ListScores(context.Background()); len(entries) != 1 {
		t.Errorf("entries = %d, expected 1 after resubmit", len(entries))
	}

	m = update(t, m, outcomeMsg(<-sub.Results()))
	if !strings.Contains(m.s.renderer.Status(), "Score 7 saved") {
		t.Errorf("status = %q, expected saved notice", m.s.renderer.Status())
	}
}

func TestModelFailedSubmissionCanRetry(t *testing.T) {
	svc := &fakeLedger{err: errors.New("ledger down")}
	sub := ledger.NewSubmitter(svc, quietLogger)
	m := playToGameOver(t, newTestModel(t, Options{
		Identity:  ledger.Identity{Address: "player-one"},
		Submitter: sub,
	}))

	m.s.onGameOver(3)
	m = update(t, m, runeKey("s"))
	sub.Wait()
	m = update(t, m, outcomeMsg(<-sub.Results()))
	if !strings.Contains(m.s.renderer.Status(), "retry") {
		t.Errorf("status = %q, expected retry hint", m.s.renderer.Status())
	}

	svc.mu.Lock()
	svc.err = nil
	svc.mu.Unlock()

	m = update(t, m, runeKey("s"))
	sub.Wait()
	if entries, _ := svc.ListScores(context.Background()); len(entries) != 1 {
		t.Errorf("entries = %d, expected the retry to land", len(entries))
	}
}

func TestModelZeroScoreIsNotSubmitted(t *testing.T) {
	svc := &fakeLedger{}
	sub := ledger.NewSubmitter(svc, quietLogger)
	m := playToGameOver(t, newTestModel(t, Options{
		Identity:  ledger.Identity{Address: "player-one"},
		Submitter: sub,
	}))

	m.s.onGameOver(0)
	sub.Wait()
	if entries, _ := svc.ListScores(context.Background()); len(entries) != 0 {
		t.Errorf("entries = %d, expected none for a zero score", len(entries))
	}

	m = update(t, m, runeKey("s"))
	if m.s.renderer.Status() != "Nothing to submit" {
		t.Errorf("status = %q, expected nothing to submit", m.s.renderer.Status())
	}
}

func TestModelSubmitIgnoredWhilePlaying(t *testing.T) {
	svc := &fakeLedger{}
	sub := ledger.NewSubmitter(svc, quietLogger)
	m := newTestModel(t, Options{
		Identity:  ledger.Identity{Address: "player-one"},
		Submitter: sub,
	})
	m = update(t, m, assetsMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m.s.lastScore = 5

	m = update(t, m, runeKey("s"))
	sub.Wait()
	if entries, _ := svc.ListScores(context.Background()); len(entries) != 0 {
		t.Errorf("entries = %d, expected no submission mid-run", len(entries))
	}
}

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Field.Height = 0
	if _, err := NewModel(Options{Flappy: cfg, Logger: quietLogger}); err == nil {
		t.Error("NewModel should reject an invalid config")
	}
}
