package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-ledger/internal/assets"
	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/flappy"
	"github.com/vovakirdan/flappy-ledger/internal/ledger"
	"github.com/vovakirdan/flappy-ledger/internal/widget"
)

// Options configures one terminal game session.
type Options struct {
	Flappy    config.FlappyConfig
	Runtime   core.RuntimeConfig
	Assets    *assets.Gate      // Nil loads the embedded sprite sheet
	Identity  ledger.Identity   // Empty plays offline
	Submitter *ledger.Submitter // Nil never records scores
	HighScore int               // Seeds the best score shown in the HUD
	Logger    *log.Logger
}

// assetsMsg reports that the asset gate has resolved.
type assetsMsg struct{}

// outcomeMsg carries a finished ledger submission.
type outcomeMsg ledger.Outcome

// session is the mutable state shared by copies of Model. It is touched
// from Bubble Tea's Update goroutine; mu serializes that with Close, which
// may come from elsewhere when the connection drops.
type session struct {
	mu     sync.Mutex
	closed bool
	done   chan struct{}

	widget    *widget.Widget
	sched     *programScheduler
	renderer  *ScreenRenderer
	gate      *assets.Gate
	submitter *ledger.Submitter
	identity  ledger.Identity
	logger    *log.Logger

	lastScore int
	submitted bool
}

// Model is the Bubble Tea model for a flappy session.
type Model struct {
	s        *session
	keys     *KeyMapper
	quitting bool
}

// NewModel wires a game, its widget and renderer for the terminal.
func NewModel(opts Options) (Model, error) {
	if err := opts.Flappy.Validate(); err != nil {
		return Model{}, err
	}

	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	gate := opts.Assets
	if gate == nil {
		sheet, err := assets.Default()
		if err != nil {
			return Model{}, err
		}
		gate = assets.Ready(sheet)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &session{
		done:      make(chan struct{}),
		sched:     newProgramScheduler(cfg.TickRate),
		renderer:  NewScreenRenderer(core.NewScreen(cfg.ScreenW, cfg.ScreenH), gate),
		gate:      gate,
		submitter: opts.Submitter,
		identity:  opts.Identity,
		logger:    logger,
	}

	game := flappy.New(opts.Flappy,
		flappy.WithSeed(cfg.Seed),
		flappy.WithGameOverHandler(s.onGameOver),
	)
	game.SeedHighScore(opts.HighScore)

	w, err := widget.New(game, s.renderer, s.sched, gate)
	if err != nil {
		return Model{}, err
	}
	s.widget = w
	s.render()

	return Model{
		s:    s,
		keys: NewKeyMapper(),
	}, nil
}

// Init waits for assets and starts listening for ledger outcomes.
func (m Model) Init() tea.Cmd {
	gate, done := m.s.gate, m.s.done
	cmds := []tea.Cmd{func() tea.Msg {
		select {
		case <-gate.Done():
			return assetsMsg{}
		case <-done:
			return nil
		}
	}}
	if m.s.submitter != nil {
		cmds = append(cmds, waitForOutcome(m.s.submitter, done))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.s.closed {
		m.quitting = true
		return m, tea.Quit
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			m.saveScreenshot()
			break
		}
		action, isQuit := m.keys.MapKey(msg)
		if isQuit {
			m.quitting = true
			m.s.closeLocked()
			return m, tea.Quit
		}
		m.s.handleAction(action)

	case tea.MouseMsg:
		m.s.handleAction(m.keys.MapMouse(msg))

	case tea.WindowSizeMsg:
		m.s.renderer.Screen().Resize(msg.Width, msg.Height)
		m.s.render()

	case assetsMsg:
		if err := m.s.widget.Start(); err != nil && !errors.Is(err, widget.ErrClosed) {
			m.s.logger.Error("cannot start game", "err", err)
			m.s.renderer.SetStatus(err.Error(), core.ColorAlert)
		}
		m.s.render()

	case FrameMsg:
		m.s.sched.Fire(msg)

	case outcomeMsg:
		m.s.handleOutcome(ledger.Outcome(msg))
		cmds = append(cmds, waitForOutcome(m.s.submitter, m.s.done))
	}

	cmds = append(cmds, m.s.sched.Cmds()...)
	return m, tea.Batch(cmds...)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderScreen(m.s.renderer.Screen())
}

// Game returns the running simulation.
func (m Model) Game() *flappy.Game {
	return m.s.widget.Game()
}

// Close stops the session's game loop and releases pending commands. It is
// safe to call from any goroutine, more than once.
func (m Model) Close() {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.closeLocked()
}

func (s *session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.widget.Close()
	close(s.done)
}

func (s *session) handleAction(action core.Action) {
	switch action {
	case core.ActionNone:
		return
	case core.ActionSubmit:
		if s.widget.Game().Phase() == flappy.PhaseGameOver {
			s.submit()
		}
	default:
		s.widget.Input(action, time.Now())
	}
	s.render()
}

// onGameOver runs inside a tick, on the Update goroutine. The score waits
// for the player to press S.
func (s *session) onGameOver(score int) {
	s.lastScore = score
	s.submitted = false
	if s.submitter != nil && !s.identity.Empty() && score > 0 {
		s.renderer.SetStatus("Press S to record your score", core.ColorHUD)
	} else {
		s.renderer.SetStatus("", core.ColorDefault)
	}
}

func (s *session) submit() {
	if s.submitted {
		return
	}
	if s.submitter == nil {
		s.renderer.SetStatus("Offline: scores are not recorded", core.ColorAsh)
		return
	}

	err := s.submitter.Submit(s.identity, s.lastScore)
	switch {
	case errors.Is(err, ledger.ErrNothingToSubmit):
		s.renderer.SetStatus("Nothing to submit", core.ColorAsh)
	case errors.Is(err, ledger.ErrNotConnected):
		s.renderer.SetStatus("No wallet: run `flappy connect`", core.ColorAlert)
	case err != nil:
		s.renderer.SetStatus(err.Error(), core.ColorAlert)
	default:
		s.submitted = true
		s.renderer.SetStatus(fmt.Sprintf("Submitting %d to ledger...", s.lastScore), core.ColorHUD)
	}
}

func (s *session) handleOutcome(out ledger.Outcome) {
	if out.Err != nil {
		s.submitted = false
		s.renderer.SetStatus("Ledger error, press S to retry", core.ColorAlert)
		return
	}
	s.renderer.SetStatus(fmt.Sprintf("Score %d saved for %s", out.Score, ledger.ShortAddress(out.Player)), core.ColorHUD)
}

// render redraws outside the frame loop, e.g. before the first frame or
// after a resize.
func (s *session) render() {
	s.widget.Render()
}

// waitForOutcome delivers the next ledger outcome, or nothing once the
// session is closed.
func waitForOutcome(sub *ledger.Submitter, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case out := <-sub.Results():
			return outcomeMsg(out)
		case <-done:
			return nil
		}
	}
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".flappy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.s.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	filename := fmt.Sprintf("flappy_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.s.renderer.Screen().String()), 0o600); err != nil {
		m.s.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.s.renderer.SetStatus("Saved "+filename, core.ColorHUD)
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
