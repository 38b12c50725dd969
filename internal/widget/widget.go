// Package widget binds one flappy game to a loop driver, a renderer and
// an asset gate. It is the unit a host (terminal, SSH session, headless
// runner) creates, feeds input to and closes.
package widget

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/flappy-ledger/internal/assets"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/flappy"
	"github.com/vovakirdan/flappy-ledger/internal/loop"
)

var (
	// ErrNoRenderer is returned by New when no renderer is supplied.
	ErrNoRenderer = errors.New("widget: no renderer")
	// ErrNoGame is returned by New when no game is supplied.
	ErrNoGame = errors.New("widget: no game")
	// ErrAssetsNotReady is returned by Start while the assets are pending
	// or failed to load.
	ErrAssetsNotReady = errors.New("widget: assets not ready")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("widget: closed")
)

// Assets reports whether the sprite sheet a renderer depends on is usable.
// *assets.Gate satisfies it.
type Assets interface {
	State() assets.State
	Err() error
}

// Widget owns a game and the driver that ticks it. Frames and input must
// arrive on the same goroutine; hosts use a dispatching scheduler for that.
type Widget struct {
	game     *flappy.Game
	renderer flappy.Renderer
	assets   Assets
	driver   *loop.Driver

	now    time.Time // Timestamp of the latest frame
	last   flappy.Result
	closed bool
}

// New wires a widget. A nil gate means the renderer needs no assets.
// The driver is not started.
func New(game *flappy.Game, renderer flappy.Renderer, sched loop.Scheduler, gate Assets) (*Widget, error) {
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	if game == nil {
		return nil, ErrNoGame
	}

	w := &Widget{
		game:     game,
		renderer: renderer,
		assets:   gate,
	}
	w.driver = loop.NewDriver(sched, w)
	w.syncReady()
	return w, nil
}

// Start begins ticking. The game stays inert while assets are not ready.
func (w *Widget) Start() error {
	if w.closed {
		return ErrClosed
	}
	if !w.syncReady() {
		if err := w.assets.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrAssetsNotReady, err)
		}
		return ErrAssetsNotReady
	}
	return w.driver.Start()
}

// Update runs one simulation tick. It is called by the driver.
func (w *Widget) Update(now time.Time) {
	w.now = now
	w.last = w.game.Tick(now)
}

// Render draws the latest frame. It is called by the driver after Update.
func (w *Widget) Render() {
	w.renderer.Draw(w.game.Snapshot(w.now))
}

// Input routes an action to the game and reports whether it had an effect.
func (w *Widget) Input(action core.Action, now time.Time) bool {
	if w.closed {
		return false
	}
	switch action {
	case core.ActionPress:
		return w.game.Press(now)
	case core.ActionStart:
		return w.game.Start()
	case core.ActionJump:
		return w.game.Jump(now)
	case core.ActionRestart:
		return w.game.Restart()
	case core.ActionPause:
		return w.game.TogglePause()
	default:
		return false
	}
}

// Close stops the driver and disposes the game. It is safe to call more
// than once.
func (w *Widget) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.driver.Stop()
	w.game.Dispose()
}

// Game returns the simulation, for reading scores and phase.
func (w *Widget) Game() *flappy.Game {
	return w.game
}

// Running reports whether frames are being scheduled.
func (w *Widget) Running() bool {
	return w.driver.Running()
}

// Frames returns the number of completed frames.
func (w *Widget) Frames() int {
	return w.driver.Ticks()
}

// LastResult returns what happened on the latest frame.
func (w *Widget) LastResult() flappy.Result {
	return w.last
}

func (w *Widget) syncReady() bool {
	ready := w.assets == nil || w.assets.State() == assets.StateReady
	w.game.SetReady(ready)
	return ready
}
