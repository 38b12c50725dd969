// Package tui runs flappy in a terminal: a Bubble Tea model around a game
// widget, a screen renderer, the ledger scoreboard and the SSH server.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-ledger/internal/loop"
)

// FrameMsg carries a scheduled frame through the Bubble Tea event loop, so
// frames run on the same goroutine as key events.
type FrameMsg struct {
	Handle loop.Handle
	At     time.Time
}

// programScheduler is a loop.Scheduler backed by tea.Tick. Scheduling only
// records the callback; the model turns it into a command after Update.
type programScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	next    loop.Handle
	live    map[loop.Handle]func(time.Time)
	pending []loop.Handle
}

func newProgramScheduler(fps int) *programScheduler {
	return &programScheduler{
		interval: loop.Interval(fps),
		live:     make(map[loop.Handle]func(time.Time)),
	}
}

// ScheduleNext implements loop.Scheduler.
func (s *programScheduler) ScheduleNext(fn func(now time.Time)) loop.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.live[s.next] = fn
	s.pending = append(s.pending, s.next)
	return s.next
}

// Cancel implements loop.Scheduler. A FrameMsg already in flight for h is
// dropped when it arrives.
func (s *programScheduler) Cancel(h loop.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, h)
}

// Cmds turns frames scheduled since the last call into tick commands.
func (s *programScheduler) Cmds() []tea.Cmd {
	s.mu.Lock()
	handles := s.pending
	s.pending = nil
	s.mu.Unlock()

	cmds := make([]tea.Cmd, 0, len(handles))
	for _, h := range handles {
		h := h
		cmds = append(cmds, tea.Tick(s.interval, func(t time.Time) tea.Msg {
			return FrameMsg{Handle: h, At: t}
		}))
	}
	return cmds
}

// Fire runs the callback behind a frame message unless it was cancelled.
func (s *programScheduler) Fire(msg FrameMsg) bool {
	s.mu.Lock()
	fn, ok := s.live[msg.Handle]
	delete(s.live, msg.Handle)
	s.mu.Unlock()

	if !ok {
		return false
	}
	fn(msg.At)
	return true
}
