package assets

import (
	"sync"
)

// State is the readiness of an asset gate.
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gate tracks an asynchronous sprite sheet load. It resolves exactly once.
type Gate struct {
	mu    sync.Mutex
	state State
	sheet *Sheet
	err   error
	done  chan struct{}
}

// NewGate creates a pending gate.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Preload starts load on its own goroutine and returns a gate that resolves
// when it finishes.
func Preload(load func() (*Sheet, error)) *Gate {
	g := NewGate()
	go func() {
		g.Resolve(load())
	}()
	return g
}

// Ready returns a gate that is already resolved with sheet.
func Ready(sheet *Sheet) *Gate {
	g := NewGate()
	g.Resolve(sheet, nil)
	return g
}

// Resolve settles the gate. Later calls are ignored.
func (g *Gate) Resolve(sheet *Sheet, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePending {
		return
	}
	if err == nil && sheet == nil {
		err = ErrInvalidSheet
	}
	if err != nil {
		g.state = StateFailed
		g.err = err
	} else {
		g.state = StateReady
		g.sheet = sheet
	}
	close(g.done)
}

// State returns the current readiness.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err returns the load error of a failed gate.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Sheet returns the loaded sheet, or nil unless the gate is ready.
func (g *Gate) Sheet() *Sheet {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sheet
}

// Done is closed once the gate resolves.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}
