package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrAlreadyRunning is returned by Start on a running driver.
	ErrAlreadyRunning = errors.New("loop: already running")
	// ErrNoCycle is returned by Start when the driver has nothing to run.
	ErrNoCycle = errors.New("loop: no cycle")
)

// Cycle is the work done on every frame: simulation first, then drawing.
type Cycle interface {
	Update(now time.Time)
	Render()
}

// Driver runs a Cycle once per scheduler frame. At most one frame is
// pending at any time, and nothing runs after Stop.
type Driver struct {
	sched Scheduler
	cycle Cycle

	mu      sync.Mutex
	running bool
	gen     uint64 // Bumped on every Start so stale frames can be told apart
	pending Handle
	stopped chan struct{}
	ticks   int
}

// NewDriver creates a stopped driver.
func NewDriver(sched Scheduler, cycle Cycle) *Driver {
	return &Driver{
		sched: sched,
		cycle: cycle,
	}
}

// Start schedules the first frame.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cycle == nil || d.sched == nil {
		return ErrNoCycle
	}
	if d.running {
		return ErrAlreadyRunning
	}

	d.running = true
	d.gen++
	d.stopped = make(chan struct{})
	d.scheduleLocked(d.gen)
	return nil
}

// Stop cancels the pending frame. It is safe to call more than once and
// from inside a cycle.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.running = false
	if d.pending != 0 {
		d.sched.Cancel(d.pending)
		d.pending = 0
	}
	close(d.stopped)
}

// Run starts the driver and blocks until ctx is done or the driver is
// stopped. The driver is always stopped on return.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		return err
	}
	defer d.Stop()

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-stopped:
		return nil
	}
}

// Running reports whether a frame is scheduled or executing.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Ticks returns the number of completed cycles since the driver was created.
func (d *Driver) Ticks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks
}

func (d *Driver) scheduleLocked(gen uint64) {
	d.pending = d.sched.ScheduleNext(func(now time.Time) {
		d.frame(gen, now)
	})
}

func (d *Driver) frame(gen uint64, now time.Time) {
	d.mu.Lock()
	if !d.running || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = 0
	d.mu.Unlock()

	completed := false
	defer func() {
		if !completed {
			d.Stop()
		}
	}()

	d.cycle.Update(now)
	d.cycle.Render()
	completed = true

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ticks++
	if d.running && gen == d.gen {
		d.scheduleLocked(gen)
	}
}
