package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var epoch = time.Unix(1_700_000_000, 0)

// recordingCycle logs the order of calls it receives.
type recordingCycle struct {
	mu       sync.Mutex
	calls    []string
	onUpdate func()
}

func (c *recordingCycle) Update(now time.Time) {
	c.mu.Lock()
	c.calls = append(c.calls, "update")
	fn := c.onUpdate
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *recordingCycle) Render() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "render")
}

func (c *recordingCycle) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// leakyScheduler keeps every callback it was given, cancelled or not, so
// tests can replay a frame that was already in flight.
type leakyScheduler struct {
	*ManualScheduler
	all []func(time.Time)
}

func (s *leakyScheduler) ScheduleNext(fn func(time.Time)) Handle {
	s.all = append(s.all, fn)
	return s.ManualScheduler.ScheduleNext(fn)
}

func TestDriverRunsUpdateThenRender(t *testing.T) {
	sched := NewManualScheduler()
	cycle := &recordingCycle{}
	d := NewDriver(sched, cycle)

	if err := d.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if n := sched.Fire(epoch); n != 1 {
			t.Fatalf("Fire() ran %d callbacks, expected 1", n)
		}
		if sched.Pending() != 1 {
			t.Fatalf("pending = %d after frame %d, expected 1", sched.Pending(), i)
		}
	}

	want := []string{"update", "render", "update", "render", "update", "render"}
	if len(cycle.calls) != len(want) {
		t.Fatalf("calls = %v, expected %v", cycle.calls, want)
	}
	for i := range want {
		if cycle.calls[i] != want[i] {
			t.Errorf("call %d = %s, expected %s", i, cycle.calls[i], want[i])
		}
	}
	if d.Ticks() != 3 {
		t.Errorf("Ticks() = %d, expected 3", d.Ticks())
	}
}

func TestDriverStartErrors(t *testing.T) {
	if err := NewDriver(NewManualScheduler(), nil).Start(); !errors.Is(err, ErrNoCycle) {
		t.Errorf("Start() without cycle = %v, expected ErrNoCycle", err)
	}

	d := NewDriver(NewManualScheduler(), &recordingCycle{})
	if err := d.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := d.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, expected ErrAlreadyRunning", err)
	}
}

func TestDriverStopCancelsPendingFrame(t *testing.T) {
	sched := NewManualScheduler()
	cycle := &recordingCycle{}
	d := NewDriver(sched, cycle)
	d.Start()
	sched.Fire(epoch)

	d.Stop()
	d.Stop()

	if sched.Pending() != 0 {
		t.Errorf("pending = %d after Stop, expected 0", sched.Pending())
	}
	if sched.Fire(epoch) != 0 {
		t.Error("a frame fired after Stop")
	}
	if d.Running() {
		t.Error("Running() = true after Stop")
	}
	if cycle.count() != 2 {
		t.Errorf("cycle ran %d calls, expected 2", cycle.count())
	}
}

func TestDriverIgnoresFramesAfterStop(t *testing.T) {
	sched := &leakyScheduler{ManualScheduler: NewManualScheduler()}
	cycle := &recordingCycle{}
	d := NewDriver(sched, cycle)
	d.Start()
	d.Stop()

	// The frame was already queued when Stop ran
	sched.all[0](epoch)
	if cycle.count() != 0 {
		t.Errorf("stale frame ran the cycle %d times", cycle.count())
	}

	// A restart must not revive frames from the previous run
	d.Start()
	sched.all[0](epoch)
	if cycle.count() != 0 {
		t.Error("frame from a previous run executed after restart")
	}
	sched.Fire(epoch)
	if cycle.count() != 2 {
		t.Errorf("restarted driver ran %d calls, expected 2", cycle.count())
	}
	d.Stop()
}

func TestDriverStopFromInsideCycle(t *testing.T) {
	sched := NewManualScheduler()
	cycle := &recordingCycle{}
	d := NewDriver(sched, cycle)
	cycle.onUpdate = d.Stop
	d.Start()

	sched.Fire(epoch)

	if sched.Pending() != 0 {
		t.Errorf("pending = %d, expected no reschedule after Stop", sched.Pending())
	}
	if d.Running() {
		t.Error("driver still running")
	}
}

func TestDriverStopsOnPanic(t *testing.T) {
	sched := NewManualScheduler()
	cycle := &recordingCycle{onUpdate: func() { panic("boom") }}
	d := NewDriver(sched, cycle)
	d.Start()

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("panic was swallowed")
			}
		}()
		sched.Fire(epoch)
	}()

	if d.Running() || sched.Pending() != 0 {
		t.Error("driver kept running after a panicking cycle")
	}
}

func TestDriverRunReleasesOnCancel(t *testing.T) {
	sched := NewManualScheduler()
	d := NewDriver(sched, &recordingCycle{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for sched.Pending() == 0 {
		select {
		case <-deadline:
			t.Fatal("Run never scheduled a frame")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if sched.Pending() != 0 || d.Running() {
		t.Error("Run left the driver subscribed")
	}
}

func TestDriverRunReturnsWhenStopped(t *testing.T) {
	sched := NewManualScheduler()
	cycle := &recordingCycle{}
	d := NewDriver(sched, cycle)
	cycle.onUpdate = d.Stop

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	deadline := time.After(2 * time.Second)
	for {
		sched.Fire(epoch)
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() = %v, expected nil", err)
			}
			return
		case <-deadline:
			t.Fatal("Run did not return after Stop")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDriverWithTimerScheduler(t *testing.T) {
	sched := NewTimerScheduler(time.Millisecond)
	ticked := make(chan struct{}, 100)
	cycle := &recordingCycle{onUpdate: func() { ticked <- struct{}{} }}
	d := NewDriver(sched, cycle)

	if err := d.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d frames fired", i)
		}
	}
	d.Stop()

	settled := d.Ticks()
	time.Sleep(20 * time.Millisecond)
	// One frame may have been mid-flight when Stop ran
	if d.Ticks() > settled+1 {
		t.Errorf("Ticks() grew from %d to %d after Stop", settled, d.Ticks())
	}
	if sched.Pending() != 0 {
		t.Errorf("pending = %d after Stop, expected 0", sched.Pending())
	}
}
