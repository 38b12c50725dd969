package tui

import (
	"testing"
	"time"
)

func TestProgramSchedulerFiresOnce(t *testing.T) {
	s := newProgramScheduler(60)

	var fired []time.Time
	h := s.ScheduleNext(func(now time.Time) { fired = append(fired, now) })

	if cmds := s.Cmds(); len(cmds) != 1 {
		t.Fatalf("Cmds() = %d commands, expected 1", len(cmds))
	}
	if cmds := s.Cmds(); len(cmds) != 0 {
		t.Errorf("second Cmds() = %d commands, expected 0", len(cmds))
	}

	at := time.Unix(100, 0)
	if !s.Fire(FrameMsg{Handle: h, At: at}) {
		t.Fatal("Fire should run a live frame")
	}
	if s.Fire(FrameMsg{Handle: h, At: at}) {
		t.Error("Fire should not run the same frame twice")
	}
	if len(fired) != 1 || !fired[0].Equal(at) {
		t.Errorf("fired = %v, expected [%v]", fired, at)
	}
}

func TestProgramSchedulerCancel(t *testing.T) {
	s := newProgramScheduler(30)

	called := false
	h := s.ScheduleNext(func(time.Time) { called = true })
	s.Cancel(h)

	if s.Fire(FrameMsg{Handle: h}) {
		t.Error("Fire should drop a cancelled frame")
	}
	if called {
		t.Error("cancelled callback ran")
	}
}

func TestProgramSchedulerHandlesAreUnique(t *testing.T) {
	s := newProgramScheduler(60)

	a := s.ScheduleNext(func(time.Time) {})
	b := s.ScheduleNext(func(time.Time) {})
	if a == b {
		t.Errorf("handles = %d and %d, expected distinct", a, b)
	}
	if cmds := s.Cmds(); len(cmds) != 2 {
		t.Errorf("Cmds() = %d commands, expected 2", len(cmds))
	}
}
