// Package loop drives a fixed-cadence update/render cycle on top of an
// injected scheduler. It knows nothing about what is being simulated.
package loop

import (
	"sort"
	"sync"
	"time"
)

// Handle identifies one scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler runs a callback once, at the next frame opportunity.
// A cancelled callback must never run, even if its frame already fired.
type Scheduler interface {
	ScheduleNext(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

// Dispatcher hands a ready callback to the execution context that should
// run it, such as a UI event queue.
type Dispatcher func(run func())

// TimerScheduler schedules frames at a fixed interval using time.AfterFunc.
type TimerScheduler struct {
	interval time.Duration
	dispatch Dispatcher

	mu     sync.Mutex
	next   Handle
	timers map[Handle]*time.Timer
}

// TimerOption configures a TimerScheduler.
type TimerOption func(*TimerScheduler)

// WithDispatcher routes fired callbacks through d instead of running them
// on the timer goroutine.
func WithDispatcher(d Dispatcher) TimerOption {
	return func(s *TimerScheduler) { s.dispatch = d }
}

// NewTimerScheduler creates a scheduler firing every interval.
// A non-positive interval falls back to 60 frames per second.
func NewTimerScheduler(interval time.Duration, opts ...TimerOption) *TimerScheduler {
	if interval <= 0 {
		interval = Interval(60)
	}
	s := &TimerScheduler{
		interval: interval,
		timers:   make(map[Handle]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval converts a frame rate into a frame interval.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// ScheduleNext runs fn after one interval.
func (s *TimerScheduler) ScheduleNext(fn func(now time.Time)) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next
	s.timers[h] = time.AfterFunc(s.interval, func() {
		s.fire(h, fn)
	})
	return h
}

// Cancel stops the timer behind h. A callback already handed to the
// dispatcher is dropped when it gets to run.
func (s *TimerScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[h]; ok {
		t.Stop()
		delete(s.timers, h)
	}
}

// Pending returns the number of scheduled callbacks that have not run.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *TimerScheduler) fire(h Handle, fn func(now time.Time)) {
	run := func() {
		s.mu.Lock()
		_, live := s.timers[h]
		delete(s.timers, h)
		s.mu.Unlock()

		if live {
			fn(time.Now())
		}
	}

	if s.dispatch != nil {
		s.dispatch(run)
		return
	}
	run()
}

// ManualScheduler only fires when told to. The headless simulator and tests
// use it to step frames deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]func(time.Time)
}

// NewManualScheduler creates an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[Handle]func(time.Time))}
}

// ScheduleNext queues fn until the next Fire.
func (s *ManualScheduler) ScheduleNext(fn func(now time.Time)) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.pending[s.next] = fn
	return s.next
}

// Cancel drops a queued callback.
func (s *ManualScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, h)
}

// Fire runs every callback queued before the call, oldest first, with the
// given timestamp. Callbacks scheduled while firing wait for the next Fire.
// Returns the number of callbacks run.
func (s *ManualScheduler) Fire(now time.Time) int {
	s.mu.Lock()
	handles := make([]Handle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	s.mu.Unlock()

	ran := 0
	for _, h := range handles {
		// Re-check under the lock: an earlier callback may have cancelled it
		s.mu.Lock()
		fn, ok := s.pending[h]
		delete(s.pending, h)
		s.mu.Unlock()

		if ok {
			fn(now)
			ran++
		}
	}
	return ran
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
