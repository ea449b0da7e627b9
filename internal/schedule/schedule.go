// Package schedule debounces recalculation. Bursts of keystrokes coalesce
// into a single measurement pass, and the pass itself is deferred to a
// post-layout callback so it reads settled geometry, never the mutation that
// triggered it.
package schedule

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jobast/palimpsest/internal/logging"
)

// DefaultDelay is the debounce window applied when no delay is configured.
const DefaultDelay = 200 * time.Millisecond

// MinDelay is the shortest permitted debounce window, roughly one frame.
// Latency-sensitive callers can tune down to it but no further.
const MinDelay = 16 * time.Millisecond

// State reports whether a recalculation is pending. Making the in-flight vs.
// idle distinction an explicit enum keeps the timer logic testable.
type State int

const (
	Idle State = iota
	Pending
)

// Scheduler coalesces triggers into debounced recalculation runs. A trigger
// while a run is pending cancels and restarts the timer rather than queuing
// a second run. Run failures (returned errors and panics) are caught here
// and reported to OnError; pagination is a presentation layer and must never
// take editing down with it.
type Scheduler struct {
	// Run performs one recalculation pass.
	Run func() error

	// PostLayout defers fn until after the rendering surface has applied
	// pending mutations and completed layout. When nil, fn runs immediately,
	// which is correct for surfaces measured synchronously.
	PostLayout func(fn func())

	// OnError receives failures from Run. When nil, failures are only
	// logged.
	OnError func(error)

	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	state State

	log *slog.Logger
}

// NewScheduler creates a scheduler with the given debounce window, clamped
// to [MinDelay, ...); a non-positive delay selects DefaultDelay. A nil
// logger disables logging.
func NewScheduler(delay time.Duration, log *slog.Logger) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if delay < MinDelay {
		delay = MinDelay
	}
	return &Scheduler{delay: delay, log: logging.Or(log)}
}

// Delay returns the active debounce window.
func (s *Scheduler) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// State returns whether a recalculation is currently pending.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Trigger schedules a recalculation after the debounce window. A pending
// timer is cancelled and restarted, so ten rapid triggers produce one run
// that reads the state after the tenth.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.state = Pending
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// Cancel stops any pending recalculation without running it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = Idle
}

// Flush runs a pending recalculation immediately, bypassing the remaining
// debounce window. It is a no-op when idle.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.state != Pending {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.fire()
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.state = Idle
	s.timer = nil
	post := s.PostLayout
	s.mu.Unlock()

	if post != nil {
		post(s.runOnce)
	} else {
		s.runOnce()
	}
}

func (s *Scheduler) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			s.fail(fmt.Errorf("recalculation panicked: %v", r))
		}
	}()
	if s.Run == nil {
		return
	}
	if err := s.Run(); err != nil {
		s.fail(err)
	}
}

func (s *Scheduler) fail(err error) {
	s.log.Error("recalculation failed", slog.Any("error", err))
	if s.OnError != nil {
		s.OnError(err)
	}
}
