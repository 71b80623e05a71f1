package core

import "time"

// TickResult tells the host whether to request another frame.
type TickResult int

const (
	Stop TickResult = iota
	Continue
)

func (r TickResult) String() string {
	if r == Continue {
		return "continue"
	}
	return "stop"
}

// Scheduler tracks whether the frame loop is armed and the time between
// ticks. The host drives it; nothing here schedules itself.
type Scheduler struct {
	running bool
	last    time.Time
	started time.Time
	frames  uint64
}

// Start arms the scheduler. The first tick reports zero elapsed time.
func (s *Scheduler) Start() {
	s.running = true
	s.last = time.Time{}
	s.started = time.Time{}
	s.frames = 0
}

// Stop disarms the scheduler; later ticks are refused.
func (s *Scheduler) Stop() { s.running = false }

func (s *Scheduler) Running() bool { return s.running }

// Frames returns the number of ticks since Start.
func (s *Scheduler) Frames() uint64 { return s.frames }

// Advance records a tick at now and returns the time since the previous
// tick. ok is false when the scheduler is stopped.
func (s *Scheduler) Advance(now time.Time) (elapsed time.Duration, ok bool) {
	if !s.running {
		return 0, false
	}
	if s.last.IsZero() {
		s.started = now
	} else {
		elapsed = max(now.Sub(s.last), 0)
	}
	s.last = now
	s.frames++
	return elapsed, true
}

// Uptime returns the time between the first and the latest tick.
func (s *Scheduler) Uptime() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return s.last.Sub(s.started)
}
