package systems

import "time"

// Action is invoked when a timer fires. It should scale its effect by
// t.Elapsed(now) rather than assume one period has passed.
type Action func(t *Timer, now time.Duration)

// Timer is a periodic action registered with a Scheduler.
type Timer struct {
	Name      string
	Period    time.Duration
	LastFired time.Duration
	action    Action
}

// Elapsed returns the time since the timer last fired (or was registered).
func (t *Timer) Elapsed(now time.Duration) time.Duration {
	return now - t.LastFired
}

// Scheduler evaluates independent periodic timers against a monotonic
// simulation clock. Timers do not catch up: a timer that is late fires once
// and observes the whole elapsed interval.
type Scheduler struct {
	now        time.Duration
	timers     []*Timer
	generation uint64 // bumped by Reset so an in-flight pass can stop
}

// NewScheduler creates a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the simulation clock.
func (s *Scheduler) Now() time.Duration { return s.now }

// Len returns the number of registered timers.
func (s *Scheduler) Len() int { return len(s.timers) }

// Advance moves the clock forward. Negative deltas are ignored.
func (s *Scheduler) Advance(delta time.Duration) {
	if delta > 0 {
		s.now += delta
	}
}

// Schedule registers an action to run every period. The first firing happens
// strictly more than one period from now.
func (s *Scheduler) Schedule(name string, period time.Duration, action Action) *Timer {
	t := &Timer{Name: name, Period: period, LastFired: s.now, action: action}
	s.timers = append(s.timers, t)
	return t
}

// Reset discards every timer. When called from inside an action the rest of
// the current pass is skipped.
func (s *Scheduler) Reset() {
	s.timers = nil
	s.generation++
}

// Fire runs every due timer once, in registration order, and returns how many
// fired. Timers added during the pass are first considered on the next pass.
func (s *Scheduler) Fire() int {
	gen := s.generation
	pending := s.timers
	fired := 0
	for _, t := range pending {
		if s.now <= t.LastFired+t.Period {
			continue
		}
		t.action(t, s.now)
		t.LastFired = s.now
		fired++
		if s.generation != gen {
			break
		}
	}
	return fired
}
