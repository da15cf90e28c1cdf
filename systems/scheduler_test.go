package systems

import (
	"testing"
	"time"
)

func TestSchedulerWaitsForPeriod(t *testing.T) {
	s := NewScheduler()
	s.Advance(10 * time.Millisecond)

	var elapsed []time.Duration
	s.Schedule("probe", 100*time.Millisecond, func(tm *Timer, now time.Duration) {
		elapsed = append(elapsed, tm.Elapsed(now))
	})

	steps := []struct {
		advance time.Duration
		fires   int
	}{
		{50 * time.Millisecond, 0},
		{50 * time.Millisecond, 0}, // exactly one period is not enough
		{1 * time.Millisecond, 1},
		{30 * time.Millisecond, 0},
	}
	for i, st := range steps {
		s.Advance(st.advance)
		if got := s.Fire(); got != st.fires {
			t.Errorf("step %d: Fire() = %d, want %d", i, got, st.fires)
		}
	}
	if len(elapsed) != 1 || elapsed[0] != 101*time.Millisecond {
		t.Errorf("elapsed = %v, want [101ms]", elapsed)
	}
}

func TestSchedulerDoesNotCatchUp(t *testing.T) {
	s := NewScheduler()
	var calls int
	var seen time.Duration
	s.Schedule("drain", 10*time.Millisecond, func(tm *Timer, now time.Duration) {
		calls++
		seen = tm.Elapsed(now)
	})

	s.Advance(time.Second)
	s.Fire()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after a long stall", calls)
	}
	if seen != time.Second {
		t.Errorf("elapsed = %s, want 1s", seen)
	}
	if s.Fire() != 0 {
		t.Error("timer fired twice at the same instant")
	}
}

func TestSchedulerElapsedNeverBelowPeriod(t *testing.T) {
	s := NewScheduler()
	period := 7 * time.Millisecond
	s.Schedule("p", period, func(tm *Timer, now time.Duration) {
		if e := tm.Elapsed(now); e < period {
			t.Errorf("elapsed %s below period %s", e, period)
		}
	})
	for i := 0; i < 500; i++ {
		s.Advance(time.Duration(i%5) * time.Millisecond)
		s.Fire()
	}
}

func TestSchedulerRegistrationOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		s.Schedule(name, time.Millisecond, func(tm *Timer, _ time.Duration) {
			order = append(order, tm.Name)
		})
	}
	s.Advance(2 * time.Millisecond)
	s.Fire()
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestSchedulerResetDuringFire(t *testing.T) {
	s := NewScheduler()
	var fired []string
	s.Schedule("transition", time.Millisecond, func(*Timer, time.Duration) {
		fired = append(fired, "transition")
		s.Reset()
		s.Schedule("next", time.Millisecond, func(*Timer, time.Duration) {
			fired = append(fired, "next")
		})
	})
	s.Schedule("stale", time.Millisecond, func(*Timer, time.Duration) {
		fired = append(fired, "stale")
	})

	s.Advance(5 * time.Millisecond)
	s.Fire()
	if len(fired) != 1 || fired[0] != "transition" {
		t.Fatalf("fired = %v, want only [transition]", fired)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 replacement timer", s.Len())
	}

	// The replacement was registered at 5ms and needs its own full period.
	s.Fire()
	if len(fired) != 1 {
		t.Errorf("replacement fired without time passing: %v", fired)
	}
	s.Advance(2 * time.Millisecond)
	s.Fire()
	if len(fired) != 2 || fired[1] != "next" {
		t.Errorf("fired = %v, want [transition next]", fired)
	}
}

func TestSchedulerAddDuringFire(t *testing.T) {
	s := NewScheduler()
	added := false
	var extra int
	s.Schedule("spawner", time.Millisecond, func(*Timer, time.Duration) {
		if !added {
			added = true
			s.Schedule("extra", 0, func(*Timer, time.Duration) { extra++ })
		}
	})
	s.Advance(2 * time.Millisecond)
	s.Fire()
	if extra != 0 {
		t.Errorf("timer added mid-pass fired in the same pass")
	}
	s.Advance(time.Millisecond)
	s.Fire()
	if extra != 1 {
		t.Errorf("extra fired %d times, want 1", extra)
	}
}

func TestSchedulerAdvanceIgnoresNegative(t *testing.T) {
	s := NewScheduler()
	s.Advance(5 * time.Millisecond)
	s.Advance(-10 * time.Millisecond)
	if s.Now() != 5*time.Millisecond {
		t.Errorf("Now = %s, want 5ms", s.Now())
	}
}
