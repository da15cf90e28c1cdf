package game

import (
	"math"
	"time"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/telemetry"
)

// PhaseTimer receives phase boundaries during Tick. It is satisfied by
// *telemetry.PerfCollector.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Tick advances the simulation by delta. It does nothing unless the session
// is Started. Order within a tick is fixed: due timers in registration order,
// then pending player movement, then the energy check.
func (s *Session) Tick(delta time.Duration) {
	s.TickTimed(delta, nil)
}

// TickTimed is Tick with phase timing.
func (s *Session) TickTimed(delta time.Duration, pt PhaseTimer) {
	if s.state != Started {
		return
	}
	s.scheduler.Advance(delta)

	startPhase(pt, telemetry.PhaseTimers)
	s.scheduler.Fire()
	if s.state == Over {
		return
	}

	startPhase(pt, telemetry.PhaseMovement)
	s.resolveMovement()

	startPhase(pt, telemetry.PhaseTerminal)
	if s.world.Player.Energy.Depleted() {
		s.over(CauseStarved)
	}
}

func startPhase(pt PhaseTimer, phase string) {
	if pt != nil {
		pt.StartPhase(phase)
	}
}

// resolveMovement applies the queued step. A purely horizontal or vertical
// step turns the player first; the move itself costs energy in proportion to
// the distance and is cancelled if the target is occupied.
func (s *Session) resolveMovement() {
	p := s.world.Player
	target := s.pendingPos

	switch {
	case target.X != p.Pos.X && target.Y == p.Pos.Y,
		target.Y != p.Pos.Y && target.X == p.Pos.X:
		p.FaceTowards(target)
	}

	if !s.world.CanMoveTo(target) {
		s.pendingPos = p.Pos
		return
	}
	cost := math.Round(components.Dist(target, p.Pos) * s.cfg.Player.MoveCost)
	p.Energy.Add(-int(cost))
	p.Pos = target
}
