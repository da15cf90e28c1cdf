package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/systems"
	"github.com/pthm-cable/demnuts/telemetry"
)

// State is the session lifecycle tag. Each tag accepts a different set of
// operations: only Started runs the simulation and accepts commands.
type State uint8

const (
	NotStarted State = iota
	Started
	Paused
	Over
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Over:
		return "over"
	}
	return "unknown"
}

// Start begins play from the main menu. It is a no-op in any other state.
func (s *Session) Start() bool {
	if s.state != NotStarted {
		return false
	}
	s.state = Started
	slog.Debug("session started", "seed", s.seed)
	s.emit(telemetry.NewSeasonEvent(s.Now(), s.season.String(), s.level))
	return true
}

// Pause suspends a running game.
func (s *Session) Pause() bool {
	if s.state != Started {
		return false
	}
	s.state = Paused
	return true
}

// Resume continues a paused game.
func (s *Session) Resume() bool {
	if s.state != Paused {
		return false
	}
	s.state = Started
	return true
}

// Level scaling.

func (s *Session) nutsForLevel() int {
	return max(1, s.cfg.Nuts.BaseCount-s.level)
}

func (s *Session) nutSpawnPeriod() time.Duration {
	return s.cfg.Nuts.SpawnBase + time.Duration(s.level)*s.cfg.Nuts.SpawnPerLevel
}

// foxesForLevel rounds level/2 half up.
func (s *Session) foxesForLevel() int {
	return (s.level + 1) / 2
}

// initSeason installs the canonical timer set for the current season and
// repopulates the world.
func (s *Session) initSeason() {
	sch := s.scheduler
	sch.Schedule("daylight", s.cfg.Daylight.TransitionRate, s.daylightTransition)
	sch.Schedule("round", s.cfg.Seasons.RoundPeriod, s.updateRoundElapsed)
	sch.Schedule("energy_loss", s.cfg.Energy.LossPeriod, s.energyLoss)
	sch.Schedule("squirrels", s.cfg.Squirrels.MovePeriod, s.tickSquirrels)
	sch.Schedule("foxes", s.cfg.Foxes.MovePeriod, s.tickFoxes)

	s.roundElapsed = 0
	s.transition = false
	s.spawnFoxes(s.foxesForLevel())

	// Buried nuts survive the season change; visible ones rot.
	s.world.ClearNuts(components.NutActive)
	if s.season == Summer {
		s.spawnSquirrels(s.cfg.Squirrels.Count)
		for range s.nutsForLevel() {
			s.spawnNut()
		}
		sch.Schedule("nut_spawn", s.nutSpawnPeriod(), s.spawnNutTimer)
	} else {
		s.spawnSquirrels(0)
	}
}

// nextSeason ends the round: the daylight timers are replaced by a dusk ramp
// and the completion timer.
func (s *Session) nextSeason() {
	s.scheduler.Reset()
	s.transition = true
	s.scheduler.Schedule("nightfall", s.cfg.Daylight.TransitionRate, s.nightfallTransition)
	s.scheduler.Schedule("complete_season", s.cfg.Daylight.TransitionLength, s.completeSeason)
}

// completeSeason checks whether the player sheltered in a tree and, if so,
// moves on to the next season. Winter to summer raises the level.
func (s *Session) completeSeason(_ *systems.Timer, _ time.Duration) {
	s.scheduler.Reset()

	if !s.world.IsTree(s.world.Player.Pos) {
		s.over(CauseOwl)
		return
	}

	s.stats.SeasonsSurvived++
	if s.season == Summer {
		s.season = Winter
	} else {
		s.season = Summer
		s.level++
	}
	s.initSeason()

	slog.Debug("season started", "session", s, "buried_nuts", len(s.world.BuriedNuts()))
	s.emit(telemetry.NewSeasonEvent(s.Now(), s.season.String(), s.level))
}

// Timer actions. Each scales its effect by the time since it last fired.

func (s *Session) nightfallTransition(t *systems.Timer, now time.Duration) {
	s.nightfall += float64(t.Elapsed(now)) / float64(s.cfg.Daylight.TransitionRate)
}

func (s *Session) daylightTransition(t *systems.Timer, now time.Duration) {
	if s.nightfall >= 0 {
		s.nightfall -= float64(t.Elapsed(now)) / float64(s.cfg.Daylight.TransitionRate)
	}
}

func (s *Session) updateRoundElapsed(t *systems.Timer, now time.Duration) {
	s.roundElapsed += t.Elapsed(now)
	if s.roundElapsed > s.RoundDuration() {
		s.nextSeason()
	}
}

func (s *Session) energyLoss(t *systems.Timer, now time.Duration) {
	loss := int(t.Elapsed(now).Seconds() * s.cfg.Energy.LossPerSec)
	s.world.Player.Energy.Add(-loss)
}

func (s *Session) spawnNutTimer(_ *systems.Timer, _ time.Duration) {
	s.spawnNut()
}

func (s *Session) tickSquirrels(_ *systems.Timer, now time.Duration) {
	for _, sq := range s.world.Squirrels {
		res := s.foragers.Update(s.world, sq)
		if res.Ate {
			s.emit(telemetry.NewSquirrelMealEvent(now, sq.ID, res.Nut.ID, res.Nut.Pos))
		}
	}
}

func (s *Session) tickFoxes(_ *systems.Timer, now time.Duration) {
	for _, fox := range s.world.Foxes {
		res := s.predators.Update(s.world, fox)
		switch {
		case res.Caught:
			s.over(CauseFox)
		case res.Raided:
			s.emit(telemetry.NewFoxRaidEvent(now, fox.ID, res.Nut.ID, res.Nut.Pos))
		}
	}
}
