// Package game orchestrates a play session: it owns the world, the scheduler
// and the NPC systems, applies player commands and advances seasons.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/systems"
	"github.com/pthm-cable/demnuts/telemetry"
	"github.com/pthm-cable/demnuts/world"
)

// Game-over causes.
const (
	CauseStarved = "You ran out of energy!"
	CauseFox     = "You got eaten by a fox!"
	CauseOwl     = "You got eaten by an owl!"
)

// Season is the current half of the year.
type Season uint8

const (
	Summer Season = iota
	Winter
)

func (s Season) String() string {
	if s == Winter {
		return "winter"
	}
	return "summer"
}

// Stats are the player's achievements for the session.
type Stats struct {
	NutsEaten       int
	NutsBuried      int // distinct nuts ever buried
	SeasonsSurvived int
}

// Session is one game from the main menu to game over.
// All methods must be called from a single goroutine.
type Session struct {
	cfg  *config.Config
	grid world.Map
	seed int64
	rng  *rand.Rand

	world     *world.World
	scheduler *systems.Scheduler
	foragers  *systems.ForagerSystem
	predators *systems.PredatorSystem
	ids       *IDAllocator

	state        State
	season       Season
	level        int
	roundElapsed time.Duration
	nightfall    float64
	transition   bool // between round end and the next season
	pendingPos   components.Point

	stats  Stats
	buried map[components.NutID]struct{}
	cause  string

	observers []telemetry.Observer
}

// NewSession creates a session over the given map. The session starts in the
// NotStarted state with the first summer already populated.
func NewSession(cfg *config.Config, m world.Map, seed int64) *Session {
	return NewSessionWithIDs(cfg, m, seed, NewIDAllocator())
}

// NewSessionWithIDs is NewSession drawing entity IDs from ids, so sessions
// played one after another in a process never repeat a nut ID.
func NewSessionWithIDs(cfg *config.Config, m world.Map, seed int64, ids *IDAllocator) *Session {
	s := &Session{
		cfg:  cfg,
		grid: m,
		seed: seed,
		ids:  ids,
	}
	s.Reset()
	return s
}

// Reset discards the current game and sets up a fresh one with the same seed.
// Observers and the ID allocator stay attached, so IDs keep counting up.
func (s *Session) Reset() {
	s.rng = rand.New(rand.NewSource(s.seed))
	start := components.Point{X: s.cfg.Player.StartX, Y: s.cfg.Player.StartY}
	s.world = world.New(s.grid, s.cfg.World.GroundTiles, start, s.rng)
	s.world.Player.Energy.Set(s.cfg.Player.InitialEnergy)
	s.scheduler = systems.NewScheduler()
	s.foragers = systems.NewForagerSystem(s.cfg.Squirrels, s.rng)
	s.predators = systems.NewPredatorSystem(s.cfg.Foxes, s.rng)

	s.stats = Stats{}
	s.buried = make(map[components.NutID]struct{})
	s.cause = ""
	s.level = 1
	s.season = Summer
	s.nightfall = s.cfg.Daylight.InitialNightfall
	s.transition = false
	s.initSeason()

	s.pendingPos = s.world.Player.Pos
	s.state = NotStarted
}

// AddObserver registers an observer for domain events.
func (s *Session) AddObserver(o telemetry.Observer) {
	s.observers = append(s.observers, o)
}

// World returns the live world. Callers must not mutate it.
func (s *Session) World() *world.World { return s.world }

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Seed returns the seed the session was created with.
func (s *Session) Seed() int64 { return s.seed }

// Season returns the current season.
func (s *Session) Season() Season { return s.season }

// Level returns the current level, starting at 1.
func (s *Session) Level() int { return s.level }

// RoundElapsed returns the time spent in the current round.
func (s *Session) RoundElapsed() time.Duration { return s.roundElapsed }

// RoundDuration returns the length of the current season's round.
func (s *Session) RoundDuration() time.Duration {
	return s.cfg.RoundDuration(s.season == Winter)
}

// Nightfall returns the raw nightfall intensity.
func (s *Session) Nightfall() float64 { return s.nightfall }

// Darkness returns nightfall as a fraction of full darkness in [0, 1].
func (s *Session) Darkness() float64 {
	d := s.nightfall / s.cfg.MaxNightfall()
	return max(0, min(1, d))
}

// Transitioning reports whether the round is over and the next season is
// about to begin.
func (s *Session) Transitioning() bool { return s.transition }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Over returns the game-over cause, or false if the game is still running.
func (s *Session) Over() (string, bool) {
	return s.cause, s.state == Over
}

// Stats returns the session achievements.
func (s *Session) Stats() Stats { return s.stats }

// Now returns the simulation clock.
func (s *Session) Now() time.Duration { return s.scheduler.Now() }

// emit sends an event to every observer.
func (s *Session) emit(e telemetry.Event) {
	for _, o := range s.observers {
		o.OnEvent(e)
	}
}

// over ends the session. The first cause wins.
func (s *Session) over(cause string) {
	if s.state == Over {
		return
	}
	s.cause = cause
	s.state = Over
	slog.Debug("game over", "session", s)
	s.emit(telemetry.NewGameOverEvent(s.Now(), cause, s.world.Player.Pos))
}
