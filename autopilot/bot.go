// Package autopilot is a scripted player used for headless runs and tuning.
package autopilot

import (
	"time"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/game"
	"github.com/pthm-cable/demnuts/systems"
	"github.com/pthm-cable/demnuts/world"
)

// Bot plays a session with simple priorities: shelter when danger is near,
// cache a carried nut, then forage.
type Bot struct {
	interval       time.Duration
	shelterMargin  time.Duration
	eatBelow       int
	attackDistance float64

	pf   *systems.Pathfinder
	next time.Duration
}

// New creates a bot for sessions using cfg.
func New(cfg *config.Config) *Bot {
	return &Bot{
		interval:       cfg.Autopilot.ThinkInterval,
		shelterMargin:  cfg.Autopilot.ShelterMargin,
		eatBelow:       cfg.Autopilot.EatBelow,
		attackDistance: cfg.Foxes.AttackDistance,
		pf:             systems.NewPathfinder(),
	}
}

// Step implements game.Controller. The bot thinks at most once per interval
// of simulation time.
func (b *Bot) Step(s *game.Session) {
	if s.State() != game.Started || s.Now() < b.next {
		return
	}
	b.next = s.Now() + b.interval

	w := s.World()
	p := w.Player
	switch {
	case b.inDanger(s):
		b.shelter(s)
	case p.IsCarrying():
		b.cache(s)
	case s.Season() == game.Winter && p.Energy.Value() < b.eatBelow:
		if !b.approach(s, nutPositions(w.BuriedNuts()), game.BuryOrDig) {
			b.approach(s, nutPositions(w.ActiveNuts()), game.Eat)
		}
	default:
		action := game.BuryOrDig
		if p.Energy.Value() < b.eatBelow {
			action = game.Eat
		}
		b.approach(s, nutPositions(w.ActiveNuts()), action)
	}
}

// inDanger reports whether the round is about to end or a fox is close.
func (b *Bot) inDanger(s *game.Session) bool {
	if s.Transitioning() || s.RoundDuration()-s.RoundElapsed() <= b.shelterMargin {
		return true
	}
	w := s.World()
	for _, f := range w.Foxes {
		if components.Dist(f.Pos, w.Player.Pos) <= b.attackDistance {
			return true
		}
	}
	return false
}

// shelter heads for the nearest tree.
func (b *Bot) shelter(s *game.Session) {
	w := s.World()
	if w.IsTree(w.Player.Pos) {
		return
	}
	tree, ok := nearest(w.Player.Pos, treePositions(w.Map()))
	if !ok {
		return
	}
	path := b.pf.FindPath(w, w.Player.Pos, tree, w.CanMoveTo, 0)
	if len(path) > 1 {
		step(s, w.Player.Pos, path[1])
	}
}

// cache buries the carried nut next to the player, or wanders to find room.
func (b *Bot) cache(s *game.Session) {
	w := s.World()
	p := w.Player
	for _, d := range components.Directions {
		dx, dy := d.Delta()
		target := p.Pos.Add(dx, dy)
		if w.CanBuryNut(target) && w.IsTree(target) == w.IsTree(p.Pos) {
			s.Face(d)
			s.Interact(game.BuryOrDig)
			return
		}
	}
	for _, d := range components.Directions {
		dx, dy := d.Delta()
		if w.CanMoveTo(p.Pos.Add(dx, dy)) {
			s.Move(d)
			return
		}
	}
}

// approach walks next to the nearest reachable target and applies action once
// it is directly ahead. Returns false if there was nothing to go for.
func (b *Bot) approach(s *game.Session, targets []components.Point, action game.Action) bool {
	w := s.World()
	p := w.Player
	target, ok := nearest(p.Pos, targets)
	if !ok {
		return false
	}
	if components.Dist(p.Pos, target) == 1 {
		d, _ := components.FacingFrom(p.Pos, target)
		s.Face(d)
		s.Interact(action)
		return true
	}
	path := b.pf.FindPath(w, p.Pos, target, w.CanMoveTo, 1)
	if len(path) < 2 {
		return false
	}
	step(s, p.Pos, path[1])
	return true
}

// step queues the moves that take the player from one cell to an adjacent
// one. Diagonal steps queue both axes.
func step(s *game.Session, from, to components.Point) {
	switch {
	case to.X < from.X:
		s.Move(components.Left)
	case to.X > from.X:
		s.Move(components.Right)
	}
	switch {
	case to.Y < from.Y:
		s.Move(components.Up)
	case to.Y > from.Y:
		s.Move(components.Down)
	}
}

// nearest returns the candidate closest to p; ties go to the smaller point.
func nearest(p components.Point, candidates []components.Point) (components.Point, bool) {
	var best components.Point
	bestDist := -1.0
	for _, c := range candidates {
		d := components.Dist(p, c)
		if bestDist < 0 || d < bestDist || (d == bestDist && c.Less(best)) {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func nutPositions(nuts []world.Nut) []components.Point {
	out := make([]components.Point, len(nuts))
	for i, n := range nuts {
		out[i] = n.Pos
	}
	return out
}

func treePositions(m world.Map) []components.Point {
	var out []components.Point
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			p := components.Point{X: x, Y: y}
			if m.At(p) == world.TileTree {
				out = append(out, p)
			}
		}
	}
	return out
}
