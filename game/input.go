package game

import (
	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/telemetry"
)

// Action is an interaction with the cell the player faces.
type Action uint8

const (
	Eat       Action = iota + 1 // eat an active nut
	BuryOrDig                   // pick up, bury or dig up a nut
	Retile                      // reroll the ground decoration
)

func (a Action) String() string {
	switch a {
	case Eat:
		return "eat"
	case BuryOrDig:
		return "bury_or_dig"
	case Retile:
		return "retile"
	}
	return "unknown"
}

// Commands are ignored unless the session is Started.

// Move queues a one-cell step. Steps accumulate until the next Tick resolves
// them, and the target is kept on the map.
func (s *Session) Move(d components.Direction) {
	if s.state != Started {
		return
	}
	dx, dy := d.Delta()
	s.pendingPos = s.world.Clamp(s.pendingPos.Add(dx, dy))
}

// Face turns the player without moving.
func (s *Session) Face(d components.Direction) {
	if s.state != Started || d < components.Up || d > components.Right {
		return
	}
	s.world.Player.Facing = d
}

// Rotate turns the player a quarter.
func (s *Session) Rotate(r components.Rotation) {
	if s.state != Started {
		return
	}
	p := s.world.Player
	p.Facing = p.Facing.Rotate(r)
}

// Interact applies an action to the faced cell and reports whether anything
// changed.
func (s *Session) Interact(a Action) bool {
	if s.state != Started {
		return false
	}
	target := s.world.Player.Ahead()
	switch a {
	case Eat:
		return s.eat(target)
	case BuryOrDig:
		return s.buryOrDig(target)
	case Retile:
		if !s.world.InBounds(target) {
			return false
		}
		return s.world.SetTile(target, s.rng.Intn(s.world.GroundTiles()))
	}
	return false
}

func (s *Session) eat(target components.Point) bool {
	nut, ok := s.world.NutAt(target)
	if !ok || nut.State != components.NutActive {
		return false
	}
	s.stats.NutsEaten++
	s.world.Player.Energy.Add(nut.Energy)
	s.world.RemoveNut(nut.ID)
	s.emit(telemetry.NewNutEvent(telemetry.EventNutEaten, s.Now(), nut.ID, target))
	return true
}

// buryOrDig only works when the player and the faced cell are both on the
// ground or both in trees.
func (s *Session) buryOrDig(target components.Point) bool {
	w := s.world
	p := w.Player
	if w.IsTree(target) != w.IsTree(p.Pos) {
		return false
	}

	if p.IsCarrying() && w.CanBuryNut(target) {
		n := *p.Carrying
		n.State = components.NutBuried
		w.AddNut(n, target)
		p.Carrying = nil
		if _, seen := s.buried[n.ID]; !seen {
			s.buried[n.ID] = struct{}{}
			s.stats.NutsBuried++
		}
		s.emit(telemetry.NewNutEvent(telemetry.EventNutBuried, s.Now(), n.ID, target))
		return true
	}

	nut, ok := w.NutAt(target)
	if !ok || p.IsCarrying() {
		return false
	}
	switch nut.State {
	case components.NutActive:
		carried := nut.Nut
		p.Carrying = &carried
		w.RemoveNut(nut.ID)
		s.emit(telemetry.NewNutEvent(telemetry.EventNutPickedUp, s.Now(), nut.ID, target))
		return true
	case components.NutBuried:
		w.SetNutState(nut.ID, components.NutActive)
		s.emit(telemetry.NewNutEvent(telemetry.EventNutDug, s.Now(), nut.ID, target))
		return true
	}
	return false
}
