package systems

import (
	"math/rand"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/world"
)

// ForagerResult reports what a squirrel did on its tick.
type ForagerResult struct {
	Moved bool
	Ate   bool
	Nut   world.Nut // the nut eaten, when Ate
}

// ForagerSystem drives NPC squirrels: they wander and occasionally go after an
// active nut to eat it.
type ForagerSystem struct {
	rng               *rand.Rand
	pf                *Pathfinder
	getNutProbability float64
}

// NewForagerSystem creates the squirrel behavior.
func NewForagerSystem(cfg config.SquirrelsConfig, rng *rand.Rand) *ForagerSystem {
	return &ForagerSystem{
		rng:               rng,
		pf:                NewPathfinder(),
		getNutProbability: cfg.GetNutProbability,
	}
}

// CanEnter implements Species. Squirrels may climb trees, so only occupancy
// matters.
func (s *ForagerSystem) CanEnter(w *world.World, p components.Point) bool {
	return w.CanMoveTo(p)
}

// Update advances one squirrel by one tick.
func (s *ForagerSystem) Update(w *world.World, sq *components.Squirrel) ForagerResult {
	s.maybeTargetNut(w, sq)

	if sq.State == components.ForagerRandom {
		return ForagerResult{Moved: wander(w, &sq.Actor, s, s.rng)}
	}

	// The target is held by ID and may have been eaten, picked up or buried
	// since the last tick.
	nut, ok := w.Nut(sq.TargetNut)
	if !ok || nut.State != components.NutActive {
		sq.State = components.ForagerRandom
		return ForagerResult{}
	}

	path := s.pf.FindPath(w, sq.Pos, nut.Pos, PassableFor(s, w), 1)
	switch {
	case len(path) > 1:
		if next := path[1]; s.CanEnter(w, next) {
			sq.MoveTo(next)
			return ForagerResult{Moved: true}
		}
		return ForagerResult{}
	case len(path) == 1:
		sq.FaceTowards(nut.Pos)
		w.RemoveNut(nut.ID)
		sq.State = components.ForagerRandom
		return ForagerResult{Ate: true, Nut: nut}
	default:
		sq.State = components.ForagerRandom
		return ForagerResult{}
	}
}

func (s *ForagerSystem) maybeTargetNut(w *world.World, sq *components.Squirrel) {
	if sq.State != components.ForagerRandom {
		return
	}
	active := w.ActiveNuts()
	if len(active) == 0 || s.rng.Float64() >= s.getNutProbability {
		return
	}
	sq.State = components.ForagerGettingNut
	sq.TargetNut = active[s.rng.Intn(len(active))].ID
}
