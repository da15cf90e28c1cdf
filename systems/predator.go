package systems

import (
	"math/rand"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/world"
)

// PredatorResult reports what a fox did on its tick.
type PredatorResult struct {
	Moved  bool
	Caught bool      // the fox reached the player
	Raided bool      // the fox dug up and ate a buried nut
	Nut    world.Nut // the raided nut, when Raided
}

// PredatorSystem drives foxes: they chase a nearby exposed player, raid nut
// caches and otherwise wander. Foxes cannot enter trees.
type PredatorSystem struct {
	rng             *rand.Rand
	pf              *Pathfinder
	attackDistance  float64
	huntProbability float64
}

// NewPredatorSystem creates the fox behavior.
func NewPredatorSystem(cfg config.FoxesConfig, rng *rand.Rand) *PredatorSystem {
	return &PredatorSystem{
		rng:             rng,
		pf:              NewPathfinder(),
		attackDistance:  cfg.AttackDistance,
		huntProbability: cfg.HuntProbability,
	}
}

// CanEnter implements Species.
func (s *PredatorSystem) CanEnter(w *world.World, p components.Point) bool {
	return w.CanMoveTo(p) && !w.IsTree(p)
}

// Update advances one fox by one tick.
func (s *PredatorSystem) Update(w *world.World, fox *components.Fox) PredatorResult {
	if p := w.Player; p != nil && components.Dist(fox.Pos, p.Pos) <= s.attackDistance && !w.IsTree(p.Pos) {
		return s.chase(w, fox, p.Pos)
	}

	if fox.State == components.PredatorRandom {
		s.maybeHunt(w, fox)
	}
	if fox.State == components.PredatorHunting {
		return s.hunt(w, fox)
	}
	return PredatorResult{Moved: wander(w, &fox.Actor, s, s.rng)}
}

// chase overrides the fox's state for this tick.
func (s *PredatorSystem) chase(w *world.World, fox *components.Fox, target components.Point) PredatorResult {
	path := s.pf.FindPath(w, fox.Pos, target, PassableFor(s, w), 1)
	switch {
	case len(path) > 1:
		fox.MoveTo(path[1])
		fox.FaceTowards(target)
		return PredatorResult{Moved: true}
	case len(path) == 1:
		fox.FaceTowards(target)
		return PredatorResult{Caught: true}
	}
	return PredatorResult{}
}

func (s *PredatorSystem) maybeHunt(w *world.World, fox *components.Fox) {
	buried := w.BuriedNuts()
	if len(buried) == 0 || s.rng.Float64() >= s.huntProbability {
		return
	}
	fox.State = components.PredatorHunting
	fox.Target = buried[s.rng.Intn(len(buried))].Pos
}

func (s *PredatorSystem) hunt(w *world.World, fox *components.Fox) PredatorResult {
	nut, ok := w.NutAt(fox.Target)
	if !ok || nut.State != components.NutBuried {
		fox.State = components.PredatorRandom
		return PredatorResult{}
	}

	path := s.pf.FindPath(w, fox.Pos, fox.Target, PassableFor(s, w), 0)
	switch {
	case len(path) > 1:
		if next := path[1]; s.CanEnter(w, next) {
			fox.MoveTo(next)
			return PredatorResult{Moved: true}
		}
		return PredatorResult{}
	case len(path) == 1:
		w.RemoveNut(nut.ID)
		fox.State = components.PredatorRandom
		return PredatorResult{Raided: true, Nut: nut}
	default:
		fox.State = components.PredatorRandom
		return PredatorResult{}
	}
}
