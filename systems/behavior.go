package systems

import (
	"math/rand"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/world"
)

// Species is the movement capability of one kind of NPC.
type Species interface {
	// CanEnter reports whether a member of the species may step onto p.
	CanEnter(w *world.World, p components.Point) bool
}

// PassableFor binds a species' movement rule to a world for the pathfinder.
func PassableFor(sp Species, w *world.World) Passable {
	return func(p components.Point) bool { return sp.CanEnter(w, p) }
}

// wander turns the actor to a random cardinal direction and steps that way if
// the species allows it. The new facing sticks even when the step is blocked.
func wander(w *world.World, a *components.Actor, sp Species, rng *rand.Rand) bool {
	a.Facing = components.Directions[rng.Intn(len(components.Directions))]
	next := w.Clamp(a.Ahead())
	if next == a.Pos || !sp.CanEnter(w, next) {
		return false
	}
	a.Pos = next
	return true
}
