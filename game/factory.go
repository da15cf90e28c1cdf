package game

import (
	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/telemetry"
)

// IDAllocator hands out monotonic per-kind IDs. IDs are never reused, even
// after the entity is gone or the session is reset.
type IDAllocator struct {
	nut      components.NutID
	squirrel uint32
	fox      uint32
}

// NewIDAllocator returns an allocator whose first ID of every kind is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// NextNut returns a fresh nut ID.
func (a *IDAllocator) NextNut() components.NutID {
	a.nut++
	return a.nut
}

// NextSquirrel returns a fresh squirrel ID.
func (a *IDAllocator) NextSquirrel() uint32 {
	a.squirrel++
	return a.squirrel
}

// NextFox returns a fresh fox ID.
func (a *IDAllocator) NextFox() uint32 {
	a.fox++
	return a.fox
}

// findSpawnPoint samples random cells until accept passes or the attempt
// budget runs out.
func (s *Session) findSpawnPoint(accept func(components.Point) bool) (components.Point, bool) {
	for range max(1, s.cfg.Nuts.SpawnAttempts) {
		p := s.world.RandomPoint(s.rng)
		if accept(p) {
			return p, true
		}
	}
	return components.Point{}, false
}

// spawnNut drops an active nut on a random free cell. The spawn is skipped if
// no free cell turns up.
func (s *Session) spawnNut() {
	p, ok := s.findSpawnPoint(func(p components.Point) bool {
		if _, taken := s.world.NutAt(p); taken {
			return false
		}
		return s.world.CanMoveTo(p)
	})
	if !ok {
		return
	}
	n := components.Nut{
		ID:     s.ids.NextNut(),
		State:  components.NutActive,
		Energy: s.cfg.Nuts.Energy,
	}
	s.world.AddNut(n, p)
	s.emit(telemetry.NewNutEvent(telemetry.EventNutSpawned, s.Now(), n.ID, p))
}

// spawnSquirrels replaces the squirrel population.
func (s *Session) spawnSquirrels(n int) {
	s.world.Squirrels = make([]*components.Squirrel, 0, n)
	for range n {
		p, ok := s.findSpawnPoint(s.world.CanMoveTo)
		if !ok {
			continue
		}
		s.world.Squirrels = append(s.world.Squirrels, &components.Squirrel{
			Actor:  components.Actor{Pos: p, Facing: components.Right},
			ID:     s.ids.NextSquirrel(),
			Energy: components.NewEnergy(components.MaxEnergy),
			State:  components.ForagerRandom,
		})
	}
}

// spawnFoxes replaces the fox population. Foxes start on cells they could
// walk onto.
func (s *Session) spawnFoxes(n int) {
	s.world.Foxes = make([]*components.Fox, 0, n)
	for range n {
		p, ok := s.findSpawnPoint(func(p components.Point) bool {
			return s.predators.CanEnter(s.world, p)
		})
		if !ok {
			continue
		}
		s.world.Foxes = append(s.world.Foxes, &components.Fox{
			Actor:  components.Actor{Pos: p, Facing: components.Down},
			ID:     s.ids.NextFox(),
			Energy: components.NewEnergy(components.MaxEnergy),
			State:  components.PredatorRandom,
		})
	}
}
