package world

import (
	"cmp"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/demnuts/components"
)

// Nut is a read-only view of a nut entity.
type Nut struct {
	components.Nut
	Pos components.Point
}

// nutStore keeps nuts as ECS entities with a Point and a Nut component.
// The id index resolves stale IDs in O(1); positional lookups scan the filter.
type nutStore struct {
	ecs    *ecs.World
	mapper *ecs.Map2[components.Point, components.Nut]
	filter *ecs.Filter2[components.Point, components.Nut]
	posMap *ecs.Map[components.Point]
	nutMap *ecs.Map[components.Nut]
	index  map[components.NutID]ecs.Entity
}

func newNutStore() *nutStore {
	w := ecs.NewWorld()
	return &nutStore{
		ecs:    w,
		mapper: ecs.NewMap2[components.Point, components.Nut](w),
		filter: ecs.NewFilter2[components.Point, components.Nut](w),
		posMap: ecs.NewMap[components.Point](w),
		nutMap: ecs.NewMap[components.Nut](w),
		index:  make(map[components.NutID]ecs.Entity),
	}
}

// add inserts a nut. A nut whose ID is already present is replaced.
func (s *nutStore) add(n components.Nut, p components.Point) {
	s.remove(n.ID)
	e := s.mapper.NewEntity(&p, &n)
	s.index[n.ID] = e
}

func (s *nutStore) get(id components.NutID) (Nut, bool) {
	e, ok := s.index[id]
	if !ok || !s.ecs.Alive(e) {
		return Nut{}, false
	}
	return Nut{Nut: *s.nutMap.Get(e), Pos: *s.posMap.Get(e)}, true
}

func (s *nutStore) remove(id components.NutID) bool {
	e, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	if s.ecs.Alive(e) {
		s.ecs.RemoveEntity(e)
	}
	return true
}

func (s *nutStore) setState(id components.NutID, st components.NutState) bool {
	e, ok := s.index[id]
	if !ok {
		return false
	}
	s.nutMap.Get(e).State = st
	return true
}

// at returns the first nut found at p, regardless of state.
func (s *nutStore) at(p components.Point) (Nut, bool) {
	query := s.filter.Query()
	for query.Next() {
		pos, nut := query.Get()
		if *pos == p {
			found := Nut{Nut: *nut, Pos: *pos}
			query.Close()
			return found, true
		}
	}
	return Nut{}, false
}

// list returns nuts matching the state filter (0 = any), ordered by ID.
func (s *nutStore) list(state components.NutState) []Nut {
	var out []Nut
	query := s.filter.Query()
	for query.Next() {
		pos, nut := query.Get()
		if state == 0 || nut.State == state {
			out = append(out, Nut{Nut: *nut, Pos: *pos})
		}
	}
	slices.SortFunc(out, func(a, b Nut) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// clear removes every nut in the given state (0 = all).
// Entities are collected first because the world is locked while a query runs.
func (s *nutStore) clear(state components.NutState) int {
	victims := s.list(state)
	for _, n := range victims {
		s.remove(n.ID)
	}
	return len(victims)
}

func (s *nutStore) len() int { return len(s.index) }
