// Package world holds the static map, the mutable decoration layer and the
// live entity lists, and answers occupancy and spatial queries over them.
package world

import (
	"math/rand"

	"github.com/pthm-cable/demnuts/components"
)

// World is the grid plus everything standing on it.
// Occupancy is never cached: every query scans the entity lists, so it is
// always consistent with the latest movement.
type World struct {
	grid        Map
	tiles       []int // decoration variant per cell, row-major
	groundTiles int
	nuts        *nutStore

	Player    *components.Player
	Squirrels []*components.Squirrel
	Foxes     []*components.Fox
}

// New creates a world over m with randomised decoration tiles and the player
// at start facing down. A start outside the map is clamped onto it.
func New(m Map, groundTiles int, start components.Point, rng *rand.Rand) *World {
	if groundTiles < 1 {
		groundTiles = 1
	}
	w := &World{
		grid:        m,
		tiles:       make([]int, m.Width()*m.Height()),
		groundTiles: groundTiles,
		nuts:        newNutStore(),
		Player: &components.Player{
			Actor:  components.Actor{Pos: start, Facing: components.Down},
			Energy: components.NewEnergy(components.MaxEnergy),
		},
	}
	w.Player.Pos = w.Clamp(start)
	for i := range w.tiles {
		w.tiles[i] = rng.Intn(groundTiles)
	}
	return w
}

// Map returns the static grid.
func (w *World) Map() Map { return w.grid }

// Width returns the map width in tiles.
func (w *World) Width() int { return w.grid.Width() }

// Height returns the map height in tiles.
func (w *World) Height() int { return w.grid.Height() }

// InBounds reports whether p lies on the map.
func (w *World) InBounds(p components.Point) bool { return w.grid.InBounds(p) }

// RandomPoint returns a uniformly random cell.
func (w *World) RandomPoint(rng *rand.Rand) components.Point {
	return components.Point{X: rng.Intn(w.Width()), Y: rng.Intn(w.Height())}
}

// Clamp moves p onto the nearest in-bounds cell.
func (w *World) Clamp(p components.Point) components.Point {
	return components.Point{
		X: max(0, min(w.Width()-1, p.X)),
		Y: max(0, min(w.Height()-1, p.Y)),
	}
}

// CanMoveTo reports whether a blocking entity may enter p: it must be in
// bounds and free of the player, squirrels and active nuts.
// Foxes and buried nuts never block.
func (w *World) CanMoveTo(p components.Point) bool {
	if !w.InBounds(p) {
		return false
	}
	if w.Player != nil && p == w.Player.Pos {
		return false
	}
	for _, sq := range w.Squirrels {
		if p == sq.Pos {
			return false
		}
	}
	if n, ok := w.nuts.at(p); ok && n.State == components.NutActive {
		return false
	}
	return true
}

// IsTree reports whether p is an in-bounds tree tile.
func (w *World) IsTree(p components.Point) bool {
	return w.InBounds(p) && w.grid.At(p) == TileTree
}

// NutAt returns the nut at p in any state.
func (w *World) NutAt(p components.Point) (Nut, bool) {
	if !w.InBounds(p) {
		return Nut{}, false
	}
	return w.nuts.at(p)
}

// IsNPC reports whether a squirrel or fox stands on p.
func (w *World) IsNPC(p components.Point) bool {
	for _, sq := range w.Squirrels {
		if p == sq.Pos {
			return true
		}
	}
	for _, f := range w.Foxes {
		if p == f.Pos {
			return true
		}
	}
	return false
}

// CanBuryNut reports whether a nut may be buried at p: in bounds, not a tree,
// no nut there already and no NPC standing on it.
func (w *World) CanBuryNut(p components.Point) bool {
	if !w.InBounds(p) || w.IsTree(p) {
		return false
	}
	if _, ok := w.NutAt(p); ok {
		return false
	}
	return !w.IsNPC(p)
}

// Nut resolves a nut by ID.
func (w *World) Nut(id components.NutID) (Nut, bool) { return w.nuts.get(id) }

// Nuts returns all nuts ordered by ID.
func (w *World) Nuts() []Nut { return w.nuts.list(0) }

// ActiveNuts returns visible nuts ordered by ID.
func (w *World) ActiveNuts() []Nut { return w.nuts.list(components.NutActive) }

// BuriedNuts returns buried nuts ordered by ID.
func (w *World) BuriedNuts() []Nut { return w.nuts.list(components.NutBuried) }

// NutCount returns the number of nuts in the world.
func (w *World) NutCount() int { return w.nuts.len() }

// AddNut places n at p.
func (w *World) AddNut(n components.Nut, p components.Point) { w.nuts.add(n, p) }

// RemoveNut deletes a nut. Returns false if the ID no longer resolves.
func (w *World) RemoveNut(id components.NutID) bool { return w.nuts.remove(id) }

// SetNutState changes a nut's state. Returns false if the ID no longer resolves.
func (w *World) SetNutState(id components.NutID, st components.NutState) bool {
	return w.nuts.setState(id, st)
}

// ClearNuts removes every nut in state st (0 = all) and returns how many went.
func (w *World) ClearNuts(st components.NutState) int { return w.nuts.clear(st) }

// GroundTiles returns the number of decoration variants.
func (w *World) GroundTiles() int { return w.groundTiles }

// Tile returns the decoration index at p, or -1 out of bounds.
func (w *World) Tile(p components.Point) int {
	if !w.InBounds(p) {
		return -1
	}
	return w.tiles[p.Y*w.Width()+p.X]
}

// SetTile sets the decoration index at p. Out-of-bounds cells and indices
// outside [0, GroundTiles) are ignored.
func (w *World) SetTile(p components.Point, idx int) bool {
	if !w.InBounds(p) || idx < 0 || idx >= w.groundTiles {
		return false
	}
	w.tiles[p.Y*w.Width()+p.X] = idx
	return true
}
