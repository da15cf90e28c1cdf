package world

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/demnuts/components"
)

func newTestWorld(t *testing.T, rows ...string) *World {
	t.Helper()
	m, err := NewMap(rows)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return New(m, 4, components.Point{X: 0, Y: 0}, rand.New(rand.NewSource(1)))
}

func TestParseMap(t *testing.T) {
	m, err := ParseMap(strings.NewReader("..#\n#..\n\n"))
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	if m.Width() != 3 || m.Height() != 2 {
		t.Errorf("size = %dx%d, want 3x2", m.Width(), m.Height())
	}
	if m.At(components.Point{X: 2, Y: 0}) != TileTree {
		t.Error("expected tree at (2,0)")
	}

	if _, err := ParseMap(strings.NewReader("...\n..\n")); !errors.Is(err, ErrRaggedMap) {
		t.Errorf("ragged map error = %v, want ErrRaggedMap", err)
	}
	if _, err := ParseMap(strings.NewReader("")); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("empty map error = %v, want ErrEmptyMap", err)
	}
}

func TestDefaultMap(t *testing.T) {
	m := DefaultMap()
	if m.Width() == 0 || m.Height() == 0 {
		t.Fatal("default map is empty")
	}
	start := components.Point{X: 23, Y: 22}
	if !m.InBounds(start) || m.At(start) == TileTree {
		t.Errorf("default player start %v must be open ground", start)
	}
}

func TestCanMoveToOccupancy(t *testing.T) {
	w := newTestWorld(t, ".....", ".....", ".....")
	w.Player.Pos = components.Point{X: 1, Y: 1}
	w.Squirrels = append(w.Squirrels, &components.Squirrel{Actor: components.Actor{Pos: components.Point{X: 2, Y: 1}}})
	w.Foxes = append(w.Foxes, &components.Fox{Actor: components.Actor{Pos: components.Point{X: 3, Y: 1}}})
	w.AddNut(components.Nut{ID: 1, State: components.NutActive}, components.Point{X: 4, Y: 1})
	w.AddNut(components.Nut{ID: 2, State: components.NutBuried}, components.Point{X: 0, Y: 2})

	tests := []struct {
		name string
		p    components.Point
		want bool
	}{
		{"out of bounds left", components.Point{X: -1, Y: 0}, false},
		{"out of bounds bottom", components.Point{X: 0, Y: 3}, false},
		{"player", components.Point{X: 1, Y: 1}, false},
		{"squirrel", components.Point{X: 2, Y: 1}, false},
		{"fox does not block", components.Point{X: 3, Y: 1}, true},
		{"active nut", components.Point{X: 4, Y: 1}, false},
		{"buried nut is walkable", components.Point{X: 0, Y: 2}, true},
		{"empty", components.Point{X: 4, Y: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.CanMoveTo(tt.p); got != tt.want {
				t.Errorf("CanMoveTo(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCanBuryNut(t *testing.T) {
	w := newTestWorld(t, ".#..", "....")
	w.Foxes = append(w.Foxes, &components.Fox{Actor: components.Actor{Pos: components.Point{X: 3, Y: 1}}})
	w.AddNut(components.Nut{ID: 7, State: components.NutBuried}, components.Point{X: 2, Y: 0})

	tests := []struct {
		p    components.Point
		want bool
	}{
		{components.Point{X: 1, Y: 0}, false}, // tree
		{components.Point{X: 2, Y: 0}, false}, // nut already there
		{components.Point{X: 3, Y: 1}, false}, // fox
		{components.Point{X: 9, Y: 9}, false}, // out of bounds
		{components.Point{X: 0, Y: 1}, true},
	}
	for _, tt := range tests {
		if got := w.CanBuryNut(tt.p); got != tt.want {
			t.Errorf("CanBuryNut(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestNutLifecycle(t *testing.T) {
	w := newTestWorld(t, "....", "....")
	for id := components.NutID(1); id <= 3; id++ {
		w.AddNut(components.Nut{ID: id, State: components.NutActive, Energy: 250}, components.Point{X: int(id), Y: 0})
	}

	if !w.SetNutState(2, components.NutBuried) {
		t.Fatal("SetNutState on live nut failed")
	}
	if got := len(w.ActiveNuts()); got != 2 {
		t.Errorf("active = %d, want 2", got)
	}
	buried := w.BuriedNuts()
	if len(buried) != 1 || buried[0].ID != 2 || buried[0].Pos != (components.Point{X: 2, Y: 0}) {
		t.Errorf("buried = %+v", buried)
	}

	if !w.RemoveNut(1) {
		t.Fatal("RemoveNut on live nut failed")
	}
	if _, ok := w.Nut(1); ok {
		t.Error("removed nut still resolves")
	}
	if w.RemoveNut(1) {
		t.Error("second RemoveNut should report false")
	}
	if w.SetNutState(1, components.NutActive) {
		t.Error("SetNutState on removed nut should report false")
	}

	// Remaining nuts are still addressable after the removal reshuffled storage.
	n, ok := w.Nut(3)
	if !ok || n.Pos != (components.Point{X: 3, Y: 0}) || n.Energy != 250 {
		t.Errorf("nut 3 = %+v, %v", n, ok)
	}
	if at, ok := w.NutAt(components.Point{X: 3, Y: 0}); !ok || at.ID != 3 {
		t.Errorf("NutAt = %+v, %v", at, ok)
	}

	if removed := w.ClearNuts(components.NutActive); removed != 1 {
		t.Errorf("ClearNuts(active) removed %d, want 1", removed)
	}
	if w.NutCount() != 1 {
		t.Errorf("NutCount = %d, want 1 buried nut left", w.NutCount())
	}
}

func TestNutsOrderedByID(t *testing.T) {
	w := newTestWorld(t, "......")
	for _, id := range []components.NutID{5, 2, 9, 1} {
		w.AddNut(components.Nut{ID: id, State: components.NutActive}, components.Point{X: int(id) % 6, Y: 0})
	}
	w.RemoveNut(2)
	var got []components.NutID
	for _, n := range w.Nuts() {
		got = append(got, n.ID)
	}
	want := []components.NutID{1, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestTiles(t *testing.T) {
	w := newTestWorld(t, "...", "...")
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			idx := w.Tile(components.Point{X: x, Y: y})
			if idx < 0 || idx >= w.GroundTiles() {
				t.Fatalf("tile (%d,%d) = %d out of range", x, y, idx)
			}
		}
	}
	if !w.SetTile(components.Point{X: 1, Y: 1}, 3) || w.Tile(components.Point{X: 1, Y: 1}) != 3 {
		t.Error("SetTile did not stick")
	}
	if w.SetTile(components.Point{X: 5, Y: 5}, 0) {
		t.Error("SetTile out of bounds should be ignored")
	}
	if w.SetTile(components.Point{X: 0, Y: 0}, 4) {
		t.Error("SetTile with out-of-range index should be ignored")
	}
	if w.Tile(components.Point{X: -1, Y: 0}) != -1 {
		t.Error("Tile out of bounds should be -1")
	}
}

func TestIsTree(t *testing.T) {
	w := newTestWorld(t, "#.", ".#")
	if !w.IsTree(components.Point{X: 0, Y: 0}) || w.IsTree(components.Point{X: 1, Y: 0}) {
		t.Error("IsTree mismatch")
	}
	if w.IsTree(components.Point{X: 2, Y: 0}) {
		t.Error("out of bounds is not a tree")
	}
}

func TestRemovedNutEntitiesAreDeleted(t *testing.T) {
	w := newTestWorld(t, "....", "....")
	for id := components.NutID(1); id <= 3; id++ {
		w.AddNut(components.Nut{ID: id, State: components.NutActive}, components.Point{X: int(id), Y: 0})
	}
	w.SetNutState(3, components.NutBuried)
	first := w.nuts.index[1]
	second := w.nuts.index[2]
	third := w.nuts.index[3]

	w.RemoveNut(1)
	if w.nuts.ecs.Alive(first) {
		t.Error("entity still alive after RemoveNut")
	}

	w.ClearNuts(0)
	if w.nuts.ecs.Alive(second) || w.nuts.ecs.Alive(third) {
		t.Error("entities still alive after ClearNuts")
	}
	if w.NutCount() != 0 {
		t.Errorf("NutCount = %d, want 0", w.NutCount())
	}

	// Replacing a nut under the same ID drops the old entity.
	w.AddNut(components.Nut{ID: 4, State: components.NutActive}, components.Point{X: 0, Y: 1})
	old := w.nuts.index[4]
	w.AddNut(components.Nut{ID: 4, State: components.NutBuried}, components.Point{X: 1, Y: 1})
	if w.nuts.ecs.Alive(old) {
		t.Error("replaced entity still alive")
	}
	if n, ok := w.Nut(4); !ok || n.State != components.NutBuried {
		t.Errorf("nut 4 = %+v, %v", n, ok)
	}
}

func TestStartClampedOntoMap(t *testing.T) {
	m := MustMap("...", "...")
	w := New(m, 4, components.Point{X: 23, Y: 22}, rand.New(rand.NewSource(1)))
	if got := w.Player.Pos; got != (components.Point{X: 2, Y: 1}) {
		t.Errorf("player at %v, want (2,1)", got)
	}
	if !w.InBounds(w.Player.Pos) {
		t.Error("player placed off the map")
	}
}
