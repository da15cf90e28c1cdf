package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/demnuts/components"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/world"
)

// newBehaviorWorld builds a world with the player parked at playerAt.
func newBehaviorWorld(t *testing.T, playerAt components.Point, rows ...string) *world.World {
	t.Helper()
	m, err := world.NewMap(rows)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return world.New(m, 1, playerAt, rand.New(rand.NewSource(1)))
}

func newForager(p float64) *ForagerSystem {
	return NewForagerSystem(config.SquirrelsConfig{GetNutProbability: p}, rand.New(rand.NewSource(7)))
}

func newPredator(attack, hunt float64) *PredatorSystem {
	return NewPredatorSystem(config.FoxesConfig{AttackDistance: attack, HuntProbability: hunt}, rand.New(rand.NewSource(7)))
}

func addSquirrel(w *world.World, p components.Point) *components.Squirrel {
	sq := &components.Squirrel{Actor: components.Actor{Pos: p, Facing: components.Down}, ID: uint32(len(w.Squirrels) + 1)}
	w.Squirrels = append(w.Squirrels, sq)
	return sq
}

func addFox(w *world.World, p components.Point) *components.Fox {
	fox := &components.Fox{Actor: components.Actor{Pos: p, Facing: components.Down}, ID: uint32(len(w.Foxes) + 1)}
	w.Foxes = append(w.Foxes, fox)
	return fox
}

func TestForagerStaleTargetRevertsToRandom(t *testing.T) {
	w := newBehaviorWorld(t, pt(9, 0), "..........")
	sq := addSquirrel(w, pt(0, 0))
	w.AddNut(components.Nut{ID: 1, State: components.NutActive}, pt(5, 0))
	sq.State = components.ForagerGettingNut
	sq.TargetNut = 1

	// The player takes the nut mid-pursuit.
	w.RemoveNut(1)

	fs := newForager(0)
	res := fs.Update(w, sq)
	if sq.State != components.ForagerRandom {
		t.Errorf("state = %v, want random", sq.State)
	}
	if res.Moved || res.Ate {
		t.Errorf("stale target should abort without acting, got %+v", res)
	}
	if sq.Pos != pt(0, 0) {
		t.Errorf("squirrel moved to %v on the abort tick", sq.Pos)
	}
}

func TestForagerBuriedTargetRevertsToRandom(t *testing.T) {
	w := newBehaviorWorld(t, pt(9, 0), "..........")
	sq := addSquirrel(w, pt(0, 0))
	w.AddNut(components.Nut{ID: 4, State: components.NutActive}, pt(5, 0))
	sq.State = components.ForagerGettingNut
	sq.TargetNut = 4
	w.SetNutState(4, components.NutBuried)

	newForager(0).Update(w, sq)
	if sq.State != components.ForagerRandom {
		t.Errorf("state = %v, want random after target was buried", sq.State)
	}
	if _, ok := w.Nut(4); !ok {
		t.Error("buried nut must not be eaten")
	}
}

func TestForagerStepsTowardNut(t *testing.T) {
	w := newBehaviorWorld(t, pt(9, 0), "..........")
	sq := addSquirrel(w, pt(0, 0))
	w.AddNut(components.Nut{ID: 1, State: components.NutActive}, pt(4, 0))
	sq.State = components.ForagerGettingNut
	sq.TargetNut = 1

	fs := newForager(0)
	res := fs.Update(w, sq)
	if !res.Moved || sq.Pos != pt(1, 0) || sq.Facing != components.Right {
		t.Errorf("after step: pos %v facing %v res %+v", sq.Pos, sq.Facing, res)
	}
	fs.Update(w, sq)
	fs.Update(w, sq)
	if sq.Pos != pt(3, 0) {
		t.Fatalf("pos = %v, want adjacent (3,0)", sq.Pos)
	}
	res = fs.Update(w, sq)
	if !res.Ate || res.Nut.ID != 1 {
		t.Fatalf("expected to eat nut 1, got %+v", res)
	}
	if _, ok := w.Nut(1); ok {
		t.Error("eaten nut still in world")
	}
	if sq.State != components.ForagerRandom || sq.Pos != pt(3, 0) {
		t.Errorf("after eating: state %v pos %v", sq.State, sq.Pos)
	}
}

func TestForagerNoPathRevertsToRandom(t *testing.T) {
	// The player blocks the only corridor.
	w := newBehaviorWorld(t, pt(1, 0), "...")
	sq := addSquirrel(w, pt(0, 0))
	w.AddNut(components.Nut{ID: 1, State: components.NutActive}, pt(2, 0))
	sq.State = components.ForagerGettingNut
	sq.TargetNut = 1

	res := newForager(0).Update(w, sq)
	if sq.State != components.ForagerRandom || res.Moved || res.Ate {
		t.Errorf("state %v res %+v, want silent fallback to random", sq.State, res)
	}
}

func TestForagerTargetsOnlyActiveNuts(t *testing.T) {
	w := newBehaviorWorld(t, pt(0, 2), "..........", "..........", "..........")
	sq := addSquirrel(w, pt(0, 0))
	w.AddNut(components.Nut{ID: 2, State: components.NutBuried}, pt(9, 0))

	fs := newForager(1)
	fs.Update(w, sq)
	if sq.State != components.ForagerRandom {
		t.Fatalf("squirrel targeted a buried nut")
	}

	w.AddNut(components.Nut{ID: 3, State: components.NutActive}, pt(9, 2))
	sq.Pos = pt(0, 0)
	fs.Update(w, sq)
	if sq.State != components.ForagerGettingNut || sq.TargetNut != 3 {
		t.Errorf("state %v target %d, want getting_nut 3", sq.State, sq.TargetNut)
	}
}

func TestForagerWander(t *testing.T) {
	w := newBehaviorWorld(t, pt(0, 0), ".....", ".....", ".....", ".....", ".....")
	sq := addSquirrel(w, pt(2, 2))
	fs := newForager(0)
	for i := 0; i < 20; i++ {
		before := sq.Pos
		res := fs.Update(w, sq)
		if !res.Moved {
			continue
		}
		dx, dy := sq.Facing.Delta()
		if sq.Pos != before.Add(dx, dy) {
			t.Fatalf("moved %v -> %v while facing %v", before, sq.Pos, sq.Facing)
		}
		if sq.Pos == w.Player.Pos {
			t.Fatal("squirrel walked onto the player")
		}
	}
}

func TestWanderKeepsFacingWhenBlocked(t *testing.T) {
	w := newBehaviorWorld(t, pt(0, 0), ".")
	sq := addSquirrel(w, pt(0, 0))
	sq.Facing = 0
	res := newForager(0).Update(w, sq)
	if res.Moved {
		t.Error("nowhere to go on a single-cell map")
	}
	if sq.Facing == 0 {
		t.Error("facing should be updated even when the step is blocked")
	}
}

func TestPredatorCannotEnterTrees(t *testing.T) {
	w := newBehaviorWorld(t, pt(2, 0), ".#.")
	ps := newPredator(8, 0)
	if ps.CanEnter(w, pt(1, 0)) {
		t.Error("fox entered a tree")
	}
	if !ps.CanEnter(w, pt(0, 0)) {
		t.Error("fox refused open ground")
	}
	fs := newForager(0)
	if !fs.CanEnter(w, pt(1, 0)) {
		t.Error("squirrel refused a tree")
	}
}

func TestPredatorChasesAndCatches(t *testing.T) {
	w := newBehaviorWorld(t, pt(5, 0), "........")
	fox := addFox(w, pt(0, 0))
	ps := newPredator(8, 0)

	for i := 1; i <= 4; i++ {
		res := ps.Update(w, fox)
		if res.Caught {
			t.Fatalf("caught early at tick %d", i)
		}
		if fox.Pos != pt(i, 0) {
			t.Fatalf("tick %d: fox at %v, want (%d,0)", i, fox.Pos, i)
		}
	}
	res := ps.Update(w, fox)
	if !res.Caught {
		t.Fatalf("adjacent fox should catch the player, got %+v", res)
	}
	if fox.Facing != components.Right || fox.Pos != pt(4, 0) {
		t.Errorf("fox at %v facing %v", fox.Pos, fox.Facing)
	}
}

func TestPredatorIgnoresPlayerInTree(t *testing.T) {
	w := newBehaviorWorld(t, pt(1, 0), ".#.")
	fox := addFox(w, pt(0, 0))
	ps := newPredator(8, 0)
	for i := 0; i < 10; i++ {
		if res := ps.Update(w, fox); res.Caught {
			t.Fatal("fox caught a player sheltering in a tree")
		}
		if w.IsTree(fox.Pos) {
			t.Fatal("fox wandered into a tree")
		}
	}
}

func TestPredatorOutOfRange(t *testing.T) {
	w := newBehaviorWorld(t, pt(9, 0), "..........")
	fox := addFox(w, pt(0, 0))
	ps := newPredator(3, 0)
	for i := 0; i < 5; i++ {
		if res := ps.Update(w, fox); res.Caught {
			t.Fatal("fox caught the player from out of range")
		}
	}
}

func TestPredatorBlockedByTrees(t *testing.T) {
	w := newBehaviorWorld(t, pt(2, 0), ".#.")
	fox := addFox(w, pt(0, 0))
	res := newPredator(8, 0).Update(w, fox)
	if res.Caught || res.Moved || fox.Pos != pt(0, 0) {
		t.Errorf("fox with no path should hold still, got %+v at %v", res, fox.Pos)
	}
}

func TestPredatorRaidsCache(t *testing.T) {
	w := newBehaviorWorld(t, pt(19, 0), "....................")
	fox := addFox(w, pt(0, 0))
	w.AddNut(components.Nut{ID: 9, State: components.NutBuried}, pt(3, 0))
	ps := newPredator(2, 1)

	var raided bool
	for i := 0; i < 10 && !raided; i++ {
		res := ps.Update(w, fox)
		raided = res.Raided
		if raided && res.Nut.ID != 9 {
			t.Errorf("raided nut %d, want 9", res.Nut.ID)
		}
	}
	if !raided {
		t.Fatalf("fox never raided the cache; at %v state %v", fox.Pos, fox.State)
	}
	if fox.Pos != pt(3, 0) || fox.State != components.PredatorRandom {
		t.Errorf("after raid: pos %v state %v", fox.Pos, fox.State)
	}
	if _, ok := w.Nut(9); ok {
		t.Error("raided nut still in world")
	}
}

func TestPredatorAbandonsStaleHunt(t *testing.T) {
	w := newBehaviorWorld(t, pt(19, 0), "....................")
	fox := addFox(w, pt(0, 0))
	fox.State = components.PredatorHunting
	fox.Target = pt(6, 0)

	res := newPredator(2, 0).Update(w, fox)
	if fox.State != components.PredatorRandom || res.Moved {
		t.Errorf("state %v res %+v, want abort to random", fox.State, res)
	}
}
