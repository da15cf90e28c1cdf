package components

// MaxEnergy is the energy ceiling for every agent.
const MaxEnergy = 1000

// Energy is an agent's integer energy, kept within [0, MaxEnergy].
type Energy struct {
	value int
}

// NewEnergy returns an Energy holding v, clamped.
func NewEnergy(v int) Energy {
	var e Energy
	e.Set(v)
	return e
}

// Value returns the current energy.
func (e Energy) Value() int { return e.value }

// Set assigns v, clamped to [0, MaxEnergy].
func (e *Energy) Set(v int) {
	e.value = min(MaxEnergy, max(0, v))
}

// Add adjusts energy by delta, clamped. Negative deltas drain.
func (e *Energy) Add(delta int) {
	// Compare against the headroom first so huge deltas cannot overflow.
	switch {
	case delta > MaxEnergy-e.value:
		e.value = MaxEnergy
	case delta < -e.value:
		e.value = 0
	default:
		e.value += delta
	}
}

// Depleted reports whether the agent has run out of energy.
func (e Energy) Depleted() bool { return e.value <= 0 }

// Ratio returns energy as a fraction of MaxEnergy.
func (e Energy) Ratio() float64 { return float64(e.value) / MaxEnergy }

// Player is the user-controlled squirrel.
type Player struct {
	Actor
	Energy   Energy
	Carrying *Nut // nut held in the paws, removed from the world while carried
}

// IsCarrying reports whether the player holds a nut.
func (p *Player) IsCarrying() bool { return p.Carrying != nil }

// ForagerState is the behavior state of an NPC squirrel.
type ForagerState uint8

const (
	ForagerRandom ForagerState = iota
	ForagerGettingNut
)

func (s ForagerState) String() string {
	if s == ForagerGettingNut {
		return "getting_nut"
	}
	return "random"
}

// Squirrel is a forager NPC.
type Squirrel struct {
	Actor
	ID        uint32
	Energy    Energy
	State     ForagerState
	TargetNut NutID // valid only in ForagerGettingNut; re-resolved every tick
}

// PredatorState is the behavior state of a fox.
type PredatorState uint8

const (
	PredatorRandom PredatorState = iota
	PredatorHunting
)

func (s PredatorState) String() string {
	if s == PredatorHunting {
		return "hunting"
	}
	return "random"
}

// Fox is a predator NPC.
type Fox struct {
	Actor
	ID     uint32
	Energy Energy
	State  PredatorState
	Target Point // buried nut location while hunting
}
