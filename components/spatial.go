package components

import "math"

// Point is an integer grid coordinate.
// Points are comparable and can be used directly as map keys.
type Point struct {
	X, Y int
}

// Less orders points by X, then Y.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Dist returns the Euclidean distance between two points.
// Diagonal steps cost sqrt(2), so Manhattan distance would overestimate.
func Dist(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Direction is one of the four facings an actor can have.
// The values follow the sprite sheet order, not rotational order.
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Directions lists the four cardinal directions.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta returns the unit grid offset for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// Rotation is a quarter turn in either direction.
type Rotation int8

const (
	Clockwise        Rotation = 1
	CounterClockwise Rotation = -1
)

var (
	clockwise = map[Direction]Direction{
		Down:  Left,
		Left:  Up,
		Up:    Right,
		Right: Down,
	}
	counterClockwise = map[Direction]Direction{
		Down:  Right,
		Right: Up,
		Up:    Left,
		Left:  Down,
	}
)

// Rotate returns d turned a quarter in the given rotation.
// Lookup tables are used because Direction values are not in rotational order.
func (d Direction) Rotate(r Rotation) Direction {
	table := clockwise
	if r == CounterClockwise {
		table = counterClockwise
	}
	if next, ok := table[d]; ok {
		return next
	}
	return d
}

// FacingFrom returns the direction from src towards dst.
// A vertical offset takes priority over a horizontal one.
// Returns false when src == dst.
func FacingFrom(src, dst Point) (Direction, bool) {
	switch {
	case dst.Y > src.Y:
		return Down, true
	case dst.Y < src.Y:
		return Up, true
	case dst.X > src.X:
		return Right, true
	case dst.X < src.X:
		return Left, true
	}
	return 0, false
}

// Actor is the position and facing shared by the player and NPCs.
type Actor struct {
	Pos    Point
	Facing Direction
}

// FaceTowards turns the actor towards dst. Facing is unchanged if dst is the
// actor's own cell.
func (a *Actor) FaceTowards(dst Point) {
	if d, ok := FacingFrom(a.Pos, dst); ok {
		a.Facing = d
	}
}

// MoveTo faces dst and then relocates to it.
func (a *Actor) MoveTo(dst Point) {
	a.FaceTowards(dst)
	a.Pos = dst
}

// Ahead returns the cell the actor is facing.
func (a *Actor) Ahead() Point {
	dx, dy := a.Facing.Delta()
	return a.Pos.Add(dx, dy)
}
