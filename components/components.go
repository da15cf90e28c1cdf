// Package components defines the plain data shared by the world, the
// behavior systems and the session.
package components

// NutID identifies a nut for the lifetime of the process. IDs are never
// reused, so a stale ID simply fails to resolve.
type NutID uint32

// NutState is the lifecycle state of a nut in the world.
type NutState uint8

const (
	// NutActive nuts are visible, block movement and can be eaten.
	NutActive NutState = iota + 1
	// NutBuried nuts are hidden and walkable until dug up.
	NutBuried
)

func (s NutState) String() string {
	switch s {
	case NutActive:
		return "active"
	case NutBuried:
		return "buried"
	}
	return "unknown"
}

// Nut is the ECS component carried by every nut entity.
// The nut's position lives in a separate Point component.
type Nut struct {
	ID     NutID
	State  NutState
	Energy int // energy restored when eaten
}
