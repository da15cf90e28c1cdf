// Package telemetry provides run tracking: domain events, windowed stats,
// CSV output, a compressed event journal and a run ledger.
package telemetry

import (
	"time"

	"github.com/pthm-cable/demnuts/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventNutSpawned EventType = iota + 1
	EventNutEaten
	EventNutPickedUp
	EventNutBuried
	EventNutDug
	EventSquirrelMeal
	EventFoxRaid
	EventSeasonChange
	EventGameOver
)

var eventNames = map[EventType]string{
	EventNutSpawned:   "nut_spawned",
	EventNutEaten:     "nut_eaten",
	EventNutPickedUp:  "nut_picked_up",
	EventNutBuried:    "nut_buried",
	EventNutDug:       "nut_dug",
	EventSquirrelMeal: "squirrel_meal",
	EventFoxRaid:      "fox_raid",
	EventSeasonChange: "season_change",
	EventGameOver:     "game_over",
}

func (t EventType) String() string {
	if s, ok := eventNames[t]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the type by name so journals stay readable.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name. Unknown names decode to zero.
func (t *EventType) UnmarshalText(b []byte) error {
	*t = 0
	for k, v := range eventNames {
		if v == string(b) {
			*t = k
			break
		}
	}
	return nil
}

// Event represents a single telemetry event.
type Event struct {
	Type EventType `json:"type"`
	AtMS int64     `json:"at_ms"` // simulation time

	// Optional fields depending on event type
	EntityID uint32 `json:"entity_id,omitempty"` // squirrel or fox
	NutID    uint32 `json:"nut_id,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Season   string `json:"season,omitempty"`
	Level    int    `json:"level,omitempty"`
	Cause    string `json:"cause,omitempty"`
}

// At returns the event's simulation time.
func (e Event) At() time.Duration { return time.Duration(e.AtMS) * time.Millisecond }

// Observer receives events from a session as they happen.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e Event) { f(e) }

// NewNutEvent creates a nut lifecycle event for the player's or the spawner's
// actions.
func NewNutEvent(typ EventType, at time.Duration, id components.NutID, pos components.Point) Event {
	return Event{
		Type:  typ,
		AtMS:  at.Milliseconds(),
		NutID: uint32(id),
		X:     pos.X,
		Y:     pos.Y,
	}
}

// NewSquirrelMealEvent creates an event for an NPC squirrel eating a nut.
func NewSquirrelMealEvent(at time.Duration, squirrelID uint32, id components.NutID, pos components.Point) Event {
	return Event{
		Type:     EventSquirrelMeal,
		AtMS:     at.Milliseconds(),
		EntityID: squirrelID,
		NutID:    uint32(id),
		X:        pos.X,
		Y:        pos.Y,
	}
}

// NewFoxRaidEvent creates an event for a fox digging up a cache.
func NewFoxRaidEvent(at time.Duration, foxID uint32, id components.NutID, pos components.Point) Event {
	return Event{
		Type:     EventFoxRaid,
		AtMS:     at.Milliseconds(),
		EntityID: foxID,
		NutID:    uint32(id),
		X:        pos.X,
		Y:        pos.Y,
	}
}

// NewSeasonEvent creates an event for the start of a season.
func NewSeasonEvent(at time.Duration, season string, level int) Event {
	return Event{
		Type:   EventSeasonChange,
		AtMS:   at.Milliseconds(),
		Season: season,
		Level:  level,
	}
}

// NewGameOverEvent creates the terminal event of a session.
func NewGameOverEvent(at time.Duration, cause string, pos components.Point) Event {
	return Event{
		Type:  EventGameOver,
		AtMS:  at.Milliseconds(),
		Cause: cause,
		X:     pos.X,
		Y:     pos.Y,
	}
}
