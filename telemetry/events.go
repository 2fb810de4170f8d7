// Package telemetry provides tick events, population statistics and CSV output.
package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventMoved EventType = iota
	EventBorn
	EventEaten
	EventDecomposed
	EventSpread
	EventStarved
	EventDiedOfAge
)

var eventNames = [...]string{"moved", "born", "eaten", "decomposed", "spread", "starved", "died_of_age"}

// String returns the event name.
func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event. Events are produced during a
// tick and dispatched to observers once the tick is complete.
type Event struct {
	Type    EventType
	Tick    int32 // stamped by the stepper at dispatch
	Entity  ecs.Entity
	Species components.Species
	Age     components.Age

	// Optional fields depending on event type
	Other ecs.Entity        // predator for eaten, mother for born
	From  components.CellID // origin for moved, source for spread
	To    components.CellID // destination for moved, target for spread, location otherwise
}

// NewMovedEvent creates a movement event.
func NewMovedEvent(e ecs.Entity, a *components.Animal, from, to components.CellID) Event {
	return Event{
		Type:    EventMoved,
		Entity:  e,
		Species: a.Species,
		Age:     a.Age,
		From:    from,
		To:      to,
	}
}

// NewBornEvent creates a birth event.
func NewBornEvent(child ecs.Entity, a *components.Animal, mother ecs.Entity, cell components.CellID) Event {
	return Event{
		Type:    EventBorn,
		Entity:  child,
		Species: a.Species,
		Age:     a.Age,
		Other:   mother,
		To:      cell,
	}
}

// NewEatenEvent creates an event for prey taken by a predator.
func NewEatenEvent(prey ecs.Entity, a *components.Animal, predator ecs.Entity, cell components.CellID) Event {
	return Event{
		Type:    EventEaten,
		Entity:  prey,
		Species: a.Species,
		Age:     a.Age,
		Other:   predator,
		To:      cell,
	}
}

// NewDecomposedEvent creates an event for a corpse leaving the world.
func NewDecomposedEvent(e ecs.Entity, a *components.Animal, cell components.CellID) Event {
	return Event{
		Type:    EventDecomposed,
		Entity:  e,
		Species: a.Species,
		Age:     a.Age,
		To:      cell,
	}
}

// NewStarvedEvent creates an event for a death by starvation.
func NewStarvedEvent(e ecs.Entity, a *components.Animal, cell components.CellID) Event {
	return Event{
		Type:    EventStarved,
		Entity:  e,
		Species: a.Species,
		Age:     a.Age,
		To:      cell,
	}
}

// NewDiedOfAgeEvent creates an event for a Senior reaching a growth event.
func NewDiedOfAgeEvent(e ecs.Entity, a *components.Animal, cell components.CellID) Event {
	return Event{
		Type:    EventDiedOfAge,
		Entity:  e,
		Species: a.Species,
		Age:     a.Age,
		To:      cell,
	}
}

// NewSpreadEvent creates a vegetation spread event.
func NewSpreadEvent(source, target components.CellID) Event {
	return Event{
		Type: EventSpread,
		From: source,
		To:   target,
	}
}

// Observer receives the events of each completed tick. The slice is only
// valid for the duration of the call.
type Observer interface {
	Observe(tick int32, events []Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(tick int32, events []Event)

// Observe calls f.
func (f ObserverFunc) Observe(tick int32, events []Event) { f(tick, events) }
