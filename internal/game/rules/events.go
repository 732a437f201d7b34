package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn structure events
	EventBeginTurn    EventType = "BEGIN_TURN"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventStepChanged  EventType = "STEP_CHANGED"

	// Zone events
	EventZoneChange EventType = "ZONE_CHANGE"

	// Card events
	EventDrewCard      EventType = "DREW_CARD"
	EventDiscardedCard EventType = "DISCARDED_CARD"

	// Life/damage events
	EventDamagedPlayer    EventType = "DAMAGED_PLAYER"
	EventDamagedPermanent EventType = "DAMAGED_PERMANENT"
	EventGainedLife       EventType = "GAINED_LIFE"
	EventLostLife         EventType = "LOST_LIFE"

	// Spell/ability events
	EventLandPlayed       EventType = "LAND_PLAYED"
	EventSpellCast        EventType = "SPELL_CAST"
	EventActivatedAbility EventType = "ACTIVATED_ABILITY"
	EventTriggeredAbility EventType = "TRIGGERED_ABILITY"
	EventManaAdded        EventType = "MANA_ADDED"

	// Combat events
	EventAttackerDeclared    EventType = "ATTACKER_DECLARED"
	EventBlockerDeclared     EventType = "BLOCKER_DECLARED"
	EventCombatDamageApplied EventType = "COMBAT_DAMAGE_APPLIED"

	// Library events
	EventLibrarySearched EventType = "LIBRARY_SEARCHED"
	EventLibraryShuffled EventType = "LIBRARY_SHUFFLED"

	// Permanent events
	EventEntersTheBattlefield EventType = "ENTERS_THE_BATTLEFIELD"
	EventPermanentDies        EventType = "PERMANENT_DIES"
	EventSacrificedPermanent  EventType = "SACRIFICED_PERMANENT"
	EventCreatedToken         EventType = "CREATED_TOKEN"
	EventTapped               EventType = "TAPPED"
	EventUntapped             EventType = "UNTAPPED"

	// Counter events
	EventCounterAdded   EventType = "COUNTER_ADDED"
	EventCounterRemoved EventType = "COUNTER_REMOVED"

	// Stack events
	EventStackItemResolved EventType = "STACK_ITEM_RESOLVED"
	EventStackItemFizzled  EventType = "STACK_ITEM_FIZZLED"

	// Game flow events
	EventMulligan          EventType = "MULLIGAN"
	EventStateBasedActions EventType = "STATE_BASED_ACTIONS"
	EventGameOver          EventType = "GAME_OVER"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string            // Unique event ID
	TargetID    string            // ID of the target (card, player, etc.)
	SourceID    string            // ID of the source ability/object
	Controller  string            // Player ID of the controller
	PlayerID    string            // Player ID (often same as Controller, but can differ)
	Amount      int               // Numeric value (damage, life, counters, etc.)
	Flag        bool              // Boolean flag (combat damage, effect vs cost, etc.)
	Data        string            // Additional string data
	Targets     []string          // Multiple targets (for multi-target events)
	Timestamp   time.Time         // When the event occurred
	Metadata    map[string]string // Additional metadata
	Description string            // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener              // All listeners
	typedListeners map[EventType][]TypedListener // Listeners filtered by event type
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	listener := TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	}
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], listener)
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}

	if typedListeners, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typedListeners {
			listener.Callback(event)
		}
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  time.Now(),
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}
