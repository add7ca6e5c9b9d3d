package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeDue     EventType = "due"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeExpense  EntityType = "expense"
	EntityTypeSettings EntityType = "settings"
	EntityTypeReminder EntityType = "reminder"
)

// Event represents a message pushed to connected clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}

// ReminderDue creates a reminder.due event
func ReminderDue(payload interface{}) Event {
	return NewEvent(EventTypeDue, EntityTypeReminder, payload)
}
