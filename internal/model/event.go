package model

import "time"

// EventType tells subscribers which kind of change happened.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Scope narrows a query or an event to a slot of the program hierarchy.
// Zero values mean "not narrowed".
type Scope struct {
	ProgramID   int64    `json:"program_id,omitempty"`
	AreaID      int64    `json:"area_id,omitempty"`
	ParameterID int64    `json:"parameter_id,omitempty"`
	Category    Category `json:"category,omitempty"`
}

// Event is a refresh trigger pushed to connected reviewer sessions.
// It carries no authoritative state; clients re-read after receiving it.
type Event struct {
	Type       EventType `json:"type"`
	Message    string    `json:"message"`
	Scope      Scope     `json:"scope"`
	DocumentID string    `json:"document_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
