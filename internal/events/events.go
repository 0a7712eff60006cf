package events

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type EventType string

const (
	UserCreated    EventType = "user.created"
	UserUpdated    EventType = "user.updated"
	UserDeleted    EventType = "user.deleted"
	StudentCreated EventType = "student.created"
	StudentUpdated EventType = "student.updated"
	StudentDeleted EventType = "student.deleted"
	CourseCreated  EventType = "course.created"
	CourseUpdated  EventType = "course.updated"
	CourseDeleted  EventType = "course.deleted"
)

// Event is a committed change announced to other services.
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	EntityID   uint            `json:"entity_id"`
	ActorID    *uint           `json:"actor_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an event, encoding data as its JSON body.
func NewEvent(eventType EventType, entityID uint, actorID *uint, data interface{}) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}

	return &Event{
		ID:         watermill.NewUUID(),
		Type:       eventType,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}, nil
}
