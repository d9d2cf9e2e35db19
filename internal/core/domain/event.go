package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind names a lifecycle event handed to the background dispatcher.
type EventKind string

const (
	EventNewApplication EventKind = "new_application"
	EventStatusUpdate   EventKind = "status_update"
	EventJobIndexed     EventKind = "job_indexed"
	EventJobRemoved     EventKind = "job_removed"
)

// Event is emitted by a state change and published after the change commits.
// AggregateID is the application id for application events and the job id
// for job events.
type Event struct {
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	AggregateID string    `json:"aggregate_id"`
	NewStatus   string    `json:"new_status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewEvent(kind EventKind, aggregateID, status string, now time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		AggregateID: aggregateID,
		NewStatus:   status,
		OccurredAt:  now.UTC(),
	}
}

// IsApplicationEvent reports whether the event concerns an application.
func (e Event) IsApplicationEvent() bool {
	return e.Kind == EventNewApplication || e.Kind == EventStatusUpdate
}

// StatusChange is one entry of an application's audit history.
type StatusChange struct {
	EventID       string    `json:"event_id" bson:"event_id"`
	ApplicationID string    `json:"application_id" bson:"application_id"`
	Kind          EventKind `json:"kind" bson:"kind"`
	Status        string    `json:"status" bson:"status"`
	OccurredAt    time.Time `json:"occurred_at" bson:"occurred_at"`
	RecordedAt    time.Time `json:"recorded_at" bson:"recorded_at"`
}
