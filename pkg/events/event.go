package events

import (
	"time"

	"hr-intake-bot/internal/model"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CANDIDATE_RECEIVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewCandidateReceived builds the event published after a submission has
// been stored and dispatched.
func NewCandidateReceived(record *model.CandidateRecord) Event {
	return BaseEvent{
		Type: "CANDIDATE_RECEIVED",
		Data: map[string]interface{}{
			"id":        record.ID.String(),
			"name":      record.Fields.Name,
			"email":     record.Fields.Email,
			"position":  record.Fields.Position,
			"source":    record.Fields.Source,
			"category":  record.Category,
			"file_name": record.FileName,
			"file_link": record.FileLink,
			"submitter": record.Submitter,
		},
		OccurredAt: record.SubmittedAt,
	}
}
