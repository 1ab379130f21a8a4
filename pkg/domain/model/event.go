package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Event represents a security event, the main entity of the system.
// Severity is stored as entered; it is normalized into fixed buckets only
// at aggregation time.
type Event struct {
	ID           types.EventID
	Title        string
	Description  string
	Severity     string
	Type         *types.EventType
	Status       types.EventStatus
	EventDate    *time.Time
	ClosedDate   *time.Time
	DetectedDate time.Time
	CreatedAt    time.Time
}

// NewEvent creates a new Event with defaults applied
func NewEvent(title string) (*Event, error) {
	if title == "" {
		return nil, goerr.New("event title is required")
	}

	now := time.Now().UTC()
	return &Event{
		Title:        title,
		Status:       types.EventStatusOpen,
		DetectedDate: now,
		CreatedAt:    now,
	}, nil
}

// EffectiveDate returns the event date when set, otherwise the creation
// timestamp. Every aggregation buckets events by this value.
func (e *Event) EffectiveDate() time.Time {
	if e.EventDate != nil {
		return *e.EventDate
	}
	return e.CreatedAt
}

// TypeLabel returns the display label of the event type, "Other" when unset
func (e *Event) TypeLabel() string {
	if e.Type == nil {
		return types.EventTypeOther.Label()
	}
	return e.Type.Label()
}
